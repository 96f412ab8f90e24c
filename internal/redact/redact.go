package redact

import (
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/redactyl/docredact/internal/types"
)

const (
	TokenPrefix = "[REDACTED:"
	TokenSuffix = "]"
)

// Result is the redacted text and one record per replaced match.
type Result struct {
	Output  string
	Records []types.RevealRecord
}

// Option configures a Redactor.
type Option func(*Redactor)

// WithTokens replaces the token generator. The generator must be safe for
// concurrent use when the Redactor is shared between goroutines.
func WithTokens(gen func() string) Option {
	return func(r *Redactor) {
		if gen != nil {
			r.newToken = gen
		}
	}
}

// Redactor applies an ordered list of patterns to text. It holds no mutable
// state and may be shared by concurrent jobs.
type Redactor struct {
	patterns []*regexp.Regexp
	newToken func() string
}

// New returns a Redactor for patterns, applied in the given order.
func New(patterns []*regexp.Regexp, opts ...Option) *Redactor {
	r := &Redactor{
		patterns: append([]*regexp.Regexp(nil), patterns...),
		newToken: func() string { return uuid.NewString() },
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Redact runs patterns over text with random tokens.
func Redact(text string, patterns []*regexp.Regexp) Result {
	return New(patterns).Redact(text)
}

// Format renders the placeholder that stands for token in redacted output.
func Format(token string) string {
	return TokenPrefix + token + TokenSuffix
}

// segment is a run of the working output: either original bytes
// text[start:end] or a placed token. A token segment keeps the range of the
// match it replaced.
type segment struct {
	start, end int
	token      string
}

func (s segment) isToken() bool { return s.token != "" }

// Redact replaces every match of every pattern with a fresh token. Matches are
// always found on the original text. Within one pattern they are applied from
// the last to the first, and records follow that order. When a match overlaps
// tokens placed by an earlier pattern, it consumes only the original bytes
// still present and the earlier tokens stay in place, so every record's token
// appears exactly once in the output.
func (r *Redactor) Redact(text string) Result {
	segs := []segment{{start: 0, end: len(text)}}
	var records []types.RevealRecord

	for _, rx := range r.patterns {
		if rx == nil {
			continue
		}
		var matches [][2]int
		for _, m := range rx.FindAllStringIndex(text, -1) {
			if m[1] > m[0] {
				matches = append(matches, [2]int{m[0], m[1]})
			}
		}
		if len(matches) == 0 {
			continue
		}
		tokens := make([]string, len(matches))
		for j := len(matches) - 1; j >= 0; j-- {
			tokens[j] = r.newToken()
			records = append(records, types.RevealRecord{
				OriginalText: text[matches[j][0]:matches[j][1]],
				Token:        tokens[j],
			})
		}
		segs = apply(segs, matches, tokens)
	}

	return Result{Output: render(text, segs), Records: records}
}

// apply merges one pattern's sorted, non-overlapping matches into segs.
func apply(segs []segment, matches [][2]int, tokens []string) []segment {
	placed := make([]bool, len(matches))
	after := make([]int, len(matches))
	for j := range after {
		after[j] = -1
	}
	out := make([]segment, 0, len(segs)+2*len(matches))

	for _, sg := range segs {
		lo, hi := overlapping(matches, sg.start, sg.end)
		if sg.isToken() {
			out = append(out, sg)
			for j := lo; j < hi; j++ {
				if !placed[j] {
					after[j] = len(out)
				}
			}
			continue
		}
		cur := sg.start
		for j := lo; j < hi; j++ {
			s, e := max(matches[j][0], cur), min(matches[j][1], sg.end)
			if s > cur {
				out = append(out, segment{start: cur, end: s})
			}
			if !placed[j] {
				out = append(out, segment{start: matches[j][0], end: matches[j][1], token: tokens[j]})
				placed[j] = true
			}
			cur = e
		}
		if cur < sg.end {
			out = append(out, segment{start: cur, end: sg.end})
		}
	}

	// Matches that fell entirely on earlier tokens go right after the last
	// token they overlap.
	type insertion struct{ at, j int }
	var ins []insertion
	for j := range matches {
		if !placed[j] && after[j] >= 0 {
			ins = append(ins, insertion{at: after[j], j: j})
		}
	}
	if len(ins) == 0 {
		return out
	}
	sort.SliceStable(ins, func(a, b int) bool { return ins[a].at < ins[b].at })
	merged := make([]segment, 0, len(out)+len(ins))
	k := 0
	for i := 0; i <= len(out); i++ {
		for k < len(ins) && ins[k].at == i {
			m := matches[ins[k].j]
			merged = append(merged, segment{start: m[0], end: m[1], token: tokens[ins[k].j]})
			k++
		}
		if i < len(out) {
			merged = append(merged, out[i])
		}
	}
	return merged
}

// overlapping returns the index range of matches intersecting [start, end).
func overlapping(matches [][2]int, start, end int) (int, int) {
	lo := sort.Search(len(matches), func(i int) bool { return matches[i][1] > start })
	hi := sort.Search(len(matches), func(i int) bool { return matches[i][0] >= end })
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func render(text string, segs []segment) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, sg := range segs {
		if sg.isToken() {
			b.WriteString(TokenPrefix)
			b.WriteString(sg.token)
			b.WriteString(TokenSuffix)
			continue
		}
		b.WriteString(text[sg.start:sg.end])
	}
	return b.String()
}

// Restore puts the original text back for every record whose placeholder is
// present in text. It is exact when no two records overlapped; when a later
// pattern absorbed part of an earlier match, both originals are restored
// side by side.
func Restore(text string, records []types.RevealRecord) string {
	if len(records) == 0 {
		return text
	}
	pairs := make([]string, 0, 2*len(records))
	for _, rec := range records {
		if rec.Token == "" {
			continue
		}
		pairs = append(pairs, Format(rec.Token), rec.OriginalText)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
