package pdf

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Instruction is one content stream operation: its operands followed by the
// operator. Inline images are kept verbatim in Inline, from BI through EI.
type Instruction struct {
	Operator string
	Operands []types.Object
	Inline   []byte
}

// Null is the null operand.
type Null struct{}

func (Null) String() string      { return "null" }
func (Null) Clone() types.Object { return Null{} }
func (Null) PDFString() string   { return "null" }

// ParseContent splits decoded content stream data into instructions.
// Operands left over at the end are returned as an instruction with an
// empty operator.
func ParseContent(data []byte) ([]Instruction, error) {
	s := &scanner{src: string(data)}
	var out []Instruction
	var operands []types.Object
	for {
		s.skip()
		start := s.pos
		o, op, err := s.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if o != nil {
			operands = append(operands, o)
			continue
		}
		if op == "BI" {
			end, err := s.inlineImageEnd()
			if err != nil {
				return nil, err
			}
			out = append(out, Instruction{Operator: op, Operands: operands, Inline: data[start:end]})
			operands = nil
			s.pos = end
			continue
		}
		out = append(out, Instruction{Operator: op, Operands: operands})
		operands = nil
	}
	if len(operands) > 0 {
		out = append(out, Instruction{Operands: operands})
	}
	return out, nil
}

// scanner tokenizes content streams. Strings, names, arrays and
// dictionaries are handed to pdfcpu's object parser; numbers and operators
// are read here since a number pair followed by an operator starting with R
// would otherwise parse as an indirect reference.
type scanner struct {
	src string
	pos int
}

func isWhite(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (s *scanner) skip() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case isWhite(c):
			s.pos++
		case c == '%':
			for s.pos < len(s.src) && s.src[s.pos] != '\n' && s.src[s.pos] != '\r' {
				s.pos++
			}
		default:
			return
		}
	}
}

// next returns either an operand or an operator.
func (s *scanner) next() (types.Object, string, error) {
	s.skip()
	if s.pos >= len(s.src) {
		return nil, "", io.EOF
	}
	switch c := s.src[s.pos]; c {
	case '(', '<', '[', '/':
		rest := s.src[s.pos:]
		o, err := model.ParseObject(&rest)
		if err != nil {
			return nil, "", fmt.Errorf("%w: offset %d: %w", ErrMalformed, s.pos, err)
		}
		if o == nil {
			return nil, "", fmt.Errorf("%w: offset %d: bad hex string", ErrMalformed, s.pos)
		}
		s.pos = len(s.src) - len(rest)
		return o, "", nil
	case ')', '>', ']':
		return nil, "", fmt.Errorf("%w: offset %d: unexpected %q", ErrMalformed, s.pos, c)
	case '{', '}':
		s.pos++
		return nil, string(c), nil
	}

	start := s.pos
	for s.pos < len(s.src) && !isWhite(s.src[s.pos]) && !isDelim(s.src[s.pos]) {
		s.pos++
	}
	word := s.src[start:s.pos]
	switch word {
	case "true":
		return types.Boolean(true), "", nil
	case "false":
		return types.Boolean(false), "", nil
	case "null":
		return Null{}, "", nil
	}
	if isNumber(word) {
		if i, err := strconv.Atoi(word); err == nil {
			return types.Integer(i), "", nil
		}
		// Malformed reals read as zero.
		f, _ := strconv.ParseFloat(word, 64)
		return types.Float(f), "", nil
	}
	return nil, word, nil
}

func isNumber(w string) bool {
	digit := false
	for i := 0; i < len(w); i++ {
		c := w[i]
		switch {
		case c >= '0' && c <= '9':
			digit = true
		case c == '+' || c == '-' || c == '.':
		default:
			return false
		}
	}
	return digit
}

// inlineImageEnd returns the offset just past the EI that closes the inline
// image whose dictionary starts at the scanner position.
func (s *scanner) inlineImageEnd() (int, error) {
	for {
		_, op, err := s.next()
		if err != nil {
			return 0, fmt.Errorf("%w: inline image: %w", ErrMalformed, err)
		}
		if op == "ID" {
			break
		}
	}
	// One whitespace byte separates ID from the image data.
	i := s.pos + 1
	for i < len(s.src) {
		j := strings.Index(s.src[i:], "EI")
		if j < 0 {
			break
		}
		at := i + j
		before := isWhite(s.src[at-1])
		after := at+2 == len(s.src) || isWhite(s.src[at+2]) || isDelim(s.src[at+2])
		if before && after {
			return at + 2, nil
		}
		i = at + 2
	}
	return 0, fmt.Errorf("%w: inline image without EI", ErrMalformed)
}

// EncodeContent serializes instructions back into content stream syntax,
// one instruction per line.
func EncodeContent(ins []Instruction) []byte {
	var buf bytes.Buffer
	for _, in := range ins {
		for _, o := range in.Operands {
			writeOperand(&buf, o)
			buf.WriteByte(' ')
		}
		if in.Inline != nil {
			buf.Write(in.Inline)
		} else {
			buf.WriteString(in.Operator)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func writeOperand(buf *bytes.Buffer, o types.Object) {
	switch v := o.(type) {
	case nil:
		buf.WriteString("null")
	case types.Integer:
		buf.WriteString(strconv.Itoa(int(v)))
	case types.Float:
		buf.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 64))
	case types.Array:
		buf.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				buf.WriteByte(' ')
			}
			writeOperand(buf, e)
		}
		buf.WriteByte(']')
	default:
		buf.WriteString(v.PDFString())
	}
}

// StringBytes returns the raw bytes of a literal or hex string operand.
func StringBytes(o types.Object) ([]byte, bool) {
	switch v := o.(type) {
	case types.StringLiteral:
		b, err := types.Unescape(string(v))
		if err != nil {
			return nil, false
		}
		return b, true
	case types.HexLiteral:
		return hexBytes(string(v)), true
	}
	return nil, false
}

// hexBytes decodes a hex string, padding an odd final digit with zero.
func hexBytes(s string) []byte {
	if len(s)%2 == 1 {
		s += "0"
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}

// ReplaceString returns a string operand holding b, written in the same
// form as o.
func ReplaceString(o types.Object, b []byte) types.Object {
	if _, ok := o.(types.HexLiteral); ok {
		return types.NewHexLiteral(b)
	}
	esc, _ := types.Escape(string(b))
	return types.StringLiteral(*esc)
}
