package pdf

import (
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Codec converts between the bytes of a string operand and text. Decoding
// never fails: bytes with no mapping are dropped. Encoding drops runes the
// encoding cannot represent.
type Codec interface {
	Name() string
	Decode(b []byte) string
	Encode(s string) []byte
}

// Font is a font resource as seen by text operators.
type Font struct {
	Subtype  string
	Encoding string
}

// Codec returns the codec for string operands shown with f. Composite
// (Type0) fonts select glyphs through a CMap with multi-byte codes and
// have no codec.
func (f Font) Codec() (Codec, bool) {
	if f.Subtype == "Type0" {
		return nil, false
	}
	return CodecFor(f.Encoding), true
}

// CodecFor returns the codec for a font's declared encoding name. Unknown
// and empty names fall back to Latin-1.
func CodecFor(encoding string) Codec {
	switch encoding {
	case "WinAnsiEncoding":
		return charmapCodec{name: encoding, cm: charmap.Windows1252}
	case "MacRomanEncoding":
		return charmapCodec{name: encoding, cm: charmap.Macintosh}
	case "StandardEncoding":
		return standardCodec
	}
	return charmapCodec{name: "Latin1", cm: charmap.ISO8859_1}
}

type charmapCodec struct {
	name string
	cm   *charmap.Charmap
}

func (c charmapCodec) Name() string { return c.name }

func (c charmapCodec) Decode(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, x := range b {
		r := c.cm.DecodeByte(x)
		if r == utf8.RuneError {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (c charmapCodec) Encode(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if b, ok := c.cm.EncodeRune(r); ok {
			out = append(out, b)
		}
	}
	return out
}

// tableCodec is a single-byte encoding given as a code → rune table where 0
// marks an unused code.
type tableCodec struct {
	name    string
	table   *[256]rune
	once    sync.Once
	reverse map[rune]byte
}

func (c *tableCodec) Name() string { return c.name }

func (c *tableCodec) Decode(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, x := range b {
		if r := c.table[x]; r != 0 {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func (c *tableCodec) Encode(s string) []byte {
	c.once.Do(func() {
		c.reverse = make(map[rune]byte, 256)
		for i := 255; i >= 0; i-- {
			if r := c.table[i]; r != 0 {
				c.reverse[r] = byte(i)
			}
		}
	})
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if b, ok := c.reverse[r]; ok {
			out = append(out, b)
		}
	}
	return out
}

var standardCodec = &tableCodec{name: "StandardEncoding", table: &standardEncoding}

// standardEncoding is Adobe StandardEncoding (PDF 32000-1, Annex D.2).
var standardEncoding = [256]rune{
	0x20: ' ', '!', '"', '#', '$', '%', '&', 0x2019,
	'(', ')', '*', '+', ',', '-', '.', '/',
	'0', '1', '2', '3', '4', '5', '6', '7',
	'8', '9', ':', ';', '<', '=', '>', '?',
	'@', 'A', 'B', 'C', 'D', 'E', 'F', 'G',
	'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O',
	'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W',
	'X', 'Y', 'Z', '[', '\\', ']', '^', '_',
	0x2018, 'a', 'b', 'c', 'd', 'e', 'f', 'g',
	'h', 'i', 'j', 'k', 'l', 'm', 'n', 'o',
	'p', 'q', 'r', 's', 't', 'u', 'v', 'w',
	'x', 'y', 'z', '{', '|', '}', '~',
	0xA1: 0x00A1, 0x00A2, 0x00A3, 0x2044, 0x00A5, 0x0192, 0x00A7,
	0x00A4, 0x0027, 0x201C, 0x00AB, 0x2039, 0x203A, 0xFB01, 0xFB02,
	0xB1: 0x2013, 0x2020, 0x2021, 0x00B7,
	0xB6: 0x00B6, 0x2022, 0x201A, 0x201E, 0x201D, 0x00BB, 0x2026, 0x2030,
	0xBF: 0x00BF,
	0xC1: 0x0060, 0x00B4, 0x02C6, 0x02DC, 0x00AF, 0x02D8, 0x02D9, 0x00A8,
	0xCA: 0x02DA, 0x00B8,
	0xCD: 0x02DD, 0x02DB, 0x02C7, 0x2014,
	0xE1: 0x00C6,
	0xE3: 0x00AA,
	0xE8: 0x0141, 0x00D8, 0x0152, 0x00BA,
	0xF1: 0x00E6,
	0xF5: 0x0131,
	0xF8: 0x0142, 0x00F8, 0x0153, 0x00DF,
}
