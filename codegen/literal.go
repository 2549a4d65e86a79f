package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arloliu/autofmu/errs"
)

// FloatLiteral formats v as a C double literal that parses back to exactly v.
//
// The shortest round-trip representation is used, with ".0" appended when it would
// otherwise read as an integer literal. NaN and infinities have no literal form and
// are rejected with errs.ErrNonFinite.
func FloatLiteral(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("%w: %v", errs.ErrNonFinite, v)
	}

	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s, nil
}

func floatLiterals(values []float64) ([]string, error) {
	out := make([]string, len(values))
	for i, v := range values {
		lit, err := FloatLiteral(v)
		if err != nil {
			return nil, err
		}
		out[i] = lit
	}

	return out, nil
}

// StringLiteral quotes s as a C string literal. Quotes, backslashes, question marks
// (trigraphs) and every byte outside printable ASCII are escaped; non-ASCII text is
// written as its UTF-8 bytes in octal.
func StringLiteral(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\\' || c == '?':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\t':
			b.WriteString(`\t`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&b, `\%03o`, c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')

	return b.String()
}

// commentSafe strips sequences that would end a C block comment early.
func commentSafe(s string) string {
	s = strings.ReplaceAll(s, "*/", "* /")
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}
