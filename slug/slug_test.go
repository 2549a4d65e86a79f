package slug

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in      string
		unicode bool
		want    string
	}{
		{"Hello, World!", false, "hello-world"},
		{" multiple---dash and  space ", false, "multiple-dash-and-space"},
		{"İstanbul", false, "istanbul"},
		{"你好", true, "你好"},
		{"你好", false, ""},
		{"Crème brûlée", false, "creme-brulee"},
		{"Crème brûlée", true, "crème-brûlée"},
		{"underscore_in-value", false, "underscore_in-value"},
		{"__leading and trailing__", false, "leading-and-trailing"},
		{"-_-", false, ""},
		{"tab\tand\nnewline", false, "tab-and-newline"},
		{"ﬁle №5", false, "file-no5"},
		{"model", false, "model"},
		{"", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, Make(tt.in, tt.unicode))
		})
	}
}

func TestMake_Properties(t *testing.T) {
	ascii := regexp.MustCompile(`^[a-z0-9_-]*$`)
	inputs := []string{
		"Hello, World!", "İstanbul", "你好 world", "a--b__c", "  --x--  ", "Ωmega 12",
		"Straße", "foo.bar/baz", "ÅÄÖ åäö", "tab\there", "_x_", "emoji 🚀 rocket",
		"Æsir", "ＡＢＣ", "ǅungla", "1.5e3", "name-with- nbsp",
	}

	for _, in := range inputs {
		for _, uni := range []bool{false, true} {
			out := Make(in, uni)
			require.Equal(t, out, Make(out, uni), "idempotent for %q unicode=%v", in, uni)
			if out != "" {
				require.NotContains(t, "-_", out[:1], "leading char of %q", out)
				require.NotContains(t, "-_", out[len(out)-1:], "trailing char of %q", out)
			}
			if !uni {
				require.Regexp(t, ascii, out, "ascii slug of %q", in)
			}
		}
	}
}
