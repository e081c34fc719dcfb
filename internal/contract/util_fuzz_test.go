package contract

import (
	"testing"
	"unicode/utf8"
)

// FuzzTruncateText checks that truncation never exceeds the width and keeps valid UTF-8.
func FuzzTruncateText(f *testing.F) {
	f.Add("hello world", 5)
	f.Add("", 0)
	f.Add("héllo wörld", 4)
	f.Add("short", 100)

	f.Fuzz(func(t *testing.T, text string, width int) {
		out := TruncateText(text, width)
		if width > 3 && utf8.RuneCountInString(out) > width {
			t.Fatalf("TruncateText(%q, %d) = %q exceeds width", text, width, out)
		}
		if utf8.ValidString(text) && !utf8.ValidString(out) {
			t.Fatalf("TruncateText produced invalid UTF-8 from %q", text)
		}
	})
}

// FuzzParseBoolString checks that parsing never panics and only accepts known values.
func FuzzParseBoolString(f *testing.F) {
	for _, seed := range []string{"yes", "NO", "true", "0", "", "maybe"} {
		f.Add(seed)
	}
	f.Fuzz(func(_ *testing.T, s string) {
		_, _ = ParseBoolString(s)
	})
}
