package uitest

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// PlainText strips ANSI sequences from s.
func PlainText(s string) string {
	return ansi.Strip(s)
}

// ContainsText returns a [WaitFor] condition that matches when every one of
// want appears in the unstyled output.
func ContainsText(want ...string) func([]byte) bool {
	return func(b []byte) bool {
		plain := PlainText(string(b))
		for _, w := range want {
			if !strings.Contains(plain, w) {
				return false
			}
		}

		return true
	}
}

// FieldFocused returns a [WaitFor] condition that matches once the form field
// titled title is drawn with the focus border.
func FieldFocused(title string) func([]byte) bool {
	return ContainsText("┃ " + title)
}
