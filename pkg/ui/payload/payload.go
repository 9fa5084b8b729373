// Package payload renders JSON response bodies with syntax highlighting.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/muesli/reflow/wrap"
	"github.com/muesli/termenv"

	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/theme"
)

type Renderer struct {
	lexer     chroma.Lexer
	formatter chroma.Formatter
	style     *chroma.Style
}

func NewRenderer(t *theme.Theme) *Renderer {
	formatterName := "noop"
	switch termenv.ColorProfile() {
	case termenv.TrueColor:
		formatterName = "terminal16m"

	case termenv.ANSI256:
		formatterName = "terminal256"

	case termenv.ANSI:
		formatterName = "terminal8"

	case termenv.Ascii:
	}

	return &Renderer{
		lexer:     chroma.Coalesce(lexers.Get("json")),
		formatter: formatters.Get(formatterName),
		style:     t.ChromaStyle,
	}
}

// Render indents raw and highlights it. Bodies that are not valid JSON are
// shown as they are. Lines longer than width are wrapped.
func (r *Renderer) Render(raw json.RawMessage, width int) (string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", nil
	}

	src := string(raw)

	var indented bytes.Buffer
	if err := json.Indent(&indented, raw, "", "  "); err == nil {
		src = indented.String()
	}

	iterator, err := r.lexer.Tokenise(nil, src)
	if err != nil {
		return "", fmt.Errorf("lexer tokenize: %w", err)
	}

	var out bytes.Buffer

	err = r.formatter.Format(&out, r.style, iterator)
	if err != nil {
		return "", fmt.Errorf("format: %w", err)
	}

	content := strings.TrimRight(out.String(), "\n")
	if width > 0 {
		content = wrap.String(content, width)
	}

	return content, nil
}
