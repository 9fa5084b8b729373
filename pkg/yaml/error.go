package yaml

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"
)

// Error is a decode or validation error located in a YAML document. When the
// source is attached, Error() includes an excerpt of the offending lines.
type Error struct {
	Err    error
	Path   *yaml.Path
	Token  *token.Token
	Source []byte
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	if e.Err == nil {
		return ""
	}

	tk := e.Token
	if tk == nil && e.Path != nil && len(e.Source) > 0 {
		tk = tokenAtPath(e.Source, e.Path)
	}

	var sb strings.Builder

	switch {
	case tk != nil:
		fmt.Fprintf(&sb, "[%d:%d] %v", tk.Position.Line, tk.Position.Column, e.Err)
	case e.Path != nil:
		fmt.Fprintf(&sb, "%s: %v", e.Path.String(), e.Err)
	default:
		sb.WriteString(e.Err.Error())
	}

	if e.Path != nil && len(e.Source) > 0 {
		excerpt, err := e.Path.AnnotateSource(e.Source, false)
		if err == nil && len(excerpt) > 0 {
			sb.WriteString("\n")
			sb.Write(excerpt)
		}
	}

	return sb.String()
}

// WithSource attaches the document source to err when err is an [*Error].
func WithSource(err error, source []byte) error {
	if yerr, ok := err.(*Error); ok { //nolint:errorlint // Only annotate our own type.
		yerr.Source = source
	}

	return err
}

func tokenAtPath(source []byte, path *yaml.Path) *token.Token {
	file, err := parser.ParseBytes(source, 0)
	if err != nil {
		return nil
	}

	node, err := path.FilterFile(file)
	if err != nil || node == nil {
		return nil
	}

	if kv, ok := node.(*ast.MappingValueNode); ok {
		return kv.Key.GetToken()
	}

	return node.GetToken()
}
