package expr

import (
	"strings"
	"unicode"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
	"github.com/google/cel-go/ext"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Strings(),
		ext.Lists(),

		// `fold` case-folds a string and strips diacritics.
		// Example: fold(rule.name).contains("uber").
		cel.Function("fold",
			cel.Overload("fold_string", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(func(s ref.Val) ref.Val {
					v, ok := s.(types.String)
					if !ok {
						return types.NewErr("fold: invalid string value")
					}

					return types.String(fold(string(v)))
				}),
			),
		),

		// `operators` keeps the logical operators of a postfix expression.
		// Example: operators(rule.postfix).size() > 1.
		cel.Function("operators",
			cel.Overload("operators_list", []*cel.Type{cel.ListType(cel.StringType)}, cel.ListType(cel.StringType),
				cel.UnaryBinding(func(l ref.Val) ref.Val {
					lister, ok := l.(traits.Lister)
					if !ok {
						return types.NewErr("operators: invalid list value")
					}

					size, ok := lister.Size().(types.Int)
					if !ok {
						return types.NewErr("operators: invalid list size")
					}

					var ops []string

					for i := range size {
						tok, ok := lister.Get(i).(types.String)
						if !ok {
							return types.NewErr("operators: list must hold strings")
						}

						switch strings.ToUpper(string(tok)) {
						case "AND", "OR":
							ops = append(ops, strings.ToUpper(string(tok)))
						}
					}

					return types.NewStringList(types.DefaultTypeAdapter, ops)
				}),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return nil
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC, cases.Fold())

	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}

	return out
}
