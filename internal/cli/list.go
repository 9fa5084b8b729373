package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Nitika2334/Rule-Engine-App/pkg/expr"
	"github.com/Nitika2334/Rule-Engine-App/pkg/repository"
	"github.com/Nitika2334/Rule-Engine-App/pkg/rule"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/theme"
	"github.com/Nitika2334/Rule-Engine-App/pkg/yaml"
)

const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

var allOutputs = []string{OutputText, OutputJSON, OutputYAML}

type ListArgs struct {
	*RootArgs

	Where  string
	Output string
}

func (la *ListArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&la.Where, "where", "",
		"CEL expression over 'rule' (id, name, expression, root, postfix) selecting the rules to print")
	cmd.Flags().StringVarP(&la.Output, "output", "o", OutputText,
		fmt.Sprintf("Output format, one of: %s", allOutputs))

	must(cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(allOutputs, cobra.ShellCompDirectiveNoFileComp),
	))
}

func NewListCmd(ra *RootArgs) *cobra.Command {
	la := &ListArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the stored rules",
		Example: `  rules list
  rules list -o yaml
  rules list --where "rule.name.startsWith('R')"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return list(cmd, la)
		},
	}

	la.AddFlags(cmd)
	bindEnvVars(cmd)

	return cmd
}

func list(cmd *cobra.Command, la *ListArgs) error {
	if !slices.Contains(allOutputs, la.Output) {
		return fmt.Errorf("invalid argument %q for \"--output\" flag: must be one of %v", la.Output, allOutputs)
	}

	var filter *expr.RuleFilter

	if la.Where != "" {
		var err error

		filter, err = expr.NewRuleFilter(la.Where)
		if err != nil {
			return fmt.Errorf("invalid argument %q for \"--where\" flag: %w", la.Where, err)
		}
	}

	cfg, err := la.loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	c, shutdown, err := la.newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer flushSpans(ctx, shutdown)

	repo := repository.New(c)

	state := repo.FetchAll(ctx)
	if state.Failed() {
		return &DisplayError{Display: state.Err}
	}

	rules := state.Rules
	if filter != nil {
		rules, err = filter.Filter(rules)
		if err != nil {
			return fmt.Errorf("filter rules: %w", err)
		}
	}

	w := cmd.OutOrStdout()

	switch la.Output {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err = enc.Encode(rules)
		if err != nil {
			return fmt.Errorf("encode rules: %w", err)
		}

	case OutputYAML:
		enc := yaml.NewEncoder(w)

		err = enc.Encode(rules)
		if err != nil {
			return fmt.Errorf("encode rules: %w", err)
		}

		err = enc.Close()
		if err != nil {
			return fmt.Errorf("encode rules: %w", err)
		}

	default:
		writeRuleTable(w, theme.New(cfg.UI.Theme), rules)
	}

	return nil
}

func writeRuleTable(w io.Writer, t *theme.Theme, rules []rule.Rule) {
	if len(rules) == 0 {
		mustN(fmt.Fprintln(w, t.SubtleStyle.Render("No rules found.")))

		return
	}

	rows := make([][]string, 0, len(rules))
	for _, r := range rules {
		rows = append(rows, []string{string(r.ID), r.Name, r.Expression, r.Postfix.String()})
	}

	tbl := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("ID", "NAME", "RULE", "POSTFIX").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.SelectedStyle.Bold(true).PaddingRight(1)
			}

			return t.GenericTextStyle.PaddingRight(1)
		})

	mustN(fmt.Fprintln(w, tbl.String()))
}
