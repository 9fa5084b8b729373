package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Nitika2334/Rule-Engine-App/pkg/submit"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/payload"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/theme"
)

// submitFunc runs one operation against svc.
type submitFunc func(ctx context.Context, svc *submit.Service) submit.Outcome

func NewCreateCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "create NAME EXPRESSION",
		Short:   "Create a rule",
		Example: `  rules create R1 "(age > 30 AND department = 'Sales') OR salary > 50000"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, ra, func(ctx context.Context, svc *submit.Service) submit.Outcome {
				return svc.CreateRule(ctx, args[0], args[1])
			})
		},
	}

	bindEnvVars(cmd)

	return cmd
}

func NewCombineCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "combine NAME EXPRESSION [EXPRESSION...]",
		Short:   "Create a rule combining several rule expressions",
		Example: `  rules combine R3 "age > 30" "salary > 50000"`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, ra, func(ctx context.Context, svc *submit.Service) submit.Outcome {
				return svc.CombineRules(ctx, args[0], args[1:])
			})
		},
	}

	bindEnvVars(cmd)

	return cmd
}

func NewEvaluateCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "evaluate NAME CONDITIONS",
		Aliases: []string{"eval"},
		Short:   "Evaluate a stored rule against a JSON object of attributes",
		Example: `  rules evaluate R1 '{"age": 35, "department": "Sales", "salary": 60000}'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, ra, func(ctx context.Context, svc *submit.Service) submit.Outcome {
				return svc.EvaluateRule(ctx, args[0], args[1])
			})
		},
	}

	bindEnvVars(cmd)

	return cmd
}

func runSubmit(cmd *cobra.Command, ra *RootArgs, fn submitFunc) error {
	cfg, err := ra.loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	c, shutdown, err := ra.newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer flushSpans(ctx, shutdown)

	o := fn(ctx, submit.NewService(c))
	if o.Failed() {
		return &DisplayError{Display: o.Error, Err: o.Err}
	}

	slog.DebugContext(ctx, "submission succeeded", slog.String("op", o.Op.String()))

	return writeOutcome(cmd.OutOrStdout(), theme.New(cfg.UI.Theme), o)
}

// writeOutcome prints what the matching form would display after o.
func writeOutcome(w io.Writer, t *theme.Theme, o submit.Outcome) error {
	var d submit.Display

	d.Begin(o.Op)
	d.Apply(o)

	if d.Message != "" {
		mustN(fmt.Fprintln(w, t.SuccessTextStyle.Render(d.Message)))
	}

	if len(d.Payload) == 0 {
		return nil
	}

	out, err := payload.NewRenderer(t).Render(d.Payload, 0)
	if err != nil {
		return fmt.Errorf("render payload: %w", err)
	}

	mustN(fmt.Fprintln(w, out))

	return nil
}
