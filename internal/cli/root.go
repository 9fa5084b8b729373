package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Nitika2334/Rule-Engine-App/pkg/log"
)

const (
	cmdName = "rules"
	cmdDesc = `Create, combine, and evaluate eligibility rules stored by a rule engine service.`

	cmdExamples = `  # Open the interface:
  rules

  # Use a service other than the configured one:
  rules --server http://rules.internal:5000

  # List rules whose postfix form uses AND:
  rules list --where "'AND' in operators(rule.postfix)"

  # Create, combine, and evaluate:
  rules create R1 "age > 30 AND department = 'Sales'"
  rules combine R3 "age > 30" "salary > 50000"
  rules evaluate R1 '{"age": 35, "department": "Sales"}'

  # Serve the operations to MCP clients over HTTP:
  rules mcp --addr localhost:8080`
)

type RootArgs struct {
	LogLevel     string
	LogFormat    string
	ConfigPath   string
	Server       string
	Timeout      string
	OTLPEndpoint string
	OTLPInsecure bool
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	flags.StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	flags.StringVar(&ra.ConfigPath, "config", "", "Path to the rules configuration file")
	flags.StringVar(&ra.Server, "server", "", "Rule engine service URL, overrides backend.url")
	flags.StringVar(&ra.Timeout, "timeout", "", "Request timeout, e.g. 10s, overrides backend.timeout")
	flags.StringVar(&ra.OTLPEndpoint, "otlp-endpoint", "", "OTLP/gRPC endpoint to export traces to")
	flags.BoolVar(&ra.OTLPInsecure, "otlp-insecure", false, "Disable TLS to the OTLP endpoint")

	must(cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.MarkPersistentFlagFilename("config", "yaml", "yml"))
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()
	runArgs := NewRunArgs(args)

	cmd := &cobra.Command{
		Use:               cmdName,
		Short:             cmdDesc,
		Example:           cmdExamples,
		PersistentPreRunE: setupLogging(args),
		Args:              cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, runArgs)
		},
	}

	args.AddFlags(cmd)
	runArgs.AddFlags(cmd)

	cmd.AddCommand(
		NewListCmd(args),
		NewCreateCmd(args),
		NewCombineCmd(args),
		NewEvaluateCmd(args),
		NewMCPCmd(args),
	)

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		return nil
	}
}
