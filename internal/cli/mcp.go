package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nitika2334/Rule-Engine-App/pkg/mcp"
)

type MCPArgs struct {
	*RootArgs

	Address string
}

func (ma *MCPArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ma.Address, "addr", "", "Serve streamable HTTP at this address instead of stdio")
}

func NewMCPCmd(ra *RootArgs) *cobra.Command {
	ma := &MCPArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the rule operations as MCP tools",
		Example: `  # Serve over stdio, for clients that launch the server:
  rules mcp

  # Serve over streamable HTTP:
  rules mcp --addr localhost:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serveMCP(cmd, ma)
		},
	}

	ma.AddFlags(cmd)
	bindEnvVars(cmd)

	return cmd
}

func serveMCP(cmd *cobra.Command, ma *MCPArgs) error {
	cfg, err := ma.loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	c, shutdown, err := ma.newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer flushSpans(ctx, shutdown)

	s, err := mcp.NewServer(ma.Address, c)
	if err != nil {
		return fmt.Errorf("create MCP server: %w", err)
	}

	return s.Serve(ctx) //nolint:wrapcheck // Already describes the transport.
}
