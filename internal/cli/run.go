package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Nitika2334/Rule-Engine-App/api/v1beta1/configs"
	"github.com/Nitika2334/Rule-Engine-App/pkg/client"
	"github.com/Nitika2334/Rule-Engine-App/pkg/log"
	"github.com/Nitika2334/Rule-Engine-App/pkg/mcp"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui"
)

var ErrNotTerminal = errors.New("the interface needs a terminal; use the list, create, combine, or evaluate commands instead")

type RunArgs struct {
	*RootArgs

	ServeMCP    string
	WriteConfig bool
	ShowConfig  bool
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ra.ServeMCP, "serve-mcp", "", "Also serve MCP over HTTP at the specified address")
	cmd.Flags().BoolVar(&ra.WriteConfig, "write-config", false, "Write the default configuration files, backing up existing ones, and exit")
	cmd.Flags().BoolVar(&ra.ShowConfig, "show-config", false, "Print the active configuration and exit")
}

func run(cmd *cobra.Command, ra *RunArgs) error {
	configPath := ra.configPath()

	err := configs.WriteDefault(configPath, ra.WriteConfig)
	if err != nil {
		slog.Error("write default config", slog.Any("err", err))
	}

	if ra.WriteConfig {
		// Errors writing the config are fatal only when it was asked for.
		return err
	}

	cfg, err := ra.loadConfig()
	if err != nil {
		return err
	}

	if ra.ShowConfig {
		return showConfig(cmd.OutOrStdout(), configPath, cfg)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNotTerminal
	}

	// The interface owns the terminal, so logs are kept until it exits.
	logBuf := log.NewCircularBuffer(100)

	logHandler, err := log.CreateHandlerWithStrings(logBuf, ra.LogLevel, ra.LogFormat)
	if err != nil {
		return fmt.Errorf("create log handler: %w", err)
	}

	slog.SetDefault(slog.New(logHandler))
	defer flushLogs(cmd.ErrOrStderr(), logBuf)

	ctx := cmd.Context()

	c, shutdown, err := ra.newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer flushSpans(ctx, shutdown)

	if ra.ServeMCP != "" {
		err = startMCP(ctx, ra.ServeMCP, c)
		if err != nil {
			return err
		}
	}

	err = runUI(ctx, cfg.UI, c)
	if err != nil {
		slog.Error("run UI", slog.Any("err", err))

		return fmt.Errorf("ui program failure: %w", err)
	}

	return nil
}

func showConfig(w io.Writer, path string, cfg *configs.Config) error {
	slog.Info("active configuration", slog.String("path", path))

	b, err := cfg.MarshalYAML()
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	mustN(fmt.Fprint(w, string(b)))

	return nil
}

// startMCP serves MCP in the background until ctx is done.
func startMCP(ctx context.Context, addr string, c *client.Client) error {
	s, err := mcp.NewServer(addr, c)
	if err != nil {
		return fmt.Errorf("create MCP server: %w", err)
	}

	go func() {
		err := s.Serve(ctx)
		if err != nil {
			slog.Error("MCP server failed", slog.Any("err", err))
		}
	}()

	return nil
}

func flushLogs(w io.Writer, buf *log.CircularBuffer) {
	slog.Debug("flush logs to console",
		slog.Int("count", buf.Size()),
		slog.Int("max", buf.Capacity()),
		slog.Bool("truncated", buf.IsFull()),
	)

	_, err := buf.WriteTo(w)
	if err != nil {
		panic(err)
	}
}

// runUI starts the UI program and blocks until it exits.
func runUI(ctx context.Context, cfg *ui.Config, c *client.Client) error {
	p := ui.NewProgram(ctx, cfg, c)

	_, err := p.Run()
	if err != nil {
		return fmt.Errorf("tea: %w", err)
	}

	return nil
}
