package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Nitika2334/Rule-Engine-App/api/v1beta1/configs"
	"github.com/Nitika2334/Rule-Engine-App/pkg/client"
	"github.com/Nitika2334/Rule-Engine-App/pkg/config"
	"github.com/Nitika2334/Rule-Engine-App/pkg/telemetry"
)

func (ra *RootArgs) configPath() string {
	if ra.ConfigPath != "" {
		return ra.ConfigPath
	}

	return configs.GetPath()
}

// loadConfig reads the configuration file and applies flag overrides. A
// missing or unreadable file falls back to the defaults; an invalid one is an
// error.
func (ra *RootArgs) loadConfig() (*configs.Config, error) {
	path := ra.configPath()
	cfg := configs.New()

	cl, err := config.NewLoaderFromFile(path, configs.New, configs.DefaultValidator)
	if err != nil {
		slog.Debug("could not read config, using defaults", slog.String("path", path), slog.Any("err", err))
	} else {
		err = cl.Validate()
		if err != nil {
			return nil, fmt.Errorf("invalid config %q: %w", path, err)
		}

		cfg, err = cl.Load()
		if err != nil {
			return nil, fmt.Errorf("invalid config %q: %w", path, err)
		}
	}

	if ra.Server != "" {
		cfg.Backend.URL = ra.Server
	}

	if ra.Timeout != "" {
		cfg.Backend.Timeout = ra.Timeout
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	return cfg, nil
}

// newClient installs tracing and builds the service client. The returned
// function flushes spans and must be called before exit.
func (ra *RootArgs) newClient(ctx context.Context, cfg *configs.Config) (*client.Client, telemetry.ShutdownFunc, error) {
	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		Endpoint: ra.OTLPEndpoint,
		Insecure: ra.OTLPInsecure,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init tracing: %w", err)
	}

	c, err := client.NewFromConfig(cfg.Backend)
	if err != nil {
		flushSpans(ctx, shutdown)

		return nil, nil, fmt.Errorf("create client: %w", err)
	}

	slog.DebugContext(ctx, "using rule engine", slog.String("url", c.BaseURL()))

	return c, shutdown, nil
}

func flushSpans(ctx context.Context, shutdown telemetry.ShutdownFunc) {
	err := shutdown(context.WithoutCancel(ctx))
	if err != nil {
		slog.WarnContext(ctx, "flush traces", slog.Any("err", err))
	}
}
