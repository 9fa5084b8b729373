package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nitika2334/Rule-Engine-App/internal/cli"
)

func TestBindEnvVars(t *testing.T) {
	tcs := map[string]struct {
		envVars       map[string]string
		wantLogLevel  string
		wantLogFormat string
		wantServer    string
		args          []string
	}{
		"environment variables are bound when no args provided": {
			envVars: map[string]string{
				"RULES_LOG_LEVEL":  "debug",
				"RULES_LOG_FORMAT": "json",
				"RULES_SERVER":     "http://rules.internal:5000",
			},
			args:          []string{},
			wantLogLevel:  "debug",
			wantLogFormat: "json",
			wantServer:    "http://rules.internal:5000",
		},
		"command line args take precedence over environment variables": {
			envVars: map[string]string{
				"RULES_LOG_LEVEL":  "debug",
				"RULES_LOG_FORMAT": "json",
				"RULES_SERVER":     "http://rules.internal:5000",
			},
			args:          []string{"--log-level", "error", "--log-format", "text", "--server", "http://localhost:9000"},
			wantLogLevel:  "error",
			wantLogFormat: "text",
			wantServer:    "http://localhost:9000",
		},
		"partial environment variable override": {
			envVars: map[string]string{
				"RULES_LOG_LEVEL": "warn",
			},
			args:          []string{"--log-format", "json"},
			wantLogLevel:  "warn",
			wantLogFormat: "json",
		},
		"no environment variables uses defaults": {
			envVars:       map[string]string{},
			args:          []string{},
			wantLogLevel:  "info",
			wantLogFormat: "text",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			for key, val := range tc.envVars {
				t.Setenv(key, val)
			}

			cmd := cli.NewRootCmd()
			cmd.SetArgs(tc.args)

			err := cmd.ParseFlags(tc.args)
			require.NoError(t, err)

			logLevel, err := cmd.Flags().GetString("log-level")
			require.NoError(t, err)
			assert.Equal(t, tc.wantLogLevel, logLevel)

			logFormat, err := cmd.Flags().GetString("log-format")
			require.NoError(t, err)
			assert.Equal(t, tc.wantLogFormat, logFormat)

			server, err := cmd.Flags().GetString("server")
			require.NoError(t, err)
			assert.Equal(t, tc.wantServer, server)
		})
	}
}

func TestBindEnvVars_Subcommand(t *testing.T) {
	t.Setenv("RULES_OUTPUT", "yaml")
	t.Setenv("RULES_ADDR", "localhost:8080")

	cmd := cli.NewRootCmd()

	list, _, err := cmd.Find([]string{"list"})
	require.NoError(t, err)

	output, err := list.Flags().GetString("output")
	require.NoError(t, err)
	assert.Equal(t, "yaml", output)

	mcp, _, err := cmd.Find([]string{"mcp"})
	require.NoError(t, err)

	addr, err := mcp.Flags().GetString("addr")
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", addr)
}

func TestEnvironmentVariableUsageUpdate(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCmd()

	logLevelFlag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, logLevelFlag)
	assert.Contains(t, logLevelFlag.Usage, "$RULES_LOG_LEVEL")

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Contains(t, configFlag.Usage, "$RULES_CONFIG")

	writeConfigFlag := cmd.Flags().Lookup("write-config")
	require.NotNil(t, writeConfigFlag)
	assert.Contains(t, writeConfigFlag.Usage, "$RULES_WRITE_CONFIG")
}
