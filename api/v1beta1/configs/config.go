// Package configs provides the Configuration kind: the user's settings for
// the rules client.
package configs

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/Nitika2334/Rule-Engine-App/api"
	"github.com/Nitika2334/Rule-Engine-App/api/v1beta1"
	"github.com/Nitika2334/Rule-Engine-App/pkg/client"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui"
	"github.com/Nitika2334/Rule-Engine-App/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen -o configs.v1beta1.json -root ../../..

const (
	Kind = "Configuration"

	// SchemaFile is written next to the config file so editors can validate it.
	SchemaFile = "configs.v1beta1.json"
)

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	//go:embed configs.v1beta1.json
	schemaJSON []byte

	ValidKinds = []string{Kind}

	// DefaultValidator checks documents against the embedded schema.
	DefaultValidator = yaml.MustNewValidator("/"+SchemaFile, schemaJSON)

	_ v1beta1.Object = (*Config)(nil)
)

// Config is the rules client configuration.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// Backend locates the rule engine service.
	Backend *client.Config `json:"backend,omitempty" jsonschema:"title=Backend" yaml:"backend,omitempty"`
	// UI configures the terminal interface.
	UI *ui.Config `json:"ui,omitempty" jsonschema:"title=UI" yaml:"ui,omitempty"`

	v1beta1.TypeMeta `json:",inline" yaml:",inline"`
}

// New returns a [Config] with every default applied.
func New() *Config {
	c := &Config{
		TypeMeta: v1beta1.TypeMeta{
			APIVersion: v1beta1.APIVersion,
			Kind:       Kind,
		},
	}
	c.EnsureDefaults()

	return c
}

func (c *Config) EnsureDefaults() {
	if c.Backend == nil {
		c.Backend = client.NewConfig()
	} else {
		c.Backend.EnsureDefaults()
	}

	if c.UI == nil {
		c.UI = &ui.Config{}
	}

	c.UI.EnsureDefaults()
}

// Validate runs the checks the schema cannot express.
func (c *Config) Validate() error {
	var errs []error

	if c.Backend != nil {
		errs = append(errs, c.Backend.Validate())
	}

	if c.UI != nil && c.UI.KeyBinds != nil {
		err := c.UI.KeyBinds.Validate()
		if err != nil {
			errs = append(errs, fmt.Errorf("validate keybinds: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the config to YAML.
func (c Config) MarshalYAML() ([]byte, error) {
	type alias Config

	b, err := yaml.Marshal(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return b, nil
}

// WriteDefault writes the embedded default config to path, and the schema
// next to it. With force, an existing config is backed up and replaced.
func WriteDefault(path string, force bool) error {
	err := api.WriteDefaultFile(path, defaultConfigYAML, force, "configuration")
	if err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	schemaPath := filepath.Join(filepath.Dir(path), SchemaFile)
	slog.Debug("write JSON schema", slog.String("path", schemaPath))

	err = os.WriteFile(schemaPath, schemaJSON, 0o600)
	if err != nil {
		return fmt.Errorf("write schema: %w", err)
	}

	return nil
}

// GetPath returns the path to the user's configuration file.
func GetPath() string {
	return api.GetConfigPath("config.yaml")
}
