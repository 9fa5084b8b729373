package client

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultURL is where the rule engine service listens by default.
const DefaultURL = "http://127.0.0.1:5000"

var (
	ErrInvalidConfig = errors.New("invalid backend config")

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	err := v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		_, err := time.ParseDuration(fl.Field().String())
		return err == nil
	})
	if err != nil {
		panic(err)
	}

	return v
}

// Config locates the rule engine service.
type Config struct {
	// URL is the service root, without the /api/v1 prefix.
	URL string `json:"url,omitempty" jsonschema:"title=URL,format=uri" validate:"required,http_url" yaml:"url,omitempty"`
	// Timeout bounds each request, e.g. "10s". Zero or empty means no limit.
	Timeout string `json:"timeout,omitempty" jsonschema:"title=Timeout" validate:"omitempty,duration" yaml:"timeout,omitempty"`
}

func NewConfig() *Config {
	c := &Config{}
	c.EnsureDefaults()

	return c
}

func (c *Config) EnsureDefaults() {
	if c.URL == "" {
		c.URL = DefaultURL
	}

	if c.Timeout == "" {
		c.Timeout = "0s"
	}
}

func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fmt.Errorf("%s: %q fails %q", fe.Field(), fe.Value(), fe.Tag()))
	}

	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// GetTimeout returns the parsed timeout. Call Validate first.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0
	}

	return d
}

// NewFromConfig builds a [Client] from c, applying opts after the config.
func NewFromConfig(c *Config, opts ...Option) (*Client, error) {
	err := c.Validate()
	if err != nil {
		return nil, err
	}

	if d := c.GetTimeout(); d > 0 {
		opts = append([]Option{WithTimeout(d)}, opts...)
	}

	return New(c.URL, opts...)
}
