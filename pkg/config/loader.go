package config

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/Nitika2334/Rule-Engine-App/api"
	"github.com/Nitika2334/Rule-Engine-App/api/v1beta1"
	"github.com/Nitika2334/Rule-Engine-App/pkg/ui/theme"

	ryaml "github.com/Nitika2334/Rule-Engine-App/pkg/yaml"
)

// Validator validates configuration data against a schema.
type Validator interface {
	Validate(data any) error
}

// Validatable is implemented by documents with checks beyond the schema.
type Validatable interface {
	Validate() error
}

// LoaderOpt configures a [Loader].
type LoaderOpt func(*loaderOptions)

type loaderOptions struct {
	validator    Validator
	extractTheme bool
}

// WithValidator replaces the schema validator. A nil validator skips schema
// validation.
func WithValidator(v Validator) LoaderOpt {
	return func(o *loaderOptions) {
		o.validator = v
	}
}

// WithThemeFromData reads ui.theme from the document, so errors about the
// document can be styled the way the user configured.
func WithThemeFromData() LoaderOpt {
	return func(o *loaderOptions) {
		o.extractTheme = true
	}
}

// Loader decodes and validates a configuration document of type T.
type Loader[T v1beta1.Object] struct {
	validator Validator
	newFunc   func() T
	theme     *theme.Theme
	data      []byte
}

// NewLoaderFromBytes creates a [Loader] for data. newFunc returns the value
// the document is decoded into, e.g. configs.New.
func NewLoaderFromBytes[T v1beta1.Object](
	data []byte,
	newFunc func() T,
	defaultValidator Validator,
	opts ...LoaderOpt,
) *Loader[T] {
	options := &loaderOptions{
		validator: defaultValidator,
	}
	for _, opt := range opts {
		opt(options)
	}

	t := theme.Default
	if options.extractTheme {
		t = getTheme(data)
	}

	return &Loader[T]{
		data:      data,
		newFunc:   newFunc,
		validator: options.validator,
		theme:     t,
	}
}

// NewLoaderFromFile creates a [Loader] from a file path.
func NewLoaderFromFile[T v1beta1.Object](
	path string,
	newFunc func() T,
	defaultValidator Validator,
	opts ...LoaderOpt,
) (*Loader[T], error) {
	data, err := api.ReadFile(path)
	if err != nil {
		return nil, err //nolint:wrapcheck // Return the original error.
	}

	return NewLoaderFromBytes(data, newFunc, defaultValidator, opts...), nil
}

// Validate checks the document against the schema without loading it.
func (l *Loader[T]) Validate() error {
	var anyConfig any

	err := ryaml.NewDecoder(bytes.NewReader(l.data)).Decode(&anyConfig)
	if err != nil {
		return ryaml.WithSource(err, l.data)
	}

	if l.validator == nil {
		return nil
	}

	err = l.validator.Validate(anyConfig)
	if err != nil {
		return ryaml.WithSource(err, l.data)
	}

	return nil
}

// Load decodes the document, applies defaults, and runs the type's own
// validation when it has one.
//
//nolint:ireturn // Generic type parameter return is intentional.
func (l *Loader[T]) Load() (T, error) {
	var zero T

	cfg := l.newFunc()

	err := ryaml.NewDecoder(bytes.NewReader(l.data)).Decode(cfg)
	if err != nil {
		return zero, ryaml.WithSource(err, l.data)
	}

	cfg.EnsureDefaults()

	if v, ok := any(cfg).(Validatable); ok {
		err = v.Validate()
		if err != nil {
			return zero, err //nolint:wrapcheck // Already describes the document.
		}
	}

	return cfg, nil
}

// GetTheme returns the theme for error formatting.
func (l *Loader[T]) GetTheme() *theme.Theme {
	return l.theme
}

func getTheme(data []byte) *theme.Theme {
	path, err := yaml.PathString("$.ui.theme")
	if err != nil {
		return theme.Default
	}

	var name string

	err = path.Read(bytes.NewReader(data), &name)
	if err != nil || strings.TrimSpace(name) == "" {
		slog.Debug("could not read theme, config might be invalid", slog.Any("err", err))

		return theme.Default
	}

	return theme.New(name)
}
