package yaml

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator validates decoded documents against a JSON schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles schemaData, registered under url.
func NewValidator(url string, schemaData []byte) (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaData))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()

	err = compiler.AddResource(url, doc)
	if err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	jss, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: jss}, nil
}

func MustNewValidator(url string, schemaData []byte) *Validator {
	v, err := NewValidator(url, schemaData)
	if err != nil {
		panic(err)
	}

	return v
}

// Validate checks data, which must be the result of decoding YAML into an
// any. Failures are returned as [*Error] pointing at the most specific
// failing location.
func (v *Validator) Validate(data any) error {
	// The validator only understands JSON types, so round trip through JSON.
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("normalize document: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("normalize document: %w", err)
	}

	err = v.schema.Validate(doc)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("schema validation: %w", err)
	}

	leaf := mostSpecific(verr)

	return &Error{
		Err:  errors.New(leaf.Error()),
		Path: pathFromLocation(leaf.InstanceLocation),
	}
}

func mostSpecific(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	best := err
	for _, cause := range err.Causes {
		c := mostSpecific(cause)
		if len(c.InstanceLocation) > len(best.InstanceLocation) {
			best = c
		}
	}

	return best
}

func pathFromLocation(location []string) *yaml.Path {
	pb := (&yaml.PathBuilder{}).Root()
	for _, part := range location {
		if i, err := strconv.ParseUint(part, 10, 32); err == nil {
			pb = pb.Index(uint(i))
		} else {
			pb = pb.Child(part)
		}
	}

	return pb.Build()
}
