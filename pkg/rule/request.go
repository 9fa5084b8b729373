package rule

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidRequest is returned when a request fails local validation.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidConditions is returned when condition text is not a JSON object.
	ErrInvalidConditions = errors.New("conditions must be a JSON object")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CreateRequest is the body of the create endpoint.
type CreateRequest struct {
	RuleName       string `json:"rule_name" validate:"required"`
	RuleExpression string `json:"rule"      validate:"required"`
}

func (r CreateRequest) Validate() error {
	return validateStruct(r)
}

// CombineDraft is the body of the combine endpoint. Rules holds raw rule
// text by position; stored rules are never referenced by id.
type CombineDraft struct {
	RuleName string   `json:"rule_name" validate:"required"`
	Rules    []string `json:"rules"     validate:"dive,required"`
}

func (d CombineDraft) Validate() error {
	return validateStruct(d)
}

// MarshalJSON always emits rules as an array, never null.
func (d CombineDraft) MarshalJSON() ([]byte, error) {
	type draft CombineDraft

	out := draft(d)
	if out.Rules == nil {
		out.Rules = []string{}
	}

	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal combine draft: %w", err)
	}

	return b, nil
}

// EvaluationRequest is the body of the evaluate endpoint.
type EvaluationRequest struct {
	Conditions map[string]any `json:"conditions" validate:"required"`
	RuleName   string         `json:"rule_name"  validate:"required"`
}

func (r EvaluationRequest) Validate() error {
	return validateStruct(r)
}

// ParseConditions decodes free text into a condition object. Anything other
// than a JSON object, including arrays and null, is rejected.
func ParseConditions(text string) (map[string]any, error) {
	var raw json.RawMessage

	err := json.Unmarshal([]byte(text), &raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConditions, err)
	}

	var conditions map[string]any

	err = json.Unmarshal(raw, &conditions)
	if err != nil || conditions == nil {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidConditions, jsonKind(raw))
	}

	return conditions, nil
}

func jsonKind(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "nothing"
	}

	switch raw[0] {
	case '[':
		return "array"
	case '"':
		return "string"
	case 'n':
		return "null"
	case 't', 'f':
		return "boolean"
	}

	return "number"
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fmt.Errorf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}

	return fmt.Errorf("%w: %w", ErrInvalidRequest, errors.Join(errs...))
}
