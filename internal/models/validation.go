package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldRule binds a payload field to its validator tag.
type fieldRule struct {
	name  string
	tag   string
	value func(TransactionFields) (interface{}, bool)
}

var transactionRules = []fieldRule{
	{name: "type", tag: "required,min=3", value: func(f TransactionFields) (interface{}, bool) { return deref(f.Type) }},
	{name: "name", tag: "required,min=2", value: func(f TransactionFields) (interface{}, bool) { return deref(f.Name) }},
	{name: "amount", tag: "gte=0", value: func(f TransactionFields) (interface{}, bool) {
		if f.Amount == nil {
			return nil, false
		}
		return *f.Amount, true
	}},
	{name: "category", tag: "required", value: func(f TransactionFields) (interface{}, bool) { return deref(f.Category) }},
	{name: "date", tag: "required", value: func(f TransactionFields) (interface{}, bool) { return deref(f.Date) }},
}

// FieldError describes one failed constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every constraint a payload failed.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return strings.Join(parts, "; ")
}

// Validate checks f against the transaction constraints. With requireAll every
// field must be present; otherwise absent fields are skipped.
func (f TransactionFields) Validate(requireAll bool) error {
	var verr ValidationError
	for _, rule := range transactionRules {
		v, ok := rule.value(f)
		if !ok {
			if requireAll {
				verr.Fields = append(verr.Fields, FieldError{Field: rule.name, Message: "is required"})
			}
			continue
		}
		if err := validate.Var(v, rule.tag); err != nil {
			verr.Fields = append(verr.Fields, FieldError{Field: rule.name, Message: describe(err)})
		}
	}
	if len(verr.Fields) > 0 {
		return &verr
	}
	return nil
}

func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

func deref(s *string) (interface{}, bool) {
	if s == nil {
		return nil, false
	}
	return *s, true
}
