package security

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/Rrens/fitness-coach/internal/domain"
)

// MaxMessageRunes bounds a single chat message
const MaxMessageRunes = 4000

// InputValidator validates request payloads and free text sent to the model
type InputValidator struct {
	validate *validator.Validate
}

// NewInputValidator creates a validator that reports JSON field names
func NewInputValidator() *InputValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &InputValidator{validate: v}
}

// Struct validates s against its `validate` tags
func (v *InputValidator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return &domain.ValidationError{Message: err.Error()}
	}

	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		fields[fieldPath(e)] = describe(e)
	}

	return &domain.ValidationError{Message: summarize(fields), Fields: fields}
}

// Message normalizes a chat message. Control characters other than newlines
// and tabs are dropped.
func (v *InputValidator) Message(msg string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, msg)
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return "", &domain.ValidationError{
			Message: "message is required",
			Fields:  map[string]string{"message": "field is required"},
		}
	}
	if utf8.RuneCountInString(cleaned) > MaxMessageRunes {
		return "", &domain.ValidationError{
			Message: "message is too long",
			Fields:  map[string]string{"message": "must be at most 4000 characters"},
		}
	}
	return cleaned, nil
}

func fieldPath(e validator.FieldError) string {
	// Namespace is "UserCreate.fitness_goals[0]"; drop the struct name.
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return e.Field()
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "email":
		return "invalid email format"
	case "min":
		if e.Kind() == reflect.Slice {
			return "must contain at least " + e.Param() + " item(s)"
		}
		return "must be at least " + e.Param() + " characters"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(e.Param(), " ", ", ")
	default:
		return "validation failed on " + e.Tag()
	}
}

func summarize(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	if len(keys) == 1 {
		return keys[0] + ": " + fields[keys[0]]
	}
	sort.Strings(keys)
	return "invalid request: " + strings.Join(keys, ", ")
}
