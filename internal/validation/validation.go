package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"whatsapp-autoreply/pkg/models"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Error is a validation failure that can be shown to the dashboard as is
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report json names so messages match what the caller sent
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Struct validates v against its `validate` tags and returns the first
// failing field as an *Error.
func Struct(v interface{}) error {
	err := engine().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &Error{Message: describe(verrs[0])}
	}
	return &Error{Message: err.Error()}
}

// AgentConfig validates a full config document, including rule id uniqueness
func AgentConfig(cfg models.AgentConfig) error {
	if err := Struct(cfg); err != nil {
		return err
	}
	seen := make(map[string]int, len(cfg.Rules))
	for i, rule := range cfg.Rules {
		if j, ok := seen[rule.ID]; ok {
			return &Error{Message: fmt.Sprintf("rules[%d].id duplicates rules[%d].id %q", i, j, rule.ID)}
		}
		seen[rule.ID] = i
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	// Drop the root struct name: "AgentConfig.rules[0].id" -> "rules[0].id"
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "required", "required_unless":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
