package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"quiz-ai/internal/domain"
)

var validULID = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)

// Validator provides request validation functionality
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	validate := validator.New()

	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	// Report JSON or query names so errors match what the client sent.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	return &Validator{validate: validate}
}

// Validate checks the struct tags of req. It returns domain.ValidationErrors
// or nil.
func (v *Validator) Validate(req interface{}) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.NewInternalError("request validation failed", err)
	}

	errs := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, toValidationError(fe))
	}
	return errs
}

func toValidationError(fe validator.FieldError) domain.ValidationError {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return domain.NewMissingFieldError(field)
	case "min", "max", "gte", "lte":
		return domain.ValidationError{
			Code:    domain.CodeOutOfRange,
			Field:   field,
			Message: rangeMessage(fe),
			Value:   fe.Value(),
		}
	case "oneof":
		return domain.ValidationError{
			Code:    domain.CodeInvalidFormat,
			Field:   field,
			Message: fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")),
			Value:   fe.Value(),
		}
	case "email":
		return domain.ValidationError{
			Code:    domain.CodeInvalidFormat,
			Field:   field,
			Message: fmt.Sprintf("%s must be a valid email address", field),
			Value:   fe.Value(),
		}
	default:
		return domain.NewInvalidFormatError(field, fe.Value())
	}
}

func rangeMessage(fe validator.FieldError) string {
	bound := "at least"
	if fe.Tag() == "max" || fe.Tag() == "lte" {
		bound = "at most"
	}
	if fe.Kind() == reflect.String {
		return fmt.Sprintf("%s must be %s %s characters", fe.Field(), bound, fe.Param())
	}
	return fmt.Sprintf("%s must be %s %s", fe.Field(), bound, fe.Param())
}

// ValidateQuizID checks that id looks like a ULID.
func (v *Validator) ValidateQuizID(id string) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if strings.TrimSpace(id) == "" {
		errs = append(errs, domain.NewMissingFieldError("id"))
	} else if !IsValidULID(id) {
		errs = append(errs, domain.NewInvalidFormatError("id", id))
	}
	return errs
}

// IsValidULID checks if the string is a valid ULID format
func IsValidULID(s string) bool {
	return validULID.MatchString(s)
}
