package handler

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/BrandishReveal_Go/internal/domain"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

var (
	validate     *Validator
	validateOnce sync.Once
)

// InitValidator initializes the global validator
func InitValidator() {
	validateOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("mode", validateMode)
		_ = v.RegisterValidation("entryid", validateEntryID)
		validate = &Validator{validate: v}
	})
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	InitValidator()
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError formats validation errors into a user-friendly map.
// Keys are the lower-cased field names, so struct names do not leak.
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "mode":
			errs[field] = "Must be one of grid, reel, wheel, digit"
		case "entryid":
			errs[field] = "Contains invalid characters"
		case "len":
			errs[field] = fmt.Sprintf("Must have exactly %s elements", e.Param())
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

func validateMode(fl validator.FieldLevel) bool {
	_, err := domain.ParseMode(fl.Field().String())
	return err == nil
}

// validateEntryID rejects control characters in pool entry ids
func validateEntryID(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), func(r rune) bool {
		return r < 0x20 || r == 0x7f
	})
}
