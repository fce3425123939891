package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"vanity/pkg/model"
	"vanity/pkg/vanity"
)

const tagVanityPhone = "vanity_phone"

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"-"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(v))
}

// Details renders the errors as a field to message map for error responses.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, e := range v {
		details[e.Field] = e.Message
	}
	return details
}

type VanityValidator struct {
	validate *validator.Validate
}

func NewVanityValidator() *VanityValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation(tagVanityPhone, validateVanityPhone); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tagVanityPhone, err))
	}
	return &VanityValidator{validate: v}
}

func (v *VanityValidator) ValidateRequest(req *model.GenerateRequest) error {
	return v.validateStruct(req)
}

func (v *VanityValidator) ValidateRecord(record *model.VanityRecord) error {
	if err := v.validateStruct(record); err != nil {
		return err
	}
	if len(record.Selected) != len(record.Phonetics) {
		return ValidationErrors{{Field: "phonetics", Tag: "eqfield", Message: "must have one entry per selected number"}}
	}
	return nil
}

// PhoneFormatOnly reports whether the only failure is an unusable phone
// number, which callers surface as an invalid phone format.
func (v ValidationErrors) PhoneFormatOnly() bool {
	return len(v) == 1 && v[0].Tag == tagVanityPhone
}

func (v *VanityValidator) validateStruct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func validateVanityPhone(fl validator.FieldLevel) bool {
	_, err := vanity.Normalize(fl.Field().String())
	return err == nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, 0, len(errs))
	for _, err := range errs {
		out = append(out, ValidationError{
			Field:   err.Field(),
			Tag:     err.Tag(),
			Message: message(err),
		})
	}
	return out
}

func message(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case tagVanityPhone:
		return "must contain 10 digits, or 11 digits starting with 1"
	case "e164":
		return "must be an E.164 phone number"
	case "max":
		return fmt.Sprintf("must be at most %s long", err.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s long", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", err.Param())
	default:
		return fmt.Sprintf("failed %q validation", err.Tag())
	}
}
