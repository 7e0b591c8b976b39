package validator

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/hospital-scheduling/pkg/errors"
)

var messages = map[string]string{
	"required": "This field is required.",
	"email":    "Enter a valid email address.",
	"oneof":    "Select a valid choice.",
}

// JSONTagName reports struct fields by their json name.
func JSONTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

// EnumFold returns a validator accepting any of values, case-insensitively.
// Empty strings pass; combine with required when the field is mandatory.
func EnumFold(values ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		for _, v := range values {
			if strings.EqualFold(s, v) {
				return true
			}
		}
		return false
	}
}

// Configure installs the json tag name function and the given custom tags.
func Configure(v *validator.Validate, custom map[string]validator.Func) error {
	v.RegisterTagNameFunc(JSONTagName)
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %q validator: %w", tag, err)
		}
	}
	return nil
}

// Translate converts a binding error into an AppError carrying field errors.
func Translate(err error) *errors.AppError {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		fields := make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = append(fields[fe.Field()], message(fe))
		}
		return errors.Validation(fields)
	}

	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) && typeErr.Field != "" {
		return errors.FieldError(typeErr.Field, fmt.Sprintf("Expected %s.", typeErr.Type.String()))
	}

	var timeErr *time.ParseError
	if stderrors.As(err, &timeErr) {
		return errors.FieldError(errors.NonFieldErrors, "Invalid date or datetime format.")
	}

	return errors.BadRequest("malformed request body", err)
}

func message(fe validator.FieldError) string {
	if msg, ok := messages[fe.Tag()]; ok {
		return msg
	}
	if strings.HasSuffix(fe.Tag(), "|email") {
		return messages["email"]
	}
	switch fe.Tag() {
	case "min", "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "procedure_status", "gender":
		return fmt.Sprintf("%q is not a valid choice.", fe.Value())
	}
	return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
}
