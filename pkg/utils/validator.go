package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	appErrors "rideshare-backend/pkg/errors"
)

const (
	RoleDriver = "driver"
	RoleClient = "client"
)

var (
	validate   *validator.Validate
	phoneRe    = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	timeLayout = []string{"15:04:05", "15:04"}

	// Fixed path segments under /user that would shadow a profile lookup.
	reservedUsernames = map[string]struct{}{
		"comments": {}, "delete": {}, "email": {}, "history": {}, "id": {},
		"images": {}, "logout": {}, "mycomments": {}, "myreservation": {},
		"register": {}, "trajet": {}, "update": {},
	}
)

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation("user_role", validateUserRole)
	_ = validate.RegisterValidation("phone", validatePhone)
	_ = validate.RegisterValidation("timeofday", validateTimeOfDay)
	_ = validate.RegisterValidation("username", validateUsername)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// FieldErrors flattens validator errors into json-field -> message.
func FieldErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	details := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		details[fe.Field()] = describeFieldError(fe)
	}
	return details
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "user_role":
		return "must be one of: driver, client"
	case "phone":
		return "enter a valid phone number"
	case "timeofday":
		return "must be a time of day formatted HH:MM or HH:MM:SS"
	case "username":
		return "this username is reserved or contains '/'"
	case "excludesall":
		return fmt.Sprintf("must not contain any of: %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

func validateUserRole(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	return role == RoleDriver || role == RoleClient
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRe.MatchString(fl.Field().String())
}

func validateUsername(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if strings.Contains(name, "/") {
		return false
	}
	_, reserved := reservedUsernames[strings.ToLower(name)]
	return !reserved
}

func validateTimeOfDay(fl validator.FieldLevel) bool {
	_, err := NormalizeTimeOfDay(fl.Field().String())
	return err == nil
}

// NormalizeTimeOfDay parses HH:MM or HH:MM:SS and returns HH:MM:SS.
func NormalizeTimeOfDay(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayout {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", fmt.Errorf("invalid time of day %q", value)
}

// ValidationError wraps validator output as a VALIDATION_ERROR with field details.
func ValidationError(err error) *appErrors.AppError {
	return appErrors.NewValidationError("Invalid input", FieldErrors(err), err)
}
