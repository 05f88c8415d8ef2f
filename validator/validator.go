package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vortex-fintech/go-contact/contactutil"
)

const (
	minPhoneDigits = 9
	maxPhoneDigits = 15

	profilePrefix = "https://linkedin.com/in/"
)

var (
	v *validator.Validate

	profileHandle = regexp.MustCompile(`^[a-z0-9-]{1,100}$`)
)

func init() {
	v = validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	mustRegister("phone_shape", phoneShape)
	mustRegister("profile_url", profileURL)
}

func mustRegister(tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Validate checks i and returns a field -> code map, or nil when i is valid.
// Field keys use the json (or koanf) name when one is declared.
func Validate(i any) map[string]string {
	err := v.Struct(i)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return map[string]string{"_error": "validation_failed"}
	}

	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[fieldPath(e.Namespace())] = mapTagToCode(e.Tag())
	}
	return out
}

// fieldPath drops the root struct name: "Record.email" -> "email".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "koanf"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		switch name {
		case "":
			continue
		case "-":
			return ""
		default:
			return name
		}
	}
	return f.Name
}

// phoneShape accepts a normalized phone: digits with an optional leading '+'
// and '(' ')' '.' separators, holding 9-15 digits.
func phoneShape(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s != contactutil.NormalizePhone(s) {
		return false
	}

	digits := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == '(' || r == ')' || r == '.':
		default:
			return false
		}
	}
	return digits >= minPhoneDigits && digits <= maxPhoneDigits
}

// profileURL accepts only the canonical https://linkedin.com/in/<handle> form.
func profileURL(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	handle, ok := strings.CutPrefix(s, profilePrefix)
	return ok && profileHandle.MatchString(handle)
}
