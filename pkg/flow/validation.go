package flow

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// getValidator returns the shared validator with the custom rules registered
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("notblank", validateNotBlank)
		_ = v.RegisterValidation("hexcolor6", validateHexColor)

		// Money and dates are checked through their plain values
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.InexactFloat64()
			}
			return nil
		}, decimal.Decimal{})
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(Date); ok {
				return d.String()
			}
			return nil
		}, Date{})

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		validate = v
	})
	return validate
}

// Validate checks params against their validate tags. The result is nil or a
// *ValidationErrors whose messages are ready to show next to a form field.
func Validate(params interface{}) error {
	err := getValidator().Struct(params)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	rt := reflect.TypeOf(params)
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}

	out := &ValidationErrors{}
	for _, fe := range fieldErrs {
		out.Errors = append(out.Errors, &ValidationError{
			Field:   fe.Field(),
			Message: fieldMessage(fe, fieldLabel(rt, fe.StructField())),
			Value:   fe.Value(),
		})
	}
	return out
}

// ValidateProfilePictureURL accepts an empty value or an absolute http(s) URL
func ValidateProfilePictureURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &ValidationErrors{Errors: []*ValidationError{{
			Field:   "profilePictureUrl",
			Message: "Please enter a valid URL",
			Value:   raw,
		}}}
	}
	return nil
}

func fieldMessage(fe validator.FieldError, label string) string {
	switch fe.Tag() {
	case "required", "notblank":
		return label + " is required"
	case "gt":
		return label + " must be a valid positive number"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "eqfield":
		return "Passwords don't match"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "hexcolor6":
		return "Color must be a hex value like #3B82F6"
	case "email":
		return label + " must be a valid email address"
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, fe.Tag())
	}
}

// fieldLabel prefers the label tag and falls back to the split field name
func fieldLabel(rt reflect.Type, name string) string {
	if rt.Kind() == reflect.Struct {
		if f, ok := rt.FieldByName(name); ok {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
		}
	}

	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Custom validation functions

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorPattern.MatchString(fl.Field().String())
}
