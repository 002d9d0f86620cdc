package middleware

import (
    "errors"
    "reflect"
    "strings"

    "github.com/go-playground/validator/v10"
    "github.com/shopspring/decimal"
)

// Validator adapts validator/v10 to echo.Validator.  Field names in errors
// are taken from json tags, and decimal.Decimal fields can be checked with
// the "dpos" (> 0) and "dnonneg" (>= 0) tags.
type Validator struct {
    v *validator.Validate
}

func NewValidator() *Validator {
    v := validator.New(validator.WithRequiredStructEnabled())
    v.RegisterTagNameFunc(func(fld reflect.StructField) string {
        name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
        if name == "-" {
            return ""
        }
        if name == "" {
            name = strings.SplitN(fld.Tag.Get("param"), ",", 2)[0]
        }
        return name
    })
    // Decimals are validated through their string form so the struct is
    // never traversed.
    v.RegisterCustomTypeFunc(func(field reflect.Value) any {
        if d, ok := field.Interface().(decimal.Decimal); ok {
            return d.String()
        }
        return nil
    }, decimal.Decimal{})
    _ = v.RegisterValidation("dpos", func(fl validator.FieldLevel) bool {
        d, err := decimal.NewFromString(fl.Field().String())
        return err == nil && d.IsPositive()
    })
    _ = v.RegisterValidation("dnonneg", func(fl validator.FieldLevel) bool {
        d, err := decimal.NewFromString(fl.Field().String())
        return err == nil && !d.IsNegative()
    })
    return &Validator{v: v}
}

// Validate implements echo.Validator.
func (cv *Validator) Validate(i any) error { return cv.v.Struct(i) }

// FieldError is one entry of a validation failure response.
type FieldError struct {
    Field   string `json:"field"`
    Message string `json:"message"`
}

// ValidationDetails flattens a validator error into per-field messages.
// It returns nil when err is not a validation error.
func ValidationDetails(err error) []FieldError {
    var ves validator.ValidationErrors
    if !errors.As(err, &ves) {
        return nil
    }
    out := make([]FieldError, 0, len(ves))
    for _, e := range ves {
        out = append(out, FieldError{Field: e.Field(), Message: validationMessage(e)})
    }
    return out
}

func validationMessage(e validator.FieldError) string {
    switch e.Tag() {
    case "required":
        return "This field is required"
    case "min":
        if e.Kind() == reflect.String {
            return "Must be at least " + e.Param() + " characters"
        }
        return "Must be at least " + e.Param()
    case "max":
        if e.Kind() == reflect.String {
            return "Must be at most " + e.Param() + " characters"
        }
        return "Must be at most " + e.Param()
    case "oneof":
        return "Must be one of: " + e.Param()
    case "gt":
        return "Must be greater than " + e.Param()
    case "gte":
        return "Must be greater than or equal to " + e.Param()
    case "dpos":
        return "Must be greater than zero"
    case "dnonneg":
        return "Must not be negative"
    case "datetime":
        return "Must be a date in " + e.Param() + " format"
    default:
        return "Invalid value"
    }
}
