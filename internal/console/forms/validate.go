package forms

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/vova4o/labconsole/internal/console/models"
)

// ValidationError rejects a draft before any network call
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Lookup is the read side of a fetched collection
type Lookup[T models.Entity] interface {
	Any(pred func(T) bool, excludeID int) bool
	Items() []T
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})
	return v
}

var tagMessages = map[string]string{
	"required": "%s is required",
	"len":      "%s must be exactly %s digits",
	"number":   "%s must contain digits only",
	"numeric":  "%s must be a number",
	"gte":      "%s must be at least %s",
	"lte":      "%s must be at most %s",
	"gt":       "%s must be greater than %s",
	"email":    "%s must be a valid email address",
	"hexcolor": "%s must be a color such as #005FA1",
	"oneof":    "%s must be one of %s",
}

// checkStruct runs the validate tags of a draft and reports the first failure
func checkStruct(d interface{}) error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	format, ok := tagMessages[fe.Tag()]
	if !ok {
		return invalid(fe.Field(), "%s is invalid", fe.Field())
	}
	if strings.Count(format, "%s") == 2 {
		return invalid(fe.Field(), format, fe.Field(), fe.Param())
	}
	return invalid(fe.Field(), format, fe.Field())
}

// parseNumber parses optional numeric text, empty text is zero
func parseNumber(field, text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	n, err := cast.ToFloat64E(text)
	if err != nil {
		return 0, invalid(field, "%s must be a number", field)
	}
	return n, nil
}

func parsePercent(field, text string) (float64, error) {
	n, err := parseNumber(field, text)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > 100 {
		return 0, invalid(field, "%s must be between 0 and 100", field)
	}
	return n, nil
}

func parseRank(field, text string) (int, error) {
	digits := strings.TrimLeft(strings.TrimSpace(text), "0")
	n, err := cast.ToIntE(digits)
	if err != nil || n <= 0 || cast.ToString(n) != digits {
		return 0, invalid(field, "%s must be a positive whole number", field)
	}
	return n, nil
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
