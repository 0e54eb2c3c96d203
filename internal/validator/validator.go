// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"errors"
	"regexp"
	"time"

	"spendtable/internal/templates"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// DateLayout is the plain calendar-date form accepted wherever a date is expected.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned by ParseDate for anything it cannot read.
var ErrInvalidDate = errors.New("date must be YYYY-MM-DD or RFC3339")

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("category_template", validateCategoryTemplate)
		_ = v.RegisterValidation("iso_date", validateISODate)
	}
}

// ParseDate reads a YYYY-MM-DD date (midnight UTC) or an RFC3339 timestamp
// (converted to UTC).
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, ErrInvalidDate
}

// IsDateOnly reports whether s is in the plain YYYY-MM-DD form.
func IsDateOnly(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateCategoryTemplate(fl validator.FieldLevel) bool {
	_, ok := templates.Lookup(fl.Field().String())
	return ok
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}
