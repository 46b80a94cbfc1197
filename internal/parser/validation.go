package parser

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RowValidator checks parsed readings against the Reading struct tags.
type RowValidator struct {
	validate *validator.Validate
}

// NewRowValidator creates a validator with the "finite" rule registered.
func NewRowValidator() *RowValidator {
	v := validator.New()
	v.RegisterValidation("finite", isFinite)

	// Report json names ("date", "bloodIron") rather than Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &RowValidator{validate: v}
}

func isFinite(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	return false
}

// Check returns a *ParseError describing the first rule r violates, or nil.
func (v *RowValidator) Check(r Reading) error {
	err := v.validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ParseError{Reason: "validation failed", Err: err}
	}

	fe := verrs[0]
	return &ParseError{
		Field:  fe.Field(),
		Value:  fmt.Sprint(fe.Value()),
		Reason: reasonFor(fe),
		Err:    err,
	}
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "date label is empty"
	case "max":
		return fmt.Sprintf("date label longer than %s characters", fe.Param())
	case "finite":
		return "reading is not a finite number"
	case "gte":
		return "reading is negative"
	}
	return fmt.Sprintf("failed %q rule", fe.Tag())
}
