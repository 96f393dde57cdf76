// Package validator plugs go-playground/validator into echo and reports
// failures as VALIDATION_FAILED with one entry per field.
package validator

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// CustomValidator implements echo.Validator.
type CustomValidator struct {
	validate *validator.Validate
}

// New builds a validator that names fields after their json tag and knows
// the storefront tags "icon" and "trimmin".
func New() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("icon", validateIcon)
	_ = v.RegisterValidation("trimmin", validateTrimmedMin)

	return &CustomValidator{validate: v}
}

// Validate implements echo.Validator.
func (cv *CustomValidator) Validate(i any) error {
	err := cv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return errors.WithStack(err)
	}

	fields := make([]domainerrors.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, domainerrors.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}

	return domainerrors.NewValidationError(fields...)
}

func validateIcon(fl validator.FieldLevel) bool {
	return entity.IsValidIcon(fl.Field().String())
}

func validateTrimmedMin(fl validator.FieldLevel) bool {
	minLen, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}

	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= minLen
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Este campo es obligatorio"
	case "email":
		return "Debe ser un correo válido"
	case "min", "trimmin":
		return fmt.Sprintf("Debe tener al menos %s caracteres", fe.Param())
	case "max":
		return fmt.Sprintf("Debe tener como máximo %s caracteres", fe.Param())
	case "gte":
		return fmt.Sprintf("Debe ser mayor o igual a %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Debe ser uno de: %s", fe.Param())
	case "icon":
		return "Debe ser un icono de Bootstrap Icons (bi-*)"
	default:
		return fmt.Sprintf("Valor inválido (%s)", fe.Tag())
	}
}
