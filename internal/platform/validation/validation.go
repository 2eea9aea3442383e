package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"medivault/internal/platform/apperr"

	"gopkg.in/go-playground/validator.v9"
)

var patientCode = regexp.MustCompile(`^MV[0-9]{8}$`)

// std es seguro para uso concurrente; validator cachea la metadata de
// cada struct la primera vez que lo ve.
var std = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Los mensajes usan el nombre json del campo.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("notblank", notBlank)
	_ = v.RegisterValidation("patient_code", func(fl validator.FieldLevel) bool {
		return patientCode.MatchString(fl.Field().String())
	})
	return v
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Struct valida s con sus tags `validate` y traduce el resultado a
// apperr.ErrValidation.
func Struct(s any) error {
	err := std.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation("%v", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return apperr.Validation("%s", strings.Join(msgs, "; "))
}

// IsPatientCode indica si s tiene el formato MV + 8 dígitos.
func IsPatientCode(s string) bool {
	return patientCode.MatchString(strings.TrimSpace(s))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "min":
		return field + " must be at least " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param()
	case "oneof":
		return field + " must be one of [" + fe.Param() + "]"
	case "patient_code":
		return field + " must look like MV12345678"
	case "email":
		return field + " must be a valid email"
	default:
		return field + " is invalid (" + fe.Tag() + ")"
	}
}
