package http

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/apurement-api/internal/domain"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// validatorInstance validador compartido; los errores usan el nombre JSON del campo.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// validateStruct aplica los tags validate del DTO y devuelve un ValidationError legible.
func validateStruct(in any) error {
	err := validatorInstance().Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.NewValidationError(err.Error())
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, describe(fe))
	}
	sort.Strings(fields)
	return domain.NewValidationError("campos inválidos: " + strings.Join(fields, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " es requerido"
	case "datetime":
		return field + " debe tener formato " + fe.Param()
	case "email":
		return field + " debe ser un email válido"
	case "max", "min", "len":
		return fmt.Sprintf("%s: %s=%s", field, fe.Tag(), fe.Param())
	}
	return field + ": " + fe.Tag()
}
