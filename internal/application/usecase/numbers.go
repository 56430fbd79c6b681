package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jhoicas/apurement-api/internal/application/dto"
	"github.com/jhoicas/apurement-api/internal/domain"
)

var sixDigits = regexp.MustCompile(`^\d{6}$`)

// NormalizeNumber normaliza un número de declaración a prefijo + 6 dígitos.
// Acepta "250001", "sa250001" o " SA250001 ".
func NormalizeNumber(prefix, input string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(input))
	if trimmed == "" {
		return "", domain.NewValidationError(fmt.Sprintf("número %s obligatorio", prefix))
	}
	trimmed = strings.TrimPrefix(trimmed, prefix)
	if !sixDigits.MatchString(trimmed) {
		return "", domain.NewValidationError(fmt.Sprintf(
			"el número %s debe contener 6 dígitos (ej: 250001)", prefix))
	}
	return prefix + trimmed, nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, value)
	if err != nil {
		return time.Time{}, domain.NewValidationError(fmt.Sprintf("%s inválida: %q (formato yyyy-mm-dd)", field, value))
	}
	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dto.DateLayout)
}
