package tracker

import (
	"math"
	"strings"
	"unicode"

	"github.com/tendant/carbon-tracker/pkg/domain"
)

const maxNameLength = 200

// validateName trims and strips control characters from an organization
// name and rejects it if nothing is left.
func validateName(name string) (string, error) {
	name = strings.TrimSpace(removeControlChars(name))
	if name == "" {
		return "", domain.NewValidationError("name", "name is required")
	}
	if len([]rune(name)) > maxNameLength {
		return "", domain.NewValidationError("name", "name must be at most 200 characters long")
	}
	return name, nil
}

func validateMetrics(m domain.Metrics) (domain.Metrics, error) {
	if m.Emissions != nil && (math.IsNaN(*m.Emissions) || *m.Emissions < 0) {
		return m, domain.NewValidationError("emissions", "emissions must be a non-negative number")
	}
	if m.Efficiency != nil && (math.IsNaN(*m.Efficiency) || *m.Efficiency < 0) {
		return m, domain.NewValidationError("efficiency", "efficiency must be a non-negative number")
	}
	if m.Recommendations != nil {
		r := strings.TrimSpace(removeControlChars(*m.Recommendations))
		m.Recommendations = &r
	}
	return m, nil
}

// removeControlChars removes control characters except newline and tab.
func removeControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
