// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"math"

	"github.com/iwvelando/finance-flags/pkg/constants"
)

// ValidateThreshold checks that a flag threshold is a positive, finite number.
func ValidateThreshold(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return fmt.Errorf("%s must be a positive number, got %v", name, value)
	}
	return nil
}

// ThresholdWarning describes a threshold that differs from its standard
// value, or returns "" when it matches.
func ThresholdWarning(label string, value, standard float64) string {
	if value == standard {
		return ""
	}
	return fmt.Sprintf("%s threshold %v differs from the standard %v", label, value, standard)
}

// EvaluationValidator checks the evaluation section of the configuration.
type EvaluationValidator struct {
	MinRevenue        float64
	MaxBorrowingRatio float64
	MinISCR           float64
	MissingData       string
}

// Validate returns the first invalid setting.
func (ev *EvaluationValidator) Validate() error {
	if err := ValidateMissingDataPolicy(ev.MissingData); err != nil {
		return err
	}
	if err := ValidateThreshold("evaluation.minRevenue", ev.MinRevenue); err != nil {
		return err
	}
	if err := ValidateThreshold("evaluation.maxBorrowingRatio", ev.MaxBorrowingRatio); err != nil {
		return err
	}
	return ValidateThreshold("evaluation.minISCR", ev.MinISCR)
}

// ValidateAll returns warnings for settings that make flags incomparable
// with those produced by the standard evaluation.
func (ev *EvaluationValidator) ValidateAll() []string {
	var warnings []string

	checks := []struct {
		label    string
		value    float64
		standard float64
	}{
		{"revenue", ev.MinRevenue, constants.MinRevenue},
		{"borrowing ratio", ev.MaxBorrowingRatio, constants.MaxBorrowingRatio},
		{"ISCR", ev.MinISCR, constants.MinISCR},
	}
	for _, check := range checks {
		if warning := ThresholdWarning(check.label, check.value, check.standard); warning != "" {
			warnings = append(warnings, warning)
		}
	}

	if ev.MissingData == constants.MissingDataFlag {
		warnings = append(warnings, "missing data is reported as WHITE; flags are not comparable with the sentinel policy")
	}

	return warnings
}
