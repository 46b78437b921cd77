package wellness

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrInvalidInput  = errors.New("invalid input")
	ErrForbidden     = errors.New("forbidden")
	ErrAlertNotFound = errors.New("alert not found")
)

// ValidationError es terminal: el cliente debe corregir el valor antes de reintentar.
type ValidationError struct {
	Metric MetricType
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ValidateValue aplica las cotas de plausibilidad de cada métrica.
func ValidateValue(metric MetricType, value float64) error {
	if _, ok := ParseMetricType(string(metric)); !ok {
		return &ValidationError{Metric: metric, Reason: fmt.Sprintf("unknown metric type %q", metric)}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return &ValidationError{Metric: metric, Reason: "value must be a finite number"}
	}
	if value <= 0 {
		return &ValidationError{Metric: metric, Reason: "value must be greater than zero"}
	}
	if bound := metric.UpperBound(); value > bound {
		return &ValidationError{
			Metric: metric,
			Reason: fmt.Sprintf("%s exceeds plausible bound (%g %s)", metric, bound, metric.Unit()),
		}
	}
	return nil
}
