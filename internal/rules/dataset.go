package rules

import (
	"fmt"
	"math"

	"github.com/Rana718/Forge/internal/value"
)

// DistributionRule checks dataset-level shape: the observed mean and
// standard deviation of a numeric field must sit within a tolerance of the
// expected ones. Findings are dataset-level (row -1) warnings.
type DistributionRule struct {
	Field          string
	ExpectedMean   float64
	ExpectedStdDev float64
	Tolerance      float64
	Severity       Severity
}

// NewDistributionRule builds the rule; a zero tolerance falls back to 10%.
func NewDistributionRule(field string, expectedMean, expectedStdDev, tolerance float64) *DistributionRule {
	if tolerance <= 0 {
		tolerance = 0.1
	}
	return &DistributionRule{
		Field:          field,
		ExpectedMean:   expectedMean,
		ExpectedStdDev: expectedStdDev,
		Tolerance:      tolerance,
		Severity:       SeverityWarning,
	}
}

func (r *DistributionRule) Name() string { return "distribution" }

func (r *DistributionRule) Validate(rows []map[string]interface{}) []Violation {
	values := numericColumn(rows, r.Field)
	if len(values) < 2 {
		return nil
	}

	var out []Violation
	mean := meanOf(values)
	stdDev := stdDevOf(values, mean)

	if relativeDeviation(mean, r.ExpectedMean) > r.Tolerance {
		out = append(out, Violation{
			Rule: r.Name(), Field: r.Field, Row: -1,
			Message: fmt.Sprintf("mean of field '%s' is %.4f, expected %.4f (tolerance %.0f%%)",
				r.Field, mean, r.ExpectedMean, r.Tolerance*100),
			Severity: r.Severity,
		})
	}
	if relativeDeviation(stdDev, r.ExpectedStdDev) > r.Tolerance {
		out = append(out, Violation{
			Rule: r.Name(), Field: r.Field, Row: -1,
			Message: fmt.Sprintf("standard deviation of field '%s' is %.4f, expected %.4f (tolerance %.0f%%)",
				r.Field, stdDev, r.ExpectedStdDev, r.Tolerance*100),
			Severity: r.Severity,
		})
	}
	return out
}

// CorrelationRule checks the Pearson correlation between two numeric fields
// against a declared direction: positive expects r >= 0.5, negative expects
// r <= -0.5, none expects |r| <= 0.3.
type CorrelationRule struct {
	FieldX   string
	FieldY   string
	Expected string
	Severity Severity
}

func NewCorrelationRule(fieldX, fieldY, expected string) (*CorrelationRule, error) {
	switch expected {
	case "positive", "negative", "none":
	default:
		return nil, fmt.Errorf("unknown expected correlation '%s' (want positive, negative or none)", expected)
	}
	return &CorrelationRule{FieldX: fieldX, FieldY: fieldY, Expected: expected, Severity: SeverityWarning}, nil
}

func (r *CorrelationRule) Name() string { return "correlation" }

func (r *CorrelationRule) Validate(rows []map[string]interface{}) []Violation {
	var xs, ys []float64
	for _, row := range rows {
		x, okX := value.Float(row[r.FieldX])
		y, okY := value.Float(row[r.FieldY])
		if okX && okY {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < 2 {
		return nil
	}
	pearson, ok := pearsonOf(xs, ys)
	if !ok {
		return nil
	}

	bad := false
	switch r.Expected {
	case "positive":
		bad = pearson < 0.5
	case "negative":
		bad = pearson > -0.5
	case "none":
		bad = math.Abs(pearson) > 0.3
	}
	if !bad {
		return nil
	}
	return []Violation{{
		Rule: r.Name(), Field: r.FieldX, Row: -1,
		Message: fmt.Sprintf("correlation between '%s' and '%s' is %.3f, expected %s",
			r.FieldX, r.FieldY, pearson, r.Expected),
		Severity: r.Severity,
	}}
}

func numericColumn(rows []map[string]interface{}, field string) []float64 {
	var out []float64
	for _, row := range rows {
		if f, ok := value.Float(row[field]); ok {
			out = append(out, f)
		}
	}
	return out
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDevOf is the sample standard deviation.
func stdDevOf(values []float64, mean float64) float64 {
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func relativeDeviation(actual, expected float64) float64 {
	if expected == 0 {
		return math.Abs(actual)
	}
	return math.Abs(actual-expected) / math.Abs(expected)
}

// pearsonOf returns false when either column is constant, where the
// coefficient is undefined.
func pearsonOf(xs, ys []float64) (float64, bool) {
	mx := meanOf(xs)
	my := meanOf(ys)
	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varX*varY), true
}
