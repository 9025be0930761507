package strategy

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Rana718/Forge/internal/value"
)

// Sequential emits a counter: start, start+step, ... with an optional
// fmt-style template, e.g. "CUST%06d".
type Sequential struct {
	start   int64
	step    int64
	format  string
	current int64
}

func newSequential(params map[string]interface{}) (Strategy, error) {
	s := &Sequential{
		start:  int64(intParam(params, "start", 1)),
		step:   int64(intParam(params, "step", 1)),
		format: strParam(params, "format", ""),
	}
	if s.step == 0 {
		return nil, fmt.Errorf("step must not be zero")
	}
	s.current = s.start
	return s, nil
}

func (s *Sequential) Name() string { return "sequential" }

func (s *Sequential) Generate(ctx *Context) (interface{}, error) {
	v := s.current
	s.current += s.step
	if s.format != "" {
		return fmt.Sprintf(s.format, v), nil
	}
	return v, nil
}

func (s *Sequential) Reset() { s.current = s.start }

// RandomRange draws uniformly from [min_value, max_value], as integers or
// as decimals rounded to a precision.
type RandomRange struct {
	min       float64
	max       float64
	dataType  string
	precision int
}

func newRandomRange(params map[string]interface{}) (Strategy, error) {
	r := &RandomRange{
		min:       floatParam(params, "min_value", 0),
		max:       floatParam(params, "max_value", 100),
		dataType:  strParam(params, "data_type", "integer"),
		precision: intParam(params, "precision", 2),
	}
	if r.min > r.max {
		return nil, fmt.Errorf("min_value %v exceeds max_value %v", r.min, r.max)
	}
	switch r.dataType {
	case "integer", "int", "decimal", "float":
	default:
		return nil, fmt.Errorf("unknown data_type '%s'", r.dataType)
	}
	return r, nil
}

func (r *RandomRange) Name() string { return "random_range" }

func (r *RandomRange) Generate(ctx *Context) (interface{}, error) {
	if r.dataType == "integer" || r.dataType == "int" {
		lo, hi := int64(r.min), int64(r.max)
		return lo + ctx.Rng.Int63n(hi-lo+1), nil
	}
	v := r.min + ctx.Rng.Float64()*(r.max-r.min)
	return value.Round(v, r.precision), nil
}

func (r *RandomRange) Reset() {}

// WeightedChoice picks from a fixed set of values with relative weights.
// Missing weights mean a uniform pick.
type WeightedChoice struct {
	choices []interface{}
	cum     []float64
	total   float64
}

func newWeightedChoice(params map[string]interface{}) (Strategy, error) {
	choices := listParam(params, "choices")
	if len(choices) == 0 {
		return nil, fmt.Errorf("choices must not be empty")
	}
	rawWeights := listParam(params, "weights")

	w := &WeightedChoice{choices: choices}
	if len(rawWeights) == 0 {
		for range choices {
			w.total++
			w.cum = append(w.cum, w.total)
		}
		return w, nil
	}
	if len(rawWeights) != len(choices) {
		return nil, fmt.Errorf("choices and weights must be the same length (%d vs %d)",
			len(choices), len(rawWeights))
	}
	for i, rw := range rawWeights {
		f, ok := value.Float(rw)
		if !ok || f < 0 {
			return nil, fmt.Errorf("weight %d is not a non-negative number: %v", i, rw)
		}
		w.total += f
		w.cum = append(w.cum, w.total)
	}
	if w.total <= 0 {
		return nil, fmt.Errorf("weights must sum to a positive number")
	}
	return w, nil
}

func (w *WeightedChoice) Name() string { return "weighted_choice" }

func (w *WeightedChoice) Generate(ctx *Context) (interface{}, error) {
	r := ctx.Rng.Float64() * w.total
	for i, c := range w.cum {
		if r < c {
			return w.choices[i], nil
		}
	}
	return w.choices[len(w.choices)-1], nil
}

func (w *WeightedChoice) Reset() {}

// condition is one branch of a Conditional strategy.
type condition struct {
	field    string
	operator string
	value    interface{}
	result   interface{}
}

// Conditional returns the result of the first matching condition against the
// row built so far, or the default when nothing matches.
type Conditional struct {
	conditions []condition
	def        interface{}
}

func newConditional(params map[string]interface{}) (Strategy, error) {
	c := &Conditional{def: params["default"]}
	for i, raw := range listParam(params, "conditions") {
		m, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("condition %d is not a map", i)
		}
		cond := condition{
			field:    strParam(m, "field", ""),
			operator: strParam(m, "operator", "eq"),
			value:    m["value"],
			result:   m["result"],
		}
		if cond.field == "" {
			return nil, fmt.Errorf("condition %d is missing a field", i)
		}
		switch cond.operator {
		case "eq", "ne", "gt", "lt", "gte", "lte", "in", "not_in":
		default:
			return nil, fmt.Errorf("unknown operator '%s' in condition %d", cond.operator, i)
		}
		c.conditions = append(c.conditions, cond)
	}
	return c, nil
}

func (c *Conditional) Name() string { return "conditional" }

func (c *Conditional) Generate(ctx *Context) (interface{}, error) {
	for _, cond := range c.conditions {
		if matches(cond, ctx.Row[cond.field]) {
			return cond.result, nil
		}
	}
	return c.def, nil
}

func (c *Conditional) Reset() {}

func matches(cond condition, actual interface{}) bool {
	switch cond.operator {
	case "eq":
		return value.Equal(actual, cond.value)
	case "ne":
		return !value.Equal(actual, cond.value)
	case "in":
		return containsValue(cond.value, actual)
	case "not_in":
		return !containsValue(cond.value, actual)
	default:
		ord, ok := value.Compare(actual, cond.value)
		if !ok {
			return false
		}
		switch cond.operator {
		case "gt":
			return ord > 0
		case "lt":
			return ord < 0
		case "gte":
			return ord >= 0
		case "lte":
			return ord <= 0
		}
		return false
	}
}

func containsValue(set, needle interface{}) bool {
	list, ok := set.([]interface{})
	if !ok {
		return false
	}
	for _, item := range list {
		if value.Equal(item, needle) {
			return true
		}
	}
	return false
}

// DependentField derives a value from another field of the same row, either
// by lookup table or by arithmetic on the source value.
type DependentField struct {
	source      string
	mapping     map[string]interface{}
	calculation string
	factor      float64
	precision   int
	def         interface{}
}

func newDependentField(params map[string]interface{}) (Strategy, error) {
	d := &DependentField{
		source:      strParam(params, "source_field", ""),
		mapping:     mapParam(params, "mapping"),
		calculation: strParam(params, "calculation", ""),
		factor:      floatParam(params, "factor", 1),
		precision:   intParam(params, "precision", 2),
		def:         params["default"],
	}
	if d.source == "" {
		return nil, fmt.Errorf("source_field is required")
	}
	switch d.calculation {
	case "", "multiply", "divide", "add", "subtract", "percentage":
	default:
		return nil, fmt.Errorf("unknown calculation '%s'", d.calculation)
	}
	if d.calculation == "divide" && d.factor == 0 {
		return nil, fmt.Errorf("factor must not be zero for divide")
	}
	return d, nil
}

func (d *DependentField) Name() string { return "dependent_field" }

func (d *DependentField) Generate(ctx *Context) (interface{}, error) {
	src, ok := ctx.Row[d.source]
	if !ok || value.IsMissing(src) {
		return d.def, nil
	}
	if d.mapping != nil {
		if result, found := d.mapping[value.String(src)]; found {
			return result, nil
		}
		return d.def, nil
	}
	if d.calculation == "" {
		return d.def, nil
	}
	f, ok := value.Float(src)
	if !ok {
		return d.def, nil
	}
	var out float64
	switch d.calculation {
	case "multiply":
		out = f * d.factor
	case "divide":
		out = f / d.factor
	case "add":
		out = f + d.factor
	case "subtract":
		out = f - d.factor
	case "percentage":
		out = f * d.factor / 100
	}
	return value.Round(out, d.precision), nil
}

func (d *DependentField) Reset() {}

// DateRange emits dates between start_date and end_date, either uniformly
// random or stepping forward step_days per row. The sequential cursor wraps
// back to the start once it would pass the end.
type DateRange struct {
	start      time.Time
	end        time.Time
	layout     string
	sequential bool
	stepDays   int
	spanDays   int
	cursor     int
}

func newDateRange(params map[string]interface{}) (Strategy, error) {
	start, err := parseDateParam(strParam(params, "start_date", "today"))
	if err != nil {
		return nil, fmt.Errorf("bad start_date: %w", err)
	}
	end, err := parseDateParam(strParam(params, "end_date", "today"))
	if err != nil {
		return nil, fmt.Errorf("bad end_date: %w", err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end_date %s is before start_date %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	d := &DateRange{
		start:      start,
		end:        end,
		layout:     strParam(params, "date_format", "2006-01-02"),
		sequential: boolParam(params, "sequential", false),
		stepDays:   intParam(params, "step_days", 1),
	}
	if d.stepDays <= 0 {
		return nil, fmt.Errorf("step_days must be positive")
	}
	d.spanDays = int(end.Sub(start).Hours()/24) + 1
	return d, nil
}

func parseDateParam(s string) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "now", "today":
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, ok := value.Time(s)
	if !ok {
		return time.Time{}, fmt.Errorf("cannot parse date '%s'", s)
	}
	return t, nil
}

func (d *DateRange) Name() string { return "date_range" }

func (d *DateRange) Generate(ctx *Context) (interface{}, error) {
	var offset int
	if d.sequential {
		offset = (d.cursor * d.stepDays) % d.spanDays
		d.cursor++
	} else {
		offset = ctx.Rng.Intn(d.spanDays)
	}
	return d.start.AddDate(0, 0, offset).Format(d.layout), nil
}

func (d *DateRange) Reset() { d.cursor = 0 }

// Distribution samples from a statistical distribution, clamped to optional
// bounds and rounded.
type Distribution struct {
	distType   string
	mean       float64
	stdDev     float64
	min        *float64
	max        *float64
	lambda     float64
	roundToInt bool
	precision  int
}

func newDistribution(params map[string]interface{}) (Strategy, error) {
	d := &Distribution{
		distType:   strParam(params, "distribution_type", "normal"),
		mean:       floatParam(params, "mean", 0),
		stdDev:     floatParam(params, "std_dev", 1),
		min:        optFloatParam(params, "min_value"),
		max:        optFloatParam(params, "max_value"),
		lambda:     floatParam(params, "lambda", 1),
		roundToInt: boolParam(params, "round_to_int", false),
		precision:  intParam(params, "precision", 2),
	}
	switch d.distType {
	case "normal", "uniform", "exponential", "poisson":
	default:
		return nil, fmt.Errorf("unknown distribution_type '%s'", d.distType)
	}
	if d.lambda <= 0 {
		return nil, fmt.Errorf("lambda must be positive")
	}
	if d.stdDev < 0 {
		return nil, fmt.Errorf("std_dev must not be negative")
	}
	return d, nil
}

func (d *Distribution) Name() string { return "distribution" }

func (d *Distribution) Generate(ctx *Context) (interface{}, error) {
	var v float64
	switch d.distType {
	case "normal":
		v = d.mean + ctx.Rng.NormFloat64()*d.stdDev
	case "uniform":
		lo, hi := 0.0, 1.0
		if d.min != nil {
			lo = *d.min
		}
		if d.max != nil {
			hi = *d.max
		}
		v = lo + ctx.Rng.Float64()*(hi-lo)
	case "exponential":
		v = ctx.Rng.ExpFloat64() / d.lambda
	case "poisson":
		// Exponential approximation with mean lambda.
		v = -math.Log(1-ctx.Rng.Float64()) * d.lambda
		if v < 0 {
			v = 0
		}
	}
	if d.min != nil && v < *d.min {
		v = *d.min
	}
	if d.max != nil && v > *d.max {
		v = *d.max
	}
	if d.roundToInt || d.distType == "poisson" {
		return int64(math.Round(v)), nil
	}
	return value.Round(v, d.precision), nil
}

func (d *Distribution) Reset() {}
