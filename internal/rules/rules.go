// Package rules validates generated rows. Every rule is a stateless check
// over a full dataset that reports violations instead of failing: bad data
// is a result to inspect, not an error to crash on.
package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Rana718/Forge/internal/value"
)

// Severity ranks a violation. Only error-severity violations make a row
// count as invalid in the report.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Violation is one finding. Row is the zero-based row index, or -1 for
// dataset-level findings like a drifted distribution.
type Violation struct {
	Rule     string      `json:"rule"`
	Field    string      `json:"field,omitempty"`
	Row      int         `json:"row"`
	Value    interface{} `json:"value,omitempty"`
	Message  string      `json:"message"`
	Severity Severity    `json:"severity"`
}

// Rule checks a dataset and reports every violation it finds.
type Rule interface {
	Name() string
	Validate(rows []map[string]interface{}) []Violation
}

// formatPatterns are the named formats PatternRule accepts besides raw
// regular expressions.
var formatPatterns = map[string]*regexp.Regexp{
	"email":    regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`),
	"phone":    regexp.MustCompile(`^1[3-9]\d{9}$`),
	"id_card":  regexp.MustCompile(`^\d{17}[\dXx]$`),
	"ip":       regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`),
	"url":      regexp.MustCompile(`^https?://\S+$`),
	"date":     regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
	"time":     regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`),
	"datetime": regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}:\d{2}$`),
}

// FormatNames lists the named formats PatternRule knows, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(formatPatterns))
	for name := range formatPatterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CompletenessRule flags required fields that are null or blank.
type CompletenessRule struct {
	Fields   []string
	Severity Severity
}

func NewCompletenessRule(fields ...string) *CompletenessRule {
	return &CompletenessRule{Fields: fields, Severity: SeverityError}
}

func (r *CompletenessRule) Name() string { return "completeness" }

func (r *CompletenessRule) Validate(rows []map[string]interface{}) []Violation {
	var out []Violation
	for i, row := range rows {
		for _, field := range r.Fields {
			if value.IsMissing(row[field]) {
				out = append(out, Violation{
					Rule: r.Name(), Field: field, Row: i, Value: row[field],
					Message:  fmt.Sprintf("field '%s' is required but missing", field),
					Severity: r.Severity,
				})
			}
		}
	}
	return out
}

// UniquenessRule flags every occurrence of a value after its first, naming
// the row that introduced it. Missing values never collide.
type UniquenessRule struct {
	Fields   []string
	Severity Severity
}

func NewUniquenessRule(fields ...string) *UniquenessRule {
	return &UniquenessRule{Fields: fields, Severity: SeverityError}
}

func (r *UniquenessRule) Name() string { return "uniqueness" }

func (r *UniquenessRule) Validate(rows []map[string]interface{}) []Violation {
	var out []Violation
	for _, field := range r.Fields {
		first := make(map[string]int)
		for i, row := range rows {
			v := row[field]
			if value.IsMissing(v) {
				continue
			}
			key := value.String(v)
			if at, seen := first[key]; seen {
				out = append(out, Violation{
					Rule: r.Name(), Field: field, Row: i, Value: v,
					Message:  fmt.Sprintf("duplicate value '%v' in field '%s' (first seen at row %d)", v, field, at),
					Severity: r.Severity,
				})
				continue
			}
			first[key] = i
		}
	}
	return out
}

// RangeRule flags numeric values outside [Min, Max]; values that refuse to
// parse as numbers are out of range by definition. Nil bounds are open.
type RangeRule struct {
	Field    string
	Min      *float64
	Max      *float64
	Severity Severity
}

func NewRangeRule(field string, min, max *float64) *RangeRule {
	return &RangeRule{Field: field, Min: min, Max: max, Severity: SeverityError}
}

func (r *RangeRule) Name() string { return "range" }

func (r *RangeRule) Validate(rows []map[string]interface{}) []Violation {
	var out []Violation
	for i, row := range rows {
		v := row[r.Field]
		if value.IsMissing(v) {
			continue
		}
		f, ok := value.Float(v)
		if !ok {
			out = append(out, Violation{
				Rule: r.Name(), Field: r.Field, Row: i, Value: v,
				Message:  fmt.Sprintf("value '%v' in field '%s' is not numeric", v, r.Field),
				Severity: r.Severity,
			})
			continue
		}
		if r.Min != nil && f < *r.Min {
			out = append(out, Violation{
				Rule: r.Name(), Field: r.Field, Row: i, Value: v,
				Message:  fmt.Sprintf("value %v in field '%s' is below minimum %v", v, r.Field, *r.Min),
				Severity: r.Severity,
			})
		}
		if r.Max != nil && f > *r.Max {
			out = append(out, Violation{
				Rule: r.Name(), Field: r.Field, Row: i, Value: v,
				Message:  fmt.Sprintf("value %v in field '%s' is above maximum %v", v, r.Field, *r.Max),
				Severity: r.Severity,
			})
		}
	}
	return out
}

// PatternRule flags values that do not match a full regular expression.
type PatternRule struct {
	Field    string
	Pattern  string
	Severity Severity
	re       *regexp.Regexp
}

// NewPatternRule compiles a custom pattern, anchoring it so a match must
// cover the whole value.
func NewPatternRule(field, pattern string) (*PatternRule, error) {
	re, err := regexp.Compile(anchored(pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to compile pattern for field '%s': %w", field, err)
	}
	return &PatternRule{Field: field, Pattern: pattern, Severity: SeverityError, re: re}, nil
}

// NewFormatRule builds a PatternRule from a named built-in format.
func NewFormatRule(field, format string) (*PatternRule, error) {
	re, ok := formatPatterns[format]
	if !ok {
		return nil, fmt.Errorf("unknown format '%s' (available: %s)",
			format, strings.Join(FormatNames(), ", "))
	}
	return &PatternRule{Field: field, Pattern: re.String(), Severity: SeverityError, re: re}, nil
}

func anchored(pattern string) string {
	if strings.HasPrefix(pattern, "^") && strings.HasSuffix(pattern, "$") {
		return pattern
	}
	return "^(?:" + pattern + ")$"
}

func (r *PatternRule) Name() string { return "pattern" }

func (r *PatternRule) Validate(rows []map[string]interface{}) []Violation {
	var out []Violation
	for i, row := range rows {
		v := row[r.Field]
		if value.IsMissing(v) {
			continue
		}
		if !r.re.MatchString(value.String(v)) {
			out = append(out, Violation{
				Rule: r.Name(), Field: r.Field, Row: i, Value: v,
				Message:  fmt.Sprintf("value '%v' in field '%s' does not match pattern", v, r.Field),
				Severity: r.Severity,
			})
		}
	}
	return out
}

// EnumRule flags values outside a fixed allowed set.
type EnumRule struct {
	Field    string
	Allowed  []string
	Severity Severity
	set      map[string]bool
}

func NewEnumRule(field string, allowed []string) *EnumRule {
	set := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		set[a] = true
	}
	return &EnumRule{Field: field, Allowed: allowed, Severity: SeverityError, set: set}
}

func (r *EnumRule) Name() string { return "enum" }

func (r *EnumRule) Validate(rows []map[string]interface{}) []Violation {
	var out []Violation
	for i, row := range rows {
		v := row[r.Field]
		if value.IsMissing(v) {
			continue
		}
		if !r.set[value.String(v)] {
			out = append(out, Violation{
				Rule: r.Name(), Field: r.Field, Row: i, Value: v,
				Message:  fmt.Sprintf("value '%v' in field '%s' is not an allowed choice", v, r.Field),
				Severity: r.Severity,
			})
		}
	}
	return out
}

// TemporalRule flags rows whose start comes after their end. Rows where
// either side is missing or unparseable are skipped; format problems belong
// to PatternRule.
type TemporalRule struct {
	StartField string
	EndField   string
	Severity   Severity
}

func NewTemporalRule(startField, endField string) *TemporalRule {
	return &TemporalRule{StartField: startField, EndField: endField, Severity: SeverityError}
}

func (r *TemporalRule) Name() string { return "temporal" }

func (r *TemporalRule) Validate(rows []map[string]interface{}) []Violation {
	var out []Violation
	for i, row := range rows {
		start, ok := value.Time(row[r.StartField])
		if !ok {
			continue
		}
		end, ok := value.Time(row[r.EndField])
		if !ok {
			continue
		}
		if start.After(end) {
			out = append(out, Violation{
				Rule: r.Name(), Field: r.StartField, Row: i, Value: row[r.StartField],
				Message: fmt.Sprintf("'%s' (%v) is after '%s' (%v)",
					r.StartField, row[r.StartField], r.EndField, row[r.EndField]),
				Severity: r.Severity,
			})
		}
	}
	return out
}

// LengthRule flags strings whose rune count falls outside [MinLen, MaxLen].
// Zero bounds are open.
type LengthRule struct {
	Field    string
	MinLen   int
	MaxLen   int
	Severity Severity
}

func NewLengthRule(field string, minLen, maxLen int) *LengthRule {
	return &LengthRule{Field: field, MinLen: minLen, MaxLen: maxLen, Severity: SeverityError}
}

func (r *LengthRule) Name() string { return "length" }

func (r *LengthRule) Validate(rows []map[string]interface{}) []Violation {
	var out []Violation
	for i, row := range rows {
		v := row[r.Field]
		if value.IsMissing(v) {
			continue
		}
		n := utf8.RuneCountInString(value.String(v))
		if r.MinLen > 0 && n < r.MinLen {
			out = append(out, Violation{
				Rule: r.Name(), Field: r.Field, Row: i, Value: v,
				Message:  fmt.Sprintf("value '%v' in field '%s' is shorter than %d characters", v, r.Field, r.MinLen),
				Severity: r.Severity,
			})
		}
		if r.MaxLen > 0 && n > r.MaxLen {
			out = append(out, Violation{
				Rule: r.Name(), Field: r.Field, Row: i, Value: v,
				Message:  fmt.Sprintf("value '%v' in field '%s' is longer than %d characters", v, r.Field, r.MaxLen),
				Severity: r.Severity,
			})
		}
	}
	return out
}

// ReferentialIntegrityRule flags values absent from a reference id set,
// typically the primary keys of an already generated parent table.
type ReferentialIntegrityRule struct {
	Field    string
	Severity Severity
	refs     map[string]bool
}

func NewReferentialIntegrityRule(field string, referenceIDs []interface{}) *ReferentialIntegrityRule {
	refs := make(map[string]bool, len(referenceIDs))
	for _, id := range referenceIDs {
		refs[value.String(id)] = true
	}
	return &ReferentialIntegrityRule{Field: field, Severity: SeverityError, refs: refs}
}

func (r *ReferentialIntegrityRule) Name() string { return "referential_integrity" }

func (r *ReferentialIntegrityRule) Validate(rows []map[string]interface{}) []Violation {
	var out []Violation
	for i, row := range rows {
		v := row[r.Field]
		if value.IsMissing(v) {
			continue
		}
		if !r.refs[value.String(v)] {
			out = append(out, Violation{
				Rule: r.Name(), Field: r.Field, Row: i, Value: v,
				Message:  fmt.Sprintf("value '%v' in field '%s' references no known id", v, r.Field),
				Severity: r.Severity,
			})
		}
	}
	return out
}

// ConsistencyRule runs a caller-supplied predicate per row. A panicking
// predicate is recovered into a violation so one bad row cannot take down
// the whole validation pass.
type ConsistencyRule struct {
	RuleName string
	Message  string
	Check    func(row map[string]interface{}) bool
	Severity Severity
}

func NewConsistencyRule(name, message string, check func(row map[string]interface{}) bool) *ConsistencyRule {
	return &ConsistencyRule{RuleName: name, Message: message, Check: check, Severity: SeverityError}
}

func (r *ConsistencyRule) Name() string {
	if r.RuleName != "" {
		return r.RuleName
	}
	return "consistency"
}

func (r *ConsistencyRule) Validate(rows []map[string]interface{}) []Violation {
	var out []Violation
	for i, row := range rows {
		if v, ok := r.check(i, row); !ok {
			out = append(out, v)
		}
	}
	return out
}

func (r *ConsistencyRule) check(i int, row map[string]interface{}) (v Violation, ok bool) {
	defer func() {
		if p := recover(); p != nil {
			v = Violation{
				Rule: r.Name(), Row: i,
				Message:  fmt.Sprintf("consistency check panicked: %v", p),
				Severity: r.Severity,
			}
			ok = false
		}
	}()
	if r.Check(row) {
		return Violation{}, true
	}
	return Violation{
		Rule: r.Name(), Row: i,
		Message:  r.Message,
		Severity: r.Severity,
	}, false
}
