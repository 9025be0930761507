package rules

import (
	"fmt"
	"strings"

	"github.com/Rana718/Forge/internal/metadata"
)

// ValidationReport is the outcome of one validation pass. ValidRows counts
// rows untouched by any error-severity violation; dataset-level findings do
// not reduce it.
type ValidationReport struct {
	TotalRows    int         `json:"total_rows"`
	ValidRows    int         `json:"valid_rows"`
	Violations   []Violation `json:"violations"`
	ErrorCount   int         `json:"error_count"`
	WarningCount int         `json:"warning_count"`
	InfoCount    int         `json:"info_count"`
}

// OK reports whether the pass found no error-severity violations.
func (r ValidationReport) OK() bool { return r.ErrorCount == 0 }

// Summary renders a short plain-text account of the pass.
func (r ValidationReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d/%d rows valid, %d error(s), %d warning(s)",
		r.ValidRows, r.TotalRows, r.ErrorCount, r.WarningCount)
	if r.InfoCount > 0 {
		fmt.Fprintf(&b, ", %d note(s)", r.InfoCount)
	}
	return b.String()
}

// Validator bundles the rules for one table: those derived from the table's
// own metadata plus any explicitly added ones.
type Validator struct {
	table metadata.Table
	rules []Rule
}

// NewValidator derives rules from table metadata: completeness over
// required fields, uniqueness over unique fields, range checks over bounded
// numeric fields and pattern checks over patterned fields.
func NewValidator(table metadata.Table) (*Validator, error) {
	v := &Validator{table: table}

	var required, unique []string
	for _, f := range table.Fields {
		if f.Required {
			required = append(required, f.Name)
		}
		if f.Unique {
			unique = append(unique, f.Name)
		}
		if f.Type.IsNumeric() && (f.MinValue != nil || f.MaxValue != nil) {
			v.rules = append(v.rules, NewRangeRule(f.Name, f.MinValue, f.MaxValue))
		}
		if f.Pattern != "" {
			pr, err := NewPatternRule(f.Name, f.Pattern)
			if err != nil {
				return nil, err
			}
			v.rules = append(v.rules, pr)
		}
	}
	if len(required) > 0 {
		v.rules = append(v.rules, NewCompletenessRule(required...))
	}
	if len(unique) > 0 {
		v.rules = append(v.rules, NewUniquenessRule(unique...))
	}
	return v, nil
}

// AddRule appends an explicit rule to the derived set.
func (v *Validator) AddRule(r Rule) {
	v.rules = append(v.rules, r)
}

// Rules returns every rule the validator will run.
func (v *Validator) Rules() []Rule {
	return v.rules
}

// Validate runs every rule and folds the findings into one report.
func (v *Validator) Validate(rows []map[string]interface{}) ValidationReport {
	report := ValidationReport{TotalRows: len(rows)}

	badRows := make(map[int]bool)
	for _, rule := range v.rules {
		for _, violation := range rule.Validate(rows) {
			report.Violations = append(report.Violations, violation)
			switch violation.Severity {
			case SeverityError:
				report.ErrorCount++
				if violation.Row >= 0 {
					badRows[violation.Row] = true
				}
			case SeverityWarning:
				report.WarningCount++
			default:
				report.InfoCount++
			}
		}
	}
	report.ValidRows = report.TotalRows - len(badRows)
	return report
}
