// Package value holds the dynamic-value helpers shared by generation and
// validation: rows are map[string]interface{} and every layer needs the same
// rules for turning loosely typed cell values into numbers, times and text.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayouts are the accepted textual forms for calendar values, tried in
// order. The first two match what the generator itself emits.
var DateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
	"2006/01/02",
}

// Float coerces a cell value to float64. Strings are parsed, booleans and
// times are not numbers.
func Float(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Int coerces a cell value to int64, truncating floats.
func Int(v interface{}) (int64, bool) {
	f, ok := Float(v)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// Time coerces a cell value to a time.Time, parsing strings against the
// known layouts.
func Time(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range DateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// String renders a cell value for display and map lookups. Nil becomes the
// empty string, floats drop a trailing ".0" so 5.0 and 5 key the same.
func String(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		if s == math.Trunc(s) && math.Abs(s) < 1e15 {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return String(float64(s))
	default:
		return fmt.Sprintf("%v", v)
	}
}

// IsMissing reports whether a cell counts as absent: nil, or text that is
// empty once trimmed.
func IsMissing(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// Equal compares two cell values, numerically when both sides coerce to
// numbers so 5, 5.0 and "5" all match.
func Equal(a, b interface{}) bool {
	af, aok := Float(a)
	bf, bok := Float(b)
	if aok && bok {
		return af == bf
	}
	return String(a) == String(b)
}

// Compare orders two cell values: numerically when both are numbers, by
// instant when both are times, textually otherwise. The second return is
// false only when either side is nil.
func Compare(a, b interface{}) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	if af, aok := Float(a); aok {
		if bf, bok := Float(b); bok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	if at, aok := Time(a); aok {
		if bt, bok := Time(b); bok {
			switch {
			case at.Before(bt):
				return -1, true
			case at.After(bt):
				return 1, true
			default:
				return 0, true
			}
		}
	}
	return strings.Compare(String(a), String(b)), true
}

// Round rounds to the given number of decimal places.
func Round(v float64, precision int) float64 {
	p := math.Pow10(precision)
	return math.Round(v*p) / p
}
