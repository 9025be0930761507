package generator

import (
	"regexp"
	"time"

	"github.com/Rana718/Forge/internal/metadata"
	"github.com/Rana718/Forge/internal/value"
)

var idTail = regexp.MustCompile(`^(.*?)(\d+)$`)

// FieldProfile summarizes one field across a set of existing rows. It feeds
// both incremental generation (bounds, latest date, highest id) and
// human-facing dataset summaries (counts, mean).
type FieldProfile struct {
	Field    string
	Count    int
	Nulls    int
	Distinct int

	HasNumeric bool
	Min        float64
	Max        float64
	Mean       float64

	HasTime bool
	MinTime time.Time
	MaxTime time.Time

	// Identifier continuation: the highest trailing number seen, with the
	// prefix and zero-padding of the row that carried it.
	HasID    bool
	IDPrefix string
	IDNumber int64
	IDWidth  int
}

// ProfileRows summarizes every declared field of the table over the given
// rows. Values that refuse to parse are skipped per field, never fatal.
func ProfileRows(rows []map[string]interface{}, table metadata.Table) map[string]FieldProfile {
	profiles := make(map[string]FieldProfile, len(table.Fields))
	for _, f := range table.Fields {
		profiles[f.Name] = profileField(rows, f)
	}
	return profiles
}

func profileField(rows []map[string]interface{}, f metadata.Field) FieldProfile {
	p := FieldProfile{Field: f.Name}
	distinct := make(map[string]bool)
	var sum float64
	var numeric int

	for _, row := range rows {
		v, ok := row[f.Name]
		if !ok || value.IsMissing(v) {
			p.Nulls++
			continue
		}
		p.Count++
		distinct[value.String(v)] = true

		if n, nok := value.Float(v); nok {
			if numeric == 0 || n < p.Min {
				p.Min = n
			}
			if numeric == 0 || n > p.Max {
				p.Max = n
			}
			sum += n
			numeric++
		}
		if t, tok := value.Time(v); tok {
			if !p.HasTime || t.Before(p.MinTime) {
				p.MinTime = t
			}
			if !p.HasTime || t.After(p.MaxTime) {
				p.MaxTime = t
			}
			p.HasTime = true
		}
		if m := idTail.FindStringSubmatch(value.String(v)); m != nil {
			if n, nok := parseIDNumber(m[2]); nok {
				if !p.HasID || n > p.IDNumber {
					p.IDNumber = n
					p.IDPrefix = m[1]
					p.IDWidth = len(m[2])
					p.HasID = true
				}
			}
		}
	}

	p.Distinct = len(distinct)
	if numeric > 0 {
		p.HasNumeric = true
		p.Mean = sum / float64(numeric)
	}
	return p
}

func parseIDNumber(digits string) (int64, bool) {
	// Runs long enough to overflow int64 (uuid hex tails and the like)
	// are not continuable sequences.
	if len(digits) > 18 {
		return 0, false
	}
	var n int64
	for _, c := range digits {
		n = n*10 + int64(c-'0')
	}
	return n, true
}
