package generator

import (
	"fmt"
	"math"

	"github.com/Rana718/Forge/internal/metadata"
	"github.com/Rana718/Forge/internal/strategy"
	"github.com/Rana718/Forge/internal/value"
)

// OverrideFunc computes an override per row from the row index.
type OverrideFunc func(rowIndex int) interface{}

// TableGenerator produces whole rows for one table. Fields are generated in
// declaration order, so a strategy may read every field declared before its
// own.
type TableGenerator struct {
	table  metadata.Table
	fields *FieldGenerator
}

// NewTableGenerator builds a generator with its own seeded PRNG and binds
// every strategy the table declares.
func NewTableGenerator(table metadata.Table, seed int64) (*TableGenerator, error) {
	return NewTableGeneratorWith(table, NewFieldGenerator(seed))
}

// NewTableGeneratorWith builds a generator on top of an existing
// FieldGenerator, binding the table's declared strategies onto it.
func NewTableGeneratorWith(table metadata.Table, fields *FieldGenerator) (*TableGenerator, error) {
	for _, f := range table.Fields {
		if f.Strategy == "" {
			continue
		}
		if err := fields.SetFieldStrategyConfig(f.Name, f.Strategy, f.StrategyParams); err != nil {
			return nil, fmt.Errorf("failed to bind strategy for field '%s': %w", f.Name, err)
		}
	}
	return &TableGenerator{table: table, fields: fields}, nil
}

// Table returns the table definition this generator serves.
func (t *TableGenerator) Table() metadata.Table { return t.table }

// Fields exposes the underlying field generator.
func (t *TableGenerator) Fields() *FieldGenerator { return t.fields }

// Reset clears uniqueness tracking and strategy state, as at a batch start.
func (t *TableGenerator) Reset() { t.fields.Reset() }

// GenerateRow produces a single row. Overrides win over everything: a plain
// value is used verbatim, an OverrideFunc is called with the row index.
func (t *TableGenerator) GenerateRow(overrides map[string]interface{}) (map[string]interface{}, error) {
	return t.row(0, 1, overrides, nil, nil)
}

// GenerateBatch resets the generator, then produces count rows.
func (t *TableGenerator) GenerateBatch(count int, overrides map[string]interface{}) ([]map[string]interface{}, error) {
	t.Reset()
	return t.batch(0, count, count, overrides, nil, nil)
}

// GenerateRange produces rows numbered [start, start+count) out of a run of
// total rows without resetting state. Callers chunking a long run reset once
// up front, then call this per chunk.
func (t *TableGenerator) GenerateRange(start, count, total int, overrides map[string]interface{}, relatedData map[string][]interface{}) ([]map[string]interface{}, error) {
	return t.batch(start, count, total, overrides, relatedData, nil)
}

// GenerateWithRelations is GenerateBatch with foreign keys drawn uniformly
// from relatedData[parentTable]. A missing or empty id list means no parent
// data is available and the field falls back to ordinary generation.
func (t *TableGenerator) GenerateWithRelations(count int, relatedData map[string][]interface{}, overrides map[string]interface{}) ([]map[string]interface{}, error) {
	t.Reset()
	return t.batch(0, count, count, overrides, relatedData, nil)
}

// GenerateIncremental extends an existing dataset: numeric fields stay
// within the observed range widened 10% each side, date fields land 1-30
// days after the newest observed date, identifier and primary-key fields
// continue the observed numeric sequence. Fields whose history does not
// parse fall back to ordinary synthesis.
func (t *TableGenerator) GenerateIncremental(count int, existing []map[string]interface{}) ([]map[string]interface{}, error) {
	return t.GenerateIncrementalWithRelations(count, existing, nil)
}

// GenerateIncrementalWithRelations adds relation sampling on top of
// incremental continuation.
func (t *TableGenerator) GenerateIncrementalWithRelations(count int, existing []map[string]interface{}, relatedData map[string][]interface{}) ([]map[string]interface{}, error) {
	t.Reset()
	profiles := ProfileRows(existing, t.table)

	// Seed the tracker with history so new unique values cannot repeat
	// what the dataset already holds.
	for _, f := range t.table.Fields {
		if !f.Unique {
			continue
		}
		for _, row := range existing {
			t.fields.Track(f.Name, row[f.Name])
		}
	}
	return t.batch(0, count, count, nil, relatedData, profiles)
}

func (t *TableGenerator) batch(start, count, total int, overrides map[string]interface{}, relatedData map[string][]interface{}, profiles map[string]FieldProfile) ([]map[string]interface{}, error) {
	rows := make([]map[string]interface{}, 0, count)
	for i := 0; i < count; i++ {
		row, err := t.row(start+i, total, overrides, relatedData, profiles)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (t *TableGenerator) row(idx, total int, overrides map[string]interface{}, relatedData map[string][]interface{}, profiles map[string]FieldProfile) (map[string]interface{}, error) {
	row := make(map[string]interface{}, len(t.table.Fields))
	ctx := &strategy.Context{
		Rng:       t.fields.Rng(),
		Row:       row,
		RowIndex:  idx,
		TotalRows: total,
		Table:     &t.table,
	}

	for _, f := range t.table.Fields {
		if ov, ok := overrides[f.Name]; ok {
			row[f.Name] = resolveOverride(ov, idx)
			continue
		}

		if parent, _, isFK := f.References(); isFK && relatedData != nil {
			if ids := relatedData[parent]; len(ids) > 0 {
				row[f.Name] = ids[t.fields.Rng().Intn(len(ids))]
				continue
			}
		}

		if profiles != nil {
			if v, ok := t.continueFromProfile(f, profiles); ok {
				if f.Unique {
					t.fields.Track(f.Name, v)
				}
				row[f.Name] = v
				continue
			}
		}

		v, err := t.fields.Generate(f, ctx)
		if err != nil {
			return nil, err
		}
		row[f.Name] = v
	}
	return row, nil
}

func resolveOverride(ov interface{}, idx int) interface{} {
	switch fn := ov.(type) {
	case OverrideFunc:
		return fn(idx)
	case func(int) interface{}:
		return fn(idx)
	default:
		return ov
	}
}

// continueFromProfile extends a field from its observed history. The false
// return means the history gave nothing usable and ordinary generation
// should run instead.
func (t *TableGenerator) continueFromProfile(f metadata.Field, profiles map[string]FieldProfile) (interface{}, bool) {
	p, ok := profiles[f.Name]
	if !ok || p.Count == 0 {
		return nil, false
	}

	if (f.Type == metadata.TypeID || f.Name == t.table.PrimaryKey) && p.HasID {
		p.IDNumber++
		profiles[f.Name] = p
		return fmt.Sprintf("%s%0*d", p.IDPrefix, p.IDWidth, p.IDNumber), true
	}

	if f.Type.IsNumeric() && p.HasNumeric {
		span := p.Max - p.Min
		if span == 0 {
			span = math.Abs(p.Max)
			if span == 0 {
				span = 1
			}
		}
		lo := p.Min - span*0.1
		hi := p.Max + span*0.1
		if f.Type == metadata.TypeInteger {
			loI := int64(math.Floor(lo))
			hiI := int64(math.Ceil(hi))
			return loI + t.fields.Rng().Int63n(hiI-loI+1), true
		}
		precision := 2
		if f.Precision != nil {
			precision = *f.Precision
		}
		return value.Round(lo+t.fields.Rng().Float64()*(hi-lo), precision), true
	}

	if f.Type.IsTemporal() && p.HasTime {
		next := p.MaxTime.AddDate(0, 0, 1+t.fields.Rng().Intn(30))
		if f.Type == metadata.TypeDatetime {
			return next.Format("2006-01-02 15:04:05"), true
		}
		return next.Format("2006-01-02"), true
	}

	return nil, false
}
