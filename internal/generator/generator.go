// Package generator produces synthetic rows from table metadata. A
// FieldGenerator owns the session PRNG and the per-field uniqueness
// tracking; TableGenerator drives it field by field, row by row.
package generator

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Rana718/Forge/internal/metadata"
	"github.com/Rana718/Forge/internal/strategy"
	"github.com/Rana718/Forge/internal/value"
)

const (
	letters    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits     = "0123456789"
	lowerAlnum = "abcdefghijklmnopqrstuvwxyz0123456789"

	// uniqueRetries bounds collision retries before falling back to a
	// deterministic suffix.
	uniqueRetries = 1000
)

var mobilePrefixes = []string{
	"130", "131", "132", "133", "135", "136", "137", "138", "139",
	"150", "151", "152", "153", "155", "156", "157", "158", "159",
	"176", "177", "178", "180", "181", "182", "183", "185", "186",
	"187", "188", "189",
}

var emailDomains = []string{
	"gmail.com", "163.com", "126.com", "qq.com", "outlook.com",
	"hotmail.com", "sina.com",
}

var regionCodes = []string{
	"110101", "110105", "310101", "310104", "320102", "330102",
	"420102", "440103", "440304", "500101", "510104", "610102",
}

// FieldGenerator turns one Field definition into one value, honoring bound
// strategies, defaults, optionality and uniqueness. All randomness flows
// through its seeded *rand.Rand, so equal seeds replay equal data.
type FieldGenerator struct {
	rng           *rand.Rand
	manager       *strategy.Manager
	seen          map[string]map[string]bool
	phonePrefixes []string
	mailDomains   []string
}

// NewFieldGenerator returns a generator seeded for reproducible output.
func NewFieldGenerator(seed int64) *FieldGenerator {
	return NewFieldGeneratorWithRand(rand.New(rand.NewSource(seed)))
}

// NewFieldGeneratorWithRand returns a generator drawing from an existing
// PRNG. A session generating several tables shares one PRNG this way while
// each table keeps its own bindings and uniqueness tracking.
func NewFieldGeneratorWithRand(rng *rand.Rand) *FieldGenerator {
	return &FieldGenerator{
		rng:           rng,
		manager:       strategy.NewManager(strategy.NewRegistry()),
		seen:          make(map[string]map[string]bool),
		phonePrefixes: mobilePrefixes,
		mailDomains:   emailDomains,
	}
}

// SetTokenPools overrides the vocabulary behind phone and email synthesis.
// An empty slice keeps the built-in pool for that token.
func (g *FieldGenerator) SetTokenPools(phonePrefixes, mailDomains []string) {
	if len(phonePrefixes) > 0 {
		g.phonePrefixes = phonePrefixes
	}
	if len(mailDomains) > 0 {
		g.mailDomains = mailDomains
	}
}

// Rng exposes the session PRNG for callers that draw alongside the
// generator, like relation sampling.
func (g *FieldGenerator) Rng() *rand.Rand { return g.rng }

// Manager exposes the strategy manager for binding and function
// registration.
func (g *FieldGenerator) Manager() *strategy.Manager { return g.manager }

// SetFieldStrategy binds a ready strategy instance to a field name.
func (g *FieldGenerator) SetFieldStrategy(fieldName string, s strategy.Strategy) {
	g.manager.Bind(fieldName, s)
}

// SetFieldStrategyConfig builds and binds a strategy from its name and
// configuration.
func (g *FieldGenerator) SetFieldStrategyConfig(fieldName, strategyName string, params map[string]interface{}) error {
	return g.manager.BindConfig(fieldName, strategyName, params)
}

// RemoveFieldStrategy detaches any strategy bound to a field.
func (g *FieldGenerator) RemoveFieldStrategy(fieldName string) {
	g.manager.Unbind(fieldName)
}

// ResetUniqueTracker forgets every value seen so far.
func (g *FieldGenerator) ResetUniqueTracker() {
	g.seen = make(map[string]map[string]bool)
}

// Reset clears uniqueness tracking and every bound strategy's state. Called
// at the start of each batch.
func (g *FieldGenerator) Reset() {
	g.ResetUniqueTracker()
	g.manager.ResetAll()
}

// Track records an existing value so later generation avoids reusing it.
func (g *FieldGenerator) Track(fieldName string, v interface{}) {
	if v == nil {
		return
	}
	set := g.seen[fieldName]
	if set == nil {
		set = make(map[string]bool)
		g.seen[fieldName] = set
	}
	set[value.String(v)] = true
}

// Generate produces one value for a field. Precedence: bound strategy (when
// a context is supplied), declared default, a 10% nil chance for optional
// fields, then type-driven synthesis. Unique fields retry synthesis on
// collision and fall back to a counted suffix, so generation itself never
// fails on ordinary constraints.
func (g *FieldGenerator) Generate(f metadata.Field, ctx *strategy.Context) (interface{}, error) {
	v, err := g.produce(f, ctx)
	if err != nil {
		return nil, err
	}
	if !f.Unique || v == nil {
		return v, nil
	}
	return g.ensureUnique(f, v), nil
}

func (g *FieldGenerator) produce(f metadata.Field, ctx *strategy.Context) (interface{}, error) {
	if ctx != nil {
		if _, bound := g.manager.Get(f.Name); bound {
			if ctx.Rng == nil {
				ctx.Rng = g.rng
			}
			ctx.Field = &f
			out, err := g.manager.Apply(f.Name, ctx)
			if err != nil {
				return nil, fmt.Errorf("strategy for field '%s' failed: %w", f.Name, err)
			}
			return out, nil
		}
	}
	if f.Default != nil {
		return f.Default, nil
	}
	if !f.Required && g.rng.Intn(10) == 0 {
		return nil, nil
	}
	return g.synthesize(f), nil
}

func (g *FieldGenerator) ensureUnique(f metadata.Field, v interface{}) interface{} {
	set := g.seen[f.Name]
	if set == nil {
		set = make(map[string]bool)
		g.seen[f.Name] = set
	}

	candidate := v
	for attempt := 0; attempt < uniqueRetries; attempt++ {
		key := value.String(candidate)
		if !set[key] {
			set[key] = true
			return candidate
		}
		candidate = g.synthesize(f)
	}

	// Retries exhausted: the value space is too small. A counted suffix
	// keeps the batch moving and the column unique.
	suffixed := fmt.Sprintf("%s_%d", value.String(candidate), len(set))
	set[suffixed] = true
	return suffixed
}

// synthesize makes a fresh value from the field's semantic type alone.
func (g *FieldGenerator) synthesize(f metadata.Field) interface{} {
	switch f.Type {
	case metadata.TypeString:
		return g.randomString(f)
	case metadata.TypeInteger:
		lo, hi := numericBounds(f, 0, 1000000)
		return lo + g.rng.Int63n(hi-lo+1)
	case metadata.TypeDecimal, metadata.TypeAmount:
		lo, hi := floatBounds(f, 0, 1000000)
		precision := 2
		if f.Precision != nil {
			precision = *f.Precision
		}
		return value.Round(lo+g.rng.Float64()*(hi-lo), precision)
	case metadata.TypeDate:
		return g.randomPastDate().Format("2006-01-02")
	case metadata.TypeDatetime:
		return g.randomPastDatetime().Format("2006-01-02 15:04:05")
	case metadata.TypeBoolean:
		return g.rng.Intn(2) == 0
	case metadata.TypeEnum:
		if len(f.EnumValues) == 0 {
			return nil
		}
		return f.EnumValues[g.rng.Intn(len(f.EnumValues))]
	case metadata.TypeID:
		return g.randomIdentifier(f.Length)
	case metadata.TypePhone:
		return g.randomPhone()
	case metadata.TypeEmail:
		return g.randomEmail()
	case metadata.TypeIDCard:
		return g.randomNationalID()
	case metadata.TypeBankCard:
		return g.randomBankCard(f.Length)
	default:
		return g.randomString(f)
	}
}

func numericBounds(f metadata.Field, defLo, defHi int64) (int64, int64) {
	lo, hi := defLo, defHi
	if f.MinValue != nil {
		lo = int64(*f.MinValue)
	}
	if f.MaxValue != nil {
		hi = int64(*f.MaxValue)
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func floatBounds(f metadata.Field, defLo, defHi float64) (float64, float64) {
	lo, hi := defLo, defHi
	if f.MinValue != nil {
		lo = *f.MinValue
	}
	if f.MaxValue != nil {
		hi = *f.MaxValue
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func (g *FieldGenerator) randomString(f metadata.Field) string {
	n := f.Length
	if n <= 0 {
		lo, hi := 5, 20
		if f.MinLength > 0 {
			lo = f.MinLength
		}
		if f.MaxLength > 0 {
			hi = f.MaxLength
		}
		if hi < lo {
			hi = lo
		}
		n = lo + g.rng.Intn(hi-lo+1)
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[g.rng.Intn(len(letters))]
	}
	return string(b)
}

func (g *FieldGenerator) randomPastDate() time.Time {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, 0, -g.rng.Intn(3650))
}

func (g *FieldGenerator) randomPastDatetime() time.Time {
	const window = int64(10 * 365 * 24 * 60 * 60)
	return time.Now().UTC().Add(-time.Duration(g.rng.Int63n(window)) * time.Second)
}

// randomIdentifier derives hex identifiers from the session PRNG through
// uuid, trimmed or extended to the declared length (32 by default).
func (g *FieldGenerator) randomIdentifier(length int) string {
	if length <= 0 {
		length = 32
	}
	var b strings.Builder
	for b.Len() < length {
		u, _ := uuid.NewRandomFromReader(g.rng)
		b.WriteString(strings.ToUpper(strings.ReplaceAll(u.String(), "-", "")))
	}
	return b.String()[:length]
}

func (g *FieldGenerator) randomPhone() string {
	prefix := g.phonePrefixes[g.rng.Intn(len(g.phonePrefixes))]
	b := make([]byte, 8)
	for i := range b {
		b[i] = digits[g.rng.Intn(10)]
	}
	return prefix + string(b)
}

func (g *FieldGenerator) randomEmail() string {
	n := 6 + g.rng.Intn(7)
	b := make([]byte, n)
	for i := range b {
		b[i] = lowerAlnum[g.rng.Intn(len(lowerAlnum))]
	}
	return string(b) + "@" + g.mailDomains[g.rng.Intn(len(g.mailDomains))]
}

// randomNationalID builds an 18-character resident id: region, birth date,
// sequence, then the GB 11643 check character.
func (g *FieldGenerator) randomNationalID() string {
	region := regionCodes[g.rng.Intn(len(regionCodes))]
	birth := time.Date(1950+g.rng.Intn(56), time.Month(1+g.rng.Intn(12)), 1+g.rng.Intn(28),
		0, 0, 0, 0, time.UTC).Format("20060102")
	seq := fmt.Sprintf("%03d", g.rng.Intn(1000))
	body := region + birth + seq

	weights := []int{7, 9, 10, 5, 8, 4, 2, 1, 6, 3, 7, 9, 10, 5, 8, 4, 2}
	checkChars := "10X98765432"
	sum := 0
	for i, c := range body {
		sum += int(c-'0') * weights[i]
	}
	return body + string(checkChars[sum%11])
}

// randomBankCard builds a UnionPay-style card number with a Luhn check
// digit.
func (g *FieldGenerator) randomBankCard(length int) string {
	if length <= 0 {
		length = 16
	}
	b := make([]byte, 0, length)
	b = append(b, '6', '2')
	for len(b) < length-1 {
		b = append(b, digits[g.rng.Intn(10)])
	}
	return string(append(b, luhnCheckDigit(b)))
}

func luhnCheckDigit(number []byte) byte {
	sum := 0
	double := true
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return byte('0' + (10-sum%10)%10)
}
