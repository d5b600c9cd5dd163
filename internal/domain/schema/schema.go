// Package schema holds the compiled-in feature schemas, one per condition.
//
// Field order is the order each classifier was trained on. Reordering a schema
// silently corrupts predictions, so every change must bump the schema version
// and ship with a matching artifact.
package schema

import (
	"github.com/samber/lo"

	"github.com/Pawan-142/healthrisk/internal/domain/condition"
)

// ValueKind is the numeric type of a field.
type ValueKind string

// Value kinds.
const (
	Integer ValueKind = "integer"
	Real    ValueKind = "real"
)

// Field describes one input of a classifier.
type Field struct {
	Name    string
	Label   string
	Unit    string
	Kind    ValueKind
	Min     float64
	Max     float64
	Default float64
}

// Contains reports whether v lies within [Min, Max].
func (f Field) Contains(v float64) bool {
	return v >= f.Min && v <= f.Max
}

// Clamp bounds v to [Min, Max].
func (f Field) Clamp(v float64) float64 {
	return min(max(v, f.Min), f.Max)
}

// Schema is the ordered field list of a condition.
type Schema struct {
	Kind    condition.Kind
	Version string
	Fields  []Field
}

// Len returns the number of fields, which equals the classifier input size.
func (s Schema) Len() int { return len(s.Fields) }

// Names returns field names in schema order.
func (s Schema) Names() []string {
	return lo.Map(s.Fields, func(f Field, _ int) string { return f.Name })
}

// Field looks up a field by name.
func (s Schema) Field(name string) (Field, bool) {
	return lo.Find(s.Fields, func(f Field) bool { return f.Name == name })
}

// Defaults returns the reference form defaults keyed by field name.
func (s Schema) Defaults() map[string]float64 {
	return lo.SliceToMap(s.Fields, func(f Field) (string, float64) { return f.Name, f.Default })
}

// For returns the schema of kind. The returned value shares no state with the catalog.
// Unknown kinds yield an empty schema; callers parse kinds through condition.Parse first.
func For(kind condition.Kind) Schema {
	s, ok := catalog[kind]
	if !ok {
		return Schema{Kind: kind}
	}
	s.Fields = append([]Field(nil), s.Fields...)
	return s
}

// Names returns the ordered field names of kind.
func Names(kind condition.Kind) []string {
	return For(kind).Names()
}
