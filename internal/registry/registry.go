// Package registry loads one classifier per condition and answers lookups.
// A Registry is built once at startup and is read-only afterwards, so it is
// safe for concurrent use without locking.
package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/Pawan-142/healthrisk/internal/classifier"
	"github.com/Pawan-142/healthrisk/internal/domain"
	"github.com/Pawan-142/healthrisk/internal/domain/condition"
	"github.com/Pawan-142/healthrisk/internal/domain/schema"
)

var (
	// ErrNoArtifact means no artifact reference was configured for a condition.
	ErrNoArtifact = errors.New("no artifact configured")
	// ErrSchemaMismatch means an artifact disagrees with the condition's feature schema.
	ErrSchemaMismatch = errors.New("artifact does not match feature schema")
)

type entry struct {
	ref   string
	model *classifier.Model
	err   error
}

// Registry maps each condition to its loaded classifier or its load error.
type Registry struct {
	entries map[condition.Kind]entry
}

// Status describes the load outcome of one condition.
type Status struct {
	Condition condition.Kind
	Ref       string
	ModelType string
	Err       error
}

// Available reports whether the condition has a usable classifier.
func (s Status) Available() bool { return s.Err == nil }

// Option configures Load.
type Option func(*loader)

type loader struct {
	source   ArtifactSource
	reporter Reporter
}

// WithSource sets where artifacts are read from. The default is FileSource{}.
func WithSource(src ArtifactSource) Option {
	return func(l *loader) { l.source = src }
}

// WithReporter sets the diagnostics channel for load outcomes.
func WithReporter(r Reporter) Option {
	return func(l *loader) { l.reporter = r }
}

// Load reads and validates an artifact for every condition. Failures are recorded
// per condition and never abort the build; a condition absent from refs is unavailable.
func Load(ctx context.Context, refs map[condition.Kind]string, opts ...Option) *Registry {
	l := &loader{source: FileSource{}, reporter: nopReporter{}}
	for _, opt := range opts {
		opt(l)
	}

	r := &Registry{entries: make(map[condition.Kind]entry, len(refs))}
	for _, kind := range condition.All() {
		ref := refs[kind]
		e := l.load(ctx, kind, ref)
		if e.err != nil {
			l.reporter.Failed(kind, ref, e.err)
		} else {
			l.reporter.Loaded(kind, ref, e.model.Type)
		}
		r.entries[kind] = e
	}
	return r
}

func (l *loader) load(ctx context.Context, kind condition.Kind, ref string) entry {
	fail := func(err error) entry {
		return entry{ref: ref, err: &domain.ModelLoadError{Condition: kind, Path: ref, Err: err}}
	}
	if ref == "" {
		return fail(ErrNoArtifact)
	}

	data, err := l.source.Read(ctx, ref)
	if err != nil {
		return fail(err)
	}
	m, err := classifier.Decode(data)
	if err != nil {
		return fail(err)
	}
	if err := checkAgreement(kind, m); err != nil {
		return fail(err)
	}
	return entry{ref: ref, model: m}
}

// checkAgreement verifies the declared artifact metadata against the compiled-in schema.
func checkAgreement(kind condition.Kind, m *classifier.Model) error {
	sch := schema.For(kind)
	if m.Condition != "" && m.Condition != kind.String() {
		return fmt.Errorf("%w: artifact is for %q", ErrSchemaMismatch, m.Condition)
	}
	if m.SchemaVersion != "" && m.SchemaVersion != sch.Version {
		return fmt.Errorf("%w: schema version %q, want %q", ErrSchemaMismatch, m.SchemaVersion, sch.Version)
	}
	if len(m.Features) > 0 && !slices.Equal(m.Features, sch.Names()) {
		return fmt.Errorf("%w: feature names differ from %s", ErrSchemaMismatch, sch.Version)
	}
	if got := m.Classifier.InputSize(); got != sch.Len() {
		return fmt.Errorf("%w: model takes %d inputs, schema has %d fields", ErrSchemaMismatch, got, sch.Len())
	}
	return nil
}

// Get returns the classifier for kind. Unloaded conditions yield an error wrapping
// domain.ErrModelUnavailable and the recorded load error.
func (r *Registry) Get(kind condition.Kind) (domain.Classifier, error) {
	e, ok := r.entries[kind]
	if !ok {
		if !kind.IsValid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCondition, kind)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrModelUnavailable, kind)
	}
	if e.err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrModelUnavailable, e.err)
	}
	return e.model.Classifier, nil
}

// Status returns every condition's load outcome in condition.All order.
func (r *Registry) Status() []Status {
	kinds := condition.All()
	out := make([]Status, 0, len(kinds))
	for _, k := range kinds {
		e := r.entries[k]
		s := Status{Condition: k, Ref: e.ref, Err: e.err}
		if e.model != nil {
			s.ModelType = e.model.Type
		}
		out = append(out, s)
	}
	return out
}

// IsAvailable reports whether kind has a loaded classifier.
func (r *Registry) IsAvailable(kind condition.Kind) bool {
	e, ok := r.entries[kind]
	return ok && e.err == nil
}

// Available returns the number of loaded conditions.
func (r *Registry) Available() int {
	n := 0
	for _, e := range r.entries {
		if e.err == nil {
			n++
		}
	}
	return n
}
