package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/samber/lo"

	"github.com/Pawan-142/healthrisk/internal/domain/condition"
)

// KeyPrefix namespaces artifact keys in the key-value store.
const KeyPrefix = "healthrisk:model:"

// ArtifactSource reads the raw bytes of one artifact reference.
type ArtifactSource interface {
	Read(ctx context.Context, ref string) ([]byte, error)
}

// FileSource reads artifacts from the filesystem. Relative refs resolve against Dir.
type FileSource struct {
	Dir string
}

// Read loads the whole artifact; the file is closed before Read returns.
func (s FileSource) Read(_ context.Context, ref string) ([]byte, error) {
	path := s.Resolve(ref)
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return data, nil
}

// Resolve returns the filesystem path for ref.
func (s FileSource) Resolve(ref string) string {
	if filepath.IsAbs(ref) || s.Dir == "" {
		return ref
	}
	return filepath.Join(s.Dir, ref)
}

// kvGetter is the consumer interface for KV-backed artifacts (ISP).
type kvGetter interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// KVSource reads artifacts stored under keys in a key-value store.
type KVSource struct {
	store kvGetter
}

// NewKVSource creates a source backed by store.
func NewKVSource(store kvGetter) *KVSource {
	return &KVSource{store: store}
}

// Read fetches the artifact stored at key ref.
func (s *KVSource) Read(ctx context.Context, ref string) ([]byte, error) {
	data, err := s.store.Get(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("get artifact %s: %w", ref, err)
	}
	return data, nil
}

// KVKey returns the store key holding kind's artifact.
func KVKey(kind condition.Kind) string {
	return KeyPrefix + kind.String()
}

// KVRefs maps every condition to its store key.
func KVRefs() map[condition.Kind]string {
	refs := make(map[condition.Kind]string)
	for _, k := range condition.All() {
		refs[k] = KVKey(k)
	}
	return refs
}

// kvScanner is the consumer interface for listing stored artifact keys (ISP).
type kvScanner interface {
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// StrayKVKeys lists keys under KeyPrefix that belong to no known condition,
// sorted. These are usually leftovers from a renamed condition or a typo in a
// manual upload, and are never read by the registry.
func StrayKVKeys(ctx context.Context, store kvScanner) ([]string, error) {
	keys, err := store.Scan(ctx, KeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan artifact keys: %w", err)
	}
	known := lo.Values(KVRefs())
	stray := lo.Uniq(lo.Reject(keys, func(k string, _ int) bool {
		return slices.Contains(known, k)
	}))
	slices.Sort(stray)
	return stray, nil
}
