package manifest

import (
	"sort"

	"luxbyte/internal/domain"
)

// Registry is the single source of truth for per-activity document
// requirements. Manifests are registered once at construction and treated as
// immutable afterwards; lookups do no I/O.
type Registry struct {
	manifests map[domain.ActivityType]*domain.ActivityManifest
}

// NewRegistry creates a Registry pre-loaded with the built-in activity
// manifests.
func NewRegistry() *Registry {
	r := &Registry{manifests: make(map[domain.ActivityType]*domain.ActivityManifest)}
	for _, m := range builtinManifests() {
		r.Register(m)
	}
	return r
}

// Register adds or replaces the manifest for an activity.
func (r *Registry) Register(m *domain.ActivityManifest) {
	r.manifests[m.Activity] = m
}

// GetManifest returns the manifest for an activity. An unregistered activity
// is a configuration error and yields domain.ErrUnknownActivityType.
func (r *Registry) GetManifest(activity domain.ActivityType) (*domain.ActivityManifest, error) {
	m, ok := r.manifests[activity]
	if !ok {
		return nil, domain.ErrUnknownActivityType
	}
	return m, nil
}

// Activities returns the registered activity types in stable order.
func (r *Registry) Activities() []domain.ActivityType {
	out := make([]domain.ActivityType, 0, len(r.manifests))
	for a := range r.manifests {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
