package application

import (
	"fmt"
	"strings"
	"sync"

	"racetally/domain/ingest"
	"racetally/domain/jobs"
)

// urlMatcher binds one URL pattern to a capability. Matching is plain
// substring containment; registration order is the tie-break.
type urlMatcher struct {
	pattern    string
	capability ingest.Capability
}

// ScraperRegistry resolves ingestion capabilities from organiser keys and
// URL patterns. This enables pluggable scrapers while keeping resolution
// an explicit mapping rather than runtime type inspection.
type ScraperRegistry struct {
	byOrganiser map[string]ingest.Capability
	matchers    []urlMatcher
	mutex       sync.RWMutex
}

// NewScraperRegistry creates a new scraper registry.
func NewScraperRegistry() *ScraperRegistry {
	return &ScraperRegistry{
		byOrganiser: make(map[string]ingest.Capability),
	}
}

// Register binds a capability to an organiser key and its URL patterns.
// Patterns registered earlier win ties during URL fallback matching.
func (r *ScraperRegistry) Register(organiser string, patterns []string, capability ingest.Capability) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if organiser != "" && organiser != jobs.DefaultOrganiser {
		r.byOrganiser[organiser] = capability
	}
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		r.matchers = append(r.matchers, urlMatcher{pattern: pattern, capability: capability})
	}
}

// Resolve picks the capability for a request. The organiser key is tried
// first unless it is absent or the "unknown" sentinel; otherwise the first
// registered pattern contained in the URL wins. Returns
// ingest.ErrNoScraperAvailable when neither path yields a capability.
func (r *ScraperRegistry) Resolve(organiser, url string) (ingest.Capability, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if organiser != "" && organiser != jobs.DefaultOrganiser {
		if capability, exists := r.byOrganiser[organiser]; exists {
			return capability, nil
		}
	}

	for _, matcher := range r.matchers {
		if strings.Contains(url, matcher.pattern) {
			return matcher.capability, nil
		}
	}

	return nil, fmt.Errorf("%w for organiser %q and url %s", ingest.ErrNoScraperAvailable, organiser, url)
}

// RegisteredOrganisers returns all organiser keys with a bound capability.
func (r *ScraperRegistry) RegisteredOrganisers() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	organisers := make([]string, 0, len(r.byOrganiser))
	for organiser := range r.byOrganiser {
		organisers = append(organisers, organiser)
	}

	return organisers
}

// HasOrganiser checks if an organiser key has a bound capability.
func (r *ScraperRegistry) HasOrganiser(organiser string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	_, exists := r.byOrganiser[organiser]
	return exists
}
