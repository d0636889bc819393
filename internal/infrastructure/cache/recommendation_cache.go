// Package cache provides the in-memory recommendation cache keyed by
// normalized request fingerprints.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/platewise/v1/internal/domain/recommendation"
)

const DefaultTTL = 10 * time.Minute

// entry is one cached result set with its expiry.
type entry struct {
	recommendations []recommendation.Recommendation
	computedAt      time.Time
	expiresAt       time.Time
}

// RecommendationCache memoizes scored results. Reads of expired entries
// behave as absent and delete the entry lazily; there is no background
// sweeper, keeping the component purely reactive.
type RecommendationCache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
}

// NewRecommendationCache creates an empty cache.
func NewRecommendationCache() *RecommendationCache {
	return &RecommendationCache{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Get returns the cached result set for the request, or absent when the
// fingerprint is unknown or its entry has expired.
func (c *RecommendationCache) Get(req recommendation.Request) ([]recommendation.Recommendation, bool) {
	key := Fingerprint(req)

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Put may have
		// replaced the entry.
		if cur, still := c.entries[key]; still && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return cloneRecommendations(e.recommendations), true
}

// Put stores a result set under the request's fingerprint.
func (c *RecommendationCache) Put(req recommendation.Request, recs []recommendation.Recommendation, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	stored := cloneRecommendations(recs)

	now := c.now()
	c.mu.Lock()
	c.entries[Fingerprint(req)] = &entry{
		recommendations: stored,
		computedAt:      now,
		expiresAt:       now.Add(ttl),
	}
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (c *RecommendationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// cloneRecommendations copies the slice and the per-entry slices, so a
// caller mutating a result cannot reach back into the cached entry.
func cloneRecommendations(recs []recommendation.Recommendation) []recommendation.Recommendation {
	out := make([]recommendation.Recommendation, len(recs))
	copy(out, recs)
	for i := range out {
		out[i].Allergens = append([]string(nil), out[i].Allergens...)
		out[i].Pairings = append([]recommendation.Pairing(nil), out[i].Pairings...)
	}
	return out
}

// Fingerprint derives a stable cache key: scalar strings lowercased and
// trimmed, list fields lowercased and sorted, so field case and list
// order differences collapse to the same key.
func Fingerprint(req recommendation.Request) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "meal=%s;", normalizeScalar(req.MealType))
	fmt.Fprintf(&sb, "party=%d;", req.PartySize)
	fmt.Fprintf(&sb, "prefs=%s;", normalizeSet(req.Preferences))
	fmt.Fprintf(&sb, "allergies=%s;", normalizeSet(req.Allergies))
	fmt.Fprintf(&sb, "dietary=%s;", normalizeSet(req.DietaryRestrictions))
	fmt.Fprintf(&sb, "budget=%.2f;", req.Budget)
	fmt.Fprintf(&sb, "occasion=%s", normalizeScalar(req.Occasion))

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

func normalizeScalar(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeSet(values []string) string {
	normalized := make([]string, 0, len(values))
	for _, v := range values {
		if n := normalizeScalar(v); n != "" {
			normalized = append(normalized, n)
		}
	}
	sort.Strings(normalized)
	return strings.Join(normalized, ",")
}
