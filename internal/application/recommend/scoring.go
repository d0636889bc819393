// Package recommend implements the network-free, rule-based
// recommendation path: deterministic scoring, ranking and memoization.
package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/platewise/v1/internal/domain/menu"
	"github.com/platewise/v1/internal/domain/recommendation"
)

// Score is the scoring outcome for one item.
type Score struct {
	Confidence float64
	Reasons    []string
}

// weatherAffinity maps a reported weather condition to the tags it
// favors.
var weatherAffinity = map[string][]string{
	"cold":   {"warm", "soup", "comfort", "rich", "baked"},
	"rainy":  {"warm", "soup", "comfort", "rich"},
	"snowy":  {"warm", "soup", "comfort", "rich", "baked"},
	"hot":    {"cold", "refreshing", "fresh", "salad", "light"},
	"sunny":  {"fresh", "salad", "light", "refreshing", "cold"},
	"humid":  {"cold", "refreshing", "light"},
	"cloudy": {"comfort", "warm"},
}

// moodAffinity maps a declared mood to the tags it favors.
var moodAffinity = map[string][]string{
	"comfort":     {"comfort", "warm", "rich"},
	"sad":         {"comfort", "warm", "sweet"},
	"tired":       {"comfort", "rich", "coffee"},
	"celebratory": {"rich", "sweet", "italian"},
	"healthy":     {"healthy", "light", "fresh", "vegan"},
	"adventurous": {"fish", "fresh"},
	"indulgent":   {"rich", "sweet", "comfort"},
}

// mealPeriod buckets an hour of day.
func mealPeriod(hour int) string {
	switch {
	case hour >= 6 && hour < 11:
		return "morning"
	case hour >= 11 && hour < 15:
		return "lunch"
	case hour >= 15 && hour < 18:
		return "afternoon"
	case hour >= 18 && hour < 23:
		return "dinner"
	default:
		return "late"
	}
}

// periodAffinity maps a meal period to favored tags and categories.
var periodAffinity = map[string]struct {
	tags       []string
	categories []string
}{
	"morning":   {tags: []string{"light", "fresh", "coffee", "sweet"}, categories: []string{"drinks", "desserts"}},
	"lunch":     {tags: []string{"light", "fresh", "salad", "soup"}, categories: []string{"starters", "mains"}},
	"afternoon": {tags: []string{"sweet", "coffee", "cold"}, categories: []string{"desserts", "drinks"}},
	"dinner":    {tags: []string{"rich", "comfort", "protein"}, categories: []string{"mains"}},
	"late":      {tags: []string{"comfort", "sweet"}, categories: []string{"desserts", "drinks"}},
}

// Engine computes a confidence score for a menu item under a context.
// It is fully deterministic: identical context always yields identical
// scores and identical ranked output.
type Engine struct{}

// NewEngine creates a scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Score averages the weather, time-of-day and personal sub-scores with
// equal weight. Each sub-score is computed independently in [0,1].
func (e *Engine) Score(item menu.Item, rctx recommendation.Context) Score {
	var reasons []string

	weather := e.weatherScore(item, rctx, &reasons)
	timeOfDay := e.timeScore(item, rctx, &reasons)
	personal := e.personalScore(item, rctx, &reasons)

	return Score{
		Confidence: (weather + timeOfDay + personal) / 3,
		Reasons:    reasons,
	}
}

// weatherScore rewards tag overlap with the reported condition.
// An unknown or absent condition scores neutral.
func (e *Engine) weatherScore(item menu.Item, rctx recommendation.Context, reasons *[]string) float64 {
	favored, ok := weatherAffinity[strings.ToLower(strings.TrimSpace(rctx.Weather))]
	if !ok {
		return 0.5
	}
	matches := tagMatches(item.Tags, favored)
	if matches == 0 {
		return 0.25
	}
	*reasons = append(*reasons, fmt.Sprintf("suits the %s weather", strings.ToLower(rctx.Weather)))
	return clamp01(0.5 + 0.25*float64(matches))
}

// timeScore rewards tag and category fit with the local meal period.
func (e *Engine) timeScore(item menu.Item, rctx recommendation.Context, reasons *[]string) float64 {
	period := mealPeriod(rctx.LocalTime.Hour())
	affinity := periodAffinity[period]

	score := 0.25
	if containsFold(affinity.categories, item.Category) {
		score += 0.25
	}
	matches := tagMatches(item.Tags, affinity.tags)
	if matches > 0 {
		score += 0.25 * float64(matches)
	}
	if score > 0.5 {
		*reasons = append(*reasons, fmt.Sprintf("a good %s choice", period))
	}
	return clamp01(score)
}

// personalScore rewards overlap with stated preferences, declared mood
// and past order history.
func (e *Engine) personalScore(item menu.Item, rctx recommendation.Context, reasons *[]string) float64 {
	score := 0.5

	prefMatches := tagMatches(item.Tags, rctx.Preferences)
	if prefMatches > 0 {
		score += 0.25 * float64(prefMatches)
		*reasons = append(*reasons, "matches your preferences")
	}

	if favored, ok := moodAffinity[strings.ToLower(strings.TrimSpace(rctx.Mood))]; ok {
		if tagMatches(item.Tags, favored) > 0 {
			score += 0.25
			*reasons = append(*reasons, fmt.Sprintf("fits a %s mood", strings.ToLower(rctx.Mood)))
		}
	}

	for _, past := range rctx.OrderHistory {
		if menu.NormalizeName(past) == menu.NormalizeName(item.Name) {
			score += 0.25
			*reasons = append(*reasons, "you've enjoyed this before")
			break
		}
	}

	return clamp01(score)
}

// ranked pairs an item with its score and original catalog position.
type ranked struct {
	item     menu.Item
	score    Score
	position int
}

// Rank scores every item and sorts by confidence descending. Equal
// confidence breaks on higher declared popularity; a remaining tie
// preserves stable original catalog order.
func (e *Engine) Rank(items []menu.Item, rctx recommendation.Context) []RankedItem {
	entries := make([]ranked, len(items))
	for i, item := range items {
		entries[i] = ranked{item: item, score: e.Score(item, rctx), position: i}
	}

	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].score.Confidence != entries[b].score.Confidence {
			return entries[a].score.Confidence > entries[b].score.Confidence
		}
		if entries[a].item.Popularity != entries[b].item.Popularity {
			return entries[a].item.Popularity > entries[b].item.Popularity
		}
		return entries[a].position < entries[b].position
	})

	out := make([]RankedItem, len(entries))
	for i, entry := range entries {
		out[i] = RankedItem{Item: entry.item, Score: entry.score}
	}
	return out
}

// RankedItem is one ranked result.
type RankedItem struct {
	Item  menu.Item
	Score Score
}

func tagMatches(tags, favored []string) int {
	matches := 0
	for _, tag := range tags {
		if containsFold(favored, tag) {
			matches++
		}
	}
	return matches
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(needle)) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
