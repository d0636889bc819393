package recommend

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/menu"
	"github.com/platewise/v1/internal/domain/recommendation"
	"github.com/platewise/v1/internal/ports/inbound"
	"github.com/platewise/v1/internal/ports/outbound"
)

const maxResults = 5

// Service implements inbound.RecommendationService: catalog filtering,
// deterministic scoring and fingerprint-keyed memoization. It never
// touches the network.
type Service struct {
	catalog *menu.Catalog
	engine  *Engine
	cache   outbound.RecommendationCache
	ttl     time.Duration
	logger  *zap.Logger
}

// NewService creates the recommendation service.
func NewService(catalog *menu.Catalog, engine *Engine, cache outbound.RecommendationCache, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{
		catalog: catalog,
		engine:  engine,
		cache:   cache,
		ttl:     ttl,
		logger:  logger.Named("recommend-service"),
	}
}

var _ inbound.RecommendationService = (*Service)(nil)

// Recommend returns the ranked list for a request, cache-first. On a
// miss it filters the catalog by hard constraints, ranks the rest and
// stores the result under the request fingerprint.
func (s *Service) Recommend(ctx context.Context, req recommendation.Request, rctx recommendation.Context) ([]recommendation.Recommendation, error) {
	if cached, ok := s.cache.Get(req); ok {
		s.logger.Debug("Recommendation cache hit", zap.Int("results", len(cached)))
		return cached, nil
	}

	candidates := s.filter(req)

	// Stated request preferences count as personal signals too.
	scoringCtx := rctx
	scoringCtx.Preferences = append(append([]string(nil), rctx.Preferences...), req.Preferences...)

	ranked := s.engine.Rank(candidates, scoringCtx)
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	results := make([]recommendation.Recommendation, 0, len(ranked))
	for _, entry := range ranked {
		results = append(results, recommendation.Recommendation{
			ID:          menu.NormalizeName(entry.Item.Name),
			DishName:    entry.Item.Name,
			Description: entry.Item.Description,
			Price:       entry.Item.Price,
			Confidence:  entry.Score.Confidence,
			Reason:      reasonText(entry.Score.Reasons),
			Category:    entry.Item.Category,
			Allergens:   entry.Item.Allergens,
			Pairings:    s.pairings(entry.Item, req),
		})
	}

	s.cache.Put(req, results, s.ttl)
	s.logger.Debug("Recommendations computed",
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// filter applies the hard constraints: allergies, dietary restrictions
// and budget. Soft signals stay with the scoring engine.
func (s *Service) filter(req recommendation.Request) []menu.Item {
	var out []menu.Item
	for _, item := range s.catalog.Items() {
		if hasAnyAllergen(item, req.Allergies) {
			continue
		}
		if !meetsDietary(item, req.DietaryRestrictions) {
			continue
		}
		if req.Budget > 0 && item.Price > req.Budget {
			continue
		}
		out = append(out, item)
	}
	return out
}

func hasAnyAllergen(item menu.Item, allergies []string) bool {
	for _, allergy := range allergies {
		for _, allergen := range item.Allergens {
			if strings.EqualFold(strings.TrimSpace(allergy), allergen) {
				return true
			}
		}
	}
	return false
}

// meetsDietary checks each restriction against the item's tags and
// allergens. Unknown restrictions are matched as required tags.
func meetsDietary(item menu.Item, restrictions []string) bool {
	for _, restriction := range restrictions {
		switch strings.ToLower(strings.TrimSpace(restriction)) {
		case "":
			continue
		case "vegan":
			if !containsFold(item.Tags, "vegan") {
				return false
			}
		case "vegetarian":
			if !containsFold(item.Tags, "vegetarian") && !containsFold(item.Tags, "vegan") {
				return false
			}
		case "gluten-free", "gluten free":
			if containsFold(item.Allergens, "gluten") {
				return false
			}
		case "dairy-free", "dairy free":
			if containsFold(item.Allergens, "dairy") {
				return false
			}
		default:
			if !containsFold(item.Tags, restriction) {
				return false
			}
		}
	}
	return true
}

// pairings suggests up to two companions: the most popular drink and
// the most popular dessert that clear the same allergy constraints.
func (s *Service) pairings(item menu.Item, req recommendation.Request) []recommendation.Pairing {
	var out []recommendation.Pairing
	for _, category := range []string{"drinks", "desserts"} {
		if strings.EqualFold(item.Category, category) {
			continue
		}
		if best, ok := s.mostPopular(category, req.Allergies); ok {
			out = append(out, recommendation.Pairing{Name: best.Name, Price: best.Price})
		}
	}
	return out
}

func (s *Service) mostPopular(category string, allergies []string) (menu.Item, bool) {
	var best menu.Item
	found := false
	for _, item := range s.catalog.ByCategory(category) {
		if hasAnyAllergen(item, allergies) {
			continue
		}
		if !found || item.Popularity > best.Popularity {
			best = item
			found = true
		}
	}
	return best, found
}

func reasonText(reasons []string) string {
	if len(reasons) == 0 {
		return "a solid pick from our menu"
	}
	return strings.Join(reasons, "; ")
}
