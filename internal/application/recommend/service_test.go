package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/menu"
	"github.com/platewise/v1/internal/domain/recommendation"
	"github.com/platewise/v1/internal/infrastructure/cache"
)

type RecommendServiceTestSuite struct {
	suite.Suite
	catalog *menu.Catalog
	cache   *cache.RecommendationCache
	service *Service
}

func (s *RecommendServiceTestSuite) SetupTest() {
	s.catalog = menu.NewCatalog(menu.DefaultCard())
	s.cache = cache.NewRecommendationCache()
	s.service = NewService(s.catalog, NewEngine(), s.cache, time.Minute, zap.NewNop())
}

func (s *RecommendServiceTestSuite) request() recommendation.Request {
	return recommendation.Request{MealType: "dinner", PartySize: 2}
}

func (s *RecommendServiceTestSuite) context() recommendation.Context {
	return recommendation.Context{
		Weather:   "cold",
		LocalTime: time.Date(2026, 1, 10, 19, 30, 0, 0, time.UTC),
	}
}

func (s *RecommendServiceTestSuite) TestRecommendCapsResults() {
	results, err := s.service.Recommend(context.Background(), s.request(), s.context())

	s.Require().NoError(err)
	s.Require().NotEmpty(results)
	s.LessOrEqual(len(results), maxResults)
	for _, rec := range results {
		s.NotEmpty(rec.DishName)
		s.NotEmpty(rec.Reason)
		s.Positive(rec.Price)
	}
}

func (s *RecommendServiceTestSuite) TestRecommendIsDeterministic() {
	a, err := s.service.Recommend(context.Background(), s.request(), s.context())
	s.Require().NoError(err)

	// Second call hits the cache; clearing TTL proves recompute matches.
	fresh := NewService(s.catalog, NewEngine(), cache.NewRecommendationCache(), time.Minute, zap.NewNop())
	b, err := fresh.Recommend(context.Background(), s.request(), s.context())
	s.Require().NoError(err)

	s.Equal(a, b)
}

func (s *RecommendServiceTestSuite) TestRecommendUsesCache() {
	req := s.request()

	first, err := s.service.Recommend(context.Background(), req, s.context())
	s.Require().NoError(err)
	s.Equal(1, s.cache.Len())

	// A different soft context must not bust the fingerprint cache.
	otherCtx := s.context()
	otherCtx.Weather = "sunny"
	second, err := s.service.Recommend(context.Background(), req, otherCtx)
	s.Require().NoError(err)
	s.Equal(first, second)
}

func (s *RecommendServiceTestSuite) TestAllergyFilterIsHard() {
	req := s.request()
	req.Allergies = []string{"gluten", "dairy"}

	results, err := s.service.Recommend(context.Background(), req, s.context())
	s.Require().NoError(err)

	for _, rec := range results {
		s.NotContains(rec.Allergens, "gluten", "dish %s carries an excluded allergen", rec.DishName)
		s.NotContains(rec.Allergens, "dairy", "dish %s carries an excluded allergen", rec.DishName)
	}
}

func (s *RecommendServiceTestSuite) TestVeganRestriction() {
	req := s.request()
	req.DietaryRestrictions = []string{"vegan"}

	results, err := s.service.Recommend(context.Background(), req, s.context())
	s.Require().NoError(err)
	s.Require().NotEmpty(results)

	for _, rec := range results {
		item, ok := s.catalog.Lookup(rec.DishName)
		s.Require().True(ok)
		s.Contains(item.Tags, "vegan")
	}
}

func (s *RecommendServiceTestSuite) TestBudgetFilter() {
	req := s.request()
	req.Budget = 10

	results, err := s.service.Recommend(context.Background(), req, s.context())
	s.Require().NoError(err)
	s.Require().NotEmpty(results)

	for _, rec := range results {
		s.LessOrEqual(rec.Price, 10.0)
	}
}

func (s *RecommendServiceTestSuite) TestPairingsRespectAllergies() {
	req := s.request()
	req.Allergies = []string{"dairy"}

	results, err := s.service.Recommend(context.Background(), req, s.context())
	s.Require().NoError(err)
	s.Require().NotEmpty(results)

	for _, rec := range results {
		for _, pairing := range rec.Pairings {
			item, ok := s.catalog.Lookup(pairing.Name)
			s.Require().True(ok)
			s.NotContains(item.Allergens, "dairy")
		}
	}
}

func (s *RecommendServiceTestSuite) TestNoCandidatesYieldsEmptyResult() {
	req := s.request()
	req.Budget = 0.01

	results, err := s.service.Recommend(context.Background(), req, s.context())
	s.Require().NoError(err)
	s.Empty(results)
}

func TestRecommendServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecommendServiceTestSuite))
}
