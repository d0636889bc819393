// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/platewise/v1/internal/domain/conversation"
	"github.com/platewise/v1/internal/domain/menu"
	"github.com/platewise/v1/internal/domain/order"
	"github.com/platewise/v1/internal/domain/recommendation"
)

// Factory generates domain test data from a seeded faker so runs are
// reproducible.
type Factory struct {
	faker *gofakeit.Faker
}

// NewFactory creates a factory with a seeded faker.
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed)}
}

// MenuItem builds a random menu item.
func (f *Factory) MenuItem() menu.Item {
	categories := []string{"starters", "mains", "desserts", "drinks"}
	tags := []string{"warm", "cold", "rich", "light", "fresh", "comfort", "sweet", "healthy"}

	return menu.Item{
		Name:       fmt.Sprintf("%s %s", f.faker.Adjective(), f.faker.Dinner()),
		Price:      float64(f.faker.IntRange(500, 3500)) / 100,
		Category:   categories[f.faker.IntRange(0, len(categories)-1)],
		Popularity: f.faker.IntRange(1, 100),
		Tags: []string{
			tags[f.faker.IntRange(0, len(tags)-1)],
			tags[f.faker.IntRange(0, len(tags)-1)],
		},
	}
}

// Catalog builds a catalog of n random items.
func (f *Factory) Catalog(n int) *menu.Catalog {
	items := make([]menu.Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, f.MenuItem())
	}
	return menu.NewCatalog(items)
}

// OrderItem builds a random valid order item.
func (f *Factory) OrderItem() order.Item {
	return order.Item{
		Name:      f.faker.Dinner(),
		Quantity:  f.faker.IntRange(1, 5),
		UnitPrice: float64(f.faker.IntRange(500, 3500)) / 100,
	}
}

// Exchange builds a paired user/assistant turn sequence.
func (f *Factory) Exchange() []conversation.Turn {
	return []conversation.Turn{
		conversation.NewUserTurn(f.faker.Question()),
		conversation.NewAssistantTurn(f.faker.Sentence(8), nil),
	}
}

// RecommendationRequest builds a random request.
func (f *Factory) RecommendationRequest() recommendation.Request {
	meals := []string{"breakfast", "lunch", "dinner"}
	return recommendation.Request{
		MealType:    meals[f.faker.IntRange(0, len(meals)-1)],
		PartySize:   f.faker.IntRange(1, 8),
		Preferences: []string{f.faker.Adjective(), f.faker.Adjective()},
		Budget:      float64(f.faker.IntRange(10, 80)),
	}
}
