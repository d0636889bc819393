package menu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/v1/internal/domain/menu"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "margherita pizza", menu.NormalizeName("  Margherita   PIZZA "))
	assert.Equal(t, "tiramisu", menu.NormalizeName("Tiramisu"))
	assert.Equal(t, "", menu.NormalizeName("   "))
}

func TestCatalogLookup(t *testing.T) {
	catalog := menu.NewCatalog([]menu.Item{
		{Name: "Margherita Pizza", Price: 18.50, Category: "mains"},
		{Name: "Tiramisu", Price: 8.00, Category: "desserts"},
	})

	item, ok := catalog.Lookup("margherita pizza")
	require.True(t, ok)
	assert.Equal(t, "Margherita Pizza", item.Name)
	assert.InDelta(t, 18.50, item.Price, 0.001)

	_, ok = catalog.Lookup("Unicorn Steak")
	assert.False(t, ok)
}

func TestCatalogPreservesOrderAndPosition(t *testing.T) {
	catalog := menu.NewCatalog([]menu.Item{
		{Name: "Soup"},
		{Name: "Pizza"},
		{Name: "Cake"},
	})

	items := catalog.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "Soup", items[0].Name)
	assert.Equal(t, "Cake", items[2].Name)

	assert.Equal(t, 1, catalog.Position("PIZZA"))
	assert.Equal(t, -1, catalog.Position("Unicorn Steak"))
}

func TestCatalogIgnoresDuplicatesAndBlankNames(t *testing.T) {
	catalog := menu.NewCatalog([]menu.Item{
		{Name: "Pizza", Price: 18.50},
		{Name: "  pizza ", Price: 99.00},
		{Name: "   "},
	})

	require.Equal(t, 1, catalog.Len())
	item, ok := catalog.Lookup("pizza")
	require.True(t, ok)
	assert.InDelta(t, 18.50, item.Price, 0.001)
}

func TestCatalogByCategory(t *testing.T) {
	catalog := menu.NewCatalog([]menu.Item{
		{Name: "Soup", Category: "starters"},
		{Name: "Pizza", Category: "mains"},
		{Name: "Espresso", Category: "Drinks"},
		{Name: "Cola", Category: "drinks"},
	})

	drinks := catalog.ByCategory(" drinks ")
	require.Len(t, drinks, 2)
	assert.Equal(t, "Espresso", drinks[0].Name)
	assert.Equal(t, "Cola", drinks[1].Name)
}

func TestDefaultCard(t *testing.T) {
	catalog := menu.NewCatalog(menu.DefaultCard())
	require.Positive(t, catalog.Len())

	item, ok := catalog.Lookup("Margherita Pizza")
	require.True(t, ok)
	assert.Equal(t, "mains", item.Category)
	assert.Positive(t, item.Price)
}
