// Package menu contains the read-only menu catalog collaborator.
// The catalog is supplied externally; the engine validates against it
// but never mutates it.
package menu

import (
	"strings"
)

// Item represents a single menu entry
type Item struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description"`
	Price       float64  `json:"price" yaml:"price"`
	Category    string   `json:"category" yaml:"category"`
	Popularity  int      `json:"popularity" yaml:"popularity"`
	Tags        []string `json:"tags,omitempty" yaml:"tags"`
	Allergens   []string `json:"allergens,omitempty" yaml:"allergens"`
}

// Catalog is an immutable, ordered collection of menu items with
// normalized name lookup. Catalog order is significant: it is the
// stable tie-break order for ranked recommendations.
type Catalog struct {
	items  []Item
	byName map[string]int
}

// NewCatalog builds a catalog from an ordered item list.
// Later duplicates of a normalized name are ignored.
func NewCatalog(items []Item) *Catalog {
	c := &Catalog{
		items:  make([]Item, 0, len(items)),
		byName: make(map[string]int, len(items)),
	}
	for _, item := range items {
		key := NormalizeName(item.Name)
		if key == "" {
			continue
		}
		if _, exists := c.byName[key]; exists {
			continue
		}
		c.byName[key] = len(c.items)
		c.items = append(c.items, item)
	}
	return c
}

// NormalizeName lowercases a name and collapses interior whitespace,
// so "  Margherita   PIZZA " and "margherita pizza" match.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Lookup finds an item by name, case-insensitive and
// whitespace-normalized.
func (c *Catalog) Lookup(name string) (Item, bool) {
	idx, ok := c.byName[NormalizeName(name)]
	if !ok {
		return Item{}, false
	}
	return c.items[idx], true
}

// Items returns a copy of the catalog in original order.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Position returns the item's stable position in catalog order.
// Returns -1 when the name is unknown.
func (c *Catalog) Position(name string) int {
	idx, ok := c.byName[NormalizeName(name)]
	if !ok {
		return -1
	}
	return idx
}

// ByCategory returns the items sharing a category, in catalog order.
func (c *Catalog) ByCategory(category string) []Item {
	category = strings.ToLower(strings.TrimSpace(category))
	var out []Item
	for _, item := range c.items {
		if strings.ToLower(item.Category) == category {
			out = append(out, item)
		}
	}
	return out
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.items)
}
