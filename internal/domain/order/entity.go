// Package order contains the running-order aggregate built up from
// parsed order intents and direct UI mutations.
package order

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/platewise/v1/internal/domain/menu"
)

// Item is one requested item, either extracted from model output or
// added directly by the UI.
type Item struct {
	Name          string  `json:"name"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	Customization string  `json:"customization,omitempty"`
}

// Intent is the structured "items the user wants to order" extraction
// from a model reply.
type Intent struct {
	Items []Item `json:"items"`
}

// Line is a single accumulated order line.
type Line struct {
	Name          string  `json:"name"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	Customization string  `json:"customization,omitempty"`
}

// Order accumulates lines keyed by normalized item name plus
// customization. Totals are always derived from the current lines,
// never stored.
type Order struct {
	mu        sync.Mutex
	id        uuid.UUID
	currency  string
	lines     map[string]*Line
	createdAt time.Time
}

// LineKey derives the idempotency key for an item: normalized name
// plus the chosen customization string.
func LineKey(name, customization string) string {
	key := menu.NormalizeName(name)
	if c := strings.TrimSpace(strings.ToLower(customization)); c != "" {
		key += "|" + c
	}
	return key
}

// NewOrder creates an empty order.
func NewOrder(currency string) *Order {
	if currency == "" {
		currency = "USD"
	}
	return &Order{
		id:        uuid.New(),
		currency:  currency,
		lines:     make(map[string]*Line),
		createdAt: time.Now(),
	}
}

// ID returns the order identifier.
func (o *Order) ID() uuid.UUID {
	return o.id
}

// Currency returns the order currency code.
func (o *Order) Currency() string {
	return o.currency
}

// Add validates an item and merges it into the order. Adding an item
// whose key already exists increments that line's quantity instead of
// creating a duplicate line.
func (o *Order) Add(item Item) error {
	if strings.TrimSpace(item.Name) == "" {
		return ErrEmptyItemName
	}
	if item.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	key := LineKey(item.Name, item.Customization)
	if line, exists := o.lines[key]; exists {
		line.Quantity += item.Quantity
		return nil
	}

	o.lines[key] = &Line{
		Name:          item.Name,
		Quantity:      item.Quantity,
		UnitPrice:     item.UnitPrice,
		Customization: item.Customization,
	}
	return nil
}

// Remove deletes a line by key. Removing an absent key returns
// ErrLineNotFound so UI bugs are not swallowed.
func (o *Order) Remove(key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, exists := o.lines[key]; !exists {
		return ErrLineNotFound
	}
	delete(o.lines, key)
	return nil
}

// SetQuantity sets the quantity of an existing line.
// A quantity of zero removes the line; negative quantities are rejected.
func (o *Order) SetQuantity(key string, n int) error {
	if n < 0 {
		return ErrInvalidQuantity
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	line, exists := o.lines[key]
	if !exists {
		return ErrLineNotFound
	}
	if n == 0 {
		delete(o.lines, key)
		return nil
	}
	line.Quantity = n
	return nil
}

// Total recomputes the order total from the current lines.
func (o *Order) Total() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	var total float64
	for _, line := range o.lines {
		total += float64(line.Quantity) * line.UnitPrice
	}
	return total
}

// Lines returns the current lines sorted by key for stable output.
func (o *Order) Lines() []Line {
	o.mu.Lock()
	defer o.mu.Unlock()

	keys := make([]string, 0, len(o.lines))
	for key := range o.lines {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]Line, 0, len(keys))
	for _, key := range keys {
		out = append(out, *o.lines[key])
	}
	return out
}

// Len returns the number of distinct lines.
func (o *Order) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.lines)
}

// Clear empties the order on submit or explicit cancel.
func (o *Order) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lines = make(map[string]*Line)
}

// ApplyIntent validates every intent item against the catalog, then
// merges them. Validation runs over the whole intent first, so a reject
// anywhere in the list leaves the order untouched. Items that do not
// match the catalog are expected to be filtered by the parser before
// reaching here; a mismatch at this point is an error.
func (o *Order) ApplyIntent(intent *Intent, catalog *menu.Catalog) error {
	if intent == nil {
		return nil
	}
	for _, item := range intent.Items {
		if err := ValidateAgainstCatalog(item, catalog); err != nil {
			return err
		}
	}
	for _, item := range intent.Items {
		if err := o.Add(item); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAgainstCatalog checks the item name and unit price against the
// menu catalog. The catalog price wins over a price claimed by the model.
func ValidateAgainstCatalog(item Item, catalog *menu.Catalog) error {
	if strings.TrimSpace(item.Name) == "" {
		return ErrEmptyItemName
	}
	if item.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if _, ok := catalog.Lookup(item.Name); !ok {
		return ErrUnknownMenuItem
	}
	return nil
}

// Snapshot is the serializable view of an order used for persistence
// and API responses.
type Snapshot struct {
	OrderID  uuid.UUID `json:"order_id"`
	Currency string    `json:"currency"`
	Lines    []Line    `json:"lines"`
	Total    float64   `json:"total"`
}

// Snapshot produces a consistent point-in-time view.
func (o *Order) Snapshot() Snapshot {
	lines := o.Lines()
	var total float64
	for _, line := range lines {
		total += float64(line.Quantity) * line.UnitPrice
	}
	return Snapshot{
		OrderID:  o.id,
		Currency: o.currency,
		Lines:    lines,
		Total:    total,
	}
}
