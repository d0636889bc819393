// Package recommendation contains the request, context and result
// models for the rule-based recommendation path.
package recommendation

import "time"

// Request describes what the diner is looking for. List-valued fields
// are treated as sets: order and case never affect the outcome.
type Request struct {
	MealType            string   `json:"meal_type"`
	PartySize           int      `json:"party_size"`
	Preferences         []string `json:"preferences,omitempty"`
	Allergies           []string `json:"allergies,omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	Budget              float64  `json:"budget,omitempty"`
	Occasion            string   `json:"occasion,omitempty"`
}

// Context carries the ambient signals the scoring engine matches
// against: weather, local time, declared mood and past order history.
type Context struct {
	Weather      string    `json:"weather,omitempty"`
	LocalTime    time.Time `json:"local_time"`
	Mood         string    `json:"mood,omitempty"`
	Preferences  []string  `json:"preferences,omitempty"`
	OrderHistory []string  `json:"order_history,omitempty"`
}

// Pairing is a suggested companion item.
type Pairing struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Recommendation is one scored suggestion. Confidence is a relative
// ranking signal in [0,1], not a probability guarantee.
type Recommendation struct {
	ID         string    `json:"id"`
	DishName   string    `json:"dish_name"`
	Description string   `json:"description,omitempty"`
	Price      float64   `json:"price"`
	Confidence float64   `json:"confidence"`
	Reason     string    `json:"reason"`
	Category   string    `json:"category"`
	Allergens  []string  `json:"allergens,omitempty"`
	Pairings   []Pairing `json:"pairings,omitempty"`
}
