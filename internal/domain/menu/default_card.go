package menu

// DefaultCard returns the built-in menu used when no catalog file is
// configured. Order matters: it is the stable recommendation tie-break.
func DefaultCard() []Item {
	return []Item{
		{
			Name:        "Margherita Pizza",
			Description: "San Marzano tomato, fior di latte, basil",
			Price:       18.50,
			Category:    "mains",
			Popularity:  95,
			Tags:        []string{"vegetarian", "italian", "comfort", "baked"},
			Allergens:   []string{"gluten", "dairy"},
		},
		{
			Name:        "Spaghetti Carbonara",
			Description: "Guanciale, pecorino, egg yolk",
			Price:       21.00,
			Category:    "mains",
			Popularity:  88,
			Tags:        []string{"italian", "rich", "comfort", "pork"},
			Allergens:   []string{"gluten", "dairy", "egg"},
		},
		{
			Name:        "Herb-Crusted Chicken",
			Description: "Free-range breast, lemon, breadcrumb crust",
			Price:       24.00,
			Category:    "mains",
			Popularity:  76,
			Tags:        []string{"protein", "light", "baked"},
			Allergens:   []string{"gluten"},
		},
		{
			Name:        "Grilled Salmon Bowl",
			Description: "Quinoa, avocado, citrus dressing",
			Price:       26.50,
			Category:    "mains",
			Popularity:  71,
			Tags:        []string{"healthy", "light", "fish", "gluten-free"},
			Allergens:   []string{"fish"},
		},
		{
			Name:        "Tomato Basil Soup",
			Description: "Slow-roasted tomatoes, cream, croutons",
			Price:       9.00,
			Category:    "starters",
			Popularity:  64,
			Tags:        []string{"vegetarian", "warm", "comfort", "soup"},
			Allergens:   []string{"dairy", "gluten"},
		},
		{
			Name:        "Caesar Salad",
			Description: "Romaine, anchovy dressing, parmesan",
			Price:       12.50,
			Category:    "starters",
			Popularity:  69,
			Tags:        []string{"light", "fresh", "salad"},
			Allergens:   []string{"dairy", "egg", "fish", "gluten"},
		},
		{
			Name:        "Rainbow Vegetable Bowl",
			Description: "Seasonal vegetables, tahini, toasted seeds",
			Price:       16.00,
			Category:    "mains",
			Popularity:  58,
			Tags:        []string{"vegan", "healthy", "fresh", "gluten-free"},
			Allergens:   []string{"sesame"},
		},
		{
			Name:        "Beef Ragu Pappardelle",
			Description: "Eight-hour braised beef, fresh pasta",
			Price:       23.50,
			Category:    "mains",
			Popularity:  82,
			Tags:        []string{"rich", "comfort", "italian", "beef"},
			Allergens:   []string{"gluten", "egg"},
		},
		{
			Name:        "Iced Hibiscus Tea",
			Description: "House-brewed, lightly sweetened",
			Price:       5.50,
			Category:    "drinks",
			Popularity:  47,
			Tags:        []string{"cold", "refreshing", "vegan"},
		},
		{
			Name:        "Affogato",
			Description: "Vanilla gelato, double espresso",
			Price:       8.00,
			Category:    "desserts",
			Popularity:  73,
			Tags:        []string{"sweet", "coffee", "cold"},
			Allergens:   []string{"dairy"},
		},
		{
			Name:        "Tiramisu",
			Description: "Mascarpone, espresso-soaked savoiardi",
			Price:       9.50,
			Category:    "desserts",
			Popularity:  85,
			Tags:        []string{"sweet", "italian", "coffee"},
			Allergens:   []string{"dairy", "egg", "gluten"},
		},
		{
			Name:        "Garlic Flatbread",
			Description: "Wood-fired, rosemary oil",
			Price:       7.50,
			Category:    "starters",
			Popularity:  61,
			Tags:        []string{"vegetarian", "baked", "comfort"},
			Allergens:   []string{"gluten"},
		},
	}
}
