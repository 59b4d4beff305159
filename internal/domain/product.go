package domain

// Product represents a food product fetched from Open Food Facts.
// Derived fields (Category, WeightKg) are computed by the OFF mapper;
// the struct is never mutated after a fetch.
type Product struct {
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	Brand           string             `json:"brand,omitempty"`
	Category        string             `json:"category,omitempty"` // comma-joined hierarchy, max 4 entries
	Country         string             `json:"country,omitempty"`
	IngredientsText string             `json:"ingredientsText,omitempty"`
	IngredientTags  []string           `json:"ingredientTags,omitempty"` // normalized, may carry "en:" prefixes
	PackagingText   string             `json:"packagingText,omitempty"`
	NutrientLevels  map[string]string  `json:"nutrientLevels,omitempty"` // nutrient -> low|moderate|high
	NutrientsData   map[string]float64 `json:"nutrientsData,omitempty"`  // nutrient -> per-100g value
	NutriscoreGrade string             `json:"nutriscoreGrade,omitempty"`
	NutriscoreScore int                `json:"nutriscoreScore,omitempty"`
	EcoScoreOFF     float64            `json:"ecoscoreOff,omitempty"` // OFF's own ecoscore, distinct from ours
	ImageURL        string             `json:"imageUrl,omitempty"`
	WeightKg        float64            `json:"weightKg"` // from quantity string, default 1.0
	Completeness    float64            `json:"completeness,omitempty"`
}

// ContributionFields are the product fields a user may submit back to
// Open Food Facts for an incomplete product.
type ContributionFields struct {
	Packaging   string   `json:"packaging,omitempty"`
	Ingredients string   `json:"ingredients,omitempty"`
	Brands      []string `json:"brands,omitempty"`
	Categories  string   `json:"categories,omitempty"`
	Labels      string   `json:"labels,omitempty"`
}
