package usecase

import (
	"math"
	"strings"

	"github.com/sustainscan/backend/internal/domain"
)

// Eco-score category weights. Packaging and transportation only count
// when their data exists; ingredient and nutrition always count.
const (
	ecoPointsPackaging  = 20
	ecoPointsTransport  = 20
	ecoPointsIngredient = 30
	ecoPointsNutrition  = 30

	// Below this many achievable points the score would be scaled from
	// too little data to mean anything, so nil is returned instead.
	ecoMinPossiblePoints = 40
)

// EcoScoreInput bundles the signals the aggregator scores. All fields
// are optional; missing optional categories shrink the denominator.
type EcoScoreInput struct {
	PackagingImpact    *domain.PackagingImpact
	Transportation     *domain.EmissionEstimate
	IngredientsText    string
	IngredientConcerns []domain.IngredientConcern
	NutrientsData      map[string]float64
	NutrientLevels     map[string]string
}

// EcoScoreService combines packaging, transportation, ingredient and
// nutrition signals into a composite 0-100 sustainability score.
// Stateless; never errors.
type EcoScoreService struct{}

// NewEcoScoreService creates a new eco-score aggregator
func NewEcoScoreService() *EcoScoreService {
	return &EcoScoreService{}
}

// Score returns the composite score, or nil when fewer than 40 of the
// weighted points were computable (insufficient data).
func (s *EcoScoreService) Score(input EcoScoreInput) *int {
	score := 0
	totalPossible := 0

	// Packaging sustainability (20 points)
	if input.PackagingImpact.HasRecyclability() {
		totalPossible += ecoPointsPackaging
		recyclability := input.PackagingImpact.RecyclabilityPercent
		switch {
		case recyclability >= 90:
			score += 20
		case recyclability >= 70:
			score += 15
		case recyclability >= 50:
			score += 10
		case recyclability >= 30:
			score += 5
		}
	}

	// Transportation CO2 (20 points)
	if input.Transportation != nil {
		totalPossible += ecoPointsTransport
		co2 := input.Transportation.CO2Kg
		switch {
		case co2 < 0.5:
			score += 20
		case co2 < 1:
			score += 15
		case co2 < 2:
			score += 10
		case co2 < 3:
			score += 5
		}
	}

	// Ingredient quality (30 points, always counted)
	totalPossible += ecoPointsIngredient
	score += ingredientQualityScore(input)

	// Nutritional balance (30 points, always counted)
	totalPossible += ecoPointsNutrition
	score += nutritionalBalanceScore(input)

	if totalPossible < ecoMinPossiblePoints {
		return nil
	}

	result := int(math.Round(float64(score) / float64(totalPossible) * 100))
	return &result
}

// ingredientQualityScore starts at full points and deducts for sugar
// content, concerning ingredient text, and detected concerns.
func ingredientQualityScore(input EcoScoreInput) int {
	points := ecoPointsIngredient

	if sugar, ok := input.NutrientsData["sugar"]; ok && sugar > 10 {
		points -= 5
	}

	ingredientsLower := strings.ToLower(input.IngredientsText)
	if strings.Contains(ingredientsLower, "palm oil") || strings.Contains(ingredientsLower, "palm fat") {
		points -= 10
	}
	if strings.Contains(ingredientsLower, "artificial") || strings.Contains(ingredientsLower, "preservative") {
		points -= 5
	}

	for _, concern := range input.IngredientConcerns {
		switch concern.Severity {
		case "high":
			points -= 8
		case "medium":
			points -= 5
		default:
			points -= 3
		}
	}

	if points < 0 {
		points = 0
	}
	return points
}

// nutritionalBalanceScore awards points for favorable per-100g values
// and nutrient-level ratings, capped at the category maximum.
func nutritionalBalanceScore(input EcoScoreInput) int {
	points := 0

	if nutrients := input.NutrientsData; nutrients != nil {
		if nutrients["proteins"] > 7 {
			points += 4
		}
		if v, ok := nutrients["fat"]; ok && v < 10 {
			points += 4
		}
		if v, ok := nutrients["carbohydrates"]; ok && v < 20 {
			points += 3
		}
		if v, ok := nutrients["salt"]; ok && v < 1 {
			points += 4
		}
		if v, ok := nutrients["sugar"]; ok && v < 5 {
			points += 4
		}
	}

	if levels := input.NutrientLevels; levels != nil {
		if levels["salt"] == "low" {
			points += 3
		}
		if levels["saturated-fat"] == "low" {
			points += 3
		}
		if levels["sugars"] == "low" {
			points += 3
		}
		if levels["fiber"] == "high" {
			points += 3
		}
	}

	if points > ecoPointsNutrition {
		points = ecoPointsNutrition
	}
	return points
}
