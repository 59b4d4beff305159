package off

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sustainscan/backend/internal/domain"
)

// productResponse is the envelope returned by the product endpoint
type productResponse struct {
	Status  int         `json:"status"`
	Code    string      `json:"code"`
	Product *offProduct `json:"product"`
}

// searchResponse is the envelope returned by the search endpoint
type searchResponse struct {
	Count    int            `json:"count"`
	Products []searchResult `json:"products"`
}

// contributionResponse is returned by the form write endpoint
type contributionResponse struct {
	Status        int    `json:"status"`
	StatusVerbose string `json:"status_verbose"`
}

// offProduct is the raw Open Food Facts product record. Only the
// fields the scanner consumes are decoded.
type offProduct struct {
	Code                string            `json:"code"`
	ProductName         string            `json:"product_name"`
	Brands              string            `json:"brands"`
	CategoriesHierarchy []string          `json:"categories_hierarchy"`
	Categories          string            `json:"categories"`
	CountriesTags       []string          `json:"countries_tags"`
	IngredientsText     string            `json:"ingredients_text"`
	IngredientsTags     []string          `json:"ingredients_tags"`
	Packaging           string            `json:"packaging"`
	NutrientLevels      map[string]string `json:"nutrient_levels"`
	Nutriments          offNutriments     `json:"nutriments"`
	NutriscoreGrade     string            `json:"nutriscore_grade"`
	NutriscoreScore     int               `json:"nutriscore_score"`
	EcoscoreScore       float64           `json:"ecoscore_score"`
	ImageFrontURL       string            `json:"image_front_url"`
	ProductQuantity     string            `json:"product_quantity"`
	Quantity            string            `json:"quantity"`
	ServingSize         string            `json:"serving_size"`
	Completeness        float64           `json:"completeness"`
}

// offNutriments holds per-100g nutriment values. Pointers distinguish
// a genuine zero from a missing field.
type offNutriments struct {
	Sugars        *float64 `json:"sugars_100g"`
	Proteins      *float64 `json:"proteins_100g"`
	Fat           *float64 `json:"fat_100g"`
	SaturatedFat  *float64 `json:"saturated-fat_100g"`
	Salt          *float64 `json:"salt_100g"`
	Carbohydrates *float64 `json:"carbohydrates_100g"`
	EnergyKJ      *float64 `json:"energy-kj_100g"`
	Energy        *float64 `json:"energy_100g"`
}

// searchResult is one product row from the search endpoint
type searchResult struct {
	Code            string   `json:"code"`
	ProductName     string   `json:"product_name"`
	NutriscoreGrade string   `json:"nutriscore_grade"`
	NutriscoreScore int      `json:"nutriscore_score"`
	EcoscoreScore   float64  `json:"ecoscore_score"`
	ImageFrontURL   string   `json:"image_front_url"`
	LabelsTags      []string `json:"labels_tags"`
	EnergyKJ        *float64 `json:"energy-kj_100g"`
	Sugars          *float64 `json:"sugars_100g"`
	Salt            *float64 `json:"salt_100g"`
}

var weightPattern = regexp.MustCompile(`(?i)(\d*\.?\d+)\s*(kg|g|ml|l)`)

// MapToProduct converts a raw OFF product record to the domain model
func MapToProduct(p *offProduct) *domain.Product {
	product := &domain.Product{
		Code:            p.Code,
		Name:            p.ProductName,
		Brand:           firstBrand(p.Brands),
		Category:        mapCategory(p),
		Country:         mapCountry(p.CountriesTags),
		IngredientsText: p.IngredientsText,
		IngredientTags:  p.IngredientsTags,
		PackagingText:   p.Packaging,
		NutrientLevels:  p.NutrientLevels,
		NutrientsData:   mapNutriments(p.Nutriments),
		NutriscoreGrade: p.NutriscoreGrade,
		NutriscoreScore: p.NutriscoreScore,
		EcoScoreOFF:     p.EcoscoreScore,
		ImageURL:        p.ImageFrontURL,
		WeightKg:        extractProductWeight(p),
		Completeness:    p.Completeness,
	}

	if product.IngredientsText == "" {
		product.IngredientsText = "Not available"
	}
	if product.PackagingText == "" {
		product.PackagingText = "Not specified"
	}

	return product
}

func firstBrand(brands string) string {
	if brands == "" {
		return ""
	}
	parts := strings.Split(brands, ",")
	return strings.TrimSpace(parts[0])
}

// mapCategory builds a readable category string from the hierarchy,
// stripping language prefixes and keeping the first four entries.
func mapCategory(p *offProduct) string {
	if len(p.CategoriesHierarchy) == 0 {
		return p.Categories
	}

	var cleaned []string
	for _, cat := range p.CategoriesHierarchy {
		cat = stripLangPrefix(cat)
		cat = strings.ReplaceAll(cat, "-", " ")
		cleaned = append(cleaned, cat)
		if len(cleaned) == 4 {
			break
		}
	}
	return strings.Join(cleaned, ", ")
}

func mapCountry(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return stripLangPrefix(tags[0])
}

func stripLangPrefix(tag string) string {
	if len(tag) > 3 && tag[2] == ':' {
		return tag[3:]
	}
	return tag
}

// mapNutriments flattens per-100g values into the names the scoring
// layer expects. Missing fields stay absent from the map.
func mapNutriments(n offNutriments) map[string]float64 {
	data := make(map[string]float64)

	put := func(key string, v *float64) {
		if v != nil {
			data[key] = *v
		}
	}

	put("sugar", n.Sugars)
	put("proteins", n.Proteins)
	put("fat", n.Fat)
	put("saturated-fat", n.SaturatedFat)
	put("salt", n.Salt)
	put("carbohydrates", n.Carbohydrates)

	if n.EnergyKJ != nil {
		data["energy"] = *n.EnergyKJ
	} else if n.Energy != nil {
		data["energy"] = *n.Energy
	}

	return data
}

// extractProductWeight derives the product weight in kg from the
// quantity fields. Falls back to 1kg when nothing parses.
func extractProductWeight(p *offProduct) float64 {
	for _, source := range []string{p.ProductQuantity, p.Quantity, p.ServingSize} {
		if source == "" {
			continue
		}
		if kg, ok := parseWeight(source); ok {
			return kg
		}
	}
	return 1.0
}

func parseWeight(s string) (float64, bool) {
	m := weightPattern.FindStringSubmatch(s)
	if m == nil {
		// Bare numbers from product_quantity are grams
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && v > 0 {
			return maxFloat(v/1000, 0.01), true
		}
		return 0, false
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil || value <= 0 {
		return 0, false
	}

	switch strings.ToLower(m[2]) {
	case "kg":
		return value, true
	case "g":
		return maxFloat(value/1000, 0.01), true
	case "l":
		// Assume roughly water density for liquids
		return value, true
	case "ml":
		return maxFloat(value/1000, 0.01), true
	}
	return 0, false
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// mapSearchProducts converts search rows to alternative candidates
func mapSearchProducts(results []searchResult) []domain.AlternativeCandidate {
	candidates := make([]domain.AlternativeCandidate, 0, len(results))
	for _, r := range results {
		c := domain.AlternativeCandidate{
			Code:            r.Code,
			ProductName:     r.ProductName,
			NutriscoreGrade: r.NutriscoreGrade,
			NutriscoreScore: r.NutriscoreScore,
			EcoScoreOFF:     r.EcoscoreScore,
			ImageURL:        r.ImageFrontURL,
			LabelTags:       r.LabelsTags,
			Source:          "OFF",
		}
		if r.Sugars != nil {
			c.SugarsPer100g = *r.Sugars
		}
		if r.EnergyKJ != nil {
			c.EnergyPer100g = *r.EnergyKJ
		}
		candidates = append(candidates, c)
	}
	return candidates
}
