package usecase

import (
	"fmt"
	"math"
	"strings"

	"github.com/sustainscan/backend/internal/domain"
)

// materialImpact holds the static life-cycle figures for one
// packaging material.
type materialImpact struct {
	CO2KgPerKg    float64
	Recyclability int
	LandfillTime  string
	OceanImpact   string
	Score         string
	Color         string
	Description   string
}

// packagingImpactTable is the static material database, based on LCA
// study figures.
var packagingImpactTable = map[string]materialImpact{
	"jar": {
		CO2KgPerKg:    0.4,
		Recyclability: 85,
		LandfillTime:  "∞ (but reusable)",
		OceanImpact:   "low",
		Score:         "B",
		Color:         "green",
		Description:   "Glass jars are highly recyclable and often reusable, making them an eco-friendly choice",
	},
	"bottle": {
		CO2KgPerKg:    1.8, // average between PET and glass
		Recyclability: 67,
		LandfillTime:  "300 years",
		OceanImpact:   "moderate microplastic",
		Score:         "C",
		Color:         "yellow",
		Description:   "Bottles vary by material but require proper recycling to minimize environmental impact",
	},
	"plastic": {
		CO2KgPerKg:    2.1,
		Recyclability: 32,
		LandfillTime:  "500 years",
		OceanImpact:   "high microplastic",
		Score:         "E",
		Color:         "red",
		Description:   "Single-use plastic creates long-term waste and microplastic pollution",
	},
	"pet": {
		CO2KgPerKg:    1.8,
		Recyclability: 29,
		LandfillTime:  "500 years",
		OceanImpact:   "high microplastic",
		Score:         "E",
		Color:         "red",
		Description:   "PET plastic contributes to ocean microplastics and has low recyclability",
	},
	"hdpe": {
		CO2KgPerKg:    1.5,
		Recyclability: 12,
		LandfillTime:  "700 years",
		OceanImpact:   "very high microplastic",
		Score:         "E",
		Color:         "red",
		Description:   "HDPE plastic persists in environment for hundreds of years",
	},
	"can": {
		CO2KgPerKg:    1.8,
		Recyclability: 88,
		LandfillTime:  "500 years",
		OceanImpact:   "moderate (lifetime ~100 years)",
		Score:         "C",
		Color:         "yellow",
		Description:   "Aluminum cans are highly recyclable but require significant energy to produce",
	},
	"aluminum": {
		CO2KgPerKg:    1.5,
		Recyclability: 88,
		LandfillTime:  "500 years",
		OceanImpact:   "moderate toxicity",
		Score:         "C",
		Color:         "yellow",
		Description:   "Energy-intensive to produce but highly recyclable",
	},
	"glass": {
		CO2KgPerKg:    0.4,
		Recyclability: 85,
		LandfillTime:  "∞ (but reusable)",
		OceanImpact:   "low",
		Score:         "B",
		Color:         "green",
		Description:   "Heavy delivery increases transport CO2 but fully recyclable forever",
	},
	"cardboard": {
		CO2KgPerKg:    0.8,
		Recyclability: 88,
		LandfillTime:  "2-3 months",
		OceanImpact:   "biodegradable",
		Score:         "A",
		Color:         "green",
		Description:   "Renewable, biodegradable, and highly recyclable",
	},
	"paper": {
		CO2KgPerKg:    0.6,
		Recyclability: 72,
		LandfillTime:  "2-3 months",
		OceanImpact:   "biodegradable",
		Score:         "B",
		Color:         "green",
		Description:   "Renewable and biodegradable when composted",
	},
}

// letterScoreRank orders packaging grades, A best. Unknown grades rank
// as C.
func letterScoreRank(score string) int {
	switch score {
	case "A":
		return 0
	case "B":
		return 1
	case "C":
		return 2
	case "D":
		return 3
	case "E":
		return 4
	}
	return 2
}

// PackagingService classifies packaging recyclability and CO2 impact
// from free-text packaging descriptions. Stateless; never errors.
type PackagingService struct{}

// NewPackagingService creates a new packaging impact classifier
func NewPackagingService() *PackagingService {
	return &PackagingService{}
}

// Analyze scores a packaging description. Missing text yields an
// Unknown/gray result; text with no recognizable material is assumed
// neutral (B/yellow). The overall letter grade is the worst among the
// detected materials, not an average, so one bad material dominates.
func (s *PackagingService) Analyze(packagingText string) *domain.PackagingImpact {
	if packagingText == "" || packagingText == "Not specified" {
		return &domain.PackagingImpact{
			Impact:  "unknown",
			Score:   "Unknown",
			Color:   "gray",
			Details: "No packaging information available",
		}
	}

	materials := extractMaterials(strings.ToLower(packagingText))

	if len(materials) == 0 {
		return &domain.PackagingImpact{
			Impact:    "unknown",
			Score:     "B", // assume neutral if text unclear
			Color:     "yellow",
			Details:   fmt.Sprintf("Packaging: %s", packagingText),
			Materials: []string{"unspecified"},
		}
	}

	var totalCO2 float64
	var totalRecyclability int
	worstScore := "A"
	worstColor := "green"
	var description string
	var oceanImpacts []string
	var landfillTimes []string

	for i, material := range materials {
		impact, ok := packagingImpactTable[material]
		if !ok {
			impact = packagingImpactTable["paper"] // default to paper
		}

		totalCO2 += impact.CO2KgPerKg
		totalRecyclability += impact.Recyclability
		landfillTimes = append(landfillTimes, impact.LandfillTime)
		if i == 0 {
			description = impact.Description // primary material
		}

		if letterScoreRank(worstScore) < letterScoreRank(impact.Score) {
			worstScore = impact.Score
			worstColor = impact.Color
		}

		if impact.OceanImpact != "low" {
			oceanImpacts = append(oceanImpacts, impact.OceanImpact)
		}
	}

	if len(oceanImpacts) == 0 {
		oceanImpacts = []string{"low"}
	}

	avgCO2 := roundTo(totalCO2/float64(len(materials)), 2)
	avgRecycle := int(math.Round(float64(totalRecyclability) / float64(len(materials))))

	return &domain.PackagingImpact{
		Impact:               "calculated",
		Score:                worstScore,
		Color:                worstColor,
		CO2KgPerKg:           avgCO2,
		RecyclabilityPercent: avgRecycle,
		Materials:            materials,
		OceanImpact:          oceanImpacts,
		LandfillTime:         landfillTimes,
		Description:          description,
		Suggestions:          packagingSuggestions(materials, worstScore),
	}
}

// extractMaterials finds packaging materials mentioned in lowercased
// text, applying inference rules for common phrasings, deduplicated in
// detection order.
func extractMaterials(text string) []string {
	var materials []string
	seen := make(map[string]bool)
	add := func(m string) {
		if !seen[m] {
			seen[m] = true
			materials = append(materials, m)
		}
	}

	// Direct material mentions. Fixed iteration order keeps output
	// deterministic across calls.
	for _, material := range []string{"jar", "bottle", "plastic", "pet", "hdpe", "can", "aluminum", "glass", "cardboard", "paper"} {
		if strings.Contains(text, material) {
			add(material)
		}
	}

	// Inference rules for common packaging phrasings
	if strings.Contains(text, "metal") || strings.Contains(text, "tinplate") {
		if !seen["can"] {
			add("aluminum") // assume aluminum for metal cans
		}
	}

	if strings.Contains(text, "can") || strings.Contains(text, "tin") {
		add("can")
	}

	if strings.Contains(text, "foil") || strings.Contains(text, "metallic") {
		add("aluminum")
	}

	if strings.Contains(text, "box") {
		add("cardboard") // boxes are usually cardboard
	}

	if strings.Contains(text, "bag") && !seen["plastic"] && !seen["paper"] && !seen["cardboard"] {
		add("plastic") // assume plastic if not specified
	}

	if strings.Contains(text, "bottle") {
		if strings.Contains(text, "glass") {
			add("glass")
		} else if !seen["plastic"] {
			add("pet") // common bottle plastic
		}
	}

	return materials
}

// packagingSuggestions generates improvement hints for the detected
// materials.
func packagingSuggestions(materials []string, worstScore string) []string {
	has := make(map[string]bool, len(materials))
	for _, m := range materials {
		has[m] = true
	}

	var suggestions []string

	if has["plastic"] || has["pet"] || has["hdpe"] {
		suggestions = append(suggestions, "Consider glass or paper alternatives")
	}

	if worstScore == "E" {
		suggestions = append(suggestions, "Choose products with sustainable packaging or recycle properly")
	}

	if has["can"] || has["aluminum"] {
		suggestions = append(suggestions, "Cans are recyclable - check local recycling programs")
	}

	if has["glass"] {
		suggestions = append(suggestions, "Glass can be reused or recycled indefinitely")
	}

	if len(suggestions) == 0 {
		suggestions = []string{"Product has basic packaging information"}
	}

	return suggestions
}
