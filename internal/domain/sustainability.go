package domain

// Confidence levels used across sustainability estimates
const (
	ConfidenceHigh      = "high"
	ConfidenceMedium    = "medium"
	ConfidenceLow       = "low"
	ConfidenceNone      = "none"
	ConfidenceEstimated = "estimated"
)

// OriginEstimate is a best-guess country of manufacture derived from a
// barcode's GS1 prefix and optional brand name.
type OriginEstimate struct {
	Country      string `json:"country"`
	Confidence   string `json:"confidence"` // high|medium|low|none
	Method       string `json:"method"`     // brand_override|gs1_prefix|fallback_pattern|invalid|error
	PrefixUsed   string `json:"prefixUsed,omitempty"`
	BrandMatched string `json:"brandMatched,omitempty"`
}

// EmissionEstimate is the estimated transportation CO2 footprint for a
// single product shipped from origin to destination.
type EmissionEstimate struct {
	CO2Kg                 float64 `json:"co2Kg"`
	DistanceKm            float64 `json:"distanceKm"`
	TransportMethod       string  `json:"transportMethod"` // truck|rail|sea|mixed|estimated
	Origin                string  `json:"origin"`
	Destination           string  `json:"destination"`
	Confidence            string  `json:"confidence"`
	Source                string  `json:"source"`
	ShipmentSizeTons      float64 `json:"shipmentSizeTons,omitempty"`
	ProductPortionPercent string  `json:"productPortionPercent,omitempty"`
}

// PackagingImpact classifies the environmental impact of a product's
// packaging materials.
type PackagingImpact struct {
	Impact               string   `json:"impact"` // calculated|unknown
	Score                string   `json:"score"`  // A..E or Unknown
	Color                string   `json:"color"`  // green|yellow|red|gray
	CO2KgPerKg           float64  `json:"co2KgPerKg,omitempty"`
	RecyclabilityPercent int      `json:"recyclabilityPercent,omitempty"`
	Materials            []string `json:"materials,omitempty"`
	OceanImpact          []string `json:"oceanImpact,omitempty"`
	LandfillTime         []string `json:"landfillTime,omitempty"`
	Description          string   `json:"description,omitempty"`
	Details              string   `json:"details,omitempty"`
	Suggestions          []string `json:"suggestions,omitempty"`
}

// HasRecyclability reports whether a recyclability percentage was
// actually computed (unknown packaging carries none).
func (p *PackagingImpact) HasRecyclability() bool {
	return p != nil && p.Impact == "calculated"
}

// IngredientConcern flags a concerning ingredient category detected in
// a product's ingredient tags.
type IngredientConcern struct {
	Category    string `json:"category"`
	Severity    string `json:"severity"` // high|medium|low
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Detected    string `json:"detected"` // the ingredient tag that matched
}

// Benefit is a specific improvement an alternative offers over the
// scanned product.
type Benefit struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Icon string `json:"icon"`
}

// AlternativeCandidate is a suggested more-sustainable product,
// scored against the scanned one.
type AlternativeCandidate struct {
	Code             string    `json:"code"`
	ProductName      string    `json:"productName"`
	Brand            string    `json:"brand,omitempty"`
	NutriscoreGrade  string    `json:"nutriscoreGrade,omitempty"`
	NutriscoreScore  int       `json:"nutriscoreScore,omitempty"`
	EcoScoreOFF      float64   `json:"ecoscoreOff,omitempty"`
	SugarsPer100g    float64   `json:"sugarsPer100g,omitempty"`
	EnergyPer100g    float64   `json:"energyPer100g,omitempty"`
	LabelTags        []string  `json:"labelTags,omitempty"`
	Packaging        string    `json:"packaging,omitempty"`
	Ingredients      []string  `json:"ingredients,omitempty"`
	Nutrients        []string  `json:"nutrients,omitempty"`
	Vegan            bool      `json:"vegan,omitempty"`
	ImprovementScore float64   `json:"improvementScore"`
	Benefits         []Benefit `json:"benefits,omitempty"`
	IsOrganic        bool      `json:"isOrganic,omitempty"`
	IsFairTrade      bool      `json:"isFairTrade,omitempty"`
	ImageURL         string    `json:"imageUrl,omitempty"`
	Source           string    `json:"source,omitempty"` // AI or OFF
}

// ScanResult bundles everything computed for one scanned barcode.
// EcoScore is nil when too little data was available to score fairly.
type ScanResult struct {
	Product            *Product              `json:"product"`
	Origin             *OriginEstimate       `json:"origin,omitempty"`
	Transportation     *EmissionEstimate     `json:"transportation,omitempty"`
	PackagingImpact    *PackagingImpact      `json:"packagingImpact,omitempty"`
	IngredientConcerns []IngredientConcern   `json:"ingredientConcerns,omitempty"`
	EcoScore           *int                  `json:"ecoScore"`
	Alternatives       []AlternativeCandidate `json:"alternatives,omitempty"`
	Warnings           []string              `json:"warnings,omitempty"`
	Favourite          bool                  `json:"favourite"`
}
