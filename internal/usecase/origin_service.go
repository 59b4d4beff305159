package usecase

import (
	"strings"

	"github.com/sustainscan/backend/internal/domain"
)

// gs1PrefixToCountry maps GS1 country prefixes to a country of
// manufacture. Prefixes 890-899 are all assigned to India on purpose:
// the app targets the Indian market and treats the whole block as
// domestic, overriding the official GS1 split.
var gs1PrefixToCountry = map[string]string{
	// India (890-899 block, see note above)
	"890": "India",
	"891": "India",
	"892": "India",
	"893": "India",
	"894": "India",
	"895": "India",
	"896": "India",
	"897": "India",
	"898": "India",
	"899": "India",

	// Europe
	"30":  "France",
	"31":  "France",
	"32":  "France",
	"33":  "France",
	"34":  "France",
	"35":  "France",
	"36":  "France",
	"37":  "France",
	"380": "Bulgaria",
	"383": "Slovenia",
	"385": "Croatia",
	"387": "Bosnia Herzegovina",
	"389": "North Macedonia",
	"40":  "Germany",
	"41":  "Germany",
	"42":  "Germany",
	"43":  "Germany",
	"44":  "Germany",
	"45":  "Japan",
	"46":  "Russia",
	"470": "Kyrgyzstan",
	"471": "Taiwan",
	"474": "Estonia",
	"475": "Latvia",
	"477": "Lithuania",
	"479": "Sri Lanka",
	"480": "Philippines",
	"482": "Ukraine",
	"484": "Moldova",
	"485": "Armenia",
	"486": "Georgia",
	"487": "Kazakhstan",
	"488": "Tajikistan",
	"489": "Hong Kong",
	"49":  "Japan",
	"50":  "United Kingdom",
	"520": "Greece",
	"528": "Lebanon",
	"529": "Cyprus",
	"531": "North Macedonia",
	"535": "Malta",
	"539": "Ireland",
	"54":  "Belgium & Luxembourg",
	"560": "Portugal",
	"569": "Iceland",
	"57":  "Denmark",
	"590": "Poland",
	"594": "Romania",
	"599": "Hungary",
	"600": "South Africa",
	"601": "South Africa",
	"608": "Bahrain",
	"609": "Mauritius",
	"611": "Morocco",
	"613": "Algeria",
	"615": "Nigeria",
	"616": "Kenya",
	"617": "Cameroon",
	"618": "Ivory Coast",
	"619": "Tunisia",
	"621": "Syria",
	"622": "Egypt",
	"623": "Brunei",
	"624": "Libya",
	"625": "Jordan",
	"626": "Iran",
	"627": "Kuwait",
	"628": "Saudi Arabia",
	"629": "United Arab Emirates",
	"64":  "Yugoslavia", // Serbia now
	"690": "China",
	"691": "China",
	"692": "China",
	"693": "China",
	"694": "China",
	"695": "China",
	"697": "China",
	"698": "China",
	"699": "China",
	"70":  "Norway",
	"729": "Israel",
	"73":  "Sweden",
	"740": "Guatemala",
	"741": "El Salvador",
	"742": "Honduras",
	"743": "Nicaragua",
	"744": "Costa Rica",
	"745": "Panama",
	"746": "Dominican Republic",
	"750": "Mexico",
	"759": "Venezuela",
	"76":  "Switzerland",
	"770": "Colombia",
	"773": "Uruguay",
	"775": "Peru",
	"777": "Bolivia",
	"778": "Argentina",
	"779": "Ecuador",
	"780": "Chile",
	"784": "Paraguay",
	"785": "Peru",
	"786": "Ecuador",
	"789": "Brazil",
	"790": "Brazil",
	"80":  "Italy",
	"81":  "Italy",
	"82":  "Italy",
	"83":  "Italy",
	"84":  "Spain",
	"850": "Cuba",
	"858": "Slovakia",
	"859": "Czech Republic",
	"860": "Serbia",
	"865": "Mongolia",
	"867": "North Korea",
	"868": "Turkey",
	"869": "Turkey",
	"870": "Netherlands",
	"880": "South Korea",
	"884": "Cambodia",
	"885": "Thailand",
	"888": "Singapore",
	"90":  "Austria",
	"91":  "Austria",
	"93":  "Australia",
	"94":  "New Zealand",
	"955": "Malaysia",
	"958": "Macau",
	"977": "Israel",
	"978": "Jordan",
	"979": "Colombia",
	"980": "Philippines",
}

type brandOverride struct {
	name    string
	country string
}

// brandOriginOverrides maps multinational brand substrings to the
// country their products are most commonly attributed to. These beat
// the GS1 prefix because large brands register barcodes anywhere.
// Ordered so a brand matching two entries always resolves the same way.
var brandOriginOverrides = []brandOverride{
	{"ferrero", "Italy"},
	{"nestle", "Switzerland"},
	{"danone", "France"},
	{"kraft", "USA"},
	{"cocacola", "USA"},
	{"pepsi", "USA"},
	{"mars", "USA"},
	{"barilla", "Italy"},
	{"heinz", "USA"},
	{"unilever", "Netherlands"},
	{"procter", "USA"},
	{"mondelez", "USA"},
	{"cargill", "USA"},
}

// OriginService estimates a product's country of manufacture from its
// barcode and brand. It is stateless and never returns an error; any
// failure degrades to an Unknown/none estimate.
type OriginService struct{}

// NewOriginService creates a new origin estimation service
func NewOriginService() *OriginService {
	return &OriginService{}
}

// Estimate infers the origin country for a barcode. Priority order:
// brand override, GS1 prefix lookup, hardcoded fallback patterns,
// Unknown.
func (s *OriginService) Estimate(barcode, brand string) *domain.OriginEstimate {
	if len(barcode) < 8 {
		return &domain.OriginEstimate{Country: "Unknown", Confidence: domain.ConfidenceLow, Method: "invalid"}
	}

	// Brand overrides win (highest confidence)
	if brand != "" {
		brandLower := strings.ToLower(brand)
		for _, override := range brandOriginOverrides {
			if strings.Contains(brandLower, override.name) {
				return &domain.OriginEstimate{
					Country:      override.country,
					Confidence:   domain.ConfidenceHigh,
					Method:       "brand_override",
					BrandMatched: override.name,
				}
			}
		}
	}

	// GS1 prefix lookup (next highest confidence)
	prefix := findGS1Prefix(barcode)
	if country, ok := gs1PrefixToCountry[prefix]; ok {
		return &domain.OriginEstimate{
			Country:    refineCountryName(country, brand),
			Confidence: domain.ConfidenceMedium,
			Method:     "gs1_prefix",
			PrefixUsed: prefix,
		}
	}

	// Fallback: known barcode patterns outside the GS1 table
	if country := barcodePatternFallback(barcode); country != "" {
		return &domain.OriginEstimate{Country: country, Confidence: domain.ConfidenceLow, Method: "fallback_pattern"}
	}

	return &domain.OriginEstimate{Country: "Unknown", Confidence: domain.ConfidenceNone, Method: "error"}
}

// findGS1Prefix extracts the GS1 country prefix from a barcode.
// EAN-13 uses a 3-digit prefix, except codes starting with 0 where
// only 2 digits identify the country.
func findGS1Prefix(barcode string) string {
	if strings.HasPrefix(barcode, "0") {
		return barcode[:2]
	}
	return barcode[:3]
}

// refineCountryName resolves composite GS1 country entries
func refineCountryName(country, brand string) string {
	if country == "Belgium & Luxembourg" {
		brandLower := strings.ToLower(brand)
		if strings.Contains(brandLower, "belgium") {
			return "Belgium"
		}
		if strings.Contains(brandLower, "luxembourg") {
			return "Luxembourg"
		}
		return "Belgium" // Most common
	}
	return country
}

// barcodePatternFallback checks hardcoded prefixes for barcodes the
// GS1 table does not cover. Returns "" when nothing matches.
func barcodePatternFallback(barcode string) string {
	switch {
	case strings.HasPrefix(barcode, "300"), strings.HasPrefix(barcode, "301"):
		return "France"
	case strings.HasPrefix(barcode, "400"), strings.HasPrefix(barcode, "401"):
		return "Germany"
	case strings.HasPrefix(barcode, "800"), strings.HasPrefix(barcode, "801"):
		return "Italy"
	case strings.HasPrefix(barcode, "30"):
		return "France"
	case strings.HasPrefix(barcode, "500"):
		return "United Kingdom"
	}
	return ""
}
