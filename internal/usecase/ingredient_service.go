package usecase

import (
	"strings"

	"github.com/sustainscan/backend/internal/domain"
)

// concernCategory holds the metadata emitted for one concern group
type concernCategory struct {
	Name        string
	Severity    string
	Icon        string
	Description string
}

var (
	concernPalmOil = concernCategory{
		Name:        "Palm Oil",
		Severity:    "high",
		Icon:        "🌴",
		Description: "Palm oil production is a major driver of deforestation and habitat loss",
	}
	concernFlavorEnhancers = concernCategory{
		Name:        "Flavor Enhancers",
		Severity:    "medium",
		Icon:        "🧂",
		Description: "MSG and similar enhancers mask low-quality ingredients and may cause sensitivity",
	}
	concernArtificialColors = concernCategory{
		Name:        "Artificial Colors",
		Severity:    "medium",
		Icon:        "🎨",
		Description: "Synthetic food dyes linked to hyperactivity and allergic reactions",
	}
	concernTransFats = concernCategory{
		Name:        "Trans Fats",
		Severity:    "high",
		Icon:        "🚫",
		Description: "Hydrogenated oils raise bad cholesterol and cardiovascular risk",
	}
)

// concernKeyword pairs a lowercase keyword with its category. The
// slice is ordered; the first keyword contained in a tag wins.
type concernKeyword struct {
	keyword  string
	category concernCategory
}

var concernKeywords = []concernKeyword{
	// Palm oil
	{"palm oil", concernPalmOil},
	{"palm fat", concernPalmOil},
	{"palm kernel", concernPalmOil},

	// MSG / flavor enhancers
	{"monosodium glutamate", concernFlavorEnhancers},
	{"msg", concernFlavorEnhancers},
	{"e621", concernFlavorEnhancers},
	{"flavour enhancer", concernFlavorEnhancers},
	{"flavor enhancer", concernFlavorEnhancers},

	// Artificial colors: common E numbers and trade names
	{"artificial colour", concernArtificialColors},
	{"artificial color", concernArtificialColors},
	{"tartrazine", concernArtificialColors},
	{"sunset yellow", concernArtificialColors},
	{"carmoisine", concernArtificialColors},
	{"allura red", concernArtificialColors},
	{"brilliant blue", concernArtificialColors},
	{"e102", concernArtificialColors},
	{"e104", concernArtificialColors},
	{"e110", concernArtificialColors},
	{"e122", concernArtificialColors},
	{"e124", concernArtificialColors},
	{"e129", concernArtificialColors},
	{"e131", concernArtificialColors},
	{"e133", concernArtificialColors},
	{"e142", concernArtificialColors},

	// Trans fats
	{"hydrogenated", concernTransFats},
	{"partially", concernTransFats},
}

// IngredientService scans normalized ingredient tags for concerning
// ingredient categories. Stateless; never errors.
type IngredientService struct{}

// NewIngredientService creates a new ingredient concern scanner
func NewIngredientService() *IngredientService {
	return &IngredientService{}
}

// Scan returns at most one concern per category, in input tag order.
// Tags may carry a language prefix ("en:palm-oil") which is stripped
// before matching. Empty input yields an empty list.
func (s *IngredientService) Scan(tags []string) []domain.IngredientConcern {
	if len(tags) == 0 {
		return nil
	}

	var concerns []domain.IngredientConcern
	flagged := make(map[string]bool)

	for _, tag := range tags {
		normalized := normalizeIngredientTag(tag)
		if normalized == "" {
			continue
		}

		for _, ck := range concernKeywords {
			if flagged[ck.category.Name] {
				continue
			}
			if strings.Contains(normalized, ck.keyword) {
				flagged[ck.category.Name] = true
				concerns = append(concerns, domain.IngredientConcern{
					Category:    ck.category.Name,
					Severity:    ck.category.Severity,
					Icon:        ck.category.Icon,
					Description: ck.category.Description,
					Detected:    stripLanguagePrefix(tag),
				})
				break
			}
		}
	}

	return concerns
}

// normalizeIngredientTag lowercases a tag, strips its language prefix
// and replaces tag hyphens with spaces so keyword containment works on
// both "palm-oil" and "palm oil" forms.
func normalizeIngredientTag(tag string) string {
	t := strings.ToLower(strings.TrimSpace(stripLanguagePrefix(tag)))
	return strings.ReplaceAll(t, "-", " ")
}

// stripLanguagePrefix removes a leading 2-letter language prefix like
// "en:" or "fr:".
func stripLanguagePrefix(tag string) string {
	if len(tag) > 3 && tag[2] == ':' {
		return tag[3:]
	}
	return tag
}
