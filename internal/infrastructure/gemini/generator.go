package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/sustainscan/backend/internal/domain"
)

// Generator suggests healthier alternative products using Google's
// Gemini API.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a new Gemini alternatives generator.
func NewGenerator(ctx context.Context, apiKey, model string) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Generator{
		client: client,
		model:  model,
	}, nil
}

// aiAlternative is the structured response row requested from the model
type aiAlternative struct {
	Alternatives    []string `json:"alternatives"`
	Nutrients       []string `json:"nutrients"`
	Ingredients     []string `json:"ingredients"`
	Packaging       string   `json:"packaging"`
	Vegan           bool     `json:"vegan"`
	NutriscoreGrade string   `json:"nutriscore_grade"`
}

// responseSchema constrains the model output to a JSON array of
// alternatives.
var responseSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"alternatives": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Product names in 'Brand: Product' format",
			},
			"nutrients": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"ingredients": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"packaging": {
				Type:        genai.TypeString,
				Description: "Primary packaging material, e.g. glass, cardboard, plastic",
			},
			"vegan": {
				Type: genai.TypeBoolean,
			},
			"nutriscore_grade": {
				Type:        genai.TypeString,
				Description: "Estimated Nutri-Score grade a-e",
			},
		},
		Required: []string{"alternatives", "packaging", "nutriscore_grade"},
	},
}

// Suggest asks Gemini for up to limit healthier, lower-impact
// alternatives to the given product.
func (g *Generator) Suggest(ctx context.Context, product *domain.Product, limit int) ([]domain.AlternativeCandidate, error) {
	if product == nil || product.Name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if limit <= 0 {
		limit = 5
	}

	prompt := buildPrompt(product, limit)

	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   responseSchema,
			ThinkingConfig: &genai.ThinkingConfig{
				ThinkingBudget: genai.Ptr(int32(1024)),
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("Gemini generate failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var rows []aiAlternative
	if err := json.Unmarshal([]byte(text), &rows); err != nil {
		log.Printf("[AI] failed to parse Gemini response: %v", err)
		return nil, fmt.Errorf("failed to parse Gemini response: %w", err)
	}

	return mapAlternatives(rows, limit), nil
}

// buildPrompt summarizes the scanned product for the model
func buildPrompt(product *domain.Product, limit int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Suggest up to %d healthier and more sustainable alternatives to this food product.\n\n", limit)
	fmt.Fprintf(&sb, "Product: %s\n", product.Name)
	if product.Brand != "" {
		fmt.Fprintf(&sb, "Brand: %s\n", product.Brand)
	}
	if product.Category != "" {
		fmt.Fprintf(&sb, "Category: %s\n", product.Category)
	}
	if product.IngredientsText != "" && product.IngredientsText != "Not available" {
		fmt.Fprintf(&sb, "Ingredients: %s\n", product.IngredientsText)
	}
	if product.PackagingText != "" && product.PackagingText != "Not specified" {
		fmt.Fprintf(&sb, "Packaging: %s\n", product.PackagingText)
	}
	if len(product.NutrientsData) > 0 {
		sb.WriteString("Nutrients per 100g:\n")
		for name, value := range product.NutrientsData {
			fmt.Fprintf(&sb, "  %s: %.1f\n", name, value)
		}
	}

	sb.WriteString("\nEach suggestion must be a real widely available product. ")
	sb.WriteString("Name products as 'Brand: Product'. Prefer suggestions with lower sugar, ")
	sb.WriteString("recyclable packaging and a better Nutri-Score than the scanned product.")

	return sb.String()
}

// mapAlternatives flattens the model rows into ranked candidates
func mapAlternatives(rows []aiAlternative, limit int) []domain.AlternativeCandidate {
	now := time.Now().UnixMilli()

	var candidates []domain.AlternativeCandidate
	for _, row := range rows {
		for _, name := range row.Alternatives {
			if strings.TrimSpace(name) == "" {
				continue
			}

			brand, productName := splitBrandName(name)

			score := 5.0
			if strings.EqualFold(row.Packaging, "glass") {
				score += 2
			}

			candidates = append(candidates, domain.AlternativeCandidate{
				Code:             fmt.Sprintf("ai_%d_%d", now, len(candidates)),
				ProductName:      productName,
				Brand:            brand,
				NutriscoreGrade:  strings.ToLower(row.NutriscoreGrade),
				Packaging:        row.Packaging,
				Ingredients:      row.Ingredients,
				Nutrients:        row.Nutrients,
				Vegan:            row.Vegan,
				ImprovementScore: score,
				Source:           "AI",
			})

			if len(candidates) == limit {
				return candidates
			}
		}
	}
	return candidates
}

// splitBrandName splits a "Brand: Product" suggestion into its parts
func splitBrandName(name string) (brand, product string) {
	parts := strings.SplitN(name, ":", 2)
	if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return "", strings.TrimSpace(name)
}
