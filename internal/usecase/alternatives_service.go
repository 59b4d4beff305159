package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/sustainscan/backend/internal/domain"
)

// gradeRank maps Nutri-Score letters to a comparable rank, a best.
// Unknown grades rank lowest.
var gradeRank = map[string]int{"e": 1, "d": 2, "c": 3, "b": 4, "a": 5}

const defaultAlternativesLimit = 5

// AlternativesService finds and ranks more sustainable alternative
// products. The generative-AI path is tried first when configured;
// any failure there falls back to ranking an OFF category search.
type AlternativesService struct {
	generator domain.AlternativesGenerator // nil disables the AI path
	off       domain.OFFClient
}

// NewAlternativesService creates an alternatives service. generator
// may be nil, in which case only the OFF fallback is used.
func NewAlternativesService(generator domain.AlternativesGenerator, off domain.OFFClient) *AlternativesService {
	return &AlternativesService{generator: generator, off: off}
}

// Find returns up to limit alternatives for the product, best first.
// Returns ErrAlternativesUnavailable only when both sources fail.
func (s *AlternativesService) Find(ctx context.Context, product *domain.Product, limit int) ([]domain.AlternativeCandidate, error) {
	if product == nil || product.Name == "" {
		return nil, domain.ErrInvalidRequest
	}
	if limit <= 0 {
		limit = defaultAlternativesLimit
	}

	var aiErr error
	if s.generator != nil {
		alternatives, err := s.generator.Suggest(ctx, product, limit)
		if err == nil && len(alternatives) > 0 {
			log.Printf("[AI] %d AI-generated alternatives for %q", len(alternatives), product.Name)
			if len(alternatives) > limit {
				alternatives = alternatives[:limit]
			}
			return alternatives, nil
		}
		aiErr = err
		log.Printf("[AI] generation failed for %q, falling back to OFF search: %v", product.Name, err)
	}

	alternatives, offErr := s.findFromCatalog(ctx, product, limit)
	if offErr != nil {
		if aiErr != nil {
			return nil, fmt.Errorf("%w: ai: %v, off: %v", domain.ErrAlternativesUnavailable, aiErr, offErr)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrAlternativesUnavailable, offErr)
	}
	return alternatives, nil
}

// findFromCatalog searches OFF for same-category products with better
// nutrition grades and ranks them locally.
func (s *AlternativesService) findFromCatalog(ctx context.Context, product *domain.Product, limit int) ([]domain.AlternativeCandidate, error) {
	if product.Category == "" {
		return nil, fmt.Errorf("no category available for alternatives search")
	}

	currentGrade := strings.ToLower(product.NutriscoreGrade)
	better := betterGrades(currentGrade)
	if len(better) == 0 {
		log.Printf("[AI] product %q already has best grade %q", product.Name, currentGrade)
		return nil, nil
	}

	pageSize := limit * 2
	if pageSize > 20 {
		pageSize = 20
	}

	candidates, err := s.off.SearchAlternatives(ctx, product.Category, better, pageSize)
	if err != nil {
		return nil, err
	}

	ranked := s.Rank(product, candidates, limit)
	for i := range ranked {
		ranked[i].Source = "OFF"
	}
	return ranked, nil
}

// Rank scores candidates against the current product, annotates their
// benefits, and returns the top limit, best improvement first.
func (s *AlternativesService) Rank(current *domain.Product, candidates []domain.AlternativeCandidate, limit int) []domain.AlternativeCandidate {
	if limit <= 0 {
		limit = defaultAlternativesLimit
	}

	ranked := make([]domain.AlternativeCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.ProductName == "" || candidate.Code == "" {
			continue
		}
		candidate.IsOrganic = hasLabelTag(candidate.LabelTags, "organic", "bio")
		candidate.IsFairTrade = hasLabelTag(candidate.LabelTags, "fair-trade")
		candidate.ImprovementScore = improvementScore(
			current.NutriscoreScore, strings.ToLower(current.NutriscoreGrade),
			candidate.NutriscoreScore, strings.ToLower(candidate.NutriscoreGrade),
		)
		candidate.Benefits = analyzeBenefits(current, candidate)
		ranked = append(ranked, candidate)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ImprovementScore > ranked[j].ImprovementScore
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// betterGrades returns the Nutri-Score grades strictly better than the
// current one.
func betterGrades(currentGrade string) []string {
	currentLevel := gradeRank[currentGrade]
	var grades []string
	for _, grade := range []string{"a", "b", "c", "d", "e"} {
		if gradeRank[grade] > currentLevel {
			grades = append(grades, grade)
		}
	}
	return grades
}

// improvementScore combines grade improvement (0-4 points) with a
// capped nutrition score delta (0-20 points).
func improvementScore(currentScore int, currentGrade string, altScore int, altGrade string) float64 {
	currentGradeNum := gradeRank[currentGrade]
	if currentGradeNum == 0 {
		currentGradeNum = 1
	}
	altGradeNum := gradeRank[altGrade]
	if altGradeNum == 0 {
		altGradeNum = 1
	}

	gradeImprovement := float64(altGradeNum - currentGradeNum)
	if gradeImprovement < 0 {
		gradeImprovement = 0
	}

	scoreBonus := float64(altScore-currentScore) / 5
	if scoreBonus < 0 {
		scoreBonus = 0
	} else if scoreBonus > 20 {
		scoreBonus = 20
	}

	return gradeImprovement + scoreBonus
}

// analyzeBenefits lists the specific improvements a candidate offers
// over the current product. Each check is independent.
func analyzeBenefits(current *domain.Product, alternative domain.AlternativeCandidate) []domain.Benefit {
	var benefits []domain.Benefit

	if alternative.NutriscoreScore > current.NutriscoreScore {
		benefits = append(benefits, domain.Benefit{Type: "nutrition", Text: "Better nutritional score", Icon: "🥗"})
	}

	if gradeBetter(current.NutriscoreGrade, alternative.NutriscoreGrade) {
		benefits = append(benefits, domain.Benefit{
			Type: "grade",
			Text: fmt.Sprintf("%s grade", strings.ToUpper(alternative.NutriscoreGrade)),
			Icon: "⭐",
		})
	}

	currentSugar := current.NutrientsData["sugar"]
	if alternative.SugarsPer100g > 0 && currentSugar > 0 && alternative.SugarsPer100g < currentSugar*0.8 {
		benefits = append(benefits, domain.Benefit{Type: "sugar", Text: "Lower sugar content", Icon: "🎯"})
	}

	currentEnergy := current.NutrientsData["energy"]
	if alternative.EnergyPer100g > 0 && currentEnergy > 0 && alternative.EnergyPer100g < currentEnergy*0.9 {
		benefits = append(benefits, domain.Benefit{Type: "calories", Text: "Lower calorie content", Icon: "⚡"})
	}

	if alternative.IsOrganic {
		benefits = append(benefits, domain.Benefit{Type: "organic", Text: "Organic certified", Icon: "🌱"})
	}

	if alternative.IsFairTrade {
		benefits = append(benefits, domain.Benefit{Type: "fair_trade", Text: "Fair trade certified", Icon: "🤝"})
	}

	if alternative.EcoScoreOFF > 0 && alternative.EcoScoreOFF > current.EcoScoreOFF {
		benefits = append(benefits, domain.Benefit{Type: "eco", Text: "Better eco-score", Icon: "♻️"})
	}

	return benefits
}

// gradeBetter reports whether candidate grade b beats grade a
func gradeBetter(a, b string) bool {
	return gradeRank[strings.ToLower(b)] > gradeRank[strings.ToLower(a)]
}

// hasLabelTag reports whether any label tag contains one of the
// substrings.
func hasLabelTag(tags []string, substrings ...string) bool {
	for _, tag := range tags {
		for _, sub := range substrings {
			if strings.Contains(tag, sub) {
				return true
			}
		}
	}
	return false
}
