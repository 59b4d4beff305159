package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/sustainscan/backend/internal/domain"
)

// ScanServiceConfig holds configuration for the scan pipeline
type ScanServiceConfig struct {
	DestinationCountry string
	AlternativesLimit  int
}

// ScanService runs the full sustainability pipeline for one barcode:
// product fetch, origin inference, transport emissions, packaging
// impact, ingredient concerns, composite eco-score, and alternatives.
type ScanService struct {
	off          domain.OFFClient
	favourites   domain.FavouritesRepository
	origin       *OriginService
	emission     *EmissionService
	packaging    *PackagingService
	ingredients  *IngredientService
	ecoScore     *EcoScoreService
	alternatives *AlternativesService
	destination  string
	altLimit     int
}

// NewScanService creates a scan service with dependencies
func NewScanService(
	off domain.OFFClient,
	favourites domain.FavouritesRepository,
	origin *OriginService,
	emission *EmissionService,
	packaging *PackagingService,
	ingredients *IngredientService,
	ecoScore *EcoScoreService,
	alternatives *AlternativesService,
	config ScanServiceConfig,
) *ScanService {
	destination := config.DestinationCountry
	if destination == "" {
		destination = "India"
	}
	altLimit := config.AlternativesLimit
	if altLimit <= 0 {
		altLimit = defaultAlternativesLimit
	}

	return &ScanService{
		off:          off,
		favourites:   favourites,
		origin:       origin,
		emission:     emission,
		packaging:    packaging,
		ingredients:  ingredients,
		ecoScore:     ecoScore,
		alternatives: alternatives,
		destination:  destination,
		altLimit:     altLimit,
	}
}

// Scan fetches the product and derives every sustainability signal.
// Product-not-found is the only upstream error surfaced; everything
// downstream degrades to lower-confidence results.
func (s *ScanService) Scan(ctx context.Context, barcode string) (*domain.ScanResult, error) {
	if !validBarcode(barcode) {
		return nil, fmt.Errorf("%w: barcode must be at least 8 digits", domain.ErrInvalidRequest)
	}

	product, err := s.off.GetProduct(ctx, barcode)
	if err != nil {
		return nil, err
	}

	origin := s.origin.Estimate(product.Code, product.Brand)

	var transportation *domain.EmissionEstimate
	if origin.Country != "Unknown" {
		transportation = s.emission.Estimate(ctx, origin.Country, s.destination, product.WeightKg)
	}

	packagingImpact := s.packaging.Analyze(product.PackagingText)
	concerns := s.ingredients.Scan(product.IngredientTags)

	ecoScore := s.ecoScore.Score(EcoScoreInput{
		PackagingImpact:    packagingImpact,
		Transportation:     transportation,
		IngredientsText:    product.IngredientsText,
		IngredientConcerns: concerns,
		NutrientsData:      product.NutrientsData,
		NutrientLevels:     product.NutrientLevels,
	})

	alternatives, err := s.alternatives.Find(ctx, product, s.altLimit)
	if err != nil {
		// Alternatives are best-effort during a scan; the dedicated
		// endpoint surfaces this failure explicitly.
		log.Printf("[SCAN] alternatives unavailable for %s: %v", barcode, err)
		alternatives = nil
	}

	result := &domain.ScanResult{
		Product:            product,
		Origin:             origin,
		Transportation:     transportation,
		PackagingImpact:    packagingImpact,
		IngredientConcerns: concerns,
		EcoScore:           ecoScore,
		Alternatives:       alternatives,
		Warnings:           dataQualityWarnings(product),
	}

	if s.favourites != nil {
		if fav, err := s.favourites.IsFavourite(ctx, product.Code); err == nil {
			result.Favourite = fav
		}
		if err := s.favourites.AddRecentScan(ctx, result); err != nil {
			log.Printf("[SCAN] failed to record recent scan %s: %v", barcode, err)
		}
	}

	return result, nil
}

// Alternatives looks up ranked alternatives for an already-known
// barcode, for the dedicated endpoint.
func (s *ScanService) Alternatives(ctx context.Context, barcode string, limit int) ([]domain.AlternativeCandidate, error) {
	if !validBarcode(barcode) {
		return nil, fmt.Errorf("%w: barcode must be at least 8 digits", domain.ErrInvalidRequest)
	}

	product, err := s.off.GetProduct(ctx, barcode)
	if err != nil {
		return nil, err
	}

	return s.alternatives.Find(ctx, product, limit)
}

// dataQualityWarnings flags gaps in the fetched product data so the
// caller can prompt for a contribution.
func dataQualityWarnings(product *domain.Product) []string {
	var warnings []string

	if product.Completeness > 0 && product.Completeness < 0.5 {
		warnings = append(warnings, "Product data is incomplete")
	}
	if product.EcoScoreOFF == 0 {
		warnings = append(warnings, "Environmental score not available")
	}
	if product.IngredientsText == "" || product.IngredientsText == "Not available" {
		warnings = append(warnings, "Ingredients not specified")
	}
	if product.PackagingText == "" || product.PackagingText == "Not specified" {
		warnings = append(warnings, "Packaging information missing")
	}

	return warnings
}

// validBarcode checks a barcode is all digits and long enough to carry
// a GS1 prefix.
func validBarcode(barcode string) bool {
	if len(barcode) < 8 {
		return false
	}
	for _, c := range barcode {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
