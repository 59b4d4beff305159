package domain

import "context"

// OFFClient defines the interface for the Open Food Facts catalog API
type OFFClient interface {
	GetProduct(ctx context.Context, barcode string) (*Product, error)
	SearchAlternatives(ctx context.Context, category string, betterGrades []string, pageSize int) ([]AlternativeCandidate, error)
	Contribute(ctx context.Context, barcode string, fields ContributionFields) error
}

// ShipmentRequest asks the emissions API for the CO2 cost of moving a
// bulk freight load over a route.
type ShipmentRequest struct {
	OriginCountry      string
	DestinationCountry string
	WeightKg           float64
	DistanceKm         float64
	TransportMethod    string
}

// ShipmentEstimate is the emissions API's answer for a whole shipment.
type ShipmentEstimate struct {
	CO2Kg           float64
	DistanceKm      float64
	TransportMethod string
}

// CarbonClient defines the interface for the live emissions-estimation API
type CarbonClient interface {
	EstimateShipment(ctx context.Context, req ShipmentRequest) (*ShipmentEstimate, error)
}

// AlternativesGenerator defines the interface for the generative-AI
// alternatives suggestion service
type AlternativesGenerator interface {
	Suggest(ctx context.Context, product *Product, limit int) ([]AlternativeCandidate, error)
}

// FavouritesRepository persists favourited scan results keyed by
// barcode, plus a short list of recent scans.
type FavouritesRepository interface {
	Get(ctx context.Context, code string) (*ScanResult, error)
	Put(ctx context.Context, result *ScanResult) error
	Delete(ctx context.Context, code string) error
	All(ctx context.Context) (map[string]*ScanResult, error)
	IsFavourite(ctx context.Context, code string) (bool, error)

	RecentScans(ctx context.Context) ([]*ScanResult, error)
	AddRecentScan(ctx context.Context, result *ScanResult) error
}
