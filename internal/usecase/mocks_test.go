package usecase

import (
	"context"

	"github.com/sustainscan/backend/internal/domain"
)

// MockOFFClient is a mock implementation of domain.OFFClient
type MockOFFClient struct {
	product       *domain.Product
	productErr    error
	candidates    []domain.AlternativeCandidate
	searchErr     error
	contributeErr error

	getCalled        bool
	searchCalled     bool
	searchCategory   string
	searchGrades     []string
	searchPageSize   int
	contributeCalled bool
}

func (m *MockOFFClient) GetProduct(ctx context.Context, barcode string) (*domain.Product, error) {
	m.getCalled = true
	if m.productErr != nil {
		return nil, m.productErr
	}
	return m.product, nil
}

func (m *MockOFFClient) SearchAlternatives(ctx context.Context, category string, betterGrades []string, pageSize int) ([]domain.AlternativeCandidate, error) {
	m.searchCalled = true
	m.searchCategory = category
	m.searchGrades = betterGrades
	m.searchPageSize = pageSize
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.candidates, nil
}

func (m *MockOFFClient) Contribute(ctx context.Context, barcode string, fields domain.ContributionFields) error {
	m.contributeCalled = true
	return m.contributeErr
}

// MockCarbonClient is a mock implementation of domain.CarbonClient
type MockCarbonClient struct {
	estimate *domain.ShipmentEstimate
	err      error

	called  bool
	lastReq domain.ShipmentRequest
}

func (m *MockCarbonClient) EstimateShipment(ctx context.Context, req domain.ShipmentRequest) (*domain.ShipmentEstimate, error) {
	m.called = true
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.estimate, nil
}

// MockGenerator is a mock implementation of domain.AlternativesGenerator
type MockGenerator struct {
	candidates []domain.AlternativeCandidate
	err        error

	called    bool
	lastLimit int
}

func (m *MockGenerator) Suggest(ctx context.Context, product *domain.Product, limit int) ([]domain.AlternativeCandidate, error) {
	m.called = true
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.candidates, nil
}

// MockFavourites is an in-memory implementation of domain.FavouritesRepository
type MockFavourites struct {
	favourites map[string]*domain.ScanResult
	recent     []*domain.ScanResult

	putErr       error
	recentAddErr error
}

func NewMockFavourites() *MockFavourites {
	return &MockFavourites{favourites: make(map[string]*domain.ScanResult)}
}

func (m *MockFavourites) Get(ctx context.Context, code string) (*domain.ScanResult, error) {
	if result, ok := m.favourites[code]; ok {
		return result, nil
	}
	return nil, domain.ErrNotFavourite
}

func (m *MockFavourites) Put(ctx context.Context, result *domain.ScanResult) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.favourites[result.Product.Code] = result
	return nil
}

func (m *MockFavourites) Delete(ctx context.Context, code string) error {
	if _, ok := m.favourites[code]; !ok {
		return domain.ErrNotFavourite
	}
	delete(m.favourites, code)
	return nil
}

func (m *MockFavourites) All(ctx context.Context) (map[string]*domain.ScanResult, error) {
	return m.favourites, nil
}

func (m *MockFavourites) IsFavourite(ctx context.Context, code string) (bool, error) {
	_, ok := m.favourites[code]
	return ok, nil
}

func (m *MockFavourites) RecentScans(ctx context.Context) ([]*domain.ScanResult, error) {
	return m.recent, nil
}

func (m *MockFavourites) AddRecentScan(ctx context.Context, result *domain.ScanResult) error {
	if m.recentAddErr != nil {
		return m.recentAddErr
	}
	m.recent = append([]*domain.ScanResult{result}, m.recent...)
	return nil
}
