package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sustainscan/backend/config"
	"github.com/sustainscan/backend/internal/domain"
	"github.com/sustainscan/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// stubOFFClient implements domain.OFFClient for router tests
type stubOFFClient struct {
	product       *domain.Product
	productErr    error
	candidates    []domain.AlternativeCandidate
	searchErr     error
	contributeErr error
}

func (s *stubOFFClient) GetProduct(ctx context.Context, barcode string) (*domain.Product, error) {
	if s.productErr != nil {
		return nil, s.productErr
	}
	return s.product, nil
}

func (s *stubOFFClient) SearchAlternatives(ctx context.Context, category string, betterGrades []string, pageSize int) ([]domain.AlternativeCandidate, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.candidates, nil
}

func (s *stubOFFClient) Contribute(ctx context.Context, barcode string, fields domain.ContributionFields) error {
	return s.contributeErr
}

// stubFavourites is an in-memory domain.FavouritesRepository
type stubFavourites struct {
	favourites map[string]*domain.ScanResult
	recent     []*domain.ScanResult
}

func newStubFavourites() *stubFavourites {
	return &stubFavourites{favourites: make(map[string]*domain.ScanResult)}
}

func (s *stubFavourites) Get(ctx context.Context, code string) (*domain.ScanResult, error) {
	if r, ok := s.favourites[code]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFavourite
}

func (s *stubFavourites) Put(ctx context.Context, result *domain.ScanResult) error {
	s.favourites[result.Product.Code] = result
	return nil
}

func (s *stubFavourites) Delete(ctx context.Context, code string) error {
	if _, ok := s.favourites[code]; !ok {
		return domain.ErrNotFavourite
	}
	delete(s.favourites, code)
	return nil
}

func (s *stubFavourites) All(ctx context.Context) (map[string]*domain.ScanResult, error) {
	return s.favourites, nil
}

func (s *stubFavourites) IsFavourite(ctx context.Context, code string) (bool, error) {
	_, ok := s.favourites[code]
	return ok, nil
}

func (s *stubFavourites) RecentScans(ctx context.Context) ([]*domain.ScanResult, error) {
	return s.recent, nil
}

func (s *stubFavourites) AddRecentScan(ctx context.Context, result *domain.ScanResult) error {
	s.recent = append([]*domain.ScanResult{result}, s.recent...)
	return nil
}

func testScanProduct() *domain.Product {
	return &domain.Product{
		Code:            "8901030875021",
		Name:            "Masala Noodles",
		Category:        "noodles",
		IngredientsText: "wheat flour, palm oil",
		IngredientTags:  []string{"en:wheat-flour", "en:palm-oil"},
		PackagingText:   "plastic packet",
		NutriscoreGrade: "d",
		WeightKg:        0.07,
		Completeness:    0.8,
	}
}

// setupTestRouter wires a full router around stub infrastructure
func setupTestRouter(off *stubOFFClient, favourites *stubFavourites) *gin.Engine {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		App: config.AppConfig{
			DestinationCountry: "India",
			AlternativesLimit:  5,
		},
	}

	emission := usecase.NewEmissionService(nil)
	emission.SetJitterSource(func() float64 { return 0.5 })

	scanService := usecase.NewScanService(
		off,
		favourites,
		usecase.NewOriginService(),
		emission,
		usecase.NewPackagingService(),
		usecase.NewIngredientService(),
		usecase.NewEcoScoreService(),
		usecase.NewAlternativesService(nil, off),
		usecase.ScanServiceConfig{DestinationCountry: "India", AlternativesLimit: 5},
	)

	handler := NewHandler(scanService, favourites, off)
	return SetupRouter(cfg, handler)
}

func TestHealthCheckEndpoint(t *testing.T) {
	router := setupTestRouter(&stubOFFClient{}, newStubFavourites())

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "sustainscan-backend", body["service"])
}

func TestScanEndpoint(t *testing.T) {
	t.Run("full scan response", func(t *testing.T) {
		off := &stubOFFClient{product: testScanProduct()}
		router := setupTestRouter(off, newStubFavourites())

		req, _ := http.NewRequest("GET", "/api/v1/products/8901030875021", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var result domain.ScanResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

		assert.Equal(t, "Masala Noodles", result.Product.Name)
		assert.Equal(t, "India", result.Origin.Country)
		assert.NotNil(t, result.Transportation)
		assert.Equal(t, "E", result.PackagingImpact.Score)
		require.Len(t, result.IngredientConcerns, 1)
		assert.Equal(t, "Palm Oil", result.IngredientConcerns[0].Category)
	})

	t.Run("invalid barcode", func(t *testing.T) {
		router := setupTestRouter(&stubOFFClient{}, newStubFavourites())

		req, _ := http.NewRequest("GET", "/api/v1/products/abc", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("product not found", func(t *testing.T) {
		off := &stubOFFClient{productErr: domain.ErrProductNotFound}
		router := setupTestRouter(off, newStubFavourites())

		req, _ := http.NewRequest("GET", "/api/v1/products/0000000000000", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("upstream failure", func(t *testing.T) {
		off := &stubOFFClient{productErr: domain.ErrOFFAPIFailure}
		router := setupTestRouter(off, newStubFavourites())

		req, _ := http.NewRequest("GET", "/api/v1/products/8901030875021", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestAlternativesEndpoint(t *testing.T) {
	t.Run("returns ranked alternatives", func(t *testing.T) {
		off := &stubOFFClient{
			product: testScanProduct(),
			candidates: []domain.AlternativeCandidate{
				{Code: "111", ProductName: "Rice Noodles", NutriscoreGrade: "a"},
			},
		}
		router := setupTestRouter(off, newStubFavourites())

		req, _ := http.NewRequest("GET", "/api/v1/products/8901030875021/alternatives?limit=3", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Barcode      string                        `json:"barcode"`
			Alternatives []domain.AlternativeCandidate `json:"alternatives"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "8901030875021", body.Barcode)
		require.Len(t, body.Alternatives, 1)
		assert.Equal(t, "Rice Noodles", body.Alternatives[0].ProductName)
	})

	t.Run("invalid limit", func(t *testing.T) {
		router := setupTestRouter(&stubOFFClient{}, newStubFavourites())

		req, _ := http.NewRequest("GET", "/api/v1/products/8901030875021/alternatives?limit=zero", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("both sources failing", func(t *testing.T) {
		off := &stubOFFClient{
			product:   testScanProduct(),
			searchErr: errors.New("search down"),
		}
		router := setupTestRouter(off, newStubFavourites())

		req, _ := http.NewRequest("GET", "/api/v1/products/8901030875021/alternatives", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestContributeEndpoint(t *testing.T) {
	router := setupTestRouter(&stubOFFClient{}, newStubFavourites())

	post := func(payload string) *httptest.ResponseRecorder {
		req, _ := http.NewRequest("POST", "/api/v1/contribute", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("accepted", func(t *testing.T) {
		w := post(`{"barcode":"8901030875021","packaging":"glass jar"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing barcode", func(t *testing.T) {
		w := post(`{"packaging":"glass jar"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no fields", func(t *testing.T) {
		w := post(`{"barcode":"8901030875021"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ingredients too short", func(t *testing.T) {
		w := post(`{"barcode":"8901030875021","ingredients":"salt"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := post(`{"barcode":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFavouritesEndpoints(t *testing.T) {
	favourites := newStubFavourites()
	router := setupTestRouter(&stubOFFClient{}, favourites)

	scanResult := domain.ScanResult{Product: testScanProduct()}
	body, _ := json.Marshal(scanResult)

	t.Run("put", func(t *testing.T) {
		req, _ := http.NewRequest("PUT", "/api/v1/favourites/8901030875021", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("put with mismatched barcode", func(t *testing.T) {
		req, _ := http.NewRequest("PUT", "/api/v1/favourites/1111111111111", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/favourites/8901030875021", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var result domain.ScanResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, "Masala Noodles", result.Product.Name)
	})

	t.Run("list", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/favourites", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Count)
	})

	t.Run("delete", func(t *testing.T) {
		req, _ := http.NewRequest("DELETE", "/api/v1/favourites/8901030875021", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("delete missing", func(t *testing.T) {
		req, _ := http.NewRequest("DELETE", "/api/v1/favourites/8901030875021", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRecentScansEndpoint(t *testing.T) {
	off := &stubOFFClient{product: testScanProduct()}
	favourites := newStubFavourites()
	router := setupTestRouter(off, favourites)

	// Scanning populates the history
	req, _ := http.NewRequest("GET", "/api/v1/products/8901030875021", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	req, _ = http.NewRequest("GET", "/api/v1/recent", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count int               `json:"count"`
		Scans []json.RawMessage `json:"scans"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Len(t, resp.Scans, 1)
}
