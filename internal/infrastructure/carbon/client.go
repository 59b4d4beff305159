package carbon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/sustainscan/backend/internal/domain"
)

// Client calls the Carbon Interface estimates API for shipping
// emissions.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a new Carbon Interface API client
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type estimateRequest struct {
	Type            string  `json:"type"`
	WeightValue     float64 `json:"weight_value"`
	WeightUnit      string  `json:"weight_unit"`
	DistanceValue   float64 `json:"distance_value"`
	DistanceUnit    string  `json:"distance_unit"`
	TransportMethod string  `json:"transport_method"`
}

type estimateResponse struct {
	Data struct {
		Attributes struct {
			CarbonKg        float64 `json:"carbon_kg"`
			DistanceValue   float64 `json:"distance_value"`
			TransportMethod string  `json:"transport_method"`
		} `json:"attributes"`
	} `json:"data"`
}

// EstimateShipment asks the API for the total CO2 of one bulk freight
// shipment.
func (c *Client) EstimateShipment(ctx context.Context, req domain.ShipmentRequest) (*domain.ShipmentEstimate, error) {
	payload := estimateRequest{
		Type:            "shipping",
		WeightValue:     req.WeightKg,
		WeightUnit:      "kg",
		DistanceValue:   req.DistanceKm,
		DistanceUnit:    "km",
		TransportMethod: req.TransportMethod,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/estimates", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCarbonAPIFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		log.Printf("[CARBON] estimate failed - status: %d, body: %s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("%w: status %d", domain.ErrCarbonAPIFailure, resp.StatusCode)
	}

	var result estimateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	attrs := result.Data.Attributes
	if attrs.CarbonKg <= 0 {
		return nil, fmt.Errorf("%w: missing carbon_kg in response", domain.ErrCarbonAPIFailure)
	}

	estimate := &domain.ShipmentEstimate{
		CO2Kg:           attrs.CarbonKg,
		DistanceKm:      attrs.DistanceValue,
		TransportMethod: attrs.TransportMethod,
	}
	if estimate.DistanceKm == 0 {
		estimate.DistanceKm = req.DistanceKm
	}
	if estimate.TransportMethod == "" {
		estimate.TransportMethod = req.TransportMethod
	}

	return estimate, nil
}
