package off

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sustainscan/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client handles communication with the Open Food Facts API
type Client struct {
	httpClient    *http.Client
	baseURL       string
	contributeURL string
	userAgent     string
	username      string
	password      string
	rateLimiter   *rate.Limiter
	debug         bool
}

// ClientConfig holds the OFF client settings
type ClientConfig struct {
	BaseURL       string
	ContributeURL string
	UserAgent     string
	Username      string
	Password      string
}

// NewClient creates a new Open Food Facts API client.
// OFF asks for at most 100 product requests per minute, so the limiter
// allows ~1.6 requests/sec with a small burst.
func NewClient(config ClientConfig) *Client {
	limiter := rate.NewLimiter(rate.Limit(1.6), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:       config.BaseURL,
		contributeURL: config.ContributeURL,
		userAgent:     config.UserAgent,
		username:      config.Username,
		password:      config.Password,
		rateLimiter:   limiter,
	}
}

// SetDebug toggles verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the wait before the next retry attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// doRequest executes an HTTP GET request with proper headers
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOFFAPIFailure, err)
	}

	return resp, nil
}

// GetProduct fetches a product by barcode and maps it to the domain
// model. A missing or incomplete product yields ErrProductNotFound.
func (c *Client) GetProduct(ctx context.Context, barcode string) (*domain.Product, error) {
	if c.debug {
		log.Printf("[OFF] GetProduct called with barcode: %q", barcode)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	reqURL := fmt.Sprintf("%s/product/%s.json", c.baseURL, url.PathEscape(barcode))

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrOFFAPIFailure, resp.StatusCode, string(body))
	}

	var productResp productResponse
	if err := json.NewDecoder(resp.Body).Decode(&productResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if productResp.Status != 1 || productResp.Product == nil {
		return nil, domain.ErrProductNotFound
	}

	return MapToProduct(productResp.Product), nil
}

// SearchAlternatives searches OFF for same-category products carrying
// one of the given nutrition grades, popularity-sorted.
func (c *Client) SearchAlternatives(ctx context.Context, category string, betterGrades []string, pageSize int) ([]domain.AlternativeCandidate, error) {
	if pageSize <= 0 {
		pageSize = 10
	}

	params := url.Values{}
	params.Add("categories_tags_en", category)
	for _, grade := range betterGrades {
		params.Add("nutrition_grades_tags", grade)
	}
	params.Add("countries_tags_en", "united-states|united-kingdom|canada|india|pakistan|australia|spain|brazil")
	params.Add("fields", "code,product_name,nutriscore_grade,nutriscore_score,ecoscore_grade,ecoscore_score,image_front_url,labels_tags,energy-kj_100g,sugars_100g,salt_100g")
	params.Add("sort_by", "popularity")
	params.Add("page_size", fmt.Sprintf("%d", pageSize))
	params.Add("page", "1")

	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[OFF] search request error (attempt %d): %v", attempt, err)
			lastErr = err
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Printf("[OFF] search error (attempt %d) - status: %d", attempt, resp.StatusCode)
			lastErr = fmt.Errorf("%w: status %d", domain.ErrOFFAPIFailure, resp.StatusCode)
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		var searchResp searchResponse
		if err := json.Unmarshal(body, &searchResp); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		if c.debug {
			log.Printf("[OFF] search returned %d products for category %q", len(searchResp.Products), category)
		}
		return mapSearchProducts(searchResp.Products), nil
	}

	log.Printf("[OFF] all search retries failed for category %q", category)
	return nil, lastErr
}

// Contribute submits missing product fields back to Open Food Facts
// via the legacy form endpoint.
func (c *Client) Contribute(ctx context.Context, barcode string, fields domain.ContributionFields) error {
	if c.username == "" || c.password == "" {
		return fmt.Errorf("%w: OFF credentials not configured", domain.ErrOFFAPIFailure)
	}

	params := url.Values{}
	// The form endpoint expects credentials and code before the data
	// fields.
	params.Add("user_id", c.username)
	params.Add("password", c.password)
	params.Add("code", barcode)

	if fields.Packaging != "" {
		params.Add("packaging", fields.Packaging)
	}
	if fields.Ingredients != "" {
		params.Add("ingredients_text", fields.Ingredients)
	}
	if len(fields.Brands) > 0 {
		params.Add("brands", strings.Join(fields.Brands, ", "))
	}
	if fields.Categories != "" {
		params.Add("categories", fields.Categories)
	}
	if fields.Labels != "" {
		params.Add("labels", fields.Labels)
	}

	params.Add("comment", "Added sustainability data via SustainScan")
	params.Add("app_name", "SustainScan")
	params.Add("app_version", "1.0.0")

	req, err := http.NewRequestWithContext(ctx, "POST", c.contributeURL, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrOFFAPIFailure, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d, body: %s", domain.ErrOFFAPIFailure, resp.StatusCode, string(body))
	}

	var result contributionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("%w: non-JSON response: %s", domain.ErrOFFAPIFailure, truncate(string(body), 200))
	}

	if result.Status != 1 && result.StatusVerbose != "fields saved" {
		return fmt.Errorf("%w: %s", domain.ErrOFFAPIFailure, result.StatusVerbose)
	}

	log.Printf("[OFF] contribution accepted for barcode %s: %s", barcode, result.StatusVerbose)
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
