package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/carteiralabs/carteira/internal/apperrors"
	"github.com/carteiralabs/carteira/internal/models"
)

const defaultBrapiBaseURL = "https://brapi.dev/api"

type brapiProvider struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *zap.Logger
}

// NewBrapiProvider creates a quote provider backed by the brapi market
// data API. The token comes from BRAPI_TOKEN; base URL can be overridden
// with BRAPI_BASE_URL for tests.
func NewBrapiProvider(logger *zap.Logger) QuoteProvider {
	baseURL := os.Getenv("BRAPI_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBrapiBaseURL
	}
	return &brapiProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   os.Getenv("BRAPI_TOKEN"),
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

type brapiQuoteResult struct {
	Symbol              string  `json:"symbol"`
	RegularMarketPrice  float64 `json:"regularMarketPrice"`
	LogoURL             string  `json:"logourl"`
	HistoricalDataPrice []struct {
		Date  int64   `json:"date"`
		Close float64 `json:"close"`
	} `json:"historicalDataPrice"`
}

type brapiQuoteResponse struct {
	Results []brapiQuoteResult `json:"results"`
}

// GetQuotes fetches current prices for all tickers in a single batched
// request.
func (p *brapiProvider) GetQuotes(ctx context.Context, tickers []string) (map[string]*models.Quote, error) {
	if len(tickers) == 0 {
		return map[string]*models.Quote{}, nil
	}

	endpoint := fmt.Sprintf("%s/quote/%s", p.baseURL, url.PathEscape(strings.Join(tickers, ",")))
	body, err := p.get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var resp brapiQuoteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}

	now := time.Now().UTC()
	quotes := make(map[string]*models.Quote, len(resp.Results))
	for _, r := range resp.Results {
		if r.Symbol == "" {
			continue
		}
		quotes[r.Symbol] = &models.Quote{
			Ticker:    r.Symbol,
			Price:     decimal.NewFromFloat(r.RegularMarketPrice),
			LogoURL:   r.LogoURL,
			Timestamp: now,
		}
	}
	return quotes, nil
}

// GetHistoricalDaily fetches daily closes for one ticker and trims them
// to the requested range.
func (p *brapiProvider) GetHistoricalDaily(ctx context.Context, ticker string, start, end time.Time) ([]*models.AssetPrice, error) {
	endpoint := fmt.Sprintf("%s/quote/%s", p.baseURL, url.PathEscape(ticker))
	body, err := p.get(ctx, endpoint, map[string]string{
		"range":    historicalRange(start),
		"interval": "1d",
	})
	if err != nil {
		return nil, err
	}

	var resp brapiQuoteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode historical response: %w", err)
	}
	if len(resp.Results) == 0 {
		return []*models.AssetPrice{}, nil
	}

	var prices []*models.AssetPrice
	for _, point := range resp.Results[0].HistoricalDataPrice {
		date := time.Unix(point.Date, 0).UTC()
		if date.Before(start) || date.After(end) {
			continue
		}
		prices = append(prices, &models.AssetPrice{
			Ticker: ticker,
			Date:   date,
			Price:  decimal.NewFromFloat(point.Close),
			Source: "brapi",
		})
	}
	return prices, nil
}

func (p *brapiProvider) get(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	q := req.URL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	if p.token != "" {
		q.Set("token", p.token)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("quote API returned %d: %w", resp.StatusCode, apperrors.ErrUnauthorized)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// historicalRange maps the requested start date onto the API's coarse
// range buckets.
func historicalRange(start time.Time) string {
	age := time.Since(start)
	switch {
	case age <= 32*24*time.Hour:
		return "1mo"
	case age <= 93*24*time.Hour:
		return "3mo"
	case age <= 366*24*time.Hour:
		return "1y"
	case age <= 2*366*24*time.Hour:
		return "2y"
	default:
		return "max"
	}
}
