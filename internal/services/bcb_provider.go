package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/carteiralabs/carteira/internal/models"
)

const (
	defaultBCBBaseURL = "https://api.bcb.gov.br/dados/serie"

	// SGS series codes published by the central bank
	sgsSeriesCDI  = 12
	sgsSeriesIPCA = 433

	bcbDateLayout = "02/01/2006"
)

type bcbProvider struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewBCBProvider creates an index provider backed by the central bank's
// SGS time-series API. Base URL can be overridden with BCB_BASE_URL for
// tests.
func NewBCBProvider(logger *zap.Logger) IndexProvider {
	baseURL := os.Getenv("BCB_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBCBBaseURL
	}
	return &bcbProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 20 * time.Second},
		logger:  logger,
	}
}

type sgsPoint struct {
	Data  string `json:"data"`
	Valor string `json:"valor"`
}

// GetSeries fetches the named index over the date range. Points the API
// returns with unparseable dates or values are skipped with a warning
// rather than failing the series.
func (p *bcbProvider) GetSeries(ctx context.Context, index string, start, end time.Time) (models.IndexSeries, error) {
	code, err := seriesCode(index)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/bcdata.sgs.%d/dados", p.baseURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	q := req.URL.Query()
	q.Set("formato", "json")
	q.Set("dataInicial", start.Format(bcbDateLayout))
	q.Set("dataFinal", end.Format(bcbDateLayout))
	req.URL.RawQuery = q.Encode()

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("index series request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("index series API returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var raw []sgsPoint
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode index series: %w", err)
	}

	series := make(models.IndexSeries, 0, len(raw))
	for _, point := range raw {
		date, err := time.ParseInLocation(bcbDateLayout, point.Data, time.UTC)
		if err != nil {
			p.logger.Warn("skipping index point with bad date",
				zap.String("index", index), zap.String("date", point.Data))
			continue
		}
		rate, err := decimal.NewFromString(strings.ReplaceAll(point.Valor, ",", "."))
		if err != nil {
			p.logger.Warn("skipping index point with bad value",
				zap.String("index", index), zap.String("value", point.Valor))
			continue
		}
		series = append(series, models.IndexPoint{Date: date, Rate: rate})
	}
	series.Sort()
	return series, nil
}

func seriesCode(index string) (int, error) {
	switch index {
	case models.IndexCDI:
		return sgsSeriesCDI, nil
	case models.IndexIPCA:
		return sgsSeriesIPCA, nil
	}
	return 0, fmt.Errorf("unknown index %q", index)
}
