package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fairvalue/pkg/models"
)

const chartURL = "https://query1.finance.yahoo.com/v8/finance/chart/%s"

// chartResponse is the slice of the chart API payload we consume.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				LongName           string  `json:"longName"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

func (p *Provider) fetchQuote(ctx context.Context, ticker string, snap *models.CompanySnapshot) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(chartURL, ticker), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	setRequestHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("chart API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	return applyQuote(body, ticker, snap)
}

// applyQuote decodes a chart payload onto the snapshot.
func applyQuote(body []byte, ticker string, snap *models.CompanySnapshot) error {
	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return fmt.Errorf("failed to parse chart response: %w", err)
	}
	if len(chart.Chart.Result) == 0 {
		return fmt.Errorf("no quote data for ticker %s", ticker)
	}

	meta := chart.Chart.Result[0].Meta
	if meta.RegularMarketPrice <= 0 {
		return fmt.Errorf("no valid price for %s", ticker)
	}

	price := meta.RegularMarketPrice
	snap.MarketPrice = &price
	snap.Currency = meta.Currency
	if meta.LongName != "" {
		snap.Name = meta.LongName
	} else if meta.Symbol != "" {
		snap.Name = meta.Symbol
	}
	if meta.RegularMarketTime > 0 {
		snap.AsOf = time.Unix(meta.RegularMarketTime, 0).UTC()
	} else {
		snap.AsOf = time.Now().UTC()
	}
	return nil
}
