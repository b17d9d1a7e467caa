// Package yahoo fetches company snapshots from Yahoo Finance. The chart
// API supplies the live quote; fundamentals come from scraping the
// key-statistics page. Anything the site does not expose stays nil and
// the resolver's ghost hydration fills it downstream.
package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"fairvalue/pkg/models"
)

// Provider fetches snapshots over HTTP.
type Provider struct {
	client *http.Client
	log    zerolog.Logger
}

// NewProvider creates a provider with a 10 second request timeout.
func NewProvider(log zerolog.Logger) *Provider {
	return &Provider{
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

// Fetch builds a snapshot for the ticker. The quote is mandatory; a
// failed statistics scrape degrades to a quote-only snapshot with a
// warning, since the resolver can still hydrate the rest.
func (p *Provider) Fetch(ctx context.Context, ticker string) (*models.CompanySnapshot, error) {
	snap := &models.CompanySnapshot{Ticker: ticker}

	if err := p.fetchQuote(ctx, ticker, snap); err != nil {
		return nil, fmt.Errorf("fetch quote for %s: %w", ticker, err)
	}

	if err := p.fetchStatistics(ctx, ticker, snap); err != nil {
		p.log.Warn().Err(err).Str("ticker", ticker).
			Msg("statistics scrape failed, continuing with quote-only snapshot")
	}

	return snap, nil
}

// setRequestHeaders mimics a browser request so the endpoints answer.
func setRequestHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
}
