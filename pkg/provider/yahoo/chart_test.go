package yahoo

import (
	"testing"

	"fairvalue/pkg/models"
)

const chartFixture = `{
  "chart": {
    "result": [{
      "meta": {
        "currency": "USD",
        "symbol": "AAPL",
        "longName": "Apple Inc.",
        "regularMarketTime": 1724961600,
        "regularMarketPrice": 229.79
      }
    }],
    "error": null
  }
}`

func TestApplyQuote(t *testing.T) {
	snap := &models.CompanySnapshot{Ticker: "AAPL"}
	if err := applyQuote([]byte(chartFixture), "AAPL", snap); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if snap.MarketPrice == nil || *snap.MarketPrice != 229.79 {
		t.Errorf("Expected price 229.79, got %v", snap.MarketPrice)
	}
	if snap.Currency != "USD" {
		t.Errorf("Expected currency USD, got %q", snap.Currency)
	}
	if snap.Name != "Apple Inc." {
		t.Errorf("Expected long name, got %q", snap.Name)
	}
	if snap.AsOf.IsZero() {
		t.Error("Expected as-of time from the market timestamp")
	}
}

func TestApplyQuoteEmptyResult(t *testing.T) {
	snap := &models.CompanySnapshot{}
	err := applyQuote([]byte(`{"chart":{"result":[],"error":null}}`), "ZZZZ", snap)
	if err == nil {
		t.Fatal("Expected error for empty result set")
	}
}

func TestApplyQuoteZeroPrice(t *testing.T) {
	payload := `{"chart":{"result":[{"meta":{"symbol":"X","regularMarketPrice":0}}]}}`
	if err := applyQuote([]byte(payload), "X", &models.CompanySnapshot{}); err == nil {
		t.Fatal("Expected error for zero price")
	}
}
