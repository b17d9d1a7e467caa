package yahoo

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"fairvalue/pkg/models"
)

const statsFixture = `
<html><body>
<table>
<tr><td>Market Cap</td><td>2.80T</td></tr>
<tr><td>Beta (5Y Monthly)</td><td>1.25</td></tr>
<tr><td>Shares Outstanding</td><td>15.55B</td></tr>
<tr><td>Diluted EPS (ttm)</td><td>6.42</td></tr>
<tr><td>Book Value Per Share (mrq)</td><td>4.25</td></tr>
<tr><td>Forward Annual Dividend Rate</td><td>0.96</td></tr>
</table>
<table>
<tr><td>Revenue (ttm)</td><td>385.7B</td></tr>
<tr><td>Revenue Per Share (ttm)</td><td>24.54</td></tr>
<tr><td>EBITDA</td><td>125.8B</td></tr>
<tr><td>Net Income Avi to Common (ttm)</td><td>97.0B</td></tr>
<tr><td>Total Cash (mrq)</td><td>61.5B</td></tr>
<tr><td>Total Cash Per Share (mrq)</td><td>3.95</td></tr>
<tr><td>Total Debt (mrq)</td><td>104.6B</td></tr>
<tr><td>Levered Free Cash Flow (ttm)</td><td>84.7B</td></tr>
<tr><td>Operating Margin (ttm)</td><td>N/A</td></tr>
</table>
</body></html>`

func TestExtractStatistics(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(statsFixture))
	if err != nil {
		t.Fatalf("Failed to parse fixture: %v", err)
	}

	snap := &models.CompanySnapshot{Ticker: "AAPL"}
	extractStatistics(doc, snap)

	checks := []struct {
		name string
		got  *float64
		want float64
	}{
		{"beta", snap.Beta, 1.25},
		{"shares", snap.SharesOutstanding, 15.55e9},
		{"eps", snap.EPSTTM, 6.42},
		{"book value", snap.BookValuePerShare, 4.25},
		{"dividend", snap.DividendPerShare, 0.96},
		{"revenue", snap.RevenueTTM, 385.7e9},
		{"ebitda", snap.EBITDATTM, 125.8e9},
		{"net income", snap.NetIncomeTTM, 97.0e9},
		{"cash", snap.Cash, 61.5e9},
		{"debt", snap.TotalDebt, 104.6e9},
		{"fcf", snap.FCFTTM, 84.7e9},
	}
	for _, c := range checks {
		if c.got == nil {
			t.Errorf("Expected %s extracted, got nil", c.name)
			continue
		}
		if diff := *c.got - c.want; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("Expected %s %g, got %g", c.name, c.want, *c.got)
		}
	}
}

func TestExtractStatisticsPerShareRowsDoNotClobberTotals(t *testing.T) {
	// Revenue Per Share and Total Cash Per Share must not overwrite
	// the aggregate figures they share a prefix with.
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(statsFixture))
	if err != nil {
		t.Fatalf("Failed to parse fixture: %v", err)
	}
	snap := &models.CompanySnapshot{}
	extractStatistics(doc, snap)

	if snap.RevenueTTM == nil || *snap.RevenueTTM != 385.7e9 {
		t.Errorf("Revenue must come from the aggregate row, got %v", snap.RevenueTTM)
	}
	if snap.Cash == nil || *snap.Cash != 61.5e9 {
		t.Errorf("Cash must come from the aggregate row, got %v", snap.Cash)
	}
}

func TestParseAbbreviatedNumber(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"2.5T", 2.5e12, false},
		{"150B", 150e9, false},
		{"982.4M", 982.4e6, false},
		{"12K", 12e3, false},
		{"450", 450, false},
		{"(1.2B)", -1.2e9, false},
		{"N/A", 0, true},
		{"--", 0, true},
		{"garbage", 0, true},
	}
	for _, c := range cases {
		got, err := parseAbbreviatedNumber(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("Expected error for %q, got %g", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unexpected error for %q: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("Expected %q -> %g, got %g", c.in, c.want, got)
		}
	}
}

func TestParsePlainNumber(t *testing.T) {
	if v, err := parsePlainNumber("1,234.56"); err != nil || v != 1234.56 {
		t.Errorf("Expected 1234.56, got %g err %v", v, err)
	}
	if v, err := parsePlainNumber("(3.20)"); err != nil || v != -3.20 {
		t.Errorf("Expected -3.20, got %g err %v", v, err)
	}
	if _, err := parsePlainNumber("N/A"); err == nil {
		t.Error("Expected error for N/A")
	}
}
