package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"fairvalue/pkg/models"
)

const statsURL = "https://finance.yahoo.com/quote/%s/key-statistics/"

func (p *Provider) fetchStatistics(ctx context.Context, ticker string, snap *models.CompanySnapshot) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(statsURL, ticker), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	setRequestHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch key statistics: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("key-statistics page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to parse HTML: %w", err)
	}

	extractStatistics(doc, snap)
	return nil
}

// statField assigns the destination pointer for a recognized row label.
// Labels are matched case-insensitively by prefix so that the trailing
// period qualifier ("(5Y Monthly)", "(ttm)", "(mrq)") never breaks the
// scrape when Yahoo reshuffles it.
type statField struct {
	label string
	scale bool // abbreviated figure like 2.5T / 150B
	set   func(*models.CompanySnapshot, float64)
}

var statFields = []statField{
	{"beta", false, func(s *models.CompanySnapshot, v float64) { s.Beta = &v }},
	{"shares outstanding", true, func(s *models.CompanySnapshot, v float64) { s.SharesOutstanding = &v }},
	{"total debt", true, func(s *models.CompanySnapshot, v float64) { s.TotalDebt = &v }},
	{"total cash (", true, func(s *models.CompanySnapshot, v float64) { s.Cash = &v }},
	{"revenue (", true, func(s *models.CompanySnapshot, v float64) { s.RevenueTTM = &v }},
	{"ebitda", true, func(s *models.CompanySnapshot, v float64) { s.EBITDATTM = &v }},
	{"net income avi to common", true, func(s *models.CompanySnapshot, v float64) { s.NetIncomeTTM = &v }},
	{"levered free cash flow", true, func(s *models.CompanySnapshot, v float64) { s.FCFTTM = &v }},
	{"diluted eps", false, func(s *models.CompanySnapshot, v float64) { s.EPSTTM = &v }},
	{"book value per share", false, func(s *models.CompanySnapshot, v float64) { s.BookValuePerShare = &v }},
	{"forward annual dividend rate", false, func(s *models.CompanySnapshot, v float64) { s.DividendPerShare = &v }},
}

// extractStatistics walks every table row and fills recognized figures.
// Unrecognized or unparsable rows are skipped silently.
func extractStatistics(doc *goquery.Document, snap *models.CompanySnapshot) {
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(row.Find("td").First().Text()))
		value := strings.TrimSpace(row.Find("td").Last().Text())
		if label == "" || value == "" {
			return
		}
		for _, f := range statFields {
			if !strings.HasPrefix(label, f.label) {
				continue
			}
			var v float64
			var err error
			if f.scale {
				v, err = parseAbbreviatedNumber(value)
			} else {
				v, err = parsePlainNumber(value)
			}
			if err == nil {
				f.set(snap, v)
			}
			return
		}
	})
}

var abbreviatedRe = regexp.MustCompile(`^(-?[0-9.]+)([KMBT]?)$`)

// parseAbbreviatedNumber handles figures like "2.5T", "150.3B", "982M".
func parseAbbreviatedNumber(value string) (float64, error) {
	cleaned := strings.ToUpper(cleanNumeric(value))
	if cleaned == "" {
		return 0, fmt.Errorf("no valid value")
	}

	matches := abbreviatedRe.FindStringSubmatch(cleaned)
	if matches == nil {
		return 0, fmt.Errorf("invalid abbreviated number: %q", value)
	}
	base, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %q", matches[1])
	}

	switch matches[2] {
	case "K":
		base *= 1e3
	case "M":
		base *= 1e6
	case "B":
		base *= 1e9
	case "T":
		base *= 1e12
	}
	return base, nil
}

// parsePlainNumber handles per-share and ratio figures, including the
// parenthesized negatives Yahoo uses.
func parsePlainNumber(value string) (float64, error) {
	cleaned := cleanNumeric(value)
	if cleaned == "" {
		return 0, fmt.Errorf("no valid value")
	}
	return strconv.ParseFloat(cleaned, 64)
}

func cleanNumeric(value string) string {
	cleaned := strings.NewReplacer(",", "", "$", "", "%", "", "(", "-", ")", "").Replace(value)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "N/A" || cleaned == "--" {
		return ""
	}
	return cleaned
}
