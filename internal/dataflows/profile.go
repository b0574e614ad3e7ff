package dataflows

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ProfileScraper pulls sector and industry off the public quote profile page
// when the quoteSummary API leaves them blank (common for some non-US
// listings).
type ProfileScraper struct {
	client *http.Client
}

// NewProfileScraper creates a profile scraper.
func NewProfileScraper() *ProfileScraper {
	return &ProfileScraper{
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

// SectorIndustry scrapes the profile page for one ticker.
func (ps *ProfileScraper) SectorIndustry(ctx context.Context, ticker string) (string, string, error) {
	url := fmt.Sprintf("https://finance.yahoo.com/quote/%s/profile", ticker)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")

	resp, err := ps.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("profile fetch for %s: %w", ticker, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("profile fetch for %s: status %d", ticker, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", "", err
	}

	var sector, industry string
	doc.Find("dl div").Each(func(_ int, item *goquery.Selection) {
		key := strings.TrimSpace(item.Find("dt").Text())
		value := strings.TrimSpace(item.Find("dd, a").First().Text())
		switch {
		case strings.HasPrefix(key, "Sector"):
			sector = value
		case strings.HasPrefix(key, "Industry"):
			industry = value
		}
	})
	if sector == "" {
		// Older page layout.
		doc.Find("span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
			if strings.TrimSpace(span.Text()) == "Sector(s)" {
				sector = strings.TrimSpace(span.Parent().Find("span").Last().Text())
				return false
			}
			return true
		})
	}

	if sector == "" && industry == "" {
		return "", "", fmt.Errorf("no profile data for %s", ticker)
	}
	return sector, industry, nil
}
