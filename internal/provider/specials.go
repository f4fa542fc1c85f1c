package provider

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"steam-deals-bot/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

const defaultSpecialsURL = "https://store.steampowered.com/search/"

var (
	discountPattern = regexp.MustCompile(`-?(\d+)\s*%`)
	nonPricePattern = regexp.MustCompile(`[^0-9.,]`)
)

// SpecialsScraper is the scraping variant of the catalog provider. It
// parses the Steam specials search page instead of calling the SteamSpy
// API, for deployments where that API is unreachable.
type SpecialsScraper struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewSpecialsScraper creates a scraper with a bounded HTTP timeout.
func NewSpecialsScraper(timeout time.Duration, log zerolog.Logger) *SpecialsScraper {
	return &SpecialsScraper{
		baseURL: defaultSpecialsURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// FetchPage scrapes one page of the specials search. Search pages are
// 1-based while the sync worker counts from 0. An empty page signals the
// end of the listing. Rows without a parsable discount are skipped.
func (s *SpecialsScraper) FetchPage(ctx context.Context, page int) ([]models.CatalogEntry, error) {
	url := fmt.Sprintf("%s?specials=1&page=%d", s.baseURL, page+1)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("specials: status code %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	var entries []models.CatalogEntry
	doc.Find("a.search_result_row").Each(func(i int, row *goquery.Selection) {
		entry, ok := s.parseRow(row)
		if !ok {
			return
		}
		entries = append(entries, entry)
	})
	return entries, nil
}

func (s *SpecialsScraper) parseRow(row *goquery.Selection) (models.CatalogEntry, bool) {
	title := strings.TrimSpace(row.Find(".search_name .title").First().Text())
	link := strings.TrimSpace(row.AttrOr("href", ""))
	if title == "" || link == "" {
		return models.CatalogEntry{}, false
	}

	discountText := strings.TrimSpace(row.Find(".search_discount span").First().Text())
	if discountText == "" {
		discountText = strings.TrimSpace(row.Find(".discount_pct").First().Text())
	}
	matches := discountPattern.FindStringSubmatch(discountText)
	if len(matches) < 2 {
		return models.CatalogEntry{}, false
	}
	discount, err := strconv.ParseFloat(matches[1], 64)
	if err != nil || discount <= 0 {
		return models.CatalogEntry{}, false
	}

	// Prices are best-effort: the row layout changes often, and the
	// matcher only needs title and link to work.
	sale := parsePriceText(row.Find(".discount_final_price").First().Text())
	normal := parsePriceText(row.Find(".discount_original_price").First().Text())

	return models.CatalogEntry{
		Title:       title,
		NormalPrice: normal,
		SalePrice:   sale,
		Savings:     discount,
		URL:         link,
	}, true
}

func parsePriceText(text string) float64 {
	cleaned := nonPricePattern.ReplaceAllString(strings.TrimSpace(text), "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return 0
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return price
}
