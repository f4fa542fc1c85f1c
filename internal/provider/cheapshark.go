package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

const defaultCheapSharkURL = "https://www.cheapshark.com/api/1.0/deals"

// CheapSharkClient fetches recent Steam deals from the CheapShark API.
type CheapSharkClient struct {
	baseURL  string
	pageSize int
	client   *http.Client
	log      zerolog.Logger
}

// NewCheapSharkClient creates a client that requests pageSize deals sorted
// by recency, limited to the Steam store.
func NewCheapSharkClient(pageSize int, timeout time.Duration, log zerolog.Logger) *CheapSharkClient {
	return &CheapSharkClient{
		baseURL:  defaultCheapSharkURL,
		pageSize: pageSize,
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

type cheapSharkDeal struct {
	Title       string `json:"title"`
	SalePrice   string `json:"salePrice"`
	NormalPrice string `json:"normalPrice"`
	Savings     string `json:"savings"`
	LastChange  int64  `json:"lastChange"`
	SteamAppID  string `json:"steamAppID"`
}

// RecentDeals fetches the most recently changed deals. Records with a
// missing app id or unparsable prices are skipped; the rest of the page is
// still processed.
func (c *CheapSharkClient) RecentDeals(ctx context.Context) ([]Deal, error) {
	params := url.Values{}
	params.Set("sortBy", "Recent")
	params.Set("pageSize", strconv.Itoa(c.pageSize))
	params.Set("storeID", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cheapshark: status code %d", resp.StatusCode)
	}

	var raw []cheapSharkDeal
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("cheapshark: decode: %w", err)
	}

	deals := make([]Deal, 0, len(raw))
	for _, r := range raw {
		d, err := r.toDeal()
		if err != nil {
			c.log.Warn().Err(err).Str("title", r.Title).Msg("skipping malformed deal")
			continue
		}
		deals = append(deals, d)
	}
	return deals, nil
}

func (r cheapSharkDeal) toDeal() (Deal, error) {
	if r.SteamAppID == "" {
		return Deal{}, fmt.Errorf("missing steam app id")
	}
	normal, err := strconv.ParseFloat(r.NormalPrice, 64)
	if err != nil {
		return Deal{}, fmt.Errorf("normal price %q: %w", r.NormalPrice, err)
	}
	sale, err := strconv.ParseFloat(r.SalePrice, 64)
	if err != nil {
		return Deal{}, fmt.Errorf("sale price %q: %w", r.SalePrice, err)
	}
	savings, err := strconv.ParseFloat(r.Savings, 64)
	if err != nil {
		return Deal{}, fmt.Errorf("savings %q: %w", r.Savings, err)
	}
	return Deal{
		Title:       r.Title,
		NormalPrice: normal,
		SalePrice:   sale,
		Savings:     savings,
		LastChange:  r.LastChange,
		URL:         storeURL(r.SteamAppID),
	}, nil
}
