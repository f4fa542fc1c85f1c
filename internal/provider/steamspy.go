package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"steam-deals-bot/internal/models"

	"github.com/rs/zerolog"
)

const defaultSteamSpyURL = "https://steamspy.com/api.php"

// SteamSpyClient fetches the full discounted-game catalog page by page
// from the SteamSpy API.
type SteamSpyClient struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewSteamSpyClient creates a catalog client with a bounded HTTP timeout.
func NewSteamSpyClient(timeout time.Duration, log zerolog.Logger) *SteamSpyClient {
	return &SteamSpyClient{
		baseURL: defaultSteamSpyURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// SteamSpy serves numbers either as strings or as plain JSON numbers
// depending on the field and the game, so everything lands in json.Number.
type steamSpyGame struct {
	Name         string      `json:"name"`
	InitialPrice json.Number `json:"initialprice"`
	Price        json.Number `json:"price"`
	Discount     json.Number `json:"discount"`
}

// FetchPage returns the discounted entries of one catalog page. Prices
// arrive in cents and are converted to currency units. An empty page
// signals the end of the catalog. Entries without a positive discount are
// dropped; malformed entries are skipped.
func (c *SteamSpyClient) FetchPage(ctx context.Context, page int) ([]models.CatalogEntry, error) {
	url := fmt.Sprintf("%s?request=all&page=%d", c.baseURL, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("steamspy: status code %d", resp.StatusCode)
	}

	// Entries are decoded one by one so a single malformed record does
	// not discard the rest of the page.
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("steamspy: decode page %d: %w", page, err)
	}

	var entries []models.CatalogEntry
	for appID, blob := range raw {
		var game steamSpyGame
		if err := json.Unmarshal(blob, &game); err != nil {
			c.log.Warn().Err(err).Str("app_id", appID).Msg("skipping malformed catalog entry")
			continue
		}
		discount, err := game.Discount.Float64()
		if err != nil || discount <= 0 {
			continue
		}
		initialCents, err := game.InitialPrice.Int64()
		if err != nil {
			c.log.Warn().Str("app_id", appID).Str("name", game.Name).Msg("skipping entry with bad initial price")
			continue
		}
		priceCents, err := game.Price.Int64()
		if err != nil {
			c.log.Warn().Str("app_id", appID).Str("name", game.Name).Msg("skipping entry with bad price")
			continue
		}

		entries = append(entries, models.CatalogEntry{
			Title:       game.Name,
			NormalPrice: float64(initialCents) / 100,
			SalePrice:   float64(priceCents) / 100,
			Savings:     discount,
			URL:         storeURL(appID),
		})
	}
	return entries, nil
}
