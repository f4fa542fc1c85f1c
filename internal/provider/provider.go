package provider

import (
	"context"

	"steam-deals-bot/internal/models"
)

// Deal is one upstream-reported price change from the deal aggregator.
type Deal struct {
	Title       string
	NormalPrice float64
	SalePrice   float64
	Savings     float64
	LastChange  int64
	URL         string
}

// DealsProvider fetches a bounded page of the most recently changed deals.
type DealsProvider interface {
	RecentDeals(ctx context.Context) ([]Deal, error)
}

// CatalogProvider fetches one page of the discounted-game catalog.
// An empty result signals the terminal page.
type CatalogProvider interface {
	FetchPage(ctx context.Context, page int) ([]models.CatalogEntry, error)
}

func storeURL(appID string) string {
	return "https://store.steampowered.com/app/" + appID
}
