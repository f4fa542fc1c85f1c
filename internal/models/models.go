package models

// Deal is a single observed price-change event. Deal rows are append-only;
// the same title may recur over time with different prices.
type Deal struct {
	ID          int64
	Title       string
	NormalPrice float64
	SalePrice   float64
	Savings     float64
	URL         string
}

// CatalogEntry is the current known discount state for one title.
type CatalogEntry struct {
	ID          int64
	Title       string
	NormalPrice float64
	SalePrice   float64
	Savings     float64
	URL         string
}

// Subscriber is a chat that issued /start.
type Subscriber struct {
	ID     int64
	ChatID string
}

// WishlistEntry is a pending request to be notified when a title matching
// GameName (case-insensitive substring) shows up in the deals or catalog.
type WishlistEntry struct {
	ID       int64
	ChatID   string
	GameName string
}
