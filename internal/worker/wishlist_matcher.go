package worker

import (
	"context"
	"fmt"

	"steam-deals-bot/internal/database"
	"steam-deals-bot/internal/models"
	"steam-deals-bot/internal/notifier"

	"github.com/rs/zerolog"
)

// WishlistMatcher scans pending wishlist entries against recorded deals
// and the catalog. An entry is consumed on its first match: one
// notification, then removal, even if more titles match in the same scan.
type WishlistMatcher struct {
	db       *database.DB
	notifier notifier.Notifier
	log      zerolog.Logger
}

// NewWishlistMatcher creates the matcher worker.
func NewWishlistMatcher(db *database.DB, n notifier.Notifier, log zerolog.Logger) *WishlistMatcher {
	return &WishlistMatcher{db: db, notifier: n, log: log}
}

// Name implements Job.
func (m *WishlistMatcher) Name() string { return "wishlist-matcher" }

// Run performs one scan. Entries with no match stay pending for the next
// cycle; there is no expiry.
func (m *WishlistMatcher) Run(ctx context.Context) {
	entries, err := m.db.AllWishlistEntries()
	if err != nil {
		m.log.Error().Err(err).Msg("list wishlist failed")
		return
	}

	for _, entry := range entries {
		match, found := m.findMatch(entry)
		if !found {
			continue
		}

		m.notifier.Send(entry.ChatID, formatWishlistMatch(match), notifier.Options{HTML: true, DisableLinkPreview: true})
		if err := m.db.RemoveWishlistEntry(entry.ID); err != nil {
			m.log.Error().Err(err).Int64("entry_id", entry.ID).Msg("remove wishlist entry failed")
			continue
		}
		m.log.Info().Str("chat_id", entry.ChatID).Str("game", entry.GameName).Str("matched", match.Title).Msg("wishlist match notified")
	}
}

func (m *WishlistMatcher) findMatch(entry models.WishlistEntry) (models.CatalogEntry, bool) {
	deals, err := m.db.FindDealsByFragment(entry.GameName)
	if err != nil {
		m.log.Error().Err(err).Str("game", entry.GameName).Msg("deal lookup failed")
	} else if len(deals) > 0 {
		d := deals[0]
		return models.CatalogEntry{
			Title:       d.Title,
			NormalPrice: d.NormalPrice,
			SalePrice:   d.SalePrice,
			Savings:     d.Savings,
			URL:         d.URL,
		}, true
	}

	catalog, err := m.db.FindCatalogByFragment(entry.GameName)
	if err != nil {
		m.log.Error().Err(err).Str("game", entry.GameName).Msg("catalog lookup failed")
		return models.CatalogEntry{}, false
	}
	if len(catalog) == 0 {
		return models.CatalogEntry{}, false
	}
	return catalog[0], true
}

func formatWishlistMatch(e models.CatalogEntry) string {
	return fmt.Sprintf(
		"🎯 <b>Wishlist Match Found!</b>\n"+
			"🎮 %s\n"+
			"💰 Sale: $%.2f\n"+
			"💵 Normal: $%.2f\n"+
			"🔥 Savings: %.1f%%\n"+
			"🔗 <a href='%s'>View on Steam website</a>",
		e.Title, e.SalePrice, e.NormalPrice, e.Savings, e.URL,
	)
}
