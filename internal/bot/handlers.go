package bot

import (
	"fmt"
	"strings"

	"steam-deals-bot/internal/database"
	"steam-deals-bot/internal/models"
	"steam-deals-bot/internal/notifier"

	"github.com/rs/zerolog"
)

// Up to this many results per search reply; the rest are dropped.
const maxSearchResults = 5

// Handler processes inbound user commands against the store and notifier.
type Handler struct {
	db       *database.DB
	notifier notifier.Notifier
	channel  string
	log      zerolog.Logger
}

// NewHandler creates a command handler. channel is the broadcast channel
// username mentioned in the welcome text.
func NewHandler(db *database.DB, n notifier.Notifier, channel string, log zerolog.Logger) *Handler {
	return &Handler{db: db, notifier: n, channel: channel, log: log}
}

// HandleMessage dispatches one inbound message. Unrecognized text is
// ignored so group chatter never triggers replies.
func (h *Handler) HandleMessage(chatID, text string) {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return
	}

	command := strings.ToLower(parts[0])
	if idx := strings.Index(command, "@"); idx > 0 {
		command = command[:idx]
	}

	switch command {
	case "/start":
		h.handleStart(chatID)
	case "/help":
		h.handleHelp(chatID)
	case "/search":
		if len(parts) < 2 {
			return
		}
		h.handleSearch(chatID, strings.Join(parts[1:], " "))
	case "/clear", "/end_notification":
		h.handleClear(chatID)
	}
}

func (h *Handler) handleStart(chatID string) {
	if err := h.db.AddSubscriber(chatID); err != nil {
		h.log.Error().Err(err).Str("chat_id", chatID).Msg("add subscriber failed")
	}

	welcome := fmt.Sprintf(
		"👋 Welcome! I track Steam deals.\nJoin %s for live updates.\n\nTry /search [game name]",
		h.channel,
	)
	h.notifier.Send(chatID, welcome, notifier.Options{DisableLinkPreview: true})
}

func (h *Handler) handleHelp(chatID string) {
	help := "📌 <b>Commands:</b>\n" +
		"/search [name] - Find a game\n" +
		"/clear - Clear wishlist\n" +
		"/start - Info"
	h.notifier.Send(chatID, help, notifier.Options{HTML: true, DisableLinkPreview: true})
}

// handleSearch looks the term up in the catalog, falling back to the deal
// log. No results registers a wishlist entry; a store failure does not, so
// "temporarily unavailable" is never conflated with "no deals exist".
func (h *Handler) handleSearch(chatID, term string) {
	entries, err := h.db.FindCatalogByFragment(term)
	if err != nil {
		h.log.Error().Err(err).Str("term", term).Msg("catalog search failed")
		h.notifier.Send(chatID, "⚠️ Search is temporarily unavailable, try again later.", notifier.Options{})
		return
	}

	if len(entries) == 0 {
		deals, err := h.db.FindDealsByFragment(term)
		if err != nil {
			h.log.Error().Err(err).Str("term", term).Msg("deal search failed")
			h.notifier.Send(chatID, "⚠️ Search is temporarily unavailable, try again later.", notifier.Options{})
			return
		}
		for _, d := range deals {
			entries = append(entries, models.CatalogEntry{
				Title:       d.Title,
				NormalPrice: d.NormalPrice,
				SalePrice:   d.SalePrice,
				Savings:     d.Savings,
				URL:         d.URL,
			})
		}
	}

	if len(entries) == 0 {
		notFound := fmt.Sprintf("❌ No active discounts found for '%s'. Added to wishlist! 🔔", term)
		h.notifier.Send(chatID, notFound, notifier.Options{})
		if err := h.db.AddWishlistEntry(chatID, term); err != nil {
			h.log.Error().Err(err).Str("chat_id", chatID).Str("term", term).Msg("add wishlist entry failed")
		}
		return
	}

	if len(entries) > maxSearchResults {
		entries = entries[:maxSearchResults]
	}
	for _, e := range entries {
		msg := fmt.Sprintf(
			"🔍 <b>Search Result:</b>\n"+
				"🎮 %s\n"+
				"💰 Sale: $%.2f\n"+
				"💵 Normal: $%.2f\n"+
				"🔥 Discount: %.1f%%\n"+
				"🔗 <a href='%s'>Link</a>",
			escapeHTML(e.Title), e.SalePrice, e.NormalPrice, e.Savings, e.URL,
		)
		h.notifier.Send(chatID, msg, notifier.Options{HTML: true, DisableLinkPreview: true})
	}
}

func (h *Handler) handleClear(chatID string) {
	if _, err := h.db.ClearWishlist(chatID); err != nil {
		h.log.Error().Err(err).Str("chat_id", chatID).Msg("clear wishlist failed")
		return
	}
	h.notifier.Send(chatID, "🔇 Wishlist cleared.", notifier.Options{})
}

func escapeHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	return text
}
