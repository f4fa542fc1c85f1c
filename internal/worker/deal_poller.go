package worker

import (
	"context"
	"fmt"

	"steam-deals-bot/internal/database"
	"steam-deals-bot/internal/models"
	"steam-deals-bot/internal/notifier"
	"steam-deals-bot/internal/provider"

	"github.com/rs/zerolog"
)

// DealPoller fetches the most recently changed deals from the aggregator,
// records the new ones and broadcasts each to the channel. The watermark
// gates re-processing: only deals with a change-timestamp strictly greater
// than the stored value are new.
type DealPoller struct {
	db       *database.DB
	provider provider.DealsProvider
	notifier notifier.Notifier
	log      zerolog.Logger
}

// NewDealPoller creates the poller worker.
func NewDealPoller(db *database.DB, p provider.DealsProvider, n notifier.Notifier, log zerolog.Logger) *DealPoller {
	return &DealPoller{db: db, provider: p, notifier: n, log: log}
}

// Name implements Job.
func (p *DealPoller) Name() string { return "deal-poller" }

// Run executes one poll cycle. A fetch failure skips the whole cycle with
// the watermark untouched, so no deal is missed. The watermark advances
// once at the end, to the maximum qualifying timestamp, only after every
// qualifying deal in the page has been processed.
func (p *DealPoller) Run(ctx context.Context) {
	last, err := p.db.LatestWatermark()
	if err != nil {
		p.log.Error().Err(err).Msg("read watermark failed")
		return
	}

	deals, err := p.provider.RecentDeals(ctx)
	if err != nil {
		p.log.Error().Err(err).Msg("deal fetch failed, skipping cycle")
		return
	}

	maxSeen := last
	for _, d := range deals {
		if d.LastChange <= last {
			continue
		}

		rec := models.Deal{
			Title:       d.Title,
			NormalPrice: d.NormalPrice,
			SalePrice:   d.SalePrice,
			Savings:     d.Savings,
			URL:         d.URL,
		}
		if err := p.db.RecordDeal(rec); err != nil {
			p.log.Error().Err(err).Str("title", d.Title).Msg("record deal failed")
			continue
		}

		p.notifier.Broadcast(formatDealBroadcast(d))
		p.log.Info().Str("title", d.Title).Int64("last_change", d.LastChange).Msg("new deal recorded")

		if d.LastChange > maxSeen {
			maxSeen = d.LastChange
		}
	}

	if maxSeen > last {
		if err := p.db.AdvanceWatermark(maxSeen); err != nil {
			p.log.Error().Err(err).Int64("watermark", maxSeen).Msg("advance watermark failed")
		}
	}
}

func formatDealBroadcast(d provider.Deal) string {
	return fmt.Sprintf(
		"🎮 <b>%s</b>\n💰 Sale: $%.2f\n🔥 Discount: %.1f%%\n🔗 <a href='%s'>View Deal</a>",
		d.Title, d.SalePrice, d.Savings, d.URL,
	)
}
