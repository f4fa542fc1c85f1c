package worker

import (
	"context"

	"steam-deals-bot/internal/database"
	"steam-deals-bot/internal/provider"

	"github.com/rs/zerolog"
)

// CatalogSync refreshes the discounted-game catalog from the catalog
// provider, page by page, and deduplicates by title afterwards.
type CatalogSync struct {
	db       *database.DB
	provider provider.CatalogProvider
	pageCap  int
	log      zerolog.Logger
}

// NewCatalogSync creates the sync worker. pageCap bounds how many pages a
// single run consumes.
func NewCatalogSync(db *database.DB, p provider.CatalogProvider, pageCap int, log zerolog.Logger) *CatalogSync {
	return &CatalogSync{db: db, provider: p, pageCap: pageCap, log: log}
}

// Name implements Job.
func (s *CatalogSync) Name() string { return "catalog-sync" }

// Run performs one full sync. Pagination stops at the first empty page,
// the first fetch or store failure, or the page cap. A failed run leaves
// whatever was already written; the next run converges the catalog again.
func (s *CatalogSync) Run(ctx context.Context) {
	for page := 0; page < s.pageCap; page++ {
		entries, err := s.provider.FetchPage(ctx, page)
		if err != nil {
			s.log.Error().Err(err).Int("page", page).Msg("catalog fetch failed")
			break
		}
		if len(entries) == 0 {
			break
		}

		if err := s.db.UpsertCatalogEntries(entries); err != nil {
			s.log.Error().Err(err).Int("page", page).Msg("catalog write failed")
			break
		}
		s.log.Debug().Int("page", page).Int("entries", len(entries)).Msg("catalog page synced")
	}

	if err := s.db.DedupCatalogByTitle(); err != nil {
		s.log.Error().Err(err).Msg("catalog dedup failed")
		return
	}
	s.log.Info().Msg("catalog sync finished")
}
