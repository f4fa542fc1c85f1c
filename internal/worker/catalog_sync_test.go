package worker

import (
	"context"
	"testing"

	"steam-deals-bot/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogSync_SingleEntryThenEmptyPage(t *testing.T) {
	db := newTestDB(t)

	catalog := newFakeCatalogProvider()
	catalog.pages[0] = []models.CatalogEntry{
		{Title: "Alpha", NormalPrice: 10.0, SalePrice: 5.0, Savings: 50, URL: "https://store.steampowered.com/app/1"},
	}
	sync := NewCatalogSync(db, catalog, 5, zerolog.Nop())

	sync.Run(context.Background())

	found, err := db.FindCatalogByFragment("Alpha")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 10.0, found[0].NormalPrice)
	assert.Equal(t, 5.0, found[0].SalePrice)
	assert.Equal(t, 50.0, found[0].Savings)

	// Stopped at the empty page, not the cap.
	assert.Equal(t, []int{0, 1}, catalog.fetched)
}

func TestCatalogSync_AtMostOneRowPerTitle(t *testing.T) {
	db := newTestDB(t)

	catalog := newFakeCatalogProvider()
	catalog.pages[0] = []models.CatalogEntry{
		{Title: "Alpha", SalePrice: 7, URL: "u"},
		{Title: "Alpha", SalePrice: 6, URL: "u"},
	}
	catalog.pages[1] = []models.CatalogEntry{
		{Title: "Alpha", SalePrice: 5, URL: "u"},
	}
	sync := NewCatalogSync(db, catalog, 5, zerolog.Nop())

	sync.Run(context.Background())

	found, err := db.FindCatalogByFragment("Alpha")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 5.0, found[0].SalePrice, "most recently written row wins")
}

func TestCatalogSync_RepeatedRunsConverge(t *testing.T) {
	db := newTestDB(t)

	catalog := newFakeCatalogProvider()
	catalog.pages[0] = []models.CatalogEntry{
		{Title: "Alpha", SalePrice: 5, URL: "u"},
		{Title: "Beta", SalePrice: 3, URL: "u"},
	}
	sync := NewCatalogSync(db, catalog, 5, zerolog.Nop())

	sync.Run(context.Background())
	sync.Run(context.Background())
	sync.Run(context.Background())

	for _, title := range []string{"Alpha", "Beta"} {
		found, err := db.FindCatalogByFragment(title)
		require.NoError(t, err)
		assert.Len(t, found, 1, title)
	}
}

func TestCatalogSync_PageCap(t *testing.T) {
	db := newTestDB(t)

	catalog := newFakeCatalogProvider()
	for page := 0; page < 10; page++ {
		catalog.pages[page] = []models.CatalogEntry{{Title: "Game", SalePrice: 1, URL: "u"}}
	}
	sync := NewCatalogSync(db, catalog, 5, zerolog.Nop())

	sync.Run(context.Background())

	assert.Equal(t, []int{0, 1, 2, 3, 4}, catalog.fetched)
}

func TestCatalogSync_FetchFailureStopsPagination(t *testing.T) {
	db := newTestDB(t)

	catalog := newFakeCatalogProvider()
	catalog.pages[0] = []models.CatalogEntry{{Title: "Alpha", SalePrice: 5, URL: "u"}}
	catalog.errPage = 1
	sync := NewCatalogSync(db, catalog, 5, zerolog.Nop())

	sync.Run(context.Background())

	// The failed run keeps what it already wrote; no mid-run retry.
	assert.Equal(t, []int{0, 1}, catalog.fetched)
	found, err := db.FindCatalogByFragment("Alpha")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}
