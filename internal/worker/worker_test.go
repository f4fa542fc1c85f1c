package worker

import (
	"context"
	"path/filepath"
	"testing"

	"steam-deals-bot/internal/database"
	"steam-deals-bot/internal/models"
	"steam-deals-bot/internal/notifier"
	"steam-deals-bot/internal/provider"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

type sentMessage struct {
	chatID string
	text   string
	opts   notifier.Options
}

type fakeNotifier struct {
	sends      []sentMessage
	broadcasts []string
}

func (f *fakeNotifier) Send(chatID string, text string, opts notifier.Options) {
	f.sends = append(f.sends, sentMessage{chatID: chatID, text: text, opts: opts})
}

func (f *fakeNotifier) Broadcast(text string) {
	f.broadcasts = append(f.broadcasts, text)
}

type fakeDealsProvider struct {
	deals []provider.Deal
	err   error
	calls int
}

func (f *fakeDealsProvider) RecentDeals(ctx context.Context) ([]provider.Deal, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.deals, nil
}

type fakeCatalogProvider struct {
	pages   map[int][]models.CatalogEntry
	errPage int // page index that fails; -1 for none
	fetched []int
}

func newFakeCatalogProvider() *fakeCatalogProvider {
	return &fakeCatalogProvider{pages: map[int][]models.CatalogEntry{}, errPage: -1}
}

func (f *fakeCatalogProvider) FetchPage(ctx context.Context, page int) ([]models.CatalogEntry, error) {
	f.fetched = append(f.fetched, page)
	if f.errPage == page {
		return nil, context.DeadlineExceeded
	}
	return f.pages[page], nil
}
