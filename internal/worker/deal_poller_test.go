package worker

import (
	"context"
	"errors"
	"testing"

	"steam-deals-bot/internal/provider"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealPoller_RecordsNewDealsAndAdvancesWatermark(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.AdvanceWatermark(100))

	deals := &fakeDealsProvider{deals: []provider.Deal{
		{Title: "Portal 2", NormalPrice: 9.99, SalePrice: 0.99, Savings: 90, LastChange: 150, URL: "u1"},
		{Title: "Half-Life 2", NormalPrice: 9.99, SalePrice: 1.99, Savings: 80, LastChange: 120, URL: "u2"},
	}}
	sink := &fakeNotifier{}
	poller := NewDealPoller(db, deals, sink, zerolog.Nop())

	poller.Run(context.Background())

	assert.Len(t, sink.broadcasts, 2)
	assert.Contains(t, sink.broadcasts[0], "Portal 2")

	recorded, err := db.FindDealsByFragment("")
	require.NoError(t, err)
	assert.Len(t, recorded, 2)

	// Advances to the max timestamp, not the last one processed.
	value, err := db.LatestWatermark()
	require.NoError(t, err)
	assert.Equal(t, int64(150), value)
}

func TestDealPoller_SkipsDealsAtOrBelowWatermark(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.AdvanceWatermark(100))

	deals := &fakeDealsProvider{deals: []provider.Deal{
		{Title: "Old Deal", LastChange: 100, URL: "u"},
		{Title: "Older Deal", LastChange: 90, URL: "u"},
	}}
	sink := &fakeNotifier{}
	poller := NewDealPoller(db, deals, sink, zerolog.Nop())

	poller.Run(context.Background())

	assert.Empty(t, sink.broadcasts)
	recorded, err := db.FindDealsByFragment("")
	require.NoError(t, err)
	assert.Empty(t, recorded)

	value, err := db.LatestWatermark()
	require.NoError(t, err)
	assert.Equal(t, int64(100), value)
}

func TestDealPoller_NoDuplicateNotificationAcrossCycles(t *testing.T) {
	db := newTestDB(t)

	deals := &fakeDealsProvider{deals: []provider.Deal{
		{Title: "Portal 2", LastChange: 150, URL: "u"},
	}}
	sink := &fakeNotifier{}
	poller := NewDealPoller(db, deals, sink, zerolog.Nop())

	// Same upstream page returned on every cycle.
	poller.Run(context.Background())
	poller.Run(context.Background())
	poller.Run(context.Background())

	assert.Len(t, sink.broadcasts, 1)
	recorded, err := db.FindDealsByFragment("Portal")
	require.NoError(t, err)
	assert.Len(t, recorded, 1)
}

func TestDealPoller_WatermarkMonotonicForAnyOrdering(t *testing.T) {
	orderings := [][]int64{
		{150, 120, 130},
		{120, 130, 150},
		{130, 150, 120},
	}
	for _, timestamps := range orderings {
		db := newTestDB(t)
		var page []provider.Deal
		for _, ts := range timestamps {
			page = append(page, provider.Deal{Title: "G", LastChange: ts, URL: "u"})
		}
		poller := NewDealPoller(db, &fakeDealsProvider{deals: page}, &fakeNotifier{}, zerolog.Nop())

		poller.Run(context.Background())

		value, err := db.LatestWatermark()
		require.NoError(t, err)
		assert.Equal(t, int64(150), value)
	}
}

func TestDealPoller_FetchFailureSkipsCycle(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.AdvanceWatermark(100))

	deals := &fakeDealsProvider{err: errors.New("upstream down")}
	sink := &fakeNotifier{}
	poller := NewDealPoller(db, deals, sink, zerolog.Nop())

	poller.Run(context.Background())

	assert.Empty(t, sink.broadcasts)
	value, err := db.LatestWatermark()
	require.NoError(t, err)
	assert.Equal(t, int64(100), value, "watermark must stay untouched so no deal is missed")
}

func TestDealPoller_SharedTimestampBothProcessed(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.AdvanceWatermark(100))

	deals := &fakeDealsProvider{deals: []provider.Deal{
		{Title: "Twin A", LastChange: 140, URL: "u"},
		{Title: "Twin B", LastChange: 140, URL: "u"},
	}}
	sink := &fakeNotifier{}
	poller := NewDealPoller(db, deals, sink, zerolog.Nop())

	poller.Run(context.Background())

	assert.Len(t, sink.broadcasts, 2)
	value, err := db.LatestWatermark()
	require.NoError(t, err)
	assert.Equal(t, int64(140), value)
}
