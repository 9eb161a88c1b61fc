package client

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/betbot/bingate/pkg/logger"
)

// syncInterval is how often the clock offset is refreshed. The venue rejects
// signed requests whose timestamp drifts past recvWindow, so the offset has
// to track server time for the whole process lifetime.
const syncInterval = 600 * time.Second

// TimeSync tracks the offset between the local clock and the venue's clock.
// The offset is a single atomic value: the refresher goroutine is the only
// writer, request paths only read.
type TimeSync struct {
	fetch    func(ctx context.Context) (int64, error)
	now      func() time.Time
	offsetMS atomic.Int64
}

// NewTimeSync builds a synchronizer over a server-time fetcher. The zero
// offset is used until the first successful sync.
func NewTimeSync(fetch func(ctx context.Context) (int64, error)) *TimeSync {
	return &TimeSync{fetch: fetch, now: time.Now}
}

// OffsetMS returns the last synced offset (venue time minus local time).
func (ts *TimeSync) OffsetMS() int64 {
	return ts.offsetMS.Load()
}

// NowMS returns the current venue-adjusted time in milliseconds.
func (ts *TimeSync) NowMS() int64 {
	return ts.now().UnixMilli() + ts.offsetMS.Load()
}

// Sync fetches the venue time once and updates the offset. Failures are
// logged and leave the previous offset in place; callers never see an error.
func (ts *TimeSync) Sync(ctx context.Context) {
	serverMS, err := ts.fetch(ctx)
	if err != nil {
		logger.Warnf("time sync failed, keeping offset %dms: %v", ts.offsetMS.Load(), err)
		return
	}
	offset := serverMS - ts.now().UnixMilli()
	ts.offsetMS.Store(offset)
	logger.Infof("time sync: offset %dms", offset)
}

// Start performs one eager sync, then refreshes on a fixed interval until ctx
// is cancelled. Under normal operation ctx is the process context and the
// refresher never stops.
func (ts *TimeSync) Start(ctx context.Context) {
	ts.Sync(ctx)
	go func() {
		ticker := time.NewTicker(syncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ts.Sync(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}
