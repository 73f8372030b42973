package tubetrends

import "fmt"

// quotaCosts lists YouTube API quota costs in units per operation.
var quotaCosts = map[string]int{
	"search.list":         100,
	"videos.list":         1,
	"channels.list":       1,
	"playlists.list":      1,
	"playlistItems.list":  1,
	"commentThreads.list": 1,
}

const defaultDailyQuota = 10000

// QuotaTracker tracks YouTube API quota usage against a daily limit.
type QuotaTracker struct {
	dailyLimit int
	used       int
}

// NewQuotaTracker creates a tracker. A non-positive limit selects the
// default free-tier daily quota.
func NewQuotaTracker(dailyLimit int) *QuotaTracker {
	if dailyLimit <= 0 {
		dailyLimit = defaultDailyQuota
	}
	return &QuotaTracker{dailyLimit: dailyLimit}
}

// Track records one API operation and returns an error once the daily
// limit is reached. Unknown operations cost 1 unit.
func (q *QuotaTracker) Track(operation string) error {
	cost, ok := quotaCosts[operation]
	if !ok {
		cost = 1
	}
	q.used += cost

	if q.used >= q.dailyLimit {
		return fmt.Errorf("daily quota limit reached: %d/%d units used", q.used, q.dailyLimit)
	}
	return nil
}

// Used returns the quota units consumed so far.
func (q *QuotaTracker) Used() int {
	return q.used
}

// Remaining returns the quota units left before the daily limit.
func (q *QuotaTracker) Remaining() int {
	if q.used >= q.dailyLimit {
		return 0
	}
	return q.dailyLimit - q.used
}

// DailyLimit returns the configured daily limit.
func (q *QuotaTracker) DailyLimit() int {
	return q.dailyLimit
}
