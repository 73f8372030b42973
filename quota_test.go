package tubetrends

import "testing"

func TestQuotaTracker(t *testing.T) {
	quota := NewQuotaTracker(250)

	if err := quota.Track("search.list"); err != nil {
		t.Fatal(err)
	}
	if err := quota.Track("videos.list"); err != nil {
		t.Fatal(err)
	}
	if quota.Used() != 101 {
		t.Errorf("used = %d, want 101", quota.Used())
	}
	if quota.Remaining() != 149 {
		t.Errorf("remaining = %d, want 149", quota.Remaining())
	}

	// The next search would exceed the limit.
	if err := quota.Track("search.list"); err != nil {
		t.Fatal(err)
	}
	if err := quota.Track("search.list"); err == nil {
		t.Error("expected error past the daily limit")
	}
}

func TestQuotaTrackerDefaultLimit(t *testing.T) {
	quota := NewQuotaTracker(0)
	if quota.DailyLimit() != 10000 {
		t.Errorf("daily limit = %d, want 10000", quota.DailyLimit())
	}
}

func TestQuotaTrackerUnknownOperation(t *testing.T) {
	quota := NewQuotaTracker(100)
	if err := quota.Track("made.up"); err != nil {
		t.Fatal(err)
	}
	// Unknown operations cost one unit.
	if quota.Used() != 1 {
		t.Errorf("used = %d, want 1", quota.Used())
	}
}
