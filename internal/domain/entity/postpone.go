package entity

import "time"

// PostponedReminder is a single pending snooze fire. It is created when the
// user postpones a reminder, consumed when its alarm fires or when found
// stale during restart recovery, and garbage-collected 24h after CreatedAt.
type PostponedReminder struct {
	ID            string `json:"id"`            // alarm name, "snooze_<epochMs>"
	ScheduledTime int64  `json:"scheduledTime"` // epoch ms
	CreatedAt     int64  `json:"createdAt"`     // epoch ms
	TrackingKey   string `json:"trackingKey"`
}

// ScheduledAt returns the snooze target as a time.Time.
func (r PostponedReminder) ScheduledAt() time.Time {
	return time.UnixMilli(r.ScheduledTime)
}

// PostponeEntry marks a prayer occurrence (coarsely identified by its
// tracking key) as already postponed. Presence of the key blocks further
// postponement regardless of Count.
type PostponeEntry struct {
	PostponedAt int64 `json:"postponedAt"` // epoch ms
	Count       int   `json:"count"`
}

// PostponeTracker maps tracking keys to their postpone entries.
type PostponeTracker map[string]PostponeEntry

// ScheduledAlarm describes one outstanding alarm in the timer service: a
// name, its target instant, and an optional repeat period. At most one alarm
// per name is outstanding at a time.
type ScheduledAlarm struct {
	Name          string
	When          time.Time
	PeriodMinutes int // 0 for one-shot alarms
}
