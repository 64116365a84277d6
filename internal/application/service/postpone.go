package service

import "context"

// PostponeService defines the interface for the snooze policy: at most one
// postponement per prayer occurrence, with pending snoozes persisted so they
// survive restarts.
type PostponeService interface {
	// RequestPostpone handles a postpone action on a firing reminder. A second
	// request within the same occurrence bucket presents a "cannot postpone
	// again" notice and schedules nothing.
	RequestPostpone(ctx context.Context) error
	// RestorePostponedReminders re-creates pending snooze alarms after a
	// process restart, presenting recent misses that are still in window and
	// discarding stale records.
	RestorePostponedReminders(ctx context.Context) error
	// CleanupPostponedReminders drops snooze records older than 24h.
	CleanupPostponedReminders(ctx context.Context) error
	// CleanupPostponeTracker drops occurrence buckets older than 24h.
	CleanupPostponeTracker(ctx context.Context) error
}
