package repository

import (
	"context"

	"github.com/mishcoders/rafiq-salah-extension/internal/domain/entity"
)

// StateRepository defines the interface for the persistent key-value state
// that survives process restarts. Every component reads a snapshot at the
// start of an operation and writes it back per operation; nothing is cached
// in memory across wake cycles.
type StateRepository interface {
	// GetTimings retrieves the cached prayer timings. Returns nil when none are stored.
	GetTimings(ctx context.Context) (entity.PrayerTimings, error)
	// SetTimings stores the prayer timings.
	SetTimings(ctx context.Context, timings entity.PrayerTimings) error
	// GetSettings retrieves the reminder settings, falling back to defaults when unset.
	GetSettings(ctx context.Context) (entity.ReminderSettings, error)
	// SetSettings stores the reminder settings.
	SetSettings(ctx context.Context, settings entity.ReminderSettings) error
	// GetLocation retrieves the persisted location and calculation method.
	GetLocation(ctx context.Context) (entity.Location, error)
	// SetLocation stores the location and calculation method.
	SetLocation(ctx context.Context, loc entity.Location) error
	// GetPostponedReminders retrieves all pending snooze records.
	GetPostponedReminders(ctx context.Context) ([]entity.PostponedReminder, error)
	// SetPostponedReminders replaces the pending snooze record set.
	SetPostponedReminders(ctx context.Context, reminders []entity.PostponedReminder) error
	// GetPostponeTracker retrieves the postpone-limiting tracker. Never returns nil.
	GetPostponeTracker(ctx context.Context) (entity.PostponeTracker, error)
	// SetPostponeTracker replaces the postpone-limiting tracker.
	SetPostponeTracker(ctx context.Context, tracker entity.PostponeTracker) error
	// GetLastScheduleError retrieves the last recorded scheduling failure, or nil.
	GetLastScheduleError(ctx context.Context) (*entity.ScheduleError, error)
	// SetLastScheduleError records a scheduling failure for the UI to surface.
	SetLastScheduleError(ctx context.Context, schedErr entity.ScheduleError) error
	// GetLastUpdated retrieves the epoch ms of the last successful timings fetch (0 when never).
	GetLastUpdated(ctx context.Context) (int64, error)
	// SetLastUpdated records the epoch ms of the last successful timings fetch.
	SetLastUpdated(ctx context.Context, at int64) error
}
