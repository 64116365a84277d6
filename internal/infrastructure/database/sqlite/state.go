package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mishcoders/rafiq-salah-extension/internal/domain/entity"
	"github.com/mishcoders/rafiq-salah-extension/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Storage keys. These mirror the keys the popup reads back over /api/state.
const (
	keyPrayerTimes        = "prayerTimes"
	keySettings           = "reminderSettings"
	keyLocation           = "location"
	keyPostponedReminders = "postponedReminders"
	keyPostponeTracker    = "postponeTracker"
	keyLastScheduleError  = "lastScheduleError"
	keyLastUpdated        = "lastUpdated"
)

// StateEntry is one row of the key-value state table; values are JSON.
type StateEntry struct {
	Key   string `gorm:"column:state_key;primaryKey"`
	Value string `gorm:"column:state_value;type:text"`
}

// TableName specifies the table name for the StateEntry entity.
func (StateEntry) TableName() string {
	return "extension_state"
}

type stateRepository struct {
	db *gorm.DB
}

// NewStateRepository creates a new instance of StateRepository.
func NewStateRepository(db *gorm.DB) repository.StateRepository {
	return &stateRepository{db: db}
}

// read unmarshals the value stored under key into out. It reports false
// without error when the key has never been written.
func (r *stateRepository) read(ctx context.Context, key string, out any) (bool, error) {
	var row StateEntry
	if err := r.db.WithContext(ctx).First(&row, "state_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("🔴 ERROR: failed to read state key %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(row.Value), out); err != nil {
		return false, fmt.Errorf("🔴 ERROR: failed to decode state key %s: %w", key, err)
	}
	return true, nil
}

// write marshals value and upserts it under key.
func (r *stateRepository) write(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("🔴 ERROR: failed to encode state key %s: %w", key, err)
	}
	row := StateEntry{Key: key, Value: string(data)}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "state_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"state_value"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("🔴 ERROR: failed to write state key %s: %w", key, err)
	}
	return nil
}

// GetTimings retrieves the cached prayer timings. Returns nil when none are stored.
func (r *stateRepository) GetTimings(ctx context.Context) (entity.PrayerTimings, error) {
	var timings entity.PrayerTimings
	found, err := r.read(ctx, keyPrayerTimes, &timings)
	if err != nil || !found {
		return nil, err
	}
	return timings, nil
}

// SetTimings stores the prayer timings.
func (r *stateRepository) SetTimings(ctx context.Context, timings entity.PrayerTimings) error {
	return r.write(ctx, keyPrayerTimes, timings)
}

// GetSettings retrieves the reminder settings, falling back to defaults when unset.
func (r *stateRepository) GetSettings(ctx context.Context) (entity.ReminderSettings, error) {
	settings := entity.DefaultReminderSettings()
	found, err := r.read(ctx, keySettings, &settings)
	if err != nil {
		return entity.DefaultReminderSettings(), err
	}
	if !found {
		return entity.DefaultReminderSettings(), nil
	}
	settings.Normalize()
	return settings, nil
}

// SetSettings stores the reminder settings.
func (r *stateRepository) SetSettings(ctx context.Context, settings entity.ReminderSettings) error {
	return r.write(ctx, keySettings, settings)
}

// GetLocation retrieves the persisted location and calculation method.
func (r *stateRepository) GetLocation(ctx context.Context) (entity.Location, error) {
	var loc entity.Location
	if _, err := r.read(ctx, keyLocation, &loc); err != nil {
		return entity.Location{}, err
	}
	return loc, nil
}

// SetLocation stores the location and calculation method.
func (r *stateRepository) SetLocation(ctx context.Context, loc entity.Location) error {
	return r.write(ctx, keyLocation, loc)
}

// GetPostponedReminders retrieves all pending snooze records.
func (r *stateRepository) GetPostponedReminders(ctx context.Context) ([]entity.PostponedReminder, error) {
	var reminders []entity.PostponedReminder
	if _, err := r.read(ctx, keyPostponedReminders, &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}

// SetPostponedReminders replaces the pending snooze record set.
func (r *stateRepository) SetPostponedReminders(ctx context.Context, reminders []entity.PostponedReminder) error {
	if reminders == nil {
		reminders = []entity.PostponedReminder{}
	}
	return r.write(ctx, keyPostponedReminders, reminders)
}

// GetPostponeTracker retrieves the postpone-limiting tracker. Never returns nil.
func (r *stateRepository) GetPostponeTracker(ctx context.Context) (entity.PostponeTracker, error) {
	tracker := entity.PostponeTracker{}
	if _, err := r.read(ctx, keyPostponeTracker, &tracker); err != nil {
		return entity.PostponeTracker{}, err
	}
	if tracker == nil {
		tracker = entity.PostponeTracker{}
	}
	return tracker, nil
}

// SetPostponeTracker replaces the postpone-limiting tracker.
func (r *stateRepository) SetPostponeTracker(ctx context.Context, tracker entity.PostponeTracker) error {
	if tracker == nil {
		tracker = entity.PostponeTracker{}
	}
	return r.write(ctx, keyPostponeTracker, tracker)
}

// GetLastScheduleError retrieves the last recorded scheduling failure, or nil.
func (r *stateRepository) GetLastScheduleError(ctx context.Context) (*entity.ScheduleError, error) {
	var schedErr entity.ScheduleError
	found, err := r.read(ctx, keyLastScheduleError, &schedErr)
	if err != nil || !found {
		return nil, err
	}
	return &schedErr, nil
}

// SetLastScheduleError records a scheduling failure for the UI to surface.
func (r *stateRepository) SetLastScheduleError(ctx context.Context, schedErr entity.ScheduleError) error {
	return r.write(ctx, keyLastScheduleError, schedErr)
}

// GetLastUpdated retrieves the epoch ms of the last successful timings fetch (0 when never).
func (r *stateRepository) GetLastUpdated(ctx context.Context) (int64, error) {
	var at int64
	if _, err := r.read(ctx, keyLastUpdated, &at); err != nil {
		return 0, err
	}
	return at, nil
}

// SetLastUpdated records the epoch ms of the last successful timings fetch.
func (r *stateRepository) SetLastUpdated(ctx context.Context, at int64) error {
	return r.write(ctx, keyLastUpdated, at)
}
