package service

import (
	"context"

	"github.com/mishcoders/rafiq-salah-extension/internal/domain/constant"
	"github.com/mishcoders/rafiq-salah-extension/internal/domain/entity"
)

// SchedulerService defines the interface for computing reminder fire times
// and (re)programming the alarm service.
type SchedulerService interface {
	// ScheduleAllPrayerAlarms clears every outstanding prayer alarm and re-arms
	// each enabled reminder kind for each eligible prayer, rolling targets that
	// already passed today over to tomorrow. It persists the timings and
	// location for the daily refresh cycle.
	ScheduleAllPrayerAlarms(ctx context.Context, timings entity.PrayerTimings, countryCode, cityName string) error
	// ScheduleNextOccurrence re-arms a single {kind, prayer} key for tomorrow
	// after its alarm fired. It is a no-op when the kind is disabled.
	ScheduleNextOccurrence(ctx context.Context, kind constant.AlarmKind, prayer string) error
	// SetReminderEnabled flips the master reminder switch: disabling clears all
	// prayer alarms, enabling reschedules from persisted state.
	SetReminderEnabled(ctx context.Context, enabled bool) error
	// UpdateSettings persists new reminder settings and reschedules from
	// persisted state.
	UpdateSettings(ctx context.Context, settings entity.ReminderSettings) error
	// RestoreOnStartup re-arms prayer alarms from persisted state and sets up
	// the daily update and keep-alive alarms.
	RestoreOnStartup(ctx context.Context) error
	// SetupDailyUpdate arms the repeating daily refresh alarm at 00:01 local.
	SetupDailyUpdate() error
	// SetupKeepAlive arms the repeating keep-alive tick.
	SetupKeepAlive() error
}
