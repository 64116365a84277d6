package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mishcoders/rafiq-salah-extension/internal/domain/constant"
	"github.com/mishcoders/rafiq-salah-extension/internal/domain/entity"
	"github.com/mishcoders/rafiq-salah-extension/internal/domain/repository"
	appErrors "github.com/mishcoders/rafiq-salah-extension/internal/pkg/errors"
	"github.com/mishcoders/rafiq-salah-extension/internal/pkg/logger"
)

type schedulerService struct {
	alarms    AlarmService
	stateRepo repository.StateRepository
	log       logger.Logger
	now       func() time.Time
}

// NewSchedulerService creates a new instance of SchedulerService implementation.
func NewSchedulerService(
	alarms AlarmService,
	stateRepo repository.StateRepository,
	log logger.Logger,
) SchedulerService {
	return &schedulerService{
		alarms:    alarms,
		stateRepo: stateRepo,
		log:       log,
		now:       time.Now,
	}
}

// clearPrayerAlarms cancels every outstanding pre/exact prayer alarm. A full
// reset prevents duplicate or orphaned alarms from a previous location or
// previous day.
func (s *schedulerService) clearPrayerAlarms() {
	for _, alarm := range s.alarms.GetAll() {
		if strings.HasPrefix(alarm.Name, constant.PrayerAlarmPrefix) {
			s.alarms.Clear(alarm.Name)
		}
	}
}

// nextTarget computes the fire instant for one {kind, prayer} key on the
// given day: the prayer time for exact, minus the lead time for pre. Targets
// not strictly in the future roll over 24 hours so no alarm ever fires in
// the past.
func (s *schedulerService) nextTarget(timings entity.PrayerTimings, kind constant.AlarmKind, prayer string, leadMinutes int) (time.Time, bool) {
	now := s.now()
	prayerAt, ok := timings.At(prayer, now)
	if !ok {
		return time.Time{}, false
	}
	target := prayerAt
	if kind == constant.KindPre {
		target = target.Add(-time.Duration(leadMinutes) * time.Minute)
	}
	if !target.After(now) {
		target = target.Add(24 * time.Hour)
	}
	return target, true
}

// recordScheduleError stores a scheduling failure for the UI instead of
// propagating it, so one failed alarm does not abort scheduling the rest.
func (s *schedulerService) recordScheduleError(ctx context.Context, err error) {
	schedErr := entity.ScheduleError{
		Message: err.Error(),
		At:      s.now().UnixMilli(),
	}
	if storeErr := s.stateRepo.SetLastScheduleError(ctx, schedErr); storeErr != nil {
		s.log.Error("Failed to record schedule error", storeErr)
	}
}

// ScheduleAllPrayerAlarms clears and re-arms every enabled reminder alarm
// from today's timings, then persists the timings and location.
func (s *schedulerService) ScheduleAllPrayerAlarms(ctx context.Context, timings entity.PrayerTimings, countryCode, cityName string) error {
	s.clearPrayerAlarms()

	settings, err := s.stateRepo.GetSettings(ctx)
	if err != nil {
		s.log.Error("Failed to load reminder settings, using defaults", err)
		settings = entity.DefaultReminderSettings()
	}

	if settings.Enabled {
		scheduled := 0
		for _, prayer := range constant.Prayers {
			for _, kind := range []constant.AlarmKind{constant.KindPre, constant.KindExact} {
				if !settings.KindEnabled(kind) {
					continue
				}
				target, ok := s.nextTarget(timings, kind, prayer, settings.ReminderMinutes)
				if !ok {
					s.log.Warn(fmt.Sprintf("Skipping %s: missing or malformed time for %s", kind, prayer))
					continue
				}
				name := constant.PrayerAlarmName(kind, prayer)
				if err := s.alarms.Create(name, target); err != nil {
					s.log.Error(fmt.Sprintf("Failed to schedule alarm %s", name), err)
					s.recordScheduleError(ctx, fmt.Errorf("%w: %v", appErrors.ErrScheduling, err))
					continue
				}
				scheduled++
			}
		}
		s.log.Info(fmt.Sprintf("Scheduled %d prayer alarms for %s, %s", scheduled, cityName, countryCode))
	} else {
		s.log.Info("Reminders disabled; prayer alarms cleared, none scheduled.")
	}

	if err := s.stateRepo.SetTimings(ctx, timings); err != nil {
		s.log.Error("Failed to persist prayer timings", err)
		return fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}

	loc, err := s.stateRepo.GetLocation(ctx)
	if err != nil {
		s.log.Error("Failed to load location while persisting", err)
	}
	loc.CountryCode = countryCode
	loc.CityName = cityName
	if err := s.stateRepo.SetLocation(ctx, loc); err != nil {
		s.log.Error("Failed to persist location", err)
		return fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}
	return nil
}

// ScheduleNextOccurrence re-arms exactly one {kind, prayer} key for tomorrow
// using the timings and lead time recorded in storage. When the kind's
// toggle is off the key stays unarmed; re-enabling triggers a full
// reschedule instead.
func (s *schedulerService) ScheduleNextOccurrence(ctx context.Context, kind constant.AlarmKind, prayer string) error {
	settings, err := s.stateRepo.GetSettings(ctx)
	if err != nil {
		s.log.Error("Failed to load reminder settings", err)
		return fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}
	if !settings.KindEnabled(kind) {
		s.log.Debug(fmt.Sprintf("Not re-arming %s for %s: kind disabled", kind, prayer))
		return nil
	}

	timings, err := s.stateRepo.GetTimings(ctx)
	if err != nil {
		s.log.Error("Failed to load prayer timings", err)
		return fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}
	if timings == nil {
		return appErrors.ErrTimingsUnavailable
	}

	tomorrow := s.now().Add(24 * time.Hour)
	target, ok := timings.At(prayer, tomorrow)
	if !ok {
		return fmt.Errorf("%w: %s", appErrors.ErrInvalidTimeFormat, prayer)
	}
	if kind == constant.KindPre {
		target = target.Add(-time.Duration(settings.ReminderMinutes) * time.Minute)
	}

	name := constant.PrayerAlarmName(kind, prayer)
	if err := s.alarms.Create(name, target); err != nil {
		s.recordScheduleError(ctx, fmt.Errorf("%w: %v", appErrors.ErrScheduling, err))
		return fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
	}
	s.log.Debug(fmt.Sprintf("Re-armed %s for %v", name, target))
	return nil
}

// SetReminderEnabled flips the master switch. Disabling is fail-safe: all
// prayer alarms are cleared immediately. Enabling reschedules from the
// current persisted timings.
func (s *schedulerService) SetReminderEnabled(ctx context.Context, enabled bool) error {
	settings, err := s.stateRepo.GetSettings(ctx)
	if err != nil {
		s.log.Error("Failed to load reminder settings", err)
		settings = entity.DefaultReminderSettings()
	}
	settings.Enabled = enabled
	if err := s.stateRepo.SetSettings(ctx, settings); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}

	if !enabled {
		s.clearPrayerAlarms()
		s.log.Info("Reminders disabled; all prayer alarms cleared.")
		return nil
	}
	return s.rescheduleFromState(ctx)
}

// UpdateSettings persists new settings and reschedules everything so the new
// lead time and kind toggles take effect.
func (s *schedulerService) UpdateSettings(ctx context.Context, settings entity.ReminderSettings) error {
	settings.Normalize()
	if err := s.stateRepo.SetSettings(ctx, settings); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}
	return s.rescheduleFromState(ctx)
}

// rescheduleFromState runs a full reschedule from the persisted timings and
// location. Missing state is not an error; there is simply nothing to arm yet.
func (s *schedulerService) rescheduleFromState(ctx context.Context) error {
	timings, err := s.stateRepo.GetTimings(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}
	loc, err := s.stateRepo.GetLocation(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}
	if timings == nil || !loc.Complete() {
		s.log.Info("No persisted timings or location; skipping reschedule.")
		return nil
	}
	return s.ScheduleAllPrayerAlarms(ctx, timings, loc.CountryCode, loc.CityName)
}

// RestoreOnStartup rebuilds the alarm set from persisted state after a
// process restart, then arms the system alarms. Every step is safe to run
// with empty state.
func (s *schedulerService) RestoreOnStartup(ctx context.Context) error {
	settings, err := s.stateRepo.GetSettings(ctx)
	if err != nil {
		s.log.Error("Failed to load settings during startup restore", err)
		settings = entity.DefaultReminderSettings()
	}
	if settings.Enabled {
		if err := s.rescheduleFromState(ctx); err != nil {
			s.log.Error("Failed to restore prayer alarms on startup", err)
		}
	}

	if err := s.SetupDailyUpdate(); err != nil {
		s.log.Error("Failed to arm daily update alarm", err)
	}
	if err := s.SetupKeepAlive(); err != nil {
		s.log.Error("Failed to arm keep-alive alarm", err)
	}
	return nil
}

// SetupDailyUpdate arms the daily refresh: first fire tomorrow at 00:01
// local, then every 24 hours.
func (s *schedulerService) SetupDailyUpdate() error {
	now := s.now()
	tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 1, 0, 0, now.Location()).Add(24 * time.Hour)
	return s.alarms.CreateRepeating(constant.AlarmDailyUpdate, tomorrow, 24*60)
}

// SetupKeepAlive arms the one-minute keep-alive tick.
func (s *schedulerService) SetupKeepAlive() error {
	return s.alarms.CreateRepeating(constant.AlarmKeepAlive, s.now(), 1)
}
