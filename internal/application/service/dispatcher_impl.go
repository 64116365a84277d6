package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mishcoders/rafiq-salah-extension/internal/domain/constant"
	"github.com/mishcoders/rafiq-salah-extension/internal/domain/entity"
	"github.com/mishcoders/rafiq-salah-extension/internal/domain/repository"
	"github.com/mishcoders/rafiq-salah-extension/internal/pkg/logger"
)

type dispatcherService struct {
	stateRepo    repository.StateRepository
	schedulerSvc SchedulerService
	postponeSvc  PostponeService
	provider     TimingsProvider
	presenter    NotificationPresenter
	log          logger.Logger
	now          func() time.Time
}

// NewDispatcherService creates a new instance of DispatcherService implementation.
func NewDispatcherService(
	stateRepo repository.StateRepository,
	schedulerSvc SchedulerService,
	postponeSvc PostponeService,
	provider TimingsProvider,
	presenter NotificationPresenter,
	log logger.Logger,
) DispatcherService {
	return &dispatcherService{
		stateRepo:    stateRepo,
		schedulerSvc: schedulerSvc,
		postponeSvc:  postponeSvc,
		provider:     provider,
		presenter:    presenter,
		log:          log,
		now:          time.Now,
	}
}

// OnAlarmFired routes one wake event by alarm name. Nothing here is fatal: a
// failed step degrades to "do nothing further this cycle" while leaving
// previously-armed alarms intact.
func (s *dispatcherService) OnAlarmFired(ctx context.Context, name string) error {
	switch {
	case name == constant.AlarmKeepAlive:
		// Keep-alive ticks exist only to hold the host process open.
		return nil
	case name == constant.AlarmDailyUpdate:
		s.handleDailyUpdate(ctx)
		return nil
	case strings.HasPrefix(name, constant.SnoozeAlarmPrefix):
		s.handleSnoozeFired(ctx, name)
		return nil
	default:
		kind, prayer, ok := constant.ParsePrayerAlarmName(name)
		if !ok {
			s.log.Warn(fmt.Sprintf("Ignoring unrecognized alarm %s", name))
			return nil
		}
		s.handlePrayerAlarm(ctx, kind, prayer)
		return nil
	}
}

// handleDailyUpdate re-fetches today's timings, reschedules everything, and
// runs the two cleanup sweeps. A failed fetch is swallowed: alarms already
// armed keep running and the refresh retries on its next 24h occurrence.
func (s *dispatcherService) handleDailyUpdate(ctx context.Context) {
	if err := s.refreshTimings(ctx); err != nil {
		s.log.Warn(fmt.Sprintf("Daily timings refresh failed, keeping cached timings: %v", err))
	}
	if err := s.postponeSvc.CleanupPostponedReminders(ctx); err != nil {
		s.log.Error("Postponed-reminder cleanup sweep failed", err)
	}
	if err := s.postponeSvc.CleanupPostponeTracker(ctx); err != nil {
		s.log.Error("Postpone-tracker cleanup sweep failed", err)
	}
}

// resolveMethod picks the calculation method: an explicit numeric override
// wins, otherwise the country's conventional method, otherwise the default.
func resolveMethod(loc entity.Location) int {
	if loc.CalculationMethod != "" && loc.CalculationMethod != "auto" {
		if method, err := strconv.Atoi(loc.CalculationMethod); err == nil {
			return method
		}
	}
	if method, ok := constant.CountryMethodMap[loc.CountryCode]; ok {
		return method
	}
	return constant.DefaultCalculationMethod
}

func (s *dispatcherService) refreshTimings(ctx context.Context) error {
	loc, err := s.stateRepo.GetLocation(ctx)
	if err != nil {
		return err
	}
	if !loc.Complete() {
		s.log.Debug("No location persisted; skipping daily refresh.")
		return nil
	}

	now := s.now()
	timings, err := s.provider.FetchTimings(ctx, now, loc.CityName, loc.CountryCode, resolveMethod(loc))
	if err != nil {
		return err
	}

	if err := s.stateRepo.SetLastUpdated(ctx, now.UnixMilli()); err != nil {
		s.log.Error("Failed to record last update time", err)
	}
	return s.schedulerSvc.ScheduleAllPrayerAlarms(ctx, timings, loc.CountryCode, loc.CityName)
}

// windowValid re-validates a fired reminder against the current clock: a pre
// reminder is current while now lies within [prayerTime - lead, prayerTime],
// an exact reminder within ten minutes of the prayer time either way. This
// guards against a delayed wake-up firing a stale reminder long after the
// window passed.
func (s *dispatcherService) windowValid(timings entity.PrayerTimings, kind constant.AlarmKind, prayer string, leadMinutes int) bool {
	now := s.now()
	prayerAt, ok := timings.At(prayer, now)
	if !ok {
		return false
	}
	switch kind {
	case constant.KindPre:
		start := prayerAt.Add(-time.Duration(leadMinutes) * time.Minute)
		return !now.Before(start) && !now.After(prayerAt)
	case constant.KindExact:
		diff := now.Sub(prayerAt)
		if diff < 0 {
			diff = -diff
		}
		return diff <= constant.ExactWindowMinutes*time.Minute
	}
	return false
}

// handlePrayerAlarm presents one reminder if it is still current and the
// corresponding toggle is enabled, then always re-arms tomorrow's
// occurrence. Re-arming a disabled kind is a no-op inside the scheduler.
func (s *dispatcherService) handlePrayerAlarm(ctx context.Context, kind constant.AlarmKind, prayer string) {
	settings, err := s.stateRepo.GetSettings(ctx)
	if err != nil {
		s.log.Error("Failed to load settings during prayer alarm", err)
		settings = entity.DefaultReminderSettings()
	}
	timings, err := s.stateRepo.GetTimings(ctx)
	if err != nil {
		s.log.Error("Failed to load timings during prayer alarm", err)
	}

	if timings != nil && settings.KindEnabled(kind) {
		if s.windowValid(timings, kind, prayer, settings.ReminderMinutes) {
			minutesBefore := 0
			if kind == constant.KindPre {
				minutesBefore = settings.ReminderMinutes
			}
			allowPostpone := kind == constant.KindPre
			if err := s.presenter.ShowPrayerReminder(ctx, prayer, minutesBefore, allowPostpone); err != nil {
				s.log.Error(fmt.Sprintf("Failed to present %s reminder for %s", kind, prayer), err)
			}
		} else {
			s.log.Info(fmt.Sprintf("Skipping stale %s reminder for %s: outside window", kind, prayer))
		}
	}

	if err := s.schedulerSvc.ScheduleNextOccurrence(ctx, kind, prayer); err != nil {
		s.log.Error(fmt.Sprintf("Failed to re-arm %s reminder for %s", kind, prayer), err)
	}
}

// handleSnoozeFired consumes the matching postponed-reminder record and
// presents the final reminder, gated by the same still-within-window check.
// Snoozes cannot re-snooze.
func (s *dispatcherService) handleSnoozeFired(ctx context.Context, name string) {
	if s.withinAnyWindow(ctx) {
		if err := s.presenter.ShowPostponedReminder(ctx); err != nil {
			s.log.Error("Failed to present postponed reminder", err)
		}
	} else {
		s.log.Info(fmt.Sprintf("Skipping stale snooze %s: outside every reminder window", name))
	}

	reminders, err := s.stateRepo.GetPostponedReminders(ctx)
	if err != nil {
		s.log.Error("Failed to load postponed reminders", err)
		return
	}
	remaining := reminders[:0]
	for _, r := range reminders {
		if r.ID != name {
			remaining = append(remaining, r)
		}
	}
	if err := s.stateRepo.SetPostponedReminders(ctx, remaining); err != nil {
		s.log.Error("Failed to remove consumed snooze record", err)
	}
}

// withinAnyWindow reports whether now falls inside any eligible prayer's
// reminder window, using the persisted lead time.
func (s *dispatcherService) withinAnyWindow(ctx context.Context) bool {
	timings, err := s.stateRepo.GetTimings(ctx)
	if err != nil || timings == nil {
		return false
	}
	settings, err := s.stateRepo.GetSettings(ctx)
	if err != nil {
		settings = entity.DefaultReminderSettings()
	}
	return timings.WithinReminderWindow(s.now(), settings.ReminderMinutes)
}
