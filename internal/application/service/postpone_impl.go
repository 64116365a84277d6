package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mishcoders/rafiq-salah-extension/internal/domain/constant"
	"github.com/mishcoders/rafiq-salah-extension/internal/domain/entity"
	"github.com/mishcoders/rafiq-salah-extension/internal/domain/repository"
	appErrors "github.com/mishcoders/rafiq-salah-extension/internal/pkg/errors"
	"github.com/mishcoders/rafiq-salah-extension/internal/pkg/logger"
)

type postponeService struct {
	alarms    AlarmService
	stateRepo repository.StateRepository
	presenter NotificationPresenter
	log       logger.Logger
	now       func() time.Time
}

// NewPostponeService creates a new instance of PostponeService implementation.
func NewPostponeService(
	alarms AlarmService,
	stateRepo repository.StateRepository,
	presenter NotificationPresenter,
	log logger.Logger,
) PostponeService {
	return &postponeService{
		alarms:    alarms,
		stateRepo: stateRepo,
		presenter: presenter,
		log:       log,
		now:       time.Now,
	}
}

// RequestPostpone enforces the at-most-once policy per occurrence bucket,
// then schedules a single snooze fire five minutes out. A rejected request
// is an informational notice, not an error.
func (s *postponeService) RequestPostpone(ctx context.Context) error {
	now := s.now()
	key := constant.TrackingKey(now)

	tracker, err := s.stateRepo.GetPostponeTracker(ctx)
	if err != nil {
		s.log.Error("Failed to load postpone tracker", err)
		return fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}

	if _, exists := tracker[key]; exists {
		s.log.Info(fmt.Sprintf("Postpone rejected for %s: already postponed once", key))
		if err := s.presenter.ShowNoMorePostpone(ctx); err != nil {
			s.log.Error("Failed to present no-more-postpone notice", err)
		}
		return nil
	}

	tracker[key] = entity.PostponeEntry{PostponedAt: now.UnixMilli(), Count: 1}
	if err := s.stateRepo.SetPostponeTracker(ctx, tracker); err != nil {
		s.log.Error("Failed to persist postpone tracker", err)
		return fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}

	snoozeAt := now.Add(constant.SnoozeMinutes * time.Minute)
	snoozeID := constant.SnoozeAlarmName(now)
	if err := s.alarms.Create(snoozeID, snoozeAt); err != nil {
		// Keep the record; restart recovery can still re-arm it.
		s.log.Error(fmt.Sprintf("Failed to schedule snooze alarm %s", snoozeID), err)
	}

	reminders, err := s.stateRepo.GetPostponedReminders(ctx)
	if err != nil {
		s.log.Error("Failed to load postponed reminders", err)
		return fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}
	reminders = append(reminders, entity.PostponedReminder{
		ID:            snoozeID,
		ScheduledTime: snoozeAt.UnixMilli(),
		CreatedAt:     now.UnixMilli(),
		TrackingKey:   key,
	})
	if err := s.stateRepo.SetPostponedReminders(ctx, reminders); err != nil {
		s.log.Error("Failed to persist postponed reminder", err)
		return fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}

	s.log.Info(fmt.Sprintf("Postponed reminder %s until %v (tracking key %s)", snoozeID, snoozeAt, key))
	if err := s.presenter.ShowPostponeConfirmation(ctx); err != nil {
		s.log.Error("Failed to present postpone confirmation", err)
	}
	return nil
}

// RestorePostponedReminders walks every persisted snooze record on process
// start, because the timer service's own persistence may not have survived:
// future records get their alarm re-created, recent misses still inside a
// reminder window are presented late and consumed, and anything older than
// ten minutes is silently discarded.
func (s *postponeService) RestorePostponedReminders(ctx context.Context) error {
	reminders, err := s.stateRepo.GetPostponedReminders(ctx)
	if err != nil {
		s.log.Error("Failed to load postponed reminders during restore", err)
		return fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}
	if len(reminders) == 0 {
		return nil
	}

	now := s.now()
	survivors := make([]entity.PostponedReminder, 0, len(reminders))
	for _, r := range reminders {
		diff := time.Duration(r.ScheduledTime-now.UnixMilli()) * time.Millisecond
		switch {
		case diff > 0:
			if err := s.alarms.Create(r.ID, r.ScheduledAt()); err != nil {
				s.log.Error(fmt.Sprintf("Failed to re-create snooze alarm %s", r.ID), err)
			}
			survivors = append(survivors, r)
		case diff > -constant.LateReminderThreshold:
			// Missed while the process was down, but recently enough to matter.
			if s.withinAnyWindow(ctx, now) {
				if err := s.presenter.ShowPostponedReminder(ctx); err != nil {
					s.log.Error("Failed to present late postponed reminder", err)
				}
			}
			// Consumed either way.
		default:
			s.log.Debug(fmt.Sprintf("Discarding stale snooze record %s", r.ID))
		}
	}

	if err := s.stateRepo.SetPostponedReminders(ctx, survivors); err != nil {
		s.log.Error("Failed to rewrite postponed reminders after restore", err)
		return fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}
	s.log.Info(fmt.Sprintf("Restored postponed reminders: %d kept of %d", len(survivors), len(reminders)))
	return nil
}

// withinAnyWindow reports whether now falls inside any eligible prayer's
// reminder window, using the persisted lead time.
func (s *postponeService) withinAnyWindow(ctx context.Context, now time.Time) bool {
	timings, err := s.stateRepo.GetTimings(ctx)
	if err != nil || timings == nil {
		return false
	}
	settings, err := s.stateRepo.GetSettings(ctx)
	if err != nil {
		settings = entity.DefaultReminderSettings()
	}
	return timings.WithinReminderWindow(now, settings.ReminderMinutes)
}

// CleanupPostponedReminders drops snooze records created 24h ago or earlier,
// bounding the collection's growth.
func (s *postponeService) CleanupPostponedReminders(ctx context.Context) error {
	reminders, err := s.stateRepo.GetPostponedReminders(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}
	if len(reminders) == 0 {
		return nil
	}

	nowMs := s.now().UnixMilli()
	kept := reminders[:0]
	for _, r := range reminders {
		if time.Duration(nowMs-r.CreatedAt)*time.Millisecond < constant.PostponeValidity {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(reminders) {
		return nil
	}
	s.log.Info(fmt.Sprintf("Cleanup: dropping %d expired postponed reminders", len(reminders)-len(kept)))
	return s.stateRepo.SetPostponedReminders(ctx, kept)
}

// CleanupPostponeTracker drops occurrence buckets postponed 24h ago or
// earlier.
func (s *postponeService) CleanupPostponeTracker(ctx context.Context) error {
	tracker, err := s.stateRepo.GetPostponeTracker(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}
	if len(tracker) == 0 {
		return nil
	}

	nowMs := s.now().UnixMilli()
	cleaned := entity.PostponeTracker{}
	for key, entry := range tracker {
		if time.Duration(nowMs-entry.PostponedAt)*time.Millisecond < constant.PostponeValidity {
			cleaned[key] = entry
		}
	}
	if len(cleaned) == len(tracker) {
		return nil
	}
	s.log.Info(fmt.Sprintf("Cleanup: dropping %d expired postpone tracker entries", len(tracker)-len(cleaned)))
	return s.stateRepo.SetPostponeTracker(ctx, cleaned)
}
