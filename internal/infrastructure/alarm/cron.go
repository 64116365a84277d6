package alarm

import (
	"fmt"
	"sync"
	"time"

	"github.com/mishcoders/rafiq-salah-extension/internal/domain/entity"
	"github.com/mishcoders/rafiq-salah-extension/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

const minutesPerDay = 24 * 60

// Service manages named one-shot and repeating alarms on top of a cron
// runner. Scheduling a new alarm for an existing name supersedes the old one
// (clear-then-recreate), so at most one alarm per name is ever outstanding.
// Fire delivery is best effort: the cron runner wakes at second granularity
// and a suspended host may deliver late.
type Service struct {
	cron    *cron.Cron
	log     logger.Logger
	mu      sync.Mutex // protects entries and handler
	entries map[string]alarmEntry
	handler func(name string)
}

type alarmEntry struct {
	id            cron.EntryID
	when          time.Time
	periodMinutes int
}

var (
	serviceInstance *Service
	once            sync.Once
)

// NewService creates a new singleton instance of the alarm service.
func NewService(log logger.Logger) *Service {
	once.Do(func() {
		c := cron.New(cron.WithSeconds())
		c.Start()
		log.Info("Alarm service started.")
		serviceInstance = &Service{
			cron:    c,
			log:     log,
			entries: make(map[string]alarmEntry),
		}
	})
	return serviceInstance
}

// SetHandler sets the function invoked with the alarm name on every fire.
// This is called during dependency injection setup to break the circular
// dependency between the alarm service and the dispatcher.
func (s *Service) SetHandler(handler func(name string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = handler
}

// formatOneShotSpec generates a cron spec matching a specific wall-clock
// instant. The spec carries no year field, so the instant must be less than
// a month out or it would fire at the first calendar match; callers schedule
// at most 24 hours ahead.
func formatOneShotSpec(t time.Time) string {
	// Seconds Minutes Hours DayOfMonth Month DayOfWeek
	return fmt.Sprintf("%d %d %d %d %d *", t.Second(), t.Minute(), t.Hour(), t.Day(), int(t.Month()))
}

// formatRepeatingSpec generates a cron spec for an alarm anchored at when and
// repeating every periodMinutes. Daily periods repeat at when's clock time;
// sub-hourly periods repeat on minute multiples.
func formatRepeatingSpec(when time.Time, periodMinutes int) string {
	if periodMinutes >= minutesPerDay {
		return fmt.Sprintf("%d %d %d * * *", when.Second(), when.Minute(), when.Hour())
	}
	if periodMinutes > 1 {
		return fmt.Sprintf("0 */%d * * * *", periodMinutes)
	}
	return "0 * * * * *"
}

// Create schedules a one-shot alarm for the given instant, superseding any
// outstanding alarm with the same name. The cron entry removes itself on its
// first fire. when must lie within the next month; see formatOneShotSpec.
func (s *Service) Create(name string, when time.Time) error {
	s.Clear(name)

	spec := formatOneShotSpec(when)
	id, err := s.cron.AddFunc(spec, func() {
		s.fire(name, true)
	})
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to create alarm %s", name), err)
		return fmt.Errorf("failed to create alarm %s: %w", name, err)
	}

	s.mu.Lock()
	s.entries[name] = alarmEntry{id: id, when: when}
	s.mu.Unlock()

	s.log.Debug(fmt.Sprintf("Created alarm %s for %v", name, when))
	return nil
}

// CreateRepeating schedules an alarm anchored at when that re-fires every
// periodMinutes, superseding any outstanding alarm with the same name.
func (s *Service) CreateRepeating(name string, when time.Time, periodMinutes int) error {
	s.Clear(name)

	spec := formatRepeatingSpec(when, periodMinutes)
	id, err := s.cron.AddFunc(spec, func() {
		s.fire(name, false)
	})
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to create repeating alarm %s", name), err)
		return fmt.Errorf("failed to create repeating alarm %s: %w", name, err)
	}

	s.mu.Lock()
	s.entries[name] = alarmEntry{id: id, when: when, periodMinutes: periodMinutes}
	s.mu.Unlock()

	s.log.Debug(fmt.Sprintf("Created repeating alarm %s anchored at %v, period %dm", name, when, periodMinutes))
	return nil
}

// fire delivers one wake event. One-shot entries are unregistered before the
// handler runs so a handler rescheduling the same name cannot race its own
// removal.
func (s *Service) fire(name string, oneShot bool) {
	s.mu.Lock()
	if oneShot {
		if entry, ok := s.entries[name]; ok {
			s.cron.Remove(entry.id)
			delete(s.entries, name)
		}
	}
	handler := s.handler
	s.mu.Unlock()

	if handler == nil {
		s.log.Warn(fmt.Sprintf("Alarm %s fired with no handler set", name))
		return
	}
	handler(name)
}

// Clear removes the named alarm if it is outstanding.
func (s *Service) Clear(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[name]; ok {
		s.cron.Remove(entry.id)
		delete(s.entries, name)
		s.log.Debug(fmt.Sprintf("Cleared alarm %s", name))
	}
}

// GetAll returns every outstanding alarm with its target instant.
func (s *Service) GetAll() []entity.ScheduledAlarm {
	s.mu.Lock()
	defer s.mu.Unlock()
	alarms := make([]entity.ScheduledAlarm, 0, len(s.entries))
	for name, entry := range s.entries {
		alarms = append(alarms, entity.ScheduledAlarm{
			Name:          name,
			When:          entry.when,
			PeriodMinutes: entry.periodMinutes,
		})
	}
	return alarms
}

// Stop stops the cron runner, waiting for any running fire to complete.
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Alarm service stopped.")
}
