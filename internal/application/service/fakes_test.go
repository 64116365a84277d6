package service

import (
	"context"
	"errors"
	"time"

	"github.com/mishcoders/rafiq-salah-extension/internal/domain/entity"
)

// fakeAlarmService records scheduled alarms in memory.
type fakeAlarmService struct {
	alarms    map[string]entity.ScheduledAlarm
	failNames map[string]bool
}

func newFakeAlarmService() *fakeAlarmService {
	return &fakeAlarmService{
		alarms:    make(map[string]entity.ScheduledAlarm),
		failNames: make(map[string]bool),
	}
}

func (f *fakeAlarmService) Create(name string, when time.Time) error {
	if f.failNames[name] {
		return errors.New("alarm creation refused")
	}
	f.alarms[name] = entity.ScheduledAlarm{Name: name, When: when}
	return nil
}

func (f *fakeAlarmService) CreateRepeating(name string, when time.Time, periodMinutes int) error {
	if f.failNames[name] {
		return errors.New("alarm creation refused")
	}
	f.alarms[name] = entity.ScheduledAlarm{Name: name, When: when, PeriodMinutes: periodMinutes}
	return nil
}

func (f *fakeAlarmService) Clear(name string) {
	delete(f.alarms, name)
}

func (f *fakeAlarmService) GetAll() []entity.ScheduledAlarm {
	all := make([]entity.ScheduledAlarm, 0, len(f.alarms))
	for _, a := range f.alarms {
		all = append(all, a)
	}
	return all
}

// memoryStateRepo is an in-memory StateRepository.
type memoryStateRepo struct {
	timings     entity.PrayerTimings
	settings    *entity.ReminderSettings
	location    entity.Location
	postponed   []entity.PostponedReminder
	tracker     entity.PostponeTracker
	lastErr     *entity.ScheduleError
	lastUpdated int64
}

func newMemoryStateRepo() *memoryStateRepo {
	return &memoryStateRepo{tracker: entity.PostponeTracker{}}
}

func (m *memoryStateRepo) GetTimings(ctx context.Context) (entity.PrayerTimings, error) {
	return m.timings, nil
}

func (m *memoryStateRepo) SetTimings(ctx context.Context, timings entity.PrayerTimings) error {
	m.timings = timings
	return nil
}

func (m *memoryStateRepo) GetSettings(ctx context.Context) (entity.ReminderSettings, error) {
	if m.settings == nil {
		return entity.DefaultReminderSettings(), nil
	}
	return *m.settings, nil
}

func (m *memoryStateRepo) SetSettings(ctx context.Context, settings entity.ReminderSettings) error {
	m.settings = &settings
	return nil
}

func (m *memoryStateRepo) GetLocation(ctx context.Context) (entity.Location, error) {
	return m.location, nil
}

func (m *memoryStateRepo) SetLocation(ctx context.Context, loc entity.Location) error {
	m.location = loc
	return nil
}

func (m *memoryStateRepo) GetPostponedReminders(ctx context.Context) ([]entity.PostponedReminder, error) {
	return m.postponed, nil
}

func (m *memoryStateRepo) SetPostponedReminders(ctx context.Context, reminders []entity.PostponedReminder) error {
	m.postponed = reminders
	return nil
}

func (m *memoryStateRepo) GetPostponeTracker(ctx context.Context) (entity.PostponeTracker, error) {
	return m.tracker, nil
}

func (m *memoryStateRepo) SetPostponeTracker(ctx context.Context, tracker entity.PostponeTracker) error {
	m.tracker = tracker
	return nil
}

func (m *memoryStateRepo) GetLastScheduleError(ctx context.Context) (*entity.ScheduleError, error) {
	return m.lastErr, nil
}

func (m *memoryStateRepo) SetLastScheduleError(ctx context.Context, schedErr entity.ScheduleError) error {
	m.lastErr = &schedErr
	return nil
}

func (m *memoryStateRepo) GetLastUpdated(ctx context.Context) (int64, error) {
	return m.lastUpdated, nil
}

func (m *memoryStateRepo) SetLastUpdated(ctx context.Context, at int64) error {
	m.lastUpdated = at
	return nil
}

// fakePresenter counts every presentation call.
type fakePresenter struct {
	prayerReminders  int
	lastPrayer       string
	lastMinutes      int
	lastPostponeable bool
	postponed        int
	confirmations    int
	noMorePostpone   int
	welcomes         int
}

func (f *fakePresenter) ShowPrayerReminder(ctx context.Context, prayerName string, minutesBefore int, allowPostpone bool) error {
	f.prayerReminders++
	f.lastPrayer = prayerName
	f.lastMinutes = minutesBefore
	f.lastPostponeable = allowPostpone
	return nil
}

func (f *fakePresenter) ShowPostponedReminder(ctx context.Context) error {
	f.postponed++
	return nil
}

func (f *fakePresenter) ShowPostponeConfirmation(ctx context.Context) error {
	f.confirmations++
	return nil
}

func (f *fakePresenter) ShowNoMorePostpone(ctx context.Context) error {
	f.noMorePostpone++
	return nil
}

func (f *fakePresenter) ShowWelcome(ctx context.Context) error {
	f.welcomes++
	return nil
}

// fakeProvider serves canned timings or a canned failure.
type fakeProvider struct {
	timings entity.PrayerTimings
	err     error
	calls   int
}

func (f *fakeProvider) FetchTimings(ctx context.Context, date time.Time, city, country string, method int) (entity.PrayerTimings, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.timings, nil
}
