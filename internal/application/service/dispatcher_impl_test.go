package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mishcoders/rafiq-salah-extension/internal/domain/constant"
	"github.com/mishcoders/rafiq-salah-extension/internal/domain/entity"
	"github.com/mishcoders/rafiq-salah-extension/internal/pkg/logger"
)

type dispatcherFixture struct {
	alarms    *fakeAlarmService
	repo      *memoryStateRepo
	presenter *fakePresenter
	provider  *fakeProvider
	svc       *dispatcherService
}

func newDispatcherFixture(now time.Time) *dispatcherFixture {
	alarms := newFakeAlarmService()
	repo := newMemoryStateRepo()
	presenter := &fakePresenter{}
	provider := &fakeProvider{}
	log := logger.New()
	nowFn := func() time.Time { return now }

	scheduler := &schedulerService{alarms: alarms, stateRepo: repo, log: log, now: nowFn}
	postpone := &postponeService{alarms: alarms, stateRepo: repo, presenter: presenter, log: log, now: nowFn}

	return &dispatcherFixture{
		alarms:    alarms,
		repo:      repo,
		presenter: presenter,
		provider:  provider,
		svc: &dispatcherService{
			stateRepo:    repo,
			schedulerSvc: scheduler,
			postponeSvc:  postpone,
			provider:     provider,
			presenter:    presenter,
			log:          log,
			now:          nowFn,
		},
	}
}

// TestOnAlarmFired_KeepAliveIgnored checks that keep-alive ticks change nothing.
func TestOnAlarmFired_KeepAliveIgnored(t *testing.T) {
	now := time.Date(2026, time.March, 10, 18, 7, 0, 0, time.Local)
	f := newDispatcherFixture(now)
	f.repo.timings = testTimings

	if err := f.svc.OnAlarmFired(context.Background(), constant.AlarmKeepAlive); err != nil {
		t.Fatalf("keepAlive handling failed: %v", err)
	}
	if f.presenter.prayerReminders != 0 || len(f.alarms.GetAll()) != 0 {
		t.Error("keepAlive tick must not present or schedule anything")
	}
}

// TestOnAlarmFired_PreReminderValid presents inside the window with the
// postpone action and re-arms tomorrow's occurrence.
func TestOnAlarmFired_PreReminderValid(t *testing.T) {
	// Maghrib is 18:10, lead 5: the window is [18:05, 18:10].
	now := time.Date(2026, time.March, 10, 18, 7, 0, 0, time.Local)
	f := newDispatcherFixture(now)
	f.repo.timings = testTimings

	name := constant.PrayerAlarmName(constant.KindPre, "Maghrib")
	if err := f.svc.OnAlarmFired(context.Background(), name); err != nil {
		t.Fatalf("alarm handling failed: %v", err)
	}

	if f.presenter.prayerReminders != 1 {
		t.Fatalf("expected 1 presentation, got %d", f.presenter.prayerReminders)
	}
	if f.presenter.lastPrayer != "Maghrib" || f.presenter.lastMinutes != 5 || !f.presenter.lastPostponeable {
		t.Errorf("unexpected presentation: prayer=%s minutes=%d postponeable=%v",
			f.presenter.lastPrayer, f.presenter.lastMinutes, f.presenter.lastPostponeable)
	}
	rearmed, ok := f.alarms.alarms[name]
	if !ok {
		t.Fatal("next occurrence not armed")
	}
	if want := time.Date(2026, time.March, 11, 18, 5, 0, 0, time.Local); !rearmed.When.Equal(want) {
		t.Errorf("re-armed at %v, want %v", rearmed.When, want)
	}
}

// TestOnAlarmFired_StalePreSkipsButRearms checks that a pre alarm delivered
// after the prayer time presents nothing but still re-arms tomorrow.
func TestOnAlarmFired_StalePreSkipsButRearms(t *testing.T) {
	now := time.Date(2026, time.March, 10, 18, 20, 0, 0, time.Local) // past Maghrib 18:10
	f := newDispatcherFixture(now)
	f.repo.timings = testTimings

	name := constant.PrayerAlarmName(constant.KindPre, "Maghrib")
	if err := f.svc.OnAlarmFired(context.Background(), name); err != nil {
		t.Fatalf("alarm handling failed: %v", err)
	}

	if f.presenter.prayerReminders != 0 {
		t.Error("stale pre reminder must not be presented")
	}
	if _, ok := f.alarms.alarms[name]; !ok {
		t.Error("stale fire must still re-arm the next occurrence")
	}
}

// TestOnAlarmFired_ExactWindow allows up to ten minutes of delivery slack
// either side of the prayer time.
func TestOnAlarmFired_ExactWindow(t *testing.T) {
	cases := []struct {
		name      string
		fireAt    time.Time
		presented int
	}{
		{"nine minutes late", time.Date(2026, time.March, 10, 18, 19, 0, 0, time.Local), 1},
		{"eleven minutes late", time.Date(2026, time.March, 10, 18, 21, 0, 0, time.Local), 0},
	}
	alarmName := constant.PrayerAlarmName(constant.KindExact, "Maghrib")

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newDispatcherFixture(tc.fireAt)
			f.repo.timings = testTimings
			if err := f.svc.OnAlarmFired(context.Background(), alarmName); err != nil {
				t.Fatalf("alarm handling failed: %v", err)
			}
			if f.presenter.prayerReminders != tc.presented {
				t.Errorf("presented %d times, want %d", f.presenter.prayerReminders, tc.presented)
			}
			if tc.presented == 1 && f.presenter.lastPostponeable {
				t.Error("exact reminders must not offer postpone")
			}
		})
	}
}

// TestOnAlarmFired_SnoozeConsumesRecord checks that a snooze fire removes
// its record and presents only while still inside a reminder window.
func TestOnAlarmFired_SnoozeConsumesRecord(t *testing.T) {
	now := time.Date(2026, time.March, 10, 18, 8, 0, 0, time.Local) // inside Maghrib window
	f := newDispatcherFixture(now)
	f.repo.timings = testTimings
	f.repo.postponed = []entity.PostponedReminder{
		{ID: "snooze_1000", ScheduledTime: now.UnixMilli(), CreatedAt: now.Add(-5 * time.Minute).UnixMilli(), TrackingKey: "prayer_18_Tue Mar 10 2026"},
		{ID: "snooze_2000", ScheduledTime: now.Add(time.Hour).UnixMilli(), CreatedAt: now.UnixMilli(), TrackingKey: "prayer_19_Tue Mar 10 2026"},
	}

	if err := f.svc.OnAlarmFired(context.Background(), "snooze_1000"); err != nil {
		t.Fatalf("snooze handling failed: %v", err)
	}

	if f.presenter.postponed != 1 {
		t.Errorf("expected 1 postponed presentation, got %d", f.presenter.postponed)
	}
	if len(f.repo.postponed) != 1 || f.repo.postponed[0].ID != "snooze_2000" {
		t.Errorf("snooze record not consumed correctly: %+v", f.repo.postponed)
	}
}

// TestOnAlarmFired_SnoozeOutsideWindow still consumes the record but
// presents nothing.
func TestOnAlarmFired_SnoozeOutsideWindow(t *testing.T) {
	now := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.Local) // no window nearby
	f := newDispatcherFixture(now)
	f.repo.timings = testTimings
	f.repo.postponed = []entity.PostponedReminder{
		{ID: "snooze_1000", ScheduledTime: now.UnixMilli(), CreatedAt: now.UnixMilli()},
	}

	if err := f.svc.OnAlarmFired(context.Background(), "snooze_1000"); err != nil {
		t.Fatalf("snooze handling failed: %v", err)
	}
	if f.presenter.postponed != 0 {
		t.Error("stale snooze must not be presented")
	}
	if len(f.repo.postponed) != 0 {
		t.Error("stale snooze record must still be consumed")
	}
}

// TestOnAlarmFired_DailyUpdate refreshes timings, reschedules, and sweeps
// expired postpone state.
func TestOnAlarmFired_DailyUpdate(t *testing.T) {
	now := time.Date(2026, time.March, 10, 0, 1, 0, 0, time.Local)
	f := newDispatcherFixture(now)
	f.repo.timings = testTimings
	f.repo.location = entity.Location{CountryCode: "EG", CityName: "Cairo", CalculationMethod: "auto"}
	f.provider.timings = entity.PrayerTimings{
		"Fajr": "05:01", "Dhuhr": "12:01", "Asr": "15:31", "Maghrib": "18:11", "Isha": "19:41",
	}
	f.repo.postponed = []entity.PostponedReminder{
		{ID: "snooze_old", CreatedAt: now.Add(-25 * time.Hour).UnixMilli()},
	}
	f.repo.tracker = entity.PostponeTracker{
		"prayer_9_Mon Mar 09 2026": {PostponedAt: now.Add(-25 * time.Hour).UnixMilli(), Count: 1},
	}

	if err := f.svc.OnAlarmFired(context.Background(), constant.AlarmDailyUpdate); err != nil {
		t.Fatalf("dailyUpdate handling failed: %v", err)
	}

	if f.provider.calls != 1 {
		t.Errorf("expected 1 provider fetch, got %d", f.provider.calls)
	}
	if f.repo.timings["Fajr"] != "05:01" {
		t.Error("fresh timings were not persisted")
	}
	if got := len(f.alarms.GetAll()); got != 10 {
		t.Errorf("expected 10 rescheduled alarms, got %d", got)
	}
	if len(f.repo.postponed) != 0 {
		t.Error("expired postponed reminder survived the sweep")
	}
	if len(f.repo.tracker) != 0 {
		t.Error("expired tracker entry survived the sweep")
	}
}

// TestOnAlarmFired_DailyUpdateFetchFailure keeps cached timings and armed
// alarms when the provider is down.
func TestOnAlarmFired_DailyUpdateFetchFailure(t *testing.T) {
	now := time.Date(2026, time.March, 10, 0, 1, 0, 0, time.Local)
	f := newDispatcherFixture(now)
	f.repo.timings = testTimings
	f.repo.location = entity.Location{CountryCode: "EG", CityName: "Cairo"}
	f.provider.err = errors.New("provider down")

	if err := f.svc.OnAlarmFired(context.Background(), constant.AlarmDailyUpdate); err != nil {
		t.Fatalf("dailyUpdate must swallow fetch failures, got %v", err)
	}
	if f.repo.timings["Fajr"] != "05:00" {
		t.Error("cached timings must survive a failed refresh")
	}
}

// TestResolveMethod covers the auto/override/default method resolution.
func TestResolveMethod(t *testing.T) {
	cases := []struct {
		loc  entity.Location
		want int
	}{
		{entity.Location{CountryCode: "EG", CalculationMethod: "auto"}, 5},
		{entity.Location{CountryCode: "EG", CalculationMethod: ""}, 5},
		{entity.Location{CountryCode: "EG", CalculationMethod: "12"}, 12},
		{entity.Location{CountryCode: "XX", CalculationMethod: "auto"}, constant.DefaultCalculationMethod},
	}
	for _, tc := range cases {
		if got := resolveMethod(tc.loc); got != tc.want {
			t.Errorf("resolveMethod(%+v) = %d, want %d", tc.loc, got, tc.want)
		}
	}
}
