package entity

import (
	"strconv"
	"strings"
	"time"

	"github.com/mishcoders/rafiq-salah-extension/internal/domain/constant"
)

// PrayerTimings maps a prayer name (Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha)
// to its wall-clock time as "HH:MM" in the device's local time. Absent or
// malformed entries are tolerated everywhere; callers skip them.
type PrayerTimings map[string]string

// ClockFor parses the stored time for the given prayer into an hour and
// minute. ok is false when the entry is absent or malformed.
func (t PrayerTimings) ClockFor(prayer string) (hour, minute int, ok bool) {
	raw, exists := t[prayer]
	if !exists {
		return 0, 0, false
	}
	hs, ms, found := strings.Cut(strings.TrimSpace(raw), ":")
	if !found {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(hs)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(ms)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// At resolves the prayer's clock time onto the calendar date of day, in
// day's location.
func (t PrayerTimings) At(prayer string, day time.Time) (time.Time, bool) {
	hour, minute, ok := t.ClockFor(prayer)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), true
}

// WithinReminderWindow reports whether now falls inside the reminder window
// of any eligible prayer, i.e. within [prayerTime - leadMinutes, prayerTime].
// The comparison is done on minutes-of-day, so a window never spans midnight.
func (t PrayerTimings) WithinReminderWindow(now time.Time, leadMinutes int) bool {
	currentMinutes := now.Hour()*60 + now.Minute()
	for _, prayer := range constant.Prayers {
		hour, minute, ok := t.ClockFor(prayer)
		if !ok {
			continue
		}
		prayerMinutes := hour*60 + minute
		if currentMinutes >= prayerMinutes-leadMinutes && currentMinutes <= prayerMinutes {
			return true
		}
	}
	return false
}

// NextPrayer returns the next upcoming eligible prayer relative to now.
// When every prayer of the day has passed it wraps to tomorrow's Fajr.
// ok is false when no eligible prayer has a parseable time.
func (t PrayerTimings) NextPrayer(now time.Time) (name string, at time.Time, ok bool) {
	var firstName string
	var firstAt time.Time
	for _, prayer := range constant.Prayers {
		prayerAt, parsed := t.At(prayer, now)
		if !parsed {
			continue
		}
		if firstName == "" {
			firstName, firstAt = prayer, prayerAt
		}
		if prayerAt.After(now) {
			return prayer, prayerAt, true
		}
	}
	if firstName == "" {
		return "", time.Time{}, false
	}
	return firstName, firstAt.Add(24 * time.Hour), true
}
