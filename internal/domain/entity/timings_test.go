package entity

import (
	"testing"
	"time"
)

var sampleTimings = PrayerTimings{
	"Fajr":    "05:00",
	"Sunrise": "06:25",
	"Dhuhr":   "12:00",
	"Asr":     "15:30",
	"Maghrib": "18:10",
	"Isha":    "19:40",
}

func TestClockFor(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		hour   int
		minute int
		ok     bool
	}{
		{"plain", "18:10", 18, 10, true},
		{"padded", " 05:00 ", 5, 0, true},
		{"missing colon", "1810", 0, 0, false},
		{"hour out of range", "24:00", 0, 0, false},
		{"minute out of range", "18:60", 0, 0, false},
		{"not numeric", "ab:cd", 0, 0, false},
		{"empty", "", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timings := PrayerTimings{"Maghrib": tt.raw}
			hour, minute, ok := timings.ClockFor("Maghrib")
			if ok != tt.ok || hour != tt.hour || minute != tt.minute {
				t.Errorf("ClockFor(%q) = (%d, %d, %v), want (%d, %d, %v)",
					tt.raw, hour, minute, ok, tt.hour, tt.minute, tt.ok)
			}
		})
	}

	if _, _, ok := sampleTimings.ClockFor("Tahajjud"); ok {
		t.Error("unknown prayer must not parse")
	}
}

func TestAt(t *testing.T) {
	day := time.Date(2026, time.March, 10, 23, 59, 0, 0, time.Local)
	at, ok := sampleTimings.At("Fajr", day)
	if !ok {
		t.Fatal("At failed for Fajr")
	}
	want := time.Date(2026, time.March, 10, 5, 0, 0, 0, time.Local)
	if !at.Equal(want) {
		t.Errorf("At = %v, want %v", at, want)
	}
}

func TestWithinReminderWindow(t *testing.T) {
	day := func(hour, minute int) time.Time {
		return time.Date(2026, time.March, 10, hour, minute, 0, 0, time.Local)
	}
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"window start", day(18, 5), true},
		{"inside window", day(18, 8), true},
		{"exact prayer time", day(18, 10), true},
		{"one minute past", day(18, 11), false},
		{"one minute early", day(18, 4), false},
		{"far from any prayer", day(14, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sampleTimings.WithinReminderWindow(tt.now, 5); got != tt.want {
				t.Errorf("WithinReminderWindow(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}

	// Sunrise never opens a window.
	if sampleTimings.WithinReminderWindow(day(6, 23), 5) {
		t.Error("sunrise must not open a reminder window")
	}
}

func TestNextPrayer(t *testing.T) {
	now := time.Date(2026, time.March, 10, 16, 0, 0, 0, time.Local)
	name, at, ok := sampleTimings.NextPrayer(now)
	if !ok || name != "Maghrib" {
		t.Fatalf("NextPrayer = (%s, ok=%v), want Maghrib", name, ok)
	}
	if at.Hour() != 18 || at.Minute() != 10 {
		t.Errorf("Maghrib at %v", at)
	}
}

func TestNextPrayer_WrapsToTomorrow(t *testing.T) {
	now := time.Date(2026, time.March, 10, 22, 0, 0, 0, time.Local)
	name, at, ok := sampleTimings.NextPrayer(now)
	if !ok || name != "Fajr" {
		t.Fatalf("NextPrayer = (%s, ok=%v), want Fajr", name, ok)
	}
	want := time.Date(2026, time.March, 11, 5, 0, 0, 0, time.Local)
	if !at.Equal(want) {
		t.Errorf("wrapped Fajr at %v, want %v", at, want)
	}
}

func TestNextPrayer_NoParseableTimes(t *testing.T) {
	broken := PrayerTimings{"Fajr": "garbage", "Dhuhr": ""}
	if _, _, ok := broken.NextPrayer(time.Now()); ok {
		t.Error("NextPrayer must report failure with no parseable times")
	}
}
