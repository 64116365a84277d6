package constant

import (
	"fmt"
	"strings"
	"time"
)

// AlarmKind distinguishes the two reminder alarms armed per prayer.
type AlarmKind string

const (
	// KindPre is the reminder fired a configurable number of minutes before the prayer.
	KindPre AlarmKind = "pre"
	// KindExact is the reminder fired at the prayer clock time itself.
	KindExact AlarmKind = "exact"
)

// Valid reports whether k is one of the two known reminder kinds.
func (k AlarmKind) Valid() bool {
	return k == KindPre || k == KindExact
}

// Prayers lists the five reminder-eligible prayers in daily order.
// Sunrise is informational only and never gets an alarm.
var Prayers = []string{"Fajr", "Dhuhr", "Asr", "Maghrib", "Isha"}

// PrayerNamesArabic maps API prayer names to their Arabic display names.
var PrayerNamesArabic = map[string]string{
	"Fajr":    "الفجر",
	"Sunrise": "الشروق",
	"Dhuhr":   "الظهر",
	"Asr":     "العصر",
	"Maghrib": "المغرب",
	"Isha":    "العشاء",
}

// CountryMethodMap maps ISO country codes to the calculation method the
// aladhan API should use when the user leaves the method on "auto".
var CountryMethodMap = map[string]int{
	"EG": 5, "DZ": 5, "SD": 5, "IQ": 3, "MA": 5,
	"SA": 4, "YE": 3, "JO": 3, "AE": 8, "LY": 5,
	"PS": 3, "OM": 8, "KW": 9, "MR": 3, "QA": 10,
	"BH": 8, "LB": 3, "SY": 3, "TN": 7,
}

const (
	// DefaultCalculationMethod is used when the country has no entry in CountryMethodMap.
	DefaultCalculationMethod = 2
	// DefaultReminderMinutes is the default lead time for the pre reminder.
	DefaultReminderMinutes = 5
	// SnoozeMinutes is the fixed postpone delay.
	SnoozeMinutes = 5
	// ExactWindowMinutes bounds how far from the prayer time an exact reminder may still fire.
	ExactWindowMinutes = 10
	// LateReminderThreshold is how far in the past a restored snooze may be and still be presented.
	LateReminderThreshold = 10 * time.Minute
	// PostponeValidity bounds the lifetime of postpone records and tracker entries.
	PostponeValidity = 24 * time.Hour
)

// Fixed system alarm names.
const (
	AlarmDailyUpdate = "dailyUpdate"
	AlarmKeepAlive   = "keepAlive"

	PrayerAlarmPrefix = "prayer_"
	SnoozeAlarmPrefix = "snooze_"
)

// TrackingKeyDateLayout renders the calendar-date part of a postpone
// tracking key, e.g. "Mon Sep 01 2026".
const TrackingKeyDateLayout = "Mon Jan 02 2006"

// IsEligiblePrayer reports whether name is one of the five reminder-eligible prayers.
func IsEligiblePrayer(name string) bool {
	for _, p := range Prayers {
		if p == name {
			return true
		}
	}
	return false
}

// PrayerAlarmName encodes the composite alarm key for a prayer reminder,
// e.g. "prayer_pre_Fajr".
func PrayerAlarmName(kind AlarmKind, prayer string) string {
	return fmt.Sprintf("%s%s_%s", PrayerAlarmPrefix, kind, prayer)
}

// ParsePrayerAlarmName decodes a prayer alarm name back into its kind and
// prayer. It returns ok=false for names that are not valid prayer alarm keys.
func ParsePrayerAlarmName(name string) (AlarmKind, string, bool) {
	rest, found := strings.CutPrefix(name, PrayerAlarmPrefix)
	if !found {
		return "", "", false
	}
	kindStr, prayer, found := strings.Cut(rest, "_")
	if !found {
		return "", "", false
	}
	kind := AlarmKind(kindStr)
	if !kind.Valid() || !IsEligiblePrayer(prayer) {
		return "", "", false
	}
	return kind, prayer, true
}

// SnoozeAlarmName encodes a one-shot snooze alarm name, e.g. "snooze_1756712345678".
func SnoozeAlarmName(t time.Time) string {
	return fmt.Sprintf("%s%d", SnoozeAlarmPrefix, t.UnixMilli())
}

// TrackingKey derives the coarse postpone-limiting key for the given moment:
// one bucket per hour-of-day per calendar day. A reminder postponed at 11:58
// and its snooze firing at 12:03 land in different buckets; this bucketing is
// kept as-is.
func TrackingKey(t time.Time) string {
	return fmt.Sprintf("prayer_%d_%s", t.Hour(), t.Format(TrackingKeyDateLayout))
}
