package dto

import "github.com/mishcoders/rafiq-salah-extension/internal/domain/entity"

// UpdatePrayerTimesRequest carries fresh timings from the UI layer after a
// manual city change or fetch. Triggers a full reschedule.
type UpdatePrayerTimesRequest struct {
	PrayerTimes entity.PrayerTimings `json:"prayerTimes"`
	CountryCode string               `json:"countryCode"`
	CityName    string               `json:"cityName"`
}

// ToggleReminderRequest flips the master reminder switch.
type ToggleReminderRequest struct {
	Enabled *bool `json:"enabled"`
}

// UpdateSettingsRequest carries new notification settings. Omitted fields
// keep their current values.
type UpdateSettingsRequest struct {
	ReminderMinutes      *int  `json:"reminderMinutes"`
	PreReminderEnabled   *bool `json:"preReminderEnabled"`
	ExactReminderEnabled *bool `json:"exactReminderEnabled"`
}

// StateResponse is the popup's read-back of everything it renders.
type StateResponse struct {
	PrayerTimes       entity.PrayerTimings    `json:"prayerTimes,omitempty"`
	Settings          entity.ReminderSettings `json:"settings"`
	Location          entity.Location         `json:"location"`
	LastUpdated       int64                   `json:"lastUpdated,omitempty"`
	LastScheduleError *entity.ScheduleError   `json:"lastScheduleError,omitempty"`
}

// NextPrayerResponse describes the upcoming prayer for the countdown display.
type NextPrayerResponse struct {
	Name         string `json:"name"`
	ArabicName   string `json:"arabicName"`
	At           int64  `json:"at"` // epoch ms
	MinutesUntil int    `json:"minutesUntil"`
}
