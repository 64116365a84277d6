package entity

import "github.com/mishcoders/rafiq-salah-extension/internal/domain/constant"

// ReminderSettings holds the user-facing reminder configuration. Two
// independent reminder kinds exist per prayer: a pre reminder fired
// ReminderMinutes before the prayer, and an exact reminder fired at the
// prayer time itself. Enabled is the master switch over both.
type ReminderSettings struct {
	ReminderMinutes int  `json:"reminderMinutes"`
	Enabled         bool `json:"reminderEnabled"`
	PreEnabled      bool `json:"preReminderEnabled"`
	ExactEnabled    bool `json:"exactReminderEnabled"`
}

// DefaultReminderSettings returns the settings used before the user has
// saved anything: both kinds on, five minutes of lead time.
func DefaultReminderSettings() ReminderSettings {
	return ReminderSettings{
		ReminderMinutes: constant.DefaultReminderMinutes,
		Enabled:         true,
		PreEnabled:      true,
		ExactEnabled:    true,
	}
}

// Normalize clamps out-of-range values back to usable defaults.
func (s *ReminderSettings) Normalize() {
	if s.ReminderMinutes < 0 {
		s.ReminderMinutes = 0
	}
}

// KindEnabled reports whether the given reminder kind is currently on,
// taking the master switch into account.
func (s ReminderSettings) KindEnabled(kind constant.AlarmKind) bool {
	if !s.Enabled {
		return false
	}
	switch kind {
	case constant.KindPre:
		return s.PreEnabled
	case constant.KindExact:
		return s.ExactEnabled
	}
	return false
}

// Location identifies the city whose prayer times are being tracked and
// which calculation method the provider should use. CalculationMethod is
// either "auto" (resolve via the country map) or a numeric method code.
type Location struct {
	CountryCode       string `json:"currentCountryCode"`
	CityName          string `json:"currentCityName"`
	CalculationMethod string `json:"calculationMethod"`
}

// Complete reports whether the location carries enough information for a
// daily refresh fetch.
func (l Location) Complete() bool {
	return l.CountryCode != "" && l.CityName != ""
}

// ScheduleError records the last alarm-scheduling failure so the UI can
// surface it. It is informational state, never a propagated error.
type ScheduleError struct {
	Message string `json:"message"`
	At      int64  `json:"at"` // epoch ms
}
