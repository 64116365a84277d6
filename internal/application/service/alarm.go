package service

import (
	"time"

	"github.com/mishcoders/rafiq-salah-extension/internal/domain/entity"
)

// AlarmService defines the interface for the timer service that delivers
// wake events. Scheduling a name that is already outstanding supersedes the
// prior alarm; fire delivery is best effort, not exact.
type AlarmService interface {
	// Create schedules a one-shot alarm for the given instant.
	Create(name string, when time.Time) error
	// CreateRepeating schedules an alarm anchored at when repeating every periodMinutes.
	CreateRepeating(name string, when time.Time, periodMinutes int) error
	// Clear removes the named alarm if it is outstanding.
	Clear(name string)
	// GetAll returns every outstanding alarm.
	GetAll() []entity.ScheduledAlarm
}
