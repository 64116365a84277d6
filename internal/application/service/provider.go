package service

import (
	"context"
	"time"

	"github.com/mishcoders/rafiq-salah-extension/internal/domain/entity"
)

// TimingsProvider defines the interface for fetching a day's prayer timings
// for a city and country under a calculation method.
type TimingsProvider interface {
	FetchTimings(ctx context.Context, date time.Time, city, country string, method int) (entity.PrayerTimings, error)
}
