package alarm

import (
	"testing"
	"time"

	"github.com/mishcoders/rafiq-salah-extension/internal/pkg/logger"
)

func TestFormatOneShotSpec(t *testing.T) {
	at := time.Date(2026, time.March, 10, 18, 5, 30, 0, time.Local)
	if got, want := formatOneShotSpec(at), "30 5 18 10 3 *"; got != want {
		t.Errorf("formatOneShotSpec = %q, want %q", got, want)
	}
}

func TestFormatRepeatingSpec(t *testing.T) {
	anchor := time.Date(2026, time.March, 11, 0, 1, 0, 0, time.Local)
	tests := []struct {
		name          string
		periodMinutes int
		want          string
	}{
		{"daily", 24 * 60, "0 1 0 * * *"},
		{"every five minutes", 5, "0 */5 * * * *"},
		{"every minute", 1, "0 * * * * *"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatRepeatingSpec(anchor, tt.periodMinutes); got != tt.want {
				t.Errorf("formatRepeatingSpec(%d) = %q, want %q", tt.periodMinutes, got, tt.want)
			}
		})
	}
}

func TestCreateSupersedesAndClear(t *testing.T) {
	svc := NewService(logger.New())
	defer func() {
		svc.Clear("test_alarm")
		svc.Clear("test_repeating")
	}()

	first := time.Now().Add(time.Hour)
	if err := svc.Create("test_alarm", first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second := time.Now().Add(2 * time.Hour)
	if err := svc.Create("test_alarm", second); err != nil {
		t.Fatalf("Create (supersede) failed: %v", err)
	}

	var count int
	for _, a := range svc.GetAll() {
		if a.Name == "test_alarm" {
			count++
			if !a.When.Equal(second) {
				t.Errorf("alarm kept stale instant %v, want %v", a.When, second)
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 outstanding alarm per name, got %d", count)
	}

	if err := svc.CreateRepeating("test_repeating", first, 24*60); err != nil {
		t.Fatalf("CreateRepeating failed: %v", err)
	}
	var repeating *int
	for _, a := range svc.GetAll() {
		if a.Name == "test_repeating" {
			p := a.PeriodMinutes
			repeating = &p
		}
	}
	if repeating == nil || *repeating != 24*60 {
		t.Error("repeating alarm missing or wrong period")
	}

	svc.Clear("test_alarm")
	for _, a := range svc.GetAll() {
		if a.Name == "test_alarm" {
			t.Error("cleared alarm still outstanding")
		}
	}

	// Clearing an unknown name is a no-op.
	svc.Clear("never_scheduled")
}
