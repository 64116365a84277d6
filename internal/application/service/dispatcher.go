package service

import "context"

// DispatcherService defines the interface for reacting to alarm fires. It
// re-validates every reminder before presenting it, because fire delivery is
// not exact and the process may have been dormant past the window.
type DispatcherService interface {
	// OnAlarmFired routes one wake event by alarm name: keep-alive ticks are
	// ignored, the daily update refreshes timings and runs the cleanup sweeps,
	// prayer alarms present a (re-validated) reminder and re-arm tomorrow's
	// occurrence, and snooze alarms consume their postponed-reminder record.
	OnAlarmFired(ctx context.Context, name string) error
}
