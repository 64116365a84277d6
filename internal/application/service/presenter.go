package service

import "context"

// NotificationPresenter defines the interface for showing user-visible
// reminder notifications. Presentation failures are logged by callers and
// never abort the surrounding operation.
type NotificationPresenter interface {
	// ShowPrayerReminder presents a reminder for one prayer. minutesBefore is
	// zero for exact reminders; allowPostpone adds the postpone action.
	ShowPrayerReminder(ctx context.Context, prayerName string, minutesBefore int, allowPostpone bool) error
	// ShowPostponedReminder presents the final, non-postponable reminder after a snooze.
	ShowPostponedReminder(ctx context.Context) error
	// ShowPostponeConfirmation confirms that a snooze was scheduled.
	ShowPostponeConfirmation(ctx context.Context) error
	// ShowNoMorePostpone informs the user that this occurrence was already postponed.
	ShowNoMorePostpone(ctx context.Context) error
	// ShowWelcome greets a user who has not selected a location yet.
	ShowWelcome(ctx context.Context) error
}
