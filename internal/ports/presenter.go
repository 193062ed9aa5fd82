package ports

import "github.com/renato0307/vigia/internal/domain"

// Presenter is the external presentation layer. The core only issues
// intents through it and renders nothing itself.
type Presenter interface {
	// OnPresent hands a new notification to the presentation layer
	OnPresent(entry domain.NotificationEntry)

	// OnDismiss tells the presentation layer to remove one notification
	OnDismiss(entryID string)

	// OnQueueChanged reports the full display order, newest first
	OnQueueChanged(entries []domain.NotificationEntry)
}
