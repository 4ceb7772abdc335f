package worker

import (
	"github.com/spec-kit/parts-store/internal/service"
)

// StartNotificationWorker subscribes the notification service to order and user events.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
