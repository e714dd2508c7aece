package worker

import (
	"github.com/spec-kit/case-service/internal/events"
	"github.com/spec-kit/case-service/internal/service"
)

// StartJournalWorker subscribes the activity journal to every event kind.
func StartJournalWorker(dispatcher events.Dispatcher, activityService *service.ActivityService) {
	if dispatcher == nil || activityService == nil {
		return
	}
	for _, eventType := range events.AllEventTypes() {
		dispatcher.Subscribe(eventType, activityService.HandleEvent)
	}
}
