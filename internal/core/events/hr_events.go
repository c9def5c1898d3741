package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLateAlert     = "late_alert"
	EventTypeBreakReminder = "break_reminder"
)

// NewLateAlertEvent is published when an employee clocks in after the
// configured work-day start plus grace period.
func NewLateAlertEvent(userID int64, userName string, clockedInAt time.Time, minutesLate int) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeLateAlert,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"user_id":       userID,
			"user_name":     userName,
			"clocked_in_at": clockedInAt,
			"minutes_late":  minutesLate,
		},
	}
}

// NewBreakReminderEvent is published when an open break exceeds the
// configured break duration.
func NewBreakReminderEvent(userID int64, userName string, startedAt time.Time, allowedMinutes int) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTypeBreakReminder,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"user_id":         userID,
			"user_name":       userName,
			"started_at":      startedAt,
			"allowed_minutes": allowedMinutes,
		},
	}
}
