package settings

import (
	"time"

	"github.com/elitehr/elite-time/internal"
)

type UpdateSettingsDTO struct {
	WorkDayStart             *string `json:"work_day_start,omitempty"`
	WorkDayEnd               *string `json:"work_day_end,omitempty"`
	BreakDurationMinutes     *int    `json:"break_duration_minutes,omitempty"`
	OvertimeThresholdMinutes *int    `json:"overtime_threshold_minutes,omitempty"`
	Holidays                 *string `json:"holidays,omitempty"`
	LateAlertsEnabled        *bool   `json:"late_alerts_enabled,omitempty"`
	BreakRemindersEnabled    *bool   `json:"break_reminders_enabled,omitempty"`
	LdapSyncEnabled          *bool   `json:"ldap_sync_enabled,omitempty"`
	LdapSyncIntervalMinutes  *int    `json:"ldap_sync_interval_minutes,omitempty"`
}

func (d UpdateSettingsDTO) Validate() error {
	if d.WorkDayStart != nil {
		if _, err := time.Parse("15:04", *d.WorkDayStart); err != nil {
			return internal.NewValidationError("work_day_start must be HH:MM", internal.ErrCodeValidationFailed)
		}
	}
	if d.WorkDayEnd != nil {
		if _, err := time.Parse("15:04", *d.WorkDayEnd); err != nil {
			return internal.NewValidationError("work_day_end must be HH:MM", internal.ErrCodeValidationFailed)
		}
	}
	if d.BreakDurationMinutes != nil && *d.BreakDurationMinutes <= 0 {
		return internal.NewValidationError("break_duration_minutes must be positive", internal.ErrCodeValidationFailed)
	}
	if d.OvertimeThresholdMinutes != nil && *d.OvertimeThresholdMinutes <= 0 {
		return internal.NewValidationError("overtime_threshold_minutes must be positive", internal.ErrCodeValidationFailed)
	}
	if d.LdapSyncIntervalMinutes != nil && *d.LdapSyncIntervalMinutes <= 0 {
		return internal.NewValidationError("ldap_sync_interval_minutes must be positive", internal.ErrCodeValidationFailed)
	}
	return nil
}

type SettingsResponse struct {
	Success  bool      `json:"success"`
	Settings *Settings `json:"settings"`
}
