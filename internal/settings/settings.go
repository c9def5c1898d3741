package settings

import (
	"time"

	settingsDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/settings"
)

type Settings struct {
	WorkDayStart             string     `json:"work_day_start"`
	WorkDayEnd               string     `json:"work_day_end"`
	BreakDurationMinutes     int        `json:"break_duration_minutes"`
	OvertimeThresholdMinutes int        `json:"overtime_threshold_minutes"`
	Holidays                 string     `json:"holidays"`
	LateAlertsEnabled        bool       `json:"late_alerts_enabled"`
	BreakRemindersEnabled    bool       `json:"break_reminders_enabled"`
	LdapSyncEnabled          bool       `json:"ldap_sync_enabled"`
	LdapSyncIntervalMinutes  int        `json:"ldap_sync_interval_minutes"`
	LdapLastSyncAt           *time.Time `json:"ldap_last_sync_at,omitempty"`
	UpdatedAt                time.Time  `json:"updated_at"`
}

func FromDataModel(s *settingsDatamodel.SystemSettings) *Settings {
	return &Settings{
		WorkDayStart:             s.WorkDayStart,
		WorkDayEnd:               s.WorkDayEnd,
		BreakDurationMinutes:     s.BreakDurationMinutes,
		OvertimeThresholdMinutes: s.OvertimeThresholdMinutes,
		Holidays:                 s.Holidays,
		LateAlertsEnabled:        s.LateAlertsEnabled,
		BreakRemindersEnabled:    s.BreakRemindersEnabled,
		LdapSyncEnabled:          s.LdapSyncEnabled,
		LdapSyncIntervalMinutes:  s.LdapSyncIntervalMinutes,
		LdapLastSyncAt:           s.LdapLastSyncAt,
		UpdatedAt:                s.UpdatedAt,
	}
}
