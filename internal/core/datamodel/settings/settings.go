package settings

import "time"

// SystemSettings is a singleton row with a fixed id, lazily created with
// defaults on first read.
type SystemSettings struct {
	ID                       int64      `gorm:"primaryKey"`
	WorkDayStart             string     `gorm:"column:work_day_start;not null;default:'09:00'"`
	WorkDayEnd               string     `gorm:"column:work_day_end;not null;default:'18:00'"`
	BreakDurationMinutes     int        `gorm:"column:break_duration_minutes;not null;default:60"`
	OvertimeThresholdMinutes int        `gorm:"column:overtime_threshold_minutes;not null;default:480"`
	Holidays                 string     `gorm:"column:holidays"`
	LateAlertsEnabled        bool       `gorm:"column:late_alerts_enabled;default:true"`
	BreakRemindersEnabled    bool       `gorm:"column:break_reminders_enabled;default:true"`
	LdapSyncEnabled          bool       `gorm:"column:ldap_sync_enabled;default:false"`
	LdapSyncIntervalMinutes  int        `gorm:"column:ldap_sync_interval_minutes;not null;default:60"`
	LdapLastSyncAt           *time.Time `gorm:"column:ldap_last_sync_at"`
	UpdatedAt                time.Time  `gorm:"column:updated_at;default:now()"`
}

const SingletonID int64 = 1
