package activity

import (
	"time"

	activityDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/activity"
)

// Categories are a small closed set used only for filtering.
const (
	CategoryAuth         = "auth"
	CategoryUser         = "user"
	CategoryAbsence      = "absence"
	CategoryPointage     = "pointage"
	CategoryOrganization = "organization"
	CategoryPermission   = "permission"
	CategorySettings     = "settings"
	CategoryExport       = "export"
	CategorySystem       = "system"
)

type Log struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// Result is how audit writes report: they never error out to callers.
type Result struct {
	Success bool   `json:"success"`
	Log     *Log   `json:"log,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Filter struct {
	UserID   int64
	Category string
	From     time.Time
	To       time.Time
	Limit    int
	Offset   int
}

func FromDataModel(l *activityDatamodel.ActivityLog) *Log {
	return &Log{
		ID:        l.ID,
		UserID:    l.UserID,
		Action:    l.Action,
		Details:   l.Details,
		Category:  l.Category,
		CreatedAt: l.CreatedAt,
	}
}

func ToDataModel(l *Log) *activityDatamodel.ActivityLog {
	return &activityDatamodel.ActivityLog{
		ID:        l.ID,
		UserID:    l.UserID,
		Action:    l.Action,
		Details:   l.Details,
		Category:  l.Category,
		CreatedAt: l.CreatedAt,
	}
}
