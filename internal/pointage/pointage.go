package pointage

import (
	"time"

	timesheetDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/timesheet"
)

const (
	KindIn  = "in"
	KindOut = "out"
)

// Clock-ins within this many minutes of work_day_start are not late.
const lateGraceMinutes = 5

type Pointage struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Kind      string    `json:"kind"`
	At        time.Time `json:"at"`
	Late      bool      `json:"late"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Break struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func FromDataModel(p *timesheetDatamodel.Pointage) *Pointage {
	return &Pointage{
		ID:        p.ID,
		UserID:    p.UserID,
		Kind:      p.Kind,
		At:        p.At,
		Late:      p.Late,
		Note:      p.Note,
		CreatedAt: p.CreatedAt,
	}
}

func BreakFromDataModel(b *timesheetDatamodel.BreakEntry) *Break {
	return &Break{
		ID:        b.ID,
		UserID:    b.UserID,
		StartedAt: b.StartedAt,
		EndedAt:   b.EndedAt,
		CreatedAt: b.CreatedAt,
	}
}
