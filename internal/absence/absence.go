package absence

import (
	"time"

	absenceDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/absence"
)

const (
	TypeVacation = "vacation"
	TypeSick     = "sick"
	TypePersonal = "personal"
	TypeOther    = "other"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

func ValidType(t string) bool {
	switch t {
	case TypeVacation, TypeSick, TypePersonal, TypeOther:
		return true
	}
	return false
}

type Absence struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Type      string     `json:"type"`
	StartDate time.Time  `json:"start_date"`
	EndDate   time.Time  `json:"end_date"`
	Reason    string     `json:"reason"`
	Status    string     `json:"status"`
	DecidedBy *int64     `json:"decided_by,omitempty"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (a *Absence) Decided() bool {
	return a.Status != StatusPending
}

func FromDataModel(a *absenceDatamodel.Absence) *Absence {
	return &Absence{
		ID:        a.ID,
		UserID:    a.UserID,
		Type:      a.Type,
		StartDate: a.StartDate,
		EndDate:   a.EndDate,
		Reason:    a.Reason,
		Status:    a.Status,
		DecidedBy: a.DecidedBy,
		DecidedAt: a.DecidedAt,
		CreatedAt: a.CreatedAt,
	}
}
