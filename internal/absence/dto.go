package absence

import (
	"time"

	"github.com/elitehr/elite-time/internal"
)

const dateLayout = "2006-01-02"

type CreateAbsenceDTO struct {
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

func (d CreateAbsenceDTO) Validate() (start, end time.Time, err error) {
	if !ValidType(d.Type) {
		return start, end, internal.NewValidationError("unknown absence type", internal.ErrCodeValidationFailed)
	}
	start, err = time.Parse(dateLayout, d.StartDate)
	if err != nil {
		return start, end, internal.NewValidationError("start_date must be YYYY-MM-DD", internal.ErrCodeInvalidDateRange)
	}
	end, err = time.Parse(dateLayout, d.EndDate)
	if err != nil {
		return start, end, internal.NewValidationError("end_date must be YYYY-MM-DD", internal.ErrCodeInvalidDateRange)
	}
	if end.Before(start) {
		return start, end, internal.NewValidationError("end_date must not precede start_date", internal.ErrCodeInvalidDateRange)
	}
	return start, end, nil
}

type DecisionDTO struct {
	Comment string `json:"comment,omitempty"`
}

type AbsencesResponse struct {
	Success  bool       `json:"success"`
	Absences []*Absence `json:"absences"`
}
