package absence

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/elitehr/elite-time/internal"
	"github.com/elitehr/elite-time/internal/activity"
	absenceDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/absence"
)

type RepositoryAPI interface {
	GetByID(id int64) (*absenceDatamodel.Absence, error)
	ListForUser(userID int64) ([]*absenceDatamodel.Absence, error)
	ListAll(status string) ([]*absenceDatamodel.Absence, error)
	ListBetween(from, to time.Time) ([]*absenceDatamodel.Absence, error)
	Create(a *absenceDatamodel.Absence) error
	Update(a *absenceDatamodel.Absence) error
}

type Service struct {
	repo     RepositoryAPI
	recorder *activity.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo RepositoryAPI, recorder *activity.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger, now: time.Now}
}

func (s *Service) Create(userID int64, dto CreateAbsenceDTO) (*Absence, error) {
	start, end, err := dto.Validate()
	if err != nil {
		return nil, err
	}

	row := &absenceDatamodel.Absence{
		UserID:    userID,
		Type:      dto.Type,
		StartDate: start,
		EndDate:   end,
		Reason:    dto.Reason,
		Status:    StatusPending,
	}
	if err := s.repo.Create(row); err != nil {
		return nil, internal.NewInternalError("failed to create absence", err)
	}

	s.recorder.Record(userID, "absence_requested",
		fmt.Sprintf("Requested %s absence %s to %s", dto.Type, dto.StartDate, dto.EndDate),
		activity.CategoryAbsence)
	return FromDataModel(row), nil
}

func (s *Service) ListForUser(userID int64) ([]*Absence, error) {
	rows, err := s.repo.ListForUser(userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list absences", err)
	}
	return fromRows(rows), nil
}

func (s *Service) ListAll(status string) ([]*Absence, error) {
	rows, err := s.repo.ListAll(status)
	if err != nil {
		return nil, internal.NewInternalError("failed to list absences", err)
	}
	return fromRows(rows), nil
}

func (s *Service) ListBetween(from, to time.Time) ([]*Absence, error) {
	rows, err := s.repo.ListBetween(from, to)
	if err != nil {
		return nil, internal.NewInternalError("failed to list absences", err)
	}
	return fromRows(rows), nil
}

func (s *Service) GetByID(id int64) (*Absence, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load absence", err)
	}
	if row == nil {
		return nil, internal.ErrAbsenceNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Approve(id int64, deciderID int64) (*Absence, error) {
	return s.decide(id, deciderID, StatusApproved, "absence_approved")
}

func (s *Service) Reject(id int64, deciderID int64) (*Absence, error) {
	return s.decide(id, deciderID, StatusRejected, "absence_rejected")
}

// decide is first-writer-wins: a request already approved or rejected
// cannot be decided again.
func (s *Service) decide(id, deciderID int64, status, action string) (*Absence, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load absence", err)
	}
	if row == nil {
		return nil, internal.ErrAbsenceNotFound
	}
	if row.Status != StatusPending {
		return nil, internal.ErrAbsenceDecided
	}

	now := s.now()
	row.Status = status
	row.DecidedBy = &deciderID
	row.DecidedAt = &now
	if err := s.repo.Update(row); err != nil {
		return nil, internal.NewInternalError("failed to update absence", err)
	}

	s.recorder.Record(deciderID, action,
		fmt.Sprintf("Absence %d for user %d marked %s", row.ID, row.UserID, status),
		activity.CategoryAbsence)
	return FromDataModel(row), nil
}

func fromRows(rows []*absenceDatamodel.Absence) []*Absence {
	absences := make([]*Absence, len(rows))
	for i, row := range rows {
		absences[i] = FromDataModel(row)
	}
	return absences
}
