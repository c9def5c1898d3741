package position

import (
	"fmt"
	"log/slog"

	"github.com/elitehr/elite-time/internal"
	"github.com/elitehr/elite-time/internal/activity"
	orgDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/organization"
)

type RepositoryAPI interface {
	GetAll() ([]*orgDatamodel.Position, error)
	GetByID(id int64) (*orgDatamodel.Position, error)
	GetByTitle(title string) (*orgDatamodel.Position, error)
	Create(pos *orgDatamodel.Position) error
	Update(pos *orgDatamodel.Position) error
	Delete(id int64) error
}

type Service struct {
	repo     RepositoryAPI
	recorder *activity.Recorder
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, recorder *activity.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger}
}

func (s *Service) GetAll() ([]*Position, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		return nil, internal.NewInternalError("failed to list positions", err)
	}
	positions := make([]*Position, len(rows))
	for i, row := range rows {
		positions[i] = FromDataModel(row)
	}
	return positions, nil
}

func (s *Service) GetByID(id int64) (*Position, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load position", err)
	}
	if row == nil {
		return nil, internal.ErrPositionNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(dto CreatePositionDTO, actorID int64) (*Position, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByTitle(dto.Title)
	if err != nil {
		return nil, internal.NewInternalError("failed to check position title", err)
	}
	if existing != nil {
		return nil, internal.NewConflictError("position already exists", internal.ErrCodeDuplicateResource)
	}

	row := &orgDatamodel.Position{Title: dto.Title, Description: dto.Description}
	if err := s.repo.Create(row); err != nil {
		return nil, internal.NewInternalError("failed to create position", err)
	}

	s.recorder.Record(actorID, "position_created",
		fmt.Sprintf("Created position %q", dto.Title), activity.CategoryOrganization)
	return FromDataModel(row), nil
}

func (s *Service) Update(id int64, dto UpdatePositionDTO, actorID int64) (*Position, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load position", err)
	}
	if row == nil {
		return nil, internal.ErrPositionNotFound
	}

	if dto.Title != nil {
		row.Title = *dto.Title
	}
	if dto.Description != nil {
		row.Description = *dto.Description
	}
	if err := s.repo.Update(row); err != nil {
		return nil, internal.NewInternalError("failed to update position", err)
	}

	s.recorder.Record(actorID, "position_updated",
		fmt.Sprintf("Updated position %q", row.Title), activity.CategoryOrganization)
	return FromDataModel(row), nil
}

func (s *Service) Delete(id int64, actorID int64) error {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return internal.NewInternalError("failed to load position", err)
	}
	if row == nil {
		return internal.ErrPositionNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		return internal.NewInternalError("failed to delete position", err)
	}

	s.recorder.Record(actorID, "position_deleted",
		fmt.Sprintf("Deleted position %q", row.Title), activity.CategoryOrganization)
	return nil
}
