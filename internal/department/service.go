package department

import (
	"fmt"
	"log/slog"

	"github.com/elitehr/elite-time/internal"
	"github.com/elitehr/elite-time/internal/activity"
	orgDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/organization"
)

type RepositoryAPI interface {
	GetAll() ([]*orgDatamodel.Department, error)
	GetByID(id int64) (*orgDatamodel.Department, error)
	GetByName(name string) (*orgDatamodel.Department, error)
	Create(dept *orgDatamodel.Department) error
	Update(dept *orgDatamodel.Department) error
	Delete(id int64) error
	CountActiveEmployees(departmentName string) (int64, error)
	// Rename must update the department row and every employee
	// referencing the old name in one atomic unit.
	Rename(id int64, oldName, newName string) error
}

type Service struct {
	repo     RepositoryAPI
	recorder *activity.Recorder
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, recorder *activity.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		recorder: recorder,
		logger:   logger,
	}
}

func (s *Service) GetAll() ([]*Department, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		return nil, internal.NewInternalError("failed to list departments", err)
	}
	depts := make([]*Department, len(rows))
	for i, row := range rows {
		depts[i] = FromDataModel(row)
	}
	return depts, nil
}

func (s *Service) GetByID(id int64) (*Department, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load department", err)
	}
	if row == nil {
		return nil, internal.ErrDepartmentNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(dto CreateDepartmentDTO, actorID int64) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("failed to check department name", err)
	}
	if existing != nil {
		return nil, internal.NewConflictError("department already exists", internal.ErrCodeDuplicateResource)
	}

	row := &orgDatamodel.Department{
		Name:        dto.Name,
		Description: dto.Description,
		ManagerID:   dto.ManagerID,
	}
	if err := s.repo.Create(row); err != nil {
		return nil, internal.NewInternalError("failed to create department", err)
	}

	s.recorder.Record(actorID, "department_created",
		fmt.Sprintf("Created department %q", dto.Name), activity.CategoryOrganization)
	return FromDataModel(row), nil
}

func (s *Service) Update(id int64, dto UpdateDepartmentDTO, actorID int64) (*Department, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load department", err)
	}
	if row == nil {
		return nil, internal.ErrDepartmentNotFound
	}

	if dto.Description != nil {
		row.Description = *dto.Description
	}
	if dto.ManagerID != nil {
		row.ManagerID = dto.ManagerID
	}
	if err := s.repo.Update(row); err != nil {
		return nil, internal.NewInternalError("failed to update department", err)
	}

	s.recorder.Record(actorID, "department_updated",
		fmt.Sprintf("Updated department %q", row.Name), activity.CategoryOrganization)
	return FromDataModel(row), nil
}

// Rename changes the department name and rewrites every employee row
// still referencing the old one, atomically: a failure partway leaves
// both untouched.
func (s *Service) Rename(id int64, dto RenameDepartmentDTO, actorID int64) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load department", err)
	}
	if row == nil {
		return nil, internal.ErrDepartmentNotFound
	}
	if row.Name == dto.NewName {
		return FromDataModel(row), nil
	}

	existing, err := s.repo.GetByName(dto.NewName)
	if err != nil {
		return nil, internal.NewInternalError("failed to check department name", err)
	}
	if existing != nil {
		return nil, internal.NewConflictError("department already exists", internal.ErrCodeDuplicateResource)
	}

	oldName := row.Name
	if err := s.repo.Rename(id, oldName, dto.NewName); err != nil {
		return nil, internal.NewInternalError("failed to rename department", err)
	}

	s.recorder.Record(actorID, "department_renamed",
		fmt.Sprintf("Renamed department %q to %q", oldName, dto.NewName), activity.CategoryOrganization)

	row.Name = dto.NewName
	return FromDataModel(row), nil
}

// Delete refuses while active employees still reference the department.
func (s *Service) Delete(id int64, actorID int64) error {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return internal.NewInternalError("failed to load department", err)
	}
	if row == nil {
		return internal.ErrDepartmentNotFound
	}

	count, err := s.repo.CountActiveEmployees(row.Name)
	if err != nil {
		return internal.NewInternalError("failed to count employees", err)
	}
	if count > 0 {
		return internal.ErrDepartmentInUse
	}

	if err := s.repo.Delete(id); err != nil {
		return internal.NewInternalError("failed to delete department", err)
	}

	s.recorder.Record(actorID, "department_deleted",
		fmt.Sprintf("Deleted department %q", row.Name), activity.CategoryOrganization)
	return nil
}
