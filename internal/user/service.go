package user

import (
	"fmt"
	"log/slog"

	"github.com/elitehr/elite-time/internal"
	"github.com/elitehr/elite-time/internal/activity"
	userDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/user"
	"github.com/elitehr/elite-time/internal/permission"
	"golang.org/x/crypto/bcrypt"
)

type RepositoryAPI interface {
	GetAll(includeDeleted bool) ([]*userDatamodel.User, error)
	GetByID(id int64) (*userDatamodel.User, error)
	GetByEmail(email string) (*userDatamodel.User, error)
	Create(u *userDatamodel.User) error
	Update(u *userDatamodel.User) error
}

// GrantMaterializer materializes role-default permission rows for an
// account. Admin accounts carry no rows; their role short-circuits
// every check.
type GrantMaterializer interface {
	ResetToRoleDefaults(userID int64, role string) error
}

// SessionRevoker cuts all live sessions for an account when it is
// deactivated or deleted.
type SessionRevoker interface {
	RevokeAllForUser(userID int64) error
}

type Service struct {
	repo       RepositoryAPI
	grants     GrantMaterializer
	sessions   SessionRevoker
	recorder   *activity.Recorder
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, grants GrantMaterializer, sessions SessionRevoker, recorder *activity.Recorder, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		grants:     grants,
		sessions:   sessions,
		recorder:   recorder,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) GetAll(includeDeleted bool) ([]*User, error) {
	rows, err := s.repo.GetAll(includeDeleted)
	if err != nil {
		return nil, internal.NewInternalError("failed to list users", err)
	}
	users := make([]*User, len(rows))
	for i, row := range rows {
		users[i] = FromDataModel(row)
	}
	return users, nil
}

func (s *Service) GetByID(id int64) (*User, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if row == nil || row.Status == StatusDeleted {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(dto CreateUserDTO, actorID int64) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to check email", err)
	}
	if existing != nil {
		return nil, internal.NewConflictError("email already registered", internal.ErrCodeDuplicateResource)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	row := &userDatamodel.User{
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: string(hash),
		Role:         dto.Role,
		Status:       StatusActive,
		Department:   dto.Department,
		Position:     dto.Position,
	}
	if err := s.repo.Create(row); err != nil {
		return nil, internal.NewInternalError("failed to create user", err)
	}

	if dto.Role != permission.RoleAdmin {
		if err := s.grants.ResetToRoleDefaults(row.ID, dto.Role); err != nil {
			s.logger.Error("failed to materialize default grants",
				"user_id", row.ID, "role", dto.Role, "error", err)
		}
	}

	s.recorder.Record(actorID, "user_created",
		fmt.Sprintf("Created user %s with role %s", dto.Email, dto.Role), activity.CategoryUser)
	return FromDataModel(row), nil
}

func (s *Service) Update(id int64, dto UpdateUserDTO, actorID int64) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if row == nil || row.Status == StatusDeleted {
		return nil, internal.ErrUserNotFound
	}

	roleChanged := dto.Role != nil && *dto.Role != row.Role
	deactivated := dto.Status != nil && *dto.Status != StatusActive && row.Status == StatusActive

	if dto.Name != nil {
		row.Name = *dto.Name
	}
	if dto.Role != nil {
		row.Role = *dto.Role
	}
	if dto.Status != nil {
		row.Status = *dto.Status
	}
	if dto.Department != nil {
		row.Department = *dto.Department
	}
	if dto.Position != nil {
		row.Position = *dto.Position
	}
	if dto.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*dto.Password), s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		row.PasswordHash = string(hash)
	}

	if err := s.repo.Update(row); err != nil {
		return nil, internal.NewInternalError("failed to update user", err)
	}

	if roleChanged && row.Role != permission.RoleAdmin {
		if err := s.grants.ResetToRoleDefaults(row.ID, row.Role); err != nil {
			s.logger.Error("failed to rematerialize grants after role change",
				"user_id", row.ID, "role", row.Role, "error", err)
		}
	}
	if deactivated {
		if err := s.sessions.RevokeAllForUser(row.ID); err != nil {
			s.logger.Error("failed to revoke sessions", "user_id", row.ID, "error", err)
		}
	}

	s.recorder.Record(actorID, "user_updated",
		fmt.Sprintf("Updated user %s", row.Email), activity.CategoryUser)
	return FromDataModel(row), nil
}

// Delete is a status transition; the row stays for audit history.
func (s *Service) Delete(id int64, actorID int64) error {
	if id == actorID {
		return internal.NewInvalidOperationError("cannot delete your own account", internal.ErrCodeValidationFailed)
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		return internal.NewInternalError("failed to load user", err)
	}
	if row == nil || row.Status == StatusDeleted {
		return internal.ErrUserNotFound
	}

	row.Status = StatusDeleted
	if err := s.repo.Update(row); err != nil {
		return internal.NewInternalError("failed to delete user", err)
	}
	if err := s.sessions.RevokeAllForUser(id); err != nil {
		s.logger.Error("failed to revoke sessions", "user_id", id, "error", err)
	}

	s.recorder.Record(actorID, "user_deleted",
		fmt.Sprintf("Deleted user %s", row.Email), activity.CategoryUser)
	return nil
}
