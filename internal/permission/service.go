package permission

import (
	"log/slog"

	"github.com/elitehr/elite-time/internal"
	userDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	GetAll() ([]*userDatamodel.Permission, error)
	GetByName(name string) (*userDatamodel.Permission, error)
	GetByID(id int64) (*userDatamodel.Permission, error)
	GetForUser(userID int64) ([]*userDatamodel.Permission, error)
	HasGrant(userID, permissionID int64) (bool, error)
	CreateGrant(grant *userDatamodel.UserPermission) error
	DeleteGrant(userID, permissionID int64) error
	DeleteGrantsForUser(userID int64) error
	ListUserIDsByRole(role string) ([]int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetUserPermissions returns the explicitly granted rows for a user.
// Admin callers must not rely on this: use EffectivePermissions, which
// short-circuits admins to the full set.
func (s *Service) GetUserPermissions(userID int64) ([]*Permission, error) {
	rows, err := s.repo.GetForUser(userID)
	if err != nil {
		s.logger.Error("failed to load user permissions", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to load permissions", err)
	}

	perms := make([]*Permission, len(rows))
	for i, row := range rows {
		perms[i] = FromDataModel(row)
	}
	return perms, nil
}

// EffectivePermissions resolves the set authorization decisions are made
// against: all permissions for admins, explicit grants for everyone else.
func (s *Service) EffectivePermissions(userID int64, role string) ([]*Permission, error) {
	if role == RoleAdmin {
		rows, err := s.repo.GetAll()
		if err != nil {
			return nil, internal.NewInternalError("failed to load permissions", err)
		}
		perms := make([]*Permission, len(rows))
		for i, row := range rows {
			perms[i] = FromDataModel(row)
		}
		return perms, nil
	}
	return s.GetUserPermissions(userID)
}

// HasPermission reports whether the user may perform the named
// capability. Admins always may.
func (s *Service) HasPermission(userID int64, role, permissionName string) (bool, error) {
	if role == RoleAdmin {
		return true, nil
	}

	perms, err := s.GetUserPermissions(userID)
	if err != nil {
		return false, err
	}
	for _, p := range perms {
		if p.Name == permissionName {
			return true, nil
		}
	}
	return false, nil
}

// Grant is idempotent: granting an already-granted permission is a
// no-op, not an error. The granting actor is recorded for audit trails.
func (s *Service) Grant(userID, permissionID int64, grantedBy int64) error {
	perm, err := s.repo.GetByID(permissionID)
	if err != nil {
		return internal.NewInternalError("failed to look up permission", err)
	}
	if perm == nil {
		return internal.ErrPermissionNotFound
	}

	exists, err := s.repo.HasGrant(userID, permissionID)
	if err != nil {
		return internal.NewInternalError("failed to check existing grant", err)
	}
	if exists {
		return nil
	}

	grant := &userDatamodel.UserPermission{
		UserID:       userID,
		PermissionID: permissionID,
		GrantedBy:    &grantedBy,
	}
	if err := s.repo.CreateGrant(grant); err != nil {
		return internal.NewInternalError("failed to create grant", err)
	}

	s.logger.Info("permission granted",
		"user_id", userID,
		"permission", perm.Name,
		"granted_by", grantedBy)
	return nil
}

func (s *Service) Revoke(userID, permissionID int64) error {
	if err := s.repo.DeleteGrant(userID, permissionID); err != nil {
		return internal.NewInternalError("failed to revoke permission", err)
	}
	return nil
}

// ResetToRoleDefaults wipes every explicit grant and re-creates exactly
// the role's default set. Admins are not permission-scoped, so resetting
// one is an invalid operation.
func (s *Service) ResetToRoleDefaults(userID int64, role string) error {
	if role == RoleAdmin {
		return internal.ErrAdminNotScoped
	}
	if !ValidRole(role) {
		return internal.NewValidationError("unknown role: "+role, internal.ErrCodeInvalidRole)
	}

	if err := s.repo.DeleteGrantsForUser(userID); err != nil {
		return internal.NewInternalError("failed to clear grants", err)
	}

	for _, name := range DefaultsForRole(role) {
		perm, err := s.repo.GetByName(name)
		if err != nil {
			return internal.NewInternalError("failed to look up permission", err)
		}
		if perm == nil {
			s.logger.Warn("role default permission not seeded", "permission", name, "role", role)
			continue
		}
		if err := s.repo.CreateGrant(&userDatamodel.UserPermission{
			UserID:       userID,
			PermissionID: perm.ID,
		}); err != nil {
			return internal.NewInternalError("failed to create default grant", err)
		}
	}

	s.logger.Info("permissions reset to role defaults", "user_id", userID, "role", role)
	return nil
}

type GrantAllResult struct {
	AdminsUpdated int `json:"admins_updated"`
	LinksCreated  int `json:"links_created"`
}

// GrantAllToAdmins materializes explicit link rows for every admin and
// every permission. Admins do not need the rows to be authorized; the
// operation exists so exports and admin UIs see a complete grant table.
func (s *Service) GrantAllToAdmins(grantedBy int64) (*GrantAllResult, error) {
	adminIDs, err := s.repo.ListUserIDsByRole(RoleAdmin)
	if err != nil {
		return nil, internal.NewInternalError("failed to list admins", err)
	}
	perms, err := s.repo.GetAll()
	if err != nil {
		return nil, internal.NewInternalError("failed to load permissions", err)
	}

	result := &GrantAllResult{}
	for _, adminID := range adminIDs {
		created := 0
		for _, perm := range perms {
			exists, err := s.repo.HasGrant(adminID, perm.ID)
			if err != nil {
				return nil, internal.NewInternalError("failed to check existing grant", err)
			}
			if exists {
				continue
			}
			if err := s.repo.CreateGrant(&userDatamodel.UserPermission{
				UserID:       adminID,
				PermissionID: perm.ID,
				GrantedBy:    &grantedBy,
			}); err != nil {
				return nil, internal.NewInternalError("failed to create grant", err)
			}
			created++
		}
		if created > 0 {
			result.AdminsUpdated++
			result.LinksCreated += created
		}
	}

	s.logger.Info("granted all permissions to admins",
		"admins_updated", result.AdminsUpdated,
		"links_created", result.LinksCreated)
	return result, nil
}

func (s *Service) AllPermissions() ([]*Permission, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		return nil, internal.NewInternalError("failed to load permissions", err)
	}
	perms := make([]*Permission, len(rows))
	for i, row := range rows {
		perms[i] = FromDataModel(row)
	}
	return perms, nil
}
