package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/elitehr/elite-time/internal"
	"github.com/elitehr/elite-time/internal/activity"
	userDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/user"
	"github.com/elitehr/elite-time/internal/permission"
	"github.com/elitehr/elite-time/internal/session"
	"golang.org/x/crypto/bcrypt"
)

type RepositoryAPI interface {
	GetByEmail(email string) (*userDatamodel.User, error)
	GetByID(userID int64) (*userDatamodel.User, error)
	TouchLastLogin(userID int64, at time.Time) error
}

// DirectoryAuthenticator verifies directory-user credentials against
// LDAP. Nil when no directory is configured.
type DirectoryAuthenticator interface {
	Authenticate(ctx context.Context, dn, password string) error
}

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*User, *session.Session, error)
	Logout(token string, userID int64) error
	ResolveSession(token string) (*User, *session.Session, error)
}

type Service struct {
	userRepo    RepositoryAPI
	sessions    *session.Service
	permissions *permission.Service
	recorder    *activity.Recorder
	directory   DirectoryAuthenticator
	logger      *slog.Logger
}

func NewService(
	userRepo RepositoryAPI,
	sessions *session.Service,
	permissions *permission.Service,
	recorder *activity.Recorder,
	directory DirectoryAuthenticator,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessions:    sessions,
		permissions: permissions,
		recorder:    recorder,
		directory:   directory,
		logger:      logger,
	}
}

// Login verifies credentials and issues a session. Directory users are
// authenticated by LDAP bind first, falling back to the local hash so a
// directory outage does not lock everyone out.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*User, *session.Session, error) {
	if err := dto.Validate(); err != nil {
		return nil, nil, err
	}

	row, err := s.userRepo.GetByEmail(dto.Email)
	if err != nil {
		return nil, nil, internal.NewInternalError("failed to look up user", err)
	}
	if row == nil || row.Status == "deleted" {
		return nil, nil, internal.ErrBadCredentials
	}
	if row.Status != "active" {
		return nil, nil, internal.ErrUserInactive
	}

	if !s.verifyPassword(ctx, row, dto.Password) {
		s.logger.Warn("login failed", "email", dto.Email)
		return nil, nil, internal.ErrBadCredentials
	}

	sess, err := s.sessions.Issue(row.ID)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.loadUserWithPermissions(row)
	if err != nil {
		return nil, nil, err
	}

	if err := s.userRepo.TouchLastLogin(row.ID, time.Now()); err != nil {
		s.logger.Warn("failed to record last login", "user_id", row.ID, "error", err)
	}
	s.recorder.Record(row.ID, "login", fmt.Sprintf("User %s logged in", row.Email), activity.CategoryAuth)

	return user, sess, nil
}

func (s *Service) verifyPassword(ctx context.Context, row *userDatamodel.User, password string) bool {
	if row.LdapDN != nil && s.directory != nil {
		if err := s.directory.Authenticate(ctx, *row.LdapDN, password); err == nil {
			return true
		}
		s.logger.Debug("ldap bind failed, trying local hash", "user_id", row.ID)
	}
	return bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)) == nil
}

func (s *Service) Logout(token string, userID int64) error {
	if err := s.sessions.Revoke(token); err != nil {
		return err
	}
	s.recorder.Record(userID, "logout", "User logged out", activity.CategoryAuth)
	return nil
}

// ResolveSession maps a session token to its user, with the effective
// permission set attached.
func (s *Service) ResolveSession(token string) (*User, *session.Session, error) {
	sess, err := s.sessions.Resolve(token)
	if err != nil {
		return nil, nil, err
	}

	row, err := s.userRepo.GetByID(sess.UserID)
	if err != nil {
		return nil, nil, internal.NewInternalError("failed to load session user", err)
	}
	if row == nil || row.Status != "active" {
		return nil, nil, internal.ErrSessionMissing
	}

	user, err := s.loadUserWithPermissions(row)
	if err != nil {
		return nil, nil, err
	}
	return user, sess, nil
}

func (s *Service) loadUserWithPermissions(row *userDatamodel.User) (*User, error) {
	user := FromDataModel(row)
	perms, err := s.permissions.EffectivePermissions(row.ID, row.Role)
	if err != nil {
		return nil, err
	}
	user.Permissions = permission.Names(perms)
	return user, nil
}
