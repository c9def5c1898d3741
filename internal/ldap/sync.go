package ldap

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/elitehr/elite-time/internal"
	"github.com/elitehr/elite-time/internal/activity"
	userDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/user"
	"github.com/elitehr/elite-time/internal/permission"
	"github.com/elitehr/elite-time/internal/settings"
)

type UserRepositoryAPI interface {
	GetByEmail(email string) (*userDatamodel.User, error)
	ListDirectoryManaged() ([]*userDatamodel.User, error)
	Create(u *userDatamodel.User) error
	Update(u *userDatamodel.User) error
}

type SettingsAPI interface {
	Get() (*settings.Settings, error)
	MarkLdapSynced(at time.Time) error
}

type GrantMaterializer interface {
	ResetToRoleDefaults(userID int64, role string) error
}

type SyncResult struct {
	SyncedCount int       `json:"synced_count"`
	LastSyncAt  time.Time `json:"last_sync_at"`
}

// SyncService pulls the directory into the local user table. Runs are
// gated by a settings toggle and a cooldown interval.
type SyncService struct {
	directory DirectoryClient
	users     UserRepositoryAPI
	settings  SettingsAPI
	grants    GrantMaterializer
	recorder  *activity.Recorder
	logger    *slog.Logger
	now       func() time.Time
}

func NewSyncService(
	directory DirectoryClient,
	users UserRepositoryAPI,
	settingsSvc SettingsAPI,
	grants GrantMaterializer,
	recorder *activity.Recorder,
	logger *slog.Logger,
) *SyncService {
	return &SyncService{
		directory: directory,
		users:     users,
		settings:  settingsSvc,
		grants:    grants,
		recorder:  recorder,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *SyncService) Sync(ctx context.Context, actorID int64) (*SyncResult, error) {
	cfg, err := s.settings.Get()
	if err != nil {
		return nil, err
	}
	if !cfg.LdapSyncEnabled {
		return nil, internal.ErrSyncDisabled
	}

	now := s.now()
	if cfg.LdapLastSyncAt != nil {
		interval := time.Duration(cfg.LdapSyncIntervalMinutes) * time.Minute
		elapsed := now.Sub(*cfg.LdapLastSyncAt)
		if elapsed < interval {
			remaining := int(math.Ceil((interval - elapsed).Minutes()))
			return nil, internal.NewTooSoonError("Directory sync ran recently", remaining)
		}
	}

	entries, err := s.directory.Search(ctx)
	if err != nil {
		return nil, internal.NewInternalError("directory search failed", err)
	}

	synced := 0
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		email := strings.ToLower(entry.Email)
		seen[email] = true
		if err := s.upsert(entry, email); err != nil {
			s.logger.Error("failed to sync directory entry", "email", email, "error", err)
			continue
		}
		synced++
	}

	if err := s.deactivateAbsent(seen); err != nil {
		s.logger.Error("failed to deactivate absent directory users", "error", err)
	}

	if err := s.settings.MarkLdapSynced(now); err != nil {
		return nil, err
	}

	s.recorder.Record(actorID, "ldap_sync",
		fmt.Sprintf("Directory sync completed, %d users", synced), activity.CategorySystem)
	return &SyncResult{SyncedCount: synced, LastSyncAt: now}, nil
}

func (s *SyncService) upsert(entry DirectoryUser, email string) error {
	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return err
	}

	if existing == nil {
		// Directory users never log in with the local hash; a random
		// one keeps the not-null column honest.
		hash, err := randomLocalHash()
		if err != nil {
			return err
		}
		dn := entry.DN
		row := &userDatamodel.User{
			Email:        email,
			Name:         entry.Name,
			PasswordHash: hash,
			Role:         permission.RoleEmployee,
			Status:       "active",
			Department:   entry.Department,
			Position:     entry.Position,
			LdapDN:       &dn,
		}
		if err := s.users.Create(row); err != nil {
			return err
		}
		if err := s.grants.ResetToRoleDefaults(row.ID, permission.RoleEmployee); err != nil {
			s.logger.Error("failed to materialize default grants",
				"user_id", row.ID, "error", err)
		}
		return nil
	}

	dn := entry.DN
	existing.Name = entry.Name
	existing.Department = entry.Department
	existing.Position = entry.Position
	existing.LdapDN = &dn
	if existing.Status == "inactive" {
		existing.Status = "active"
	}
	return s.users.Update(existing)
}

// deactivateAbsent marks directory-managed accounts that vanished from
// the directory as inactive. Local accounts are never touched.
func (s *SyncService) deactivateAbsent(seen map[string]bool) error {
	managed, err := s.users.ListDirectoryManaged()
	if err != nil {
		return err
	}
	for _, u := range managed {
		if seen[strings.ToLower(u.Email)] || u.Status != "active" {
			continue
		}
		u.Status = "inactive"
		if err := s.users.Update(u); err != nil {
			s.logger.Error("failed to deactivate user", "user_id", u.ID, "error", err)
		}
	}
	return nil
}

func randomLocalHash() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(buf)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
