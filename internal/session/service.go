package session

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/elitehr/elite-time/internal"
	sessionDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/session"
)

type RepositoryAPI interface {
	Create(sess *sessionDatamodel.Session) error
	GetByToken(token string) (*sessionDatamodel.Session, error)
	Delete(token string) error
	DeleteForUser(userID int64) error
}

type Service struct {
	repo   RepositoryAPI
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		repo:   repo,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Issue creates a fresh session row with an opaque random token.
func (s *Service) Issue(userID int64) (*Session, error) {
	token, err := GenerateToken()
	if err != nil {
		return nil, internal.NewInternalError("failed to generate session token", err)
	}

	now := s.now()
	sess := &Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.repo.Create(ToDataModel(sess)); err != nil {
		return nil, internal.NewInternalError("failed to persist session", err)
	}
	return sess, nil
}

// Resolve maps a token to a live session. Expired rows are treated as
// absent; they stay in place until the next successful login or logout.
func (s *Service) Resolve(token string) (*Session, error) {
	if token == "" {
		return nil, internal.ErrSessionMissing
	}

	row, err := s.repo.GetByToken(token)
	if err != nil {
		return nil, internal.NewInternalError("failed to look up session", err)
	}
	if row == nil {
		return nil, internal.ErrSessionMissing
	}

	sess := FromDataModel(row)
	if sess.Expired(s.now()) {
		return nil, internal.ErrSessionExpired
	}
	return sess, nil
}

func (s *Service) Revoke(token string) error {
	if token == "" {
		return nil
	}
	if err := s.repo.Delete(token); err != nil {
		return internal.NewInternalError("failed to delete session", err)
	}
	return nil
}

func (s *Service) RevokeAllForUser(userID int64) error {
	if err := s.repo.DeleteForUser(userID); err != nil {
		return internal.NewInternalError("failed to delete user sessions", err)
	}
	return nil
}

func (s *Service) TTL() time.Duration {
	return s.ttl
}

// GenerateToken returns a cryptographically random opaque token.
func GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
