package postgres

import (
	sessionDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/session"
	"github.com/elitehr/elite-time/internal/session"
	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) session.RepositoryAPI {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(sess *sessionDatamodel.Session) error {
	return r.db.Create(sess).Error
}

func (r *SessionRepository) GetByToken(token string) (*sessionDatamodel.Session, error) {
	var sess sessionDatamodel.Session
	err := r.db.Where("token = ?", token).First(&sess).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &sess, nil
}

func (r *SessionRepository) Delete(token string) error {
	return r.db.Where("token = ?", token).Delete(&sessionDatamodel.Session{}).Error
}

func (r *SessionRepository) DeleteForUser(userID int64) error {
	return r.db.Where("user_id = ?", userID).Delete(&sessionDatamodel.Session{}).Error
}
