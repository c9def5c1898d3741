package postgres

import (
	"time"

	timesheetDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/timesheet"
	"github.com/elitehr/elite-time/internal/pointage"
	"gorm.io/gorm"
)

type PointageRepository struct {
	db *gorm.DB
}

func NewPointageRepository(db *gorm.DB) pointage.RepositoryAPI {
	return &PointageRepository{db: db}
}

func (r *PointageRepository) LastClockEvent(userID int64) (*timesheetDatamodel.Pointage, error) {
	var p timesheetDatamodel.Pointage
	err := r.db.Where("user_id = ?", userID).
		Order("at DESC").
		First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PointageRepository) Create(p *timesheetDatamodel.Pointage) error {
	return r.db.Create(p).Error
}

func (r *PointageRepository) ListForUser(userID int64, from, to time.Time) ([]*timesheetDatamodel.Pointage, error) {
	var rows []*timesheetDatamodel.Pointage
	err := r.db.Where("user_id = ? AND at >= ? AND at < ?", userID, from, to).
		Order("at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *PointageRepository) ListAll(from, to time.Time) ([]*timesheetDatamodel.Pointage, error) {
	var rows []*timesheetDatamodel.Pointage
	err := r.db.Where("at >= ? AND at < ?", from, to).
		Order("at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *PointageRepository) OpenBreak(userID int64) (*timesheetDatamodel.BreakEntry, error) {
	var b timesheetDatamodel.BreakEntry
	err := r.db.Where("user_id = ? AND ended_at IS NULL", userID).
		Order("started_at DESC").
		First(&b).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *PointageRepository) CreateBreak(b *timesheetDatamodel.BreakEntry) error {
	return r.db.Create(b).Error
}

func (r *PointageRepository) UpdateBreak(b *timesheetDatamodel.BreakEntry) error {
	return r.db.Save(b).Error
}

func (r *PointageRepository) ListBreaksForUser(userID int64, from, to time.Time) ([]*timesheetDatamodel.BreakEntry, error) {
	var rows []*timesheetDatamodel.BreakEntry
	err := r.db.Where("user_id = ? AND started_at >= ? AND started_at < ?", userID, from, to).
		Order("started_at ASC").
		Find(&rows).Error
	return rows, err
}
