package postgres

import (
	"github.com/elitehr/elite-time/internal/activity"
	activityDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/activity"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) activity.RepositoryAPI {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(log *activityDatamodel.ActivityLog) error {
	return r.db.Create(log).Error
}

func (r *ActivityRepository) List(filter activity.Filter) ([]*activityDatamodel.ActivityLog, error) {
	q := r.db.Model(&activityDatamodel.ActivityLog{})

	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if !filter.From.IsZero() {
		q = q.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("created_at <= ?", filter.To)
	}

	var logs []*activityDatamodel.ActivityLog
	err := q.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&logs).Error
	return logs, err
}
