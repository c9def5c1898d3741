package postgres

import (
	"time"

	"github.com/elitehr/elite-time/internal/absence"
	absenceDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/absence"
	"gorm.io/gorm"
)

type AbsenceRepository struct {
	db *gorm.DB
}

func NewAbsenceRepository(db *gorm.DB) absence.RepositoryAPI {
	return &AbsenceRepository{db: db}
}

func (r *AbsenceRepository) GetByID(id int64) (*absenceDatamodel.Absence, error) {
	var a absenceDatamodel.Absence
	err := r.db.Where("id = ?", id).First(&a).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AbsenceRepository) ListForUser(userID int64) ([]*absenceDatamodel.Absence, error) {
	var rows []*absenceDatamodel.Absence
	err := r.db.Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *AbsenceRepository) ListAll(status string) ([]*absenceDatamodel.Absence, error) {
	var rows []*absenceDatamodel.Absence
	q := r.db.Order("start_date DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&rows).Error
	return rows, err
}

func (r *AbsenceRepository) ListBetween(from, to time.Time) ([]*absenceDatamodel.Absence, error) {
	var rows []*absenceDatamodel.Absence
	err := r.db.Where("start_date <= ? AND end_date >= ?", to, from).
		Order("start_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *AbsenceRepository) Create(a *absenceDatamodel.Absence) error {
	return r.db.Create(a).Error
}

func (r *AbsenceRepository) Update(a *absenceDatamodel.Absence) error {
	return r.db.Save(a).Error
}
