package postgres

import (
	orgDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/organization"
	"github.com/elitehr/elite-time/internal/position"
	"gorm.io/gorm"
)

type PositionRepository struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) position.RepositoryAPI {
	return &PositionRepository{db: db}
}

func (r *PositionRepository) GetAll() ([]*orgDatamodel.Position, error) {
	var positions []*orgDatamodel.Position
	err := r.db.Order("title ASC").Find(&positions).Error
	return positions, err
}

func (r *PositionRepository) GetByID(id int64) (*orgDatamodel.Position, error) {
	var pos orgDatamodel.Position
	err := r.db.Where("id = ?", id).First(&pos).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &pos, nil
}

func (r *PositionRepository) GetByTitle(title string) (*orgDatamodel.Position, error) {
	var pos orgDatamodel.Position
	err := r.db.Where("title = ?", title).First(&pos).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &pos, nil
}

func (r *PositionRepository) Create(pos *orgDatamodel.Position) error {
	return r.db.Create(pos).Error
}

func (r *PositionRepository) Update(pos *orgDatamodel.Position) error {
	return r.db.Save(pos).Error
}

func (r *PositionRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&orgDatamodel.Position{}).Error
}
