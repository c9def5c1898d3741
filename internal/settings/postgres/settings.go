package postgres

import (
	settingsDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/settings"
	"github.com/elitehr/elite-time/internal/settings"
	"gorm.io/gorm"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) settings.RepositoryAPI {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get() (*settingsDatamodel.SystemSettings, error) {
	var row settingsDatamodel.SystemSettings
	err := r.db.Where("id = ?", settingsDatamodel.SingletonID).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *SettingsRepository) Save(s *settingsDatamodel.SystemSettings) error {
	s.ID = settingsDatamodel.SingletonID
	return r.db.Save(s).Error
}
