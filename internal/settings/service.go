package settings

import (
	"log/slog"
	"time"

	"github.com/elitehr/elite-time/internal"
	"github.com/elitehr/elite-time/internal/activity"
	settingsDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/settings"
)

type RepositoryAPI interface {
	// Get returns the singleton row, or nil when it has never been written.
	Get() (*settingsDatamodel.SystemSettings, error)
	Save(s *settingsDatamodel.SystemSettings) error
}

type Service struct {
	repo     RepositoryAPI
	recorder *activity.Recorder
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, recorder *activity.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger}
}

func defaults() *settingsDatamodel.SystemSettings {
	return &settingsDatamodel.SystemSettings{
		ID:                       settingsDatamodel.SingletonID,
		WorkDayStart:             "09:00",
		WorkDayEnd:               "18:00",
		BreakDurationMinutes:     60,
		OvertimeThresholdMinutes: 480,
		LateAlertsEnabled:        true,
		BreakRemindersEnabled:    true,
		LdapSyncEnabled:          false,
		LdapSyncIntervalMinutes:  60,
	}
}

// Get returns the settings row, creating it with defaults the first
// time anything reads it.
func (s *Service) Get() (*Settings, error) {
	row, err := s.load()
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) load() (*settingsDatamodel.SystemSettings, error) {
	row, err := s.repo.Get()
	if err != nil {
		return nil, internal.NewInternalError("failed to load settings", err)
	}
	if row == nil {
		row = defaults()
		if err := s.repo.Save(row); err != nil {
			return nil, internal.NewInternalError("failed to initialize settings", err)
		}
	}
	return row, nil
}

func (s *Service) Update(dto UpdateSettingsDTO, actorID int64) (*Settings, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.load()
	if err != nil {
		return nil, err
	}

	if dto.WorkDayStart != nil {
		row.WorkDayStart = *dto.WorkDayStart
	}
	if dto.WorkDayEnd != nil {
		row.WorkDayEnd = *dto.WorkDayEnd
	}
	if dto.BreakDurationMinutes != nil {
		row.BreakDurationMinutes = *dto.BreakDurationMinutes
	}
	if dto.OvertimeThresholdMinutes != nil {
		row.OvertimeThresholdMinutes = *dto.OvertimeThresholdMinutes
	}
	if dto.Holidays != nil {
		row.Holidays = *dto.Holidays
	}
	if dto.LateAlertsEnabled != nil {
		row.LateAlertsEnabled = *dto.LateAlertsEnabled
	}
	if dto.BreakRemindersEnabled != nil {
		row.BreakRemindersEnabled = *dto.BreakRemindersEnabled
	}
	if dto.LdapSyncEnabled != nil {
		row.LdapSyncEnabled = *dto.LdapSyncEnabled
	}
	if dto.LdapSyncIntervalMinutes != nil {
		row.LdapSyncIntervalMinutes = *dto.LdapSyncIntervalMinutes
	}

	if err := s.repo.Save(row); err != nil {
		return nil, internal.NewInternalError("failed to save settings", err)
	}

	s.recorder.Record(actorID, "settings_updated", "System settings updated", activity.CategorySettings)
	return FromDataModel(row), nil
}

// MarkLdapSynced stamps the cooldown clock after a successful
// directory run.
func (s *Service) MarkLdapSynced(at time.Time) error {
	row, err := s.load()
	if err != nil {
		return err
	}
	row.LdapLastSyncAt = &at
	if err := s.repo.Save(row); err != nil {
		return internal.NewInternalError("failed to record sync time", err)
	}
	return nil
}
