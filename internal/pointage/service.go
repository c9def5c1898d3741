package pointage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/elitehr/elite-time/internal"
	"github.com/elitehr/elite-time/internal/activity"
	timesheetDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/timesheet"
	"github.com/elitehr/elite-time/internal/core/events"
	"github.com/elitehr/elite-time/internal/settings"
)

type RepositoryAPI interface {
	LastClockEvent(userID int64) (*timesheetDatamodel.Pointage, error)
	Create(p *timesheetDatamodel.Pointage) error
	ListForUser(userID int64, from, to time.Time) ([]*timesheetDatamodel.Pointage, error)
	ListAll(from, to time.Time) ([]*timesheetDatamodel.Pointage, error)

	OpenBreak(userID int64) (*timesheetDatamodel.BreakEntry, error)
	CreateBreak(b *timesheetDatamodel.BreakEntry) error
	UpdateBreak(b *timesheetDatamodel.BreakEntry) error
	ListBreaksForUser(userID int64, from, to time.Time) ([]*timesheetDatamodel.BreakEntry, error)
}

type SettingsAPI interface {
	Get() (*settings.Settings, error)
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo     RepositoryAPI
	settings SettingsAPI
	bus      Publisher
	recorder *activity.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo RepositoryAPI, settingsSvc SettingsAPI, bus Publisher, recorder *activity.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		settings: settingsSvc,
		bus:      bus,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) ClockIn(ctx context.Context, userID int64, userName string, dto ClockDTO) (*Pointage, error) {
	last, err := s.repo.LastClockEvent(userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to read clock history", err)
	}
	if last != nil && last.Kind == KindIn {
		return nil, internal.ErrAlreadyClockedIn
	}

	now := s.now()
	late, minutesLate := s.lateness(now)

	row := &timesheetDatamodel.Pointage{
		UserID: userID,
		Kind:   KindIn,
		At:     now,
		Late:   late,
		Note:   dto.Note,
	}
	if err := s.repo.Create(row); err != nil {
		return nil, internal.NewInternalError("failed to record clock-in", err)
	}

	if late {
		s.publishLate(ctx, userID, userName, now, minutesLate)
	}

	s.recorder.Record(userID, "clock_in",
		fmt.Sprintf("Clocked in at %s", now.Format("15:04")), activity.CategoryPointage)
	return FromDataModel(row), nil
}

func (s *Service) ClockOut(ctx context.Context, userID int64, dto ClockDTO) (*Pointage, error) {
	last, err := s.repo.LastClockEvent(userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to read clock history", err)
	}
	if last == nil || last.Kind == KindOut {
		return nil, internal.ErrNotClockedIn
	}

	now := s.now()
	row := &timesheetDatamodel.Pointage{
		UserID: userID,
		Kind:   KindOut,
		At:     now,
		Note:   dto.Note,
	}
	if err := s.repo.Create(row); err != nil {
		return nil, internal.NewInternalError("failed to record clock-out", err)
	}

	s.recorder.Record(userID, "clock_out",
		fmt.Sprintf("Clocked out at %s", now.Format("15:04")), activity.CategoryPointage)
	return FromDataModel(row), nil
}

func (s *Service) ListForUser(userID int64, from, to time.Time) ([]*Pointage, error) {
	rows, err := s.repo.ListForUser(userID, from, to)
	if err != nil {
		return nil, internal.NewInternalError("failed to list pointages", err)
	}
	return fromRows(rows), nil
}

func (s *Service) ListAll(from, to time.Time) ([]*Pointage, error) {
	rows, err := s.repo.ListAll(from, to)
	if err != nil {
		return nil, internal.NewInternalError("failed to list pointages", err)
	}
	return fromRows(rows), nil
}

func (s *Service) StartBreak(userID int64) (*Break, error) {
	open, err := s.repo.OpenBreak(userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to read break state", err)
	}
	if open != nil {
		return nil, internal.ErrBreakAlreadyOpen
	}

	row := &timesheetDatamodel.BreakEntry{
		UserID:    userID,
		StartedAt: s.now(),
	}
	if err := s.repo.CreateBreak(row); err != nil {
		return nil, internal.NewInternalError("failed to start break", err)
	}

	s.recorder.Record(userID, "break_started", "Break started", activity.CategoryPointage)
	return BreakFromDataModel(row), nil
}

func (s *Service) EndBreak(ctx context.Context, userID int64, userName string) (*Break, error) {
	open, err := s.repo.OpenBreak(userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to read break state", err)
	}
	if open == nil {
		return nil, internal.ErrNoOpenBreak
	}

	now := s.now()
	open.EndedAt = &now
	if err := s.repo.UpdateBreak(open); err != nil {
		return nil, internal.NewInternalError("failed to end break", err)
	}

	s.checkBreakOverrun(ctx, userID, userName, open.StartedAt, now)

	s.recorder.Record(userID, "break_ended", "Break ended", activity.CategoryPointage)
	return BreakFromDataModel(open), nil
}

func (s *Service) ListBreaksForUser(userID int64, from, to time.Time) ([]*Break, error) {
	rows, err := s.repo.ListBreaksForUser(userID, from, to)
	if err != nil {
		return nil, internal.NewInternalError("failed to list breaks", err)
	}
	breaks := make([]*Break, len(rows))
	for i, row := range rows {
		breaks[i] = BreakFromDataModel(row)
	}
	return breaks, nil
}

// lateness compares the clock-in wall time against work_day_start plus
// the grace window, in the clock-in's own location.
func (s *Service) lateness(at time.Time) (bool, int) {
	cfg, err := s.settings.Get()
	if err != nil {
		s.logger.Error("failed to load settings for late check", "error", err)
		return false, 0
	}
	start, err := time.Parse("15:04", cfg.WorkDayStart)
	if err != nil {
		s.logger.Error("invalid work_day_start setting", "value", cfg.WorkDayStart)
		return false, 0
	}

	threshold := time.Date(at.Year(), at.Month(), at.Day(),
		start.Hour(), start.Minute(), 0, 0, at.Location()).
		Add(lateGraceMinutes * time.Minute)
	if !at.After(threshold) {
		return false, 0
	}
	return true, int(at.Sub(threshold).Minutes()) + lateGraceMinutes
}

func (s *Service) publishLate(ctx context.Context, userID int64, userName string, at time.Time, minutesLate int) {
	cfg, err := s.settings.Get()
	if err != nil || !cfg.LateAlertsEnabled {
		return
	}
	event := events.NewLateAlertEvent(userID, userName, at, minutesLate)
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish late alert", "user_id", userID, "error", err)
	}
}

func (s *Service) checkBreakOverrun(ctx context.Context, userID int64, userName string, startedAt, endedAt time.Time) {
	cfg, err := s.settings.Get()
	if err != nil || !cfg.BreakRemindersEnabled {
		return
	}
	allowed := time.Duration(cfg.BreakDurationMinutes) * time.Minute
	if endedAt.Sub(startedAt) <= allowed {
		return
	}
	event := events.NewBreakReminderEvent(userID, userName, startedAt, cfg.BreakDurationMinutes)
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish break reminder", "user_id", userID, "error", err)
	}
}

func fromRows(rows []*timesheetDatamodel.Pointage) []*Pointage {
	pointages := make([]*Pointage, len(rows))
	for i, row := range rows {
		pointages[i] = FromDataModel(row)
	}
	return pointages
}
