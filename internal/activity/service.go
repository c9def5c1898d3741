package activity

import (
	"log/slog"
	"time"

	"github.com/elitehr/elite-time/internal"
	activityDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/activity"
)

type RepositoryAPI interface {
	Create(log *activityDatamodel.ActivityLog) error
	List(filter Filter) ([]*activityDatamodel.ActivityLog, error)
}

// Recorder is the audit writer. Recording is best-effort by contract:
// a failed write must never abort the primary operation it accompanies,
// so Record reports a Result instead of returning an error.
type Recorder struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewRecorder(repo RepositoryAPI, logger *slog.Logger) *Recorder {
	return &Recorder{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (r *Recorder) Record(userID int64, action, details, category string) Result {
	log := &Log{
		UserID:    userID,
		Action:    action,
		Details:   details,
		Category:  category,
		CreatedAt: r.now(),
	}

	row := ToDataModel(log)
	if err := r.repo.Create(row); err != nil {
		r.logger.Error("activity log write failed",
			"user_id", userID,
			"action", action,
			"category", category,
			"error", err)
		return Result{Success: false, Error: err.Error()}
	}

	log.ID = row.ID
	return Result{Success: true, Log: log}
}

func (r *Recorder) List(filter Filter) ([]*Log, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	rows, err := r.repo.List(filter)
	if err != nil {
		return nil, internal.NewInternalError("failed to list activity logs", err)
	}

	logs := make([]*Log, len(rows))
	for i, row := range rows {
		logs[i] = FromDataModel(row)
	}
	return logs, nil
}
