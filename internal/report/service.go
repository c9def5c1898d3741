package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/elitehr/elite-time/internal"
	"github.com/elitehr/elite-time/internal/absence"
	"github.com/elitehr/elite-time/internal/activity"
	"github.com/elitehr/elite-time/internal/pointage"
)

const (
	TypePointages = "pointages"
	TypeAbsences  = "absences"
)

const dateLayout = "2006-01-02"

type PointageSource interface {
	ListAll(from, to time.Time) ([]*pointage.Pointage, error)
}

type AbsenceSource interface {
	ListBetween(from, to time.Time) ([]*absence.Absence, error)
}

type Service struct {
	pointages PointageSource
	absences  AbsenceSource
	tokens    *TokenIssuer
	recorder  *activity.Recorder
	logger    *slog.Logger
}

func NewService(pointages PointageSource, absences AbsenceSource, tokens *TokenIssuer, recorder *activity.Recorder, logger *slog.Logger) *Service {
	return &Service{
		pointages: pointages,
		absences:  absences,
		tokens:    tokens,
		recorder:  recorder,
		logger:    logger,
	}
}

// RequestExport validates the parameters and returns a signed download
// token for them.
func (s *Service) RequestExport(reportType, fromStr, toStr string, actorID int64) (string, error) {
	if reportType != TypePointages && reportType != TypeAbsences {
		return "", internal.NewValidationError("unknown report type", internal.ErrCodeValidationFailed)
	}
	from, to, err := parseWindow(fromStr, toStr)
	if err != nil {
		return "", err
	}
	if to.Before(from) {
		return "", internal.NewValidationError("to must not precede from", internal.ErrCodeInvalidDateRange)
	}

	token, err := s.tokens.Issue(reportType, fromStr, toStr, actorID)
	if err != nil {
		return "", err
	}

	s.recorder.Record(actorID, "report_exported",
		fmt.Sprintf("Requested %s export %s to %s", reportType, fromStr, toStr),
		activity.CategoryExport)
	return token, nil
}

// Render produces the CSV for a validated download token.
func (s *Service) Render(claims *DownloadClaims) (filename string, data []byte, err error) {
	from, to, err := parseWindow(claims.From, claims.To)
	if err != nil {
		return "", nil, internal.ErrDownloadTokenBad
	}
	// Window end is inclusive of the named day.
	to = to.AddDate(0, 0, 1)

	switch claims.ReportType {
	case TypePointages:
		data, err = s.renderPointages(from, to)
	case TypeAbsences:
		data, err = s.renderAbsences(from, to)
	default:
		return "", nil, internal.ErrDownloadTokenBad
	}
	if err != nil {
		return "", nil, err
	}

	filename = fmt.Sprintf("%s_%s_%s.csv", claims.ReportType, claims.From, claims.To)
	return filename, data, nil
}

func (s *Service) renderPointages(from, to time.Time) ([]byte, error) {
	rows, err := s.pointages.ListAll(from, to)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "user_id", "kind", "at", "late", "note"})
	for _, p := range rows {
		_ = w.Write([]string{
			strconv.FormatInt(p.ID, 10),
			strconv.FormatInt(p.UserID, 10),
			p.Kind,
			p.At.UTC().Format(time.RFC3339),
			strconv.FormatBool(p.Late),
			p.Note,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, internal.NewInternalError("failed to write csv", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) renderAbsences(from, to time.Time) ([]byte, error) {
	rows, err := s.absences.ListBetween(from, to)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "user_id", "type", "start_date", "end_date", "status", "reason"})
	for _, a := range rows {
		_ = w.Write([]string{
			strconv.FormatInt(a.ID, 10),
			strconv.FormatInt(a.UserID, 10),
			a.Type,
			a.StartDate.Format(dateLayout),
			a.EndDate.Format(dateLayout),
			a.Status,
			a.Reason,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, internal.NewInternalError("failed to write csv", err)
	}
	return buf.Bytes(), nil
}

func parseWindow(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := time.Parse(dateLayout, fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, internal.NewValidationError("from must be YYYY-MM-DD", internal.ErrCodeInvalidDateRange)
	}
	to, err := time.Parse(dateLayout, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, internal.NewValidationError("to must be YYYY-MM-DD", internal.ErrCodeInvalidDateRange)
	}
	return from, to, nil
}
