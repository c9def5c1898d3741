package pointage

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/elitehr/elite-time/internal"
	"github.com/elitehr/elite-time/internal/activity"
	activityDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/activity"
	timesheetDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/timesheet"
	"github.com/elitehr/elite-time/internal/core/events"
	"github.com/elitehr/elite-time/internal/settings"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPointageService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Pointage Service Suite")
}

// mockRepo implements RepositoryAPI for testing
type mockRepo struct {
	pointages []*timesheetDatamodel.Pointage
	breaks    []*timesheetDatamodel.BreakEntry
	nextID    int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{nextID: 1}
}

func (m *mockRepo) LastClockEvent(userID int64) (*timesheetDatamodel.Pointage, error) {
	var last *timesheetDatamodel.Pointage
	for _, p := range m.pointages {
		if p.UserID == userID && (last == nil || p.At.After(last.At)) {
			last = p
		}
	}
	return last, nil
}

func (m *mockRepo) Create(p *timesheetDatamodel.Pointage) error {
	p.ID = m.nextID
	m.nextID++
	m.pointages = append(m.pointages, p)
	return nil
}

func (m *mockRepo) ListForUser(userID int64, from, to time.Time) ([]*timesheetDatamodel.Pointage, error) {
	var out []*timesheetDatamodel.Pointage
	for _, p := range m.pointages {
		if p.UserID == userID && !p.At.Before(from) && p.At.Before(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockRepo) ListAll(from, to time.Time) ([]*timesheetDatamodel.Pointage, error) {
	var out []*timesheetDatamodel.Pointage
	for _, p := range m.pointages {
		if !p.At.Before(from) && p.At.Before(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockRepo) OpenBreak(userID int64) (*timesheetDatamodel.BreakEntry, error) {
	for _, b := range m.breaks {
		if b.UserID == userID && b.EndedAt == nil {
			return b, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) CreateBreak(b *timesheetDatamodel.BreakEntry) error {
	b.ID = m.nextID
	m.nextID++
	m.breaks = append(m.breaks, b)
	return nil
}

func (m *mockRepo) UpdateBreak(b *timesheetDatamodel.BreakEntry) error {
	for i, existing := range m.breaks {
		if existing.ID == b.ID {
			m.breaks[i] = b
		}
	}
	return nil
}

func (m *mockRepo) ListBreaksForUser(userID int64, from, to time.Time) ([]*timesheetDatamodel.BreakEntry, error) {
	var out []*timesheetDatamodel.BreakEntry
	for _, b := range m.breaks {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

// mockSettings implements SettingsAPI for testing
type mockSettings struct {
	cfg *settings.Settings
}

func (m *mockSettings) Get() (*settings.Settings, error) {
	return m.cfg, nil
}

// mockBus implements Publisher and captures published events
type mockBus struct {
	published []events.Event
}

func (m *mockBus) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

// nullActivityRepo discards audit writes
type nullActivityRepo struct{}

func (nullActivityRepo) Create(log *activityDatamodel.ActivityLog) error { return nil }
func (nullActivityRepo) List(filter activity.Filter) ([]*activityDatamodel.ActivityLog, error) {
	return nil, nil
}

var _ = Describe("Pointage Service", func() {
	var (
		repo    *mockRepo
		cfg     *mockSettings
		bus     *mockBus
		service *Service
		clock   time.Time
		ctx     context.Context
	)

	BeforeEach(func() {
		repo = newMockRepo()
		cfg = &mockSettings{cfg: &settings.Settings{
			WorkDayStart:          "09:00",
			WorkDayEnd:            "18:00",
			BreakDurationMinutes:  60,
			LateAlertsEnabled:     true,
			BreakRemindersEnabled: true,
		}}
		bus = &mockBus{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		recorder := activity.NewRecorder(nullActivityRepo{}, logger)
		service = NewService(repo, cfg, bus, recorder, logger)
		clock = time.Date(2025, 6, 2, 8, 30, 0, 0, time.UTC)
		service.now = func() time.Time { return clock }
		ctx = context.Background()
	})

	Describe("ClockIn", func() {
		It("should record an on-time clock-in before work day start", func() {
			p, err := service.ClockIn(ctx, 7, "Nora", ClockDTO{Note: "morning"})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Kind).To(Equal(KindIn))
			Expect(p.Late).To(BeFalse())
			Expect(bus.published).To(BeEmpty())
		})

		It("should not flag a clock-in inside the grace window", func() {
			clock = time.Date(2025, 6, 2, 9, 5, 0, 0, time.UTC)

			p, err := service.ClockIn(ctx, 7, "Nora", ClockDTO{})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Late).To(BeFalse())
		})

		It("should flag a clock-in past the grace window and publish a late alert", func() {
			clock = time.Date(2025, 6, 2, 9, 20, 0, 0, time.UTC)

			p, err := service.ClockIn(ctx, 7, "Nora", ClockDTO{})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Late).To(BeTrue())

			Expect(bus.published).To(HaveLen(1))
			Expect(bus.published[0].EventType()).To(Equal(events.EventTypeLateAlert))
			data := bus.published[0].Payload().(map[string]interface{})
			Expect(data["minutes_late"]).To(Equal(20))
		})

		It("should not publish when late alerts are disabled", func() {
			cfg.cfg.LateAlertsEnabled = false
			clock = time.Date(2025, 6, 2, 9, 20, 0, 0, time.UTC)

			p, err := service.ClockIn(ctx, 7, "Nora", ClockDTO{})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Late).To(BeTrue())
			Expect(bus.published).To(BeEmpty())
		})

		It("should reject a second clock-in without a clock-out between", func() {
			_, err := service.ClockIn(ctx, 7, "Nora", ClockDTO{})
			Expect(err).NotTo(HaveOccurred())

			clock = clock.Add(time.Hour)
			_, err = service.ClockIn(ctx, 7, "Nora", ClockDTO{})
			Expect(err).To(Equal(internal.ErrAlreadyClockedIn))
		})

		It("should allow clocking in again after a clock-out", func() {
			_, err := service.ClockIn(ctx, 7, "Nora", ClockDTO{})
			Expect(err).NotTo(HaveOccurred())
			clock = clock.Add(time.Hour)
			_, err = service.ClockOut(ctx, 7, ClockDTO{})
			Expect(err).NotTo(HaveOccurred())

			clock = clock.Add(time.Hour)
			_, err = service.ClockIn(ctx, 7, "Nora", ClockDTO{})
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("ClockOut", func() {
		It("should reject a clock-out with no history", func() {
			_, err := service.ClockOut(ctx, 7, ClockDTO{})
			Expect(err).To(Equal(internal.ErrNotClockedIn))
		})

		It("should reject a clock-out when the last event was a clock-out", func() {
			_, err := service.ClockIn(ctx, 7, "Nora", ClockDTO{})
			Expect(err).NotTo(HaveOccurred())
			clock = clock.Add(time.Hour)
			_, err = service.ClockOut(ctx, 7, ClockDTO{})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ClockOut(ctx, 7, ClockDTO{})
			Expect(err).To(Equal(internal.ErrNotClockedIn))
		})
	})

	Describe("Breaks", func() {
		It("should reject starting a break when one is open", func() {
			_, err := service.StartBreak(7)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.StartBreak(7)
			Expect(err).To(Equal(internal.ErrBreakAlreadyOpen))
		})

		It("should reject ending a break when none is open", func() {
			_, err := service.EndBreak(ctx, 7, "Nora")
			Expect(err).To(Equal(internal.ErrNoOpenBreak))
		})

		It("should close the open break without a reminder when within the allowance", func() {
			_, err := service.StartBreak(7)
			Expect(err).NotTo(HaveOccurred())
			clock = clock.Add(30 * time.Minute)

			b, err := service.EndBreak(ctx, 7, "Nora")
			Expect(err).NotTo(HaveOccurred())
			Expect(b.EndedAt).NotTo(BeNil())
			Expect(bus.published).To(BeEmpty())
		})

		It("should publish a break reminder when the break overran the allowance", func() {
			_, err := service.StartBreak(7)
			Expect(err).NotTo(HaveOccurred())
			clock = clock.Add(90 * time.Minute)

			_, err = service.EndBreak(ctx, 7, "Nora")
			Expect(err).NotTo(HaveOccurred())

			Expect(bus.published).To(HaveLen(1))
			Expect(bus.published[0].EventType()).To(Equal(events.EventTypeBreakReminder))
		})

		It("should not publish a reminder when reminders are disabled", func() {
			cfg.cfg.BreakRemindersEnabled = false
			_, err := service.StartBreak(7)
			Expect(err).NotTo(HaveOccurred())
			clock = clock.Add(90 * time.Minute)

			_, err = service.EndBreak(ctx, 7, "Nora")
			Expect(err).NotTo(HaveOccurred())
			Expect(bus.published).To(BeEmpty())
		})
	})
})
