package settings_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/elitehr/elite-time/internal/activity"
	activityDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/activity"
	settingsDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/settings"
	"github.com/elitehr/elite-time/internal/settings"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSettingsService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Settings Service Suite")
}

// MockRepository implements settings.RepositoryAPI for testing
type MockRepository struct {
	row *settingsDatamodel.SystemSettings
}

func (m *MockRepository) Get() (*settingsDatamodel.SystemSettings, error) {
	return m.row, nil
}

func (m *MockRepository) Save(s *settingsDatamodel.SystemSettings) error {
	m.row = s
	return nil
}

// nullActivityRepo discards audit writes
type nullActivityRepo struct{}

func (nullActivityRepo) Create(log *activityDatamodel.ActivityLog) error { return nil }
func (nullActivityRepo) List(filter activity.Filter) ([]*activityDatamodel.ActivityLog, error) {
	return nil, nil
}

var _ = Describe("Settings Service", func() {
	var (
		mockRepo *MockRepository
		service  *settings.Service
	)

	BeforeEach(func() {
		mockRepo = &MockRepository{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		recorder := activity.NewRecorder(nullActivityRepo{}, logger)
		service = settings.NewService(mockRepo, recorder, logger)
	})

	Describe("Get", func() {
		It("should lazily create the row with defaults on first read", func() {
			cfg, err := service.Get()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.WorkDayStart).To(Equal("09:00"))
			Expect(cfg.WorkDayEnd).To(Equal("18:00"))
			Expect(cfg.BreakDurationMinutes).To(Equal(60))
			Expect(cfg.LateAlertsEnabled).To(BeTrue())
			Expect(cfg.LdapSyncEnabled).To(BeFalse())
			Expect(mockRepo.row).NotTo(BeNil())
			Expect(mockRepo.row.ID).To(Equal(settingsDatamodel.SingletonID))
		})
	})

	Describe("Update", func() {
		It("should apply only the provided fields", func() {
			start := "08:30"
			enabled := false
			cfg, err := service.Update(settings.UpdateSettingsDTO{
				WorkDayStart:      &start,
				LateAlertsEnabled: &enabled,
			}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.WorkDayStart).To(Equal("08:30"))
			Expect(cfg.LateAlertsEnabled).To(BeFalse())
			Expect(cfg.WorkDayEnd).To(Equal("18:00"))
		})

		It("should reject a malformed work day start", func() {
			start := "half past eight"
			_, err := service.Update(settings.UpdateSettingsDTO{WorkDayStart: &start}, 1)
			Expect(err).To(HaveOccurred())
		})

		It("should reject a non-positive break duration", func() {
			minutes := 0
			_, err := service.Update(settings.UpdateSettingsDTO{BreakDurationMinutes: &minutes}, 1)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("MarkLdapSynced", func() {
		It("should stamp the last sync time", func() {
			at := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
			Expect(service.MarkLdapSynced(at)).To(Succeed())

			cfg, err := service.Get()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.LdapLastSyncAt).NotTo(BeNil())
			Expect(*cfg.LdapLastSyncAt).To(Equal(at))
		})
	})
})
