package activity_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/elitehr/elite-time/internal/activity"
	activityDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/activity"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestActivityRecorder(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Activity Recorder Suite")
}

// MockRepository implements activity.RepositoryAPI for testing
type MockRepository struct {
	logs       []*activityDatamodel.ActivityLog
	lastFilter activity.Filter
	shouldFail bool
}

func (m *MockRepository) Create(log *activityDatamodel.ActivityLog) error {
	if m.shouldFail {
		return errors.New("database error")
	}
	log.ID = int64(len(m.logs) + 1)
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockRepository) List(filter activity.Filter) ([]*activityDatamodel.ActivityLog, error) {
	if m.shouldFail {
		return nil, errors.New("database error")
	}
	m.lastFilter = filter
	return m.logs, nil
}

var _ = Describe("Recorder", func() {
	var (
		mockRepo *MockRepository
		recorder *activity.Recorder
	)

	BeforeEach(func() {
		mockRepo = &MockRepository{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		recorder = activity.NewRecorder(mockRepo, logger)
	})

	Describe("Record", func() {
		It("should persist the entry and return it with its id", func() {
			result := recorder.Record(7, "clock_in", "Clocked in at 09:00", activity.CategoryPointage)
			Expect(result.Success).To(BeTrue())
			Expect(result.Log.ID).To(Equal(int64(1)))
			Expect(result.Log.Action).To(Equal("clock_in"))
			Expect(mockRepo.logs).To(HaveLen(1))
		})

		It("should report failure without returning an error", func() {
			mockRepo.shouldFail = true

			result := recorder.Record(7, "clock_in", "Clocked in", activity.CategoryPointage)
			Expect(result.Success).To(BeFalse())
			Expect(result.Error).To(ContainSubstring("database error"))
		})
	})

	Describe("List", func() {
		It("should clamp a missing limit to the default", func() {
			_, err := recorder.List(activity.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.lastFilter.Limit).To(Equal(100))
		})

		It("should clamp an oversized limit to the default", func() {
			_, err := recorder.List(activity.Filter{Limit: 10_000})
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.lastFilter.Limit).To(Equal(100))
		})

		It("should keep a reasonable limit", func() {
			_, err := recorder.List(activity.Filter{Limit: 25})
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.lastFilter.Limit).To(Equal(25))
		})
	})
})
