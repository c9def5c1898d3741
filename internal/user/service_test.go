package user_test

import (
	"log/slog"
	"os"
	"testing"

	"github.com/elitehr/elite-time/internal"
	"github.com/elitehr/elite-time/internal/activity"
	activityDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/activity"
	userDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/user"
	"github.com/elitehr/elite-time/internal/permission"
	"github.com/elitehr/elite-time/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

// MockRepository implements user.RepositoryAPI for testing
type MockRepository struct {
	users  map[int64]*userDatamodel.User
	nextID int64
}

// IDs start past the actor IDs the specs pass so a freshly created
// user never collides with its creator.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		users:  make(map[int64]*userDatamodel.User),
		nextID: 100,
	}
}

func (m *MockRepository) GetAll(includeDeleted bool) ([]*userDatamodel.User, error) {
	var out []*userDatamodel.User
	for _, u := range m.users {
		if !includeDeleted && u.Status == user.StatusDeleted {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (m *MockRepository) GetByID(id int64) (*userDatamodel.User, error) {
	return m.users[id], nil
}

func (m *MockRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) Create(u *userDatamodel.User) error {
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return nil
}

func (m *MockRepository) Update(u *userDatamodel.User) error {
	m.users[u.ID] = u
	return nil
}

// MockGrants records ResetToRoleDefaults calls
type MockGrants struct {
	resets map[int64]string
}

func (m *MockGrants) ResetToRoleDefaults(userID int64, role string) error {
	m.resets[userID] = role
	return nil
}

// MockSessions records revoked user ids
type MockSessions struct {
	revoked []int64
}

func (m *MockSessions) RevokeAllForUser(userID int64) error {
	m.revoked = append(m.revoked, userID)
	return nil
}

// nullActivityRepo discards audit writes
type nullActivityRepo struct{}

func (nullActivityRepo) Create(log *activityDatamodel.ActivityLog) error { return nil }
func (nullActivityRepo) List(filter activity.Filter) ([]*activityDatamodel.ActivityLog, error) {
	return nil, nil
}

var _ = Describe("User Service", func() {
	var (
		mockRepo *MockRepository
		grants   *MockGrants
		sessions *MockSessions
		service  *user.Service
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		grants = &MockGrants{resets: make(map[int64]string)}
		sessions = &MockSessions{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		recorder := activity.NewRecorder(nullActivityRepo{}, logger)
		service = user.NewService(mockRepo, grants, sessions, recorder, bcrypt.MinCost, logger)
	})

	Describe("Create", func() {
		It("should store a bcrypt hash, never the password", func() {
			created, err := service.Create(user.CreateUserDTO{
				Email:    "Nora@Example.Com",
				Name:     "Nora",
				Password: "s3cret-pass",
				Role:     permission.RoleEmployee,
			}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Email).To(Equal("nora@example.com"))

			row := mockRepo.users[created.ID]
			Expect(row.PasswordHash).NotTo(ContainSubstring("s3cret-pass"))
			Expect(bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte("s3cret-pass"))).To(Succeed())
		})

		It("should materialize role default grants for non-admins", func() {
			created, err := service.Create(user.CreateUserDTO{
				Email:    "lead@example.com",
				Name:     "Lead",
				Password: "s3cret-pass",
				Role:     permission.RoleTeamLead,
			}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(grants.resets[created.ID]).To(Equal(permission.RoleTeamLead))
		})

		It("should not materialize grants for admins", func() {
			created, err := service.Create(user.CreateUserDTO{
				Email:    "root@example.com",
				Name:     "Root",
				Password: "s3cret-pass",
				Role:     permission.RoleAdmin,
			}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(grants.resets).NotTo(HaveKey(created.ID))
		})

		It("should reject a duplicate email", func() {
			dto := user.CreateUserDTO{
				Email:    "nora@example.com",
				Name:     "Nora",
				Password: "s3cret-pass",
			}
			_, err := service.Create(dto, 1)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(dto, 1)
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateResource))
		})

		It("should reject a short password", func() {
			_, err := service.Create(user.CreateUserDTO{
				Email:    "nora@example.com",
				Name:     "Nora",
				Password: "short",
			}, 1)
			Expect(err).To(HaveOccurred())
		})

		It("should default the role to employee", func() {
			created, err := service.Create(user.CreateUserDTO{
				Email:    "nora@example.com",
				Name:     "Nora",
				Password: "s3cret-pass",
			}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Role).To(Equal(permission.RoleEmployee))
		})
	})

	Describe("Update", func() {
		var existing *user.User

		BeforeEach(func() {
			var err error
			existing, err = service.Create(user.CreateUserDTO{
				Email:    "nora@example.com",
				Name:     "Nora",
				Password: "s3cret-pass",
				Role:     permission.RoleEmployee,
			}, 1)
			Expect(err).NotTo(HaveOccurred())
			grants.resets = make(map[int64]string)
		})

		It("should rematerialize grants when the role changes", func() {
			role := permission.RoleManager
			_, err := service.Update(existing.ID, user.UpdateUserDTO{Role: &role}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(grants.resets[existing.ID]).To(Equal(permission.RoleManager))
		})

		It("should not touch grants when the role is unchanged", func() {
			name := "Nora B"
			_, err := service.Update(existing.ID, user.UpdateUserDTO{Name: &name}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(grants.resets).To(BeEmpty())
		})

		It("should revoke sessions on deactivation", func() {
			status := user.StatusInactive
			_, err := service.Update(existing.ID, user.UpdateUserDTO{Status: &status}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(sessions.revoked).To(ContainElement(existing.ID))
		})

		It("should reject an unknown status", func() {
			status := "suspended"
			_, err := service.Update(existing.ID, user.UpdateUserDTO{Status: &status}, 1)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Delete", func() {
		var existing *user.User

		BeforeEach(func() {
			var err error
			existing, err = service.Create(user.CreateUserDTO{
				Email:    "nora@example.com",
				Name:     "Nora",
				Password: "s3cret-pass",
			}, 1)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should refuse self-deletion", func() {
			err := service.Delete(existing.ID, existing.ID)
			Expect(err).To(HaveOccurred())
		})

		It("should soft-delete and revoke sessions", func() {
			err := service.Delete(existing.ID, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.users[existing.ID].Status).To(Equal(user.StatusDeleted))
			Expect(sessions.revoked).To(ContainElement(existing.ID))

			_, err = service.GetByID(existing.ID)
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})

		It("should treat a deleted user as not found", func() {
			Expect(service.Delete(existing.ID, 1)).To(Succeed())
			err := service.Delete(existing.ID, 1)
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})
	})
})
