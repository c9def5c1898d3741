package ldap

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/elitehr/elite-time/internal"
	"github.com/elitehr/elite-time/internal/activity"
	activityDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/activity"
	userDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/user"
	"github.com/elitehr/elite-time/internal/permission"
	"github.com/elitehr/elite-time/internal/settings"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLdapSync(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ldap Sync Suite")
}

// mockDirectory implements DirectoryClient for testing
type mockDirectory struct {
	entries []DirectoryUser
	err     error
}

func (m *mockDirectory) Authenticate(ctx context.Context, dn, password string) error {
	return nil
}

func (m *mockDirectory) Search(ctx context.Context) ([]DirectoryUser, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.entries, nil
}

// mockUserRepo implements UserRepositoryAPI for testing
type mockUserRepo struct {
	users  map[string]*userDatamodel.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*userDatamodel.User), nextID: 1}
}

func (m *mockUserRepo) GetByEmail(email string) (*userDatamodel.User, error) {
	return m.users[strings.ToLower(email)], nil
}

func (m *mockUserRepo) ListDirectoryManaged() ([]*userDatamodel.User, error) {
	var out []*userDatamodel.User
	for _, u := range m.users {
		if u.LdapDN != nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) Create(u *userDatamodel.User) error {
	u.ID = m.nextID
	m.nextID++
	m.users[strings.ToLower(u.Email)] = u
	return nil
}

func (m *mockUserRepo) Update(u *userDatamodel.User) error {
	m.users[strings.ToLower(u.Email)] = u
	return nil
}

// mockSettings implements SettingsAPI for testing
type mockSettings struct {
	cfg      *settings.Settings
	syncedAt *time.Time
}

func (m *mockSettings) Get() (*settings.Settings, error) {
	return m.cfg, nil
}

func (m *mockSettings) MarkLdapSynced(at time.Time) error {
	m.syncedAt = &at
	m.cfg.LdapLastSyncAt = &at
	return nil
}

// mockGrants records materialized defaults
type mockGrants struct {
	resets map[int64]string
}

func (m *mockGrants) ResetToRoleDefaults(userID int64, role string) error {
	m.resets[userID] = role
	return nil
}

// nullActivityRepo discards audit writes
type nullActivityRepo struct{}

func (nullActivityRepo) Create(log *activityDatamodel.ActivityLog) error { return nil }
func (nullActivityRepo) List(filter activity.Filter) ([]*activityDatamodel.ActivityLog, error) {
	return nil, nil
}

var _ = Describe("Sync Service", func() {
	var (
		directory *mockDirectory
		users     *mockUserRepo
		cfg       *mockSettings
		grants    *mockGrants
		service   *SyncService
		clock     time.Time
		ctx       context.Context
	)

	BeforeEach(func() {
		directory = &mockDirectory{}
		users = newMockUserRepo()
		cfg = &mockSettings{cfg: &settings.Settings{
			LdapSyncEnabled:         true,
			LdapSyncIntervalMinutes: 60,
		}}
		grants = &mockGrants{resets: make(map[int64]string)}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		recorder := activity.NewRecorder(nullActivityRepo{}, logger)
		service = NewSyncService(directory, users, cfg, grants, recorder, logger)
		clock = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
		service.now = func() time.Time { return clock }
		ctx = context.Background()
	})

	Describe("gating", func() {
		It("should refuse when the toggle is off", func() {
			cfg.cfg.LdapSyncEnabled = false

			_, err := service.Sync(ctx, 1)
			Expect(err).To(Equal(internal.ErrSyncDisabled))
		})

		It("should refuse inside the cooldown with the remaining minutes", func() {
			last := clock.Add(-30 * time.Minute)
			cfg.cfg.LdapLastSyncAt = &last

			_, err := service.Sync(ctx, 1)
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Details).To(Equal(map[string]int{"remaining_minutes": 30}))
		})

		It("should run once the interval has elapsed", func() {
			last := clock.Add(-61 * time.Minute)
			cfg.cfg.LdapLastSyncAt = &last

			result, err := service.Sync(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.LastSyncAt).To(Equal(clock))
		})
	})

	Describe("upsert", func() {
		BeforeEach(func() {
			directory.entries = []DirectoryUser{
				{DN: "cn=nora,dc=corp", Email: "Nora@Corp.Example", Name: "Nora", Department: "Engineering", Position: "Developer"},
			}
		})

		It("should create missing users as directory-managed employees", func() {
			result, err := service.Sync(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.SyncedCount).To(Equal(1))

			created := users.users["nora@corp.example"]
			Expect(created).NotTo(BeNil())
			Expect(created.Role).To(Equal(permission.RoleEmployee))
			Expect(created.Status).To(Equal("active"))
			Expect(created.LdapDN).NotTo(BeNil())
			Expect(*created.LdapDN).To(Equal("cn=nora,dc=corp"))
			Expect(created.PasswordHash).NotTo(BeEmpty())
			Expect(grants.resets[created.ID]).To(Equal(permission.RoleEmployee))
		})

		It("should update existing users and reactivate inactive ones", func() {
			dn := "cn=nora,dc=corp"
			Expect(users.Create(&userDatamodel.User{
				Email:        "nora@corp.example",
				Name:         "Old Name",
				PasswordHash: "x",
				Role:         permission.RoleManager,
				Status:       "inactive",
				LdapDN:       &dn,
			})).To(Succeed())

			_, err := service.Sync(ctx, 1)
			Expect(err).NotTo(HaveOccurred())

			updated := users.users["nora@corp.example"]
			Expect(updated.Name).To(Equal("Nora"))
			Expect(updated.Department).To(Equal("Engineering"))
			Expect(updated.Status).To(Equal("active"))
			Expect(updated.Role).To(Equal(permission.RoleManager))
		})

		It("should deactivate directory-managed users absent from the directory", func() {
			dn := "cn=gone,dc=corp"
			Expect(users.Create(&userDatamodel.User{
				Email:        "gone@corp.example",
				Name:         "Gone",
				PasswordHash: "x",
				Role:         permission.RoleEmployee,
				Status:       "active",
				LdapDN:       &dn,
			})).To(Succeed())

			_, err := service.Sync(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(users.users["gone@corp.example"].Status).To(Equal("inactive"))
		})

		It("should leave local accounts untouched", func() {
			Expect(users.Create(&userDatamodel.User{
				Email:        "local@corp.example",
				Name:         "Local",
				PasswordHash: "x",
				Role:         permission.RoleEmployee,
				Status:       "active",
			})).To(Succeed())

			_, err := service.Sync(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(users.users["local@corp.example"].Status).To(Equal("active"))
		})

		It("should stamp the sync time on completion", func() {
			_, err := service.Sync(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.syncedAt).NotTo(BeNil())
			Expect(*cfg.syncedAt).To(Equal(clock))
		})
	})
})
