package postgres_test

import (
	"testing"
	"time"

	userDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/user"
	userPostgres "github.com/elitehr/elite-time/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestUserPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Postgres Suite")
}

// SQLiteUser is a SQLite-compatible model for testing
type SQLiteUser struct {
	ID           int64      `gorm:"primaryKey"`
	Email        string     `gorm:"column:email;uniqueIndex;not null"`
	Name         string     `gorm:"column:name;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Role         string     `gorm:"column:role"`
	Status       string     `gorm:"column:status"`
	Department   string     `gorm:"column:department"`
	Position     string     `gorm:"column:position"`
	LdapDN       *string    `gorm:"column:ldap_dn;uniqueIndex"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (SQLiteUser) TableName() string {
	return "users"
}

var _ = Describe("User PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo *userPostgres.UserRepository
	)

	addUser := func(email, name, status string, dn *string) *userDatamodel.User {
		u := &userDatamodel.User{
			Email:        email,
			Name:         name,
			PasswordHash: "x",
			Role:         "employee",
			Status:       status,
			LdapDN:       dn,
		}
		Expect(repo.Create(u)).To(Succeed())
		return u
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteUser{})
		Expect(err).NotTo(HaveOccurred())

		repo = userPostgres.NewUserRepository(db)
	})

	Describe("GetAll", func() {
		BeforeEach(func() {
			addUser("b@x.test", "Beth", "active", nil)
			addUser("a@x.test", "Ada", "deleted", nil)
			addUser("c@x.test", "Cal", "inactive", nil)
		})

		It("should exclude deleted users by default, sorted by name", func() {
			users, err := repo.GetAll(false)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(2))
			Expect(users[0].Name).To(Equal("Beth"))
			Expect(users[1].Name).To(Equal("Cal"))
		})

		It("should include deleted users on request", func() {
			users, err := repo.GetAll(true)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(3))
		})
	})

	Describe("GetByEmail", func() {
		It("should find the row or return nil", func() {
			addUser("nora@x.test", "Nora", "active", nil)

			found, err := repo.GetByEmail("nora@x.test")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).NotTo(BeNil())

			missing, err := repo.GetByEmail("ghost@x.test")
			Expect(err).NotTo(HaveOccurred())
			Expect(missing).To(BeNil())
		})
	})

	Describe("ListDirectoryManaged", func() {
		It("should return only rows with a directory DN", func() {
			dn := "cn=nora,dc=corp"
			addUser("nora@x.test", "Nora", "active", &dn)
			addUser("local@x.test", "Local", "active", nil)

			managed, err := repo.ListDirectoryManaged()
			Expect(err).NotTo(HaveOccurred())
			Expect(managed).To(HaveLen(1))
			Expect(managed[0].Email).To(Equal("nora@x.test"))
		})
	})

	Describe("Update", func() {
		It("should persist field changes", func() {
			u := addUser("nora@x.test", "Nora", "active", nil)
			u.Status = "inactive"
			Expect(repo.Update(u)).To(Succeed())

			reloaded, err := repo.GetByID(u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.Status).To(Equal("inactive"))
		})
	})
})
