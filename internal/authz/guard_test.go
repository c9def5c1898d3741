package authz_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/elitehr/elite-time/internal/auth"
	"github.com/elitehr/elite-time/internal/authz"
	"github.com/elitehr/elite-time/internal/permission"
	"github.com/elitehr/elite-time/internal/session"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAuthzGuard(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Authz Guard Suite")
}

// MockResolver implements authz.SessionResolver for testing
type MockResolver struct {
	user *auth.User
	sess *session.Session
	err  error
}

func (m *MockResolver) ResolveSession(token string) (*auth.User, *session.Session, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.user, m.sess, nil
}

var _ = Describe("Guard", func() {
	var (
		resolver *MockResolver
		guard    *authz.Guard
	)

	BeforeEach(func() {
		resolver = &MockResolver{
			sess: &session.Session{Token: "tok", UserID: 7},
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		guard = authz.NewGuard(resolver, logger)
	})

	Describe("Authorize", func() {
		It("should redirect to login when the session does not resolve", func() {
			resolver.err = errors.New("no session")

			d := guard.Authorize("tok", "dashboard")
			Expect(d.Allowed).To(BeFalse())
			Expect(d.Reason).To(Equal(authz.ReasonUnauthenticated))
			Expect(d.Redirect).To(Equal("/login"))
		})

		It("should deny unknown page codes", func() {
			resolver.user = &auth.User{ID: 7, Role: permission.RoleAdmin, Status: "active"}

			d := guard.Authorize("tok", "nope")
			Expect(d.Allowed).To(BeFalse())
			Expect(d.Reason).To(Equal(authz.ReasonPageNotFound))
		})

		It("should deny a role outside the page's allowed list", func() {
			resolver.user = &auth.User{ID: 7, Role: permission.RoleEmployee, Status: "active"}

			d := guard.Authorize("tok", "settings")
			Expect(d.Allowed).To(BeFalse())
			Expect(d.Reason).To(Equal(authz.ReasonRoleMismatch))
			Expect(d.Redirect).To(Equal("/dashboard"))
		})

		It("should deny a matching role without any required permission", func() {
			resolver.user = &auth.User{ID: 7, Role: permission.RoleManager, Status: "active"}

			d := guard.Authorize("tok", "reports")
			Expect(d.Allowed).To(BeFalse())
			Expect(d.Reason).To(Equal(authz.ReasonMissingPermission))
		})

		It("should allow when any one of the required permissions is held", func() {
			resolver.user = &auth.User{
				ID:          7,
				Role:        permission.RoleManager,
				Status:      "active",
				Permissions: []string{permission.PermViewAllAbsences},
			}

			d := guard.Authorize("tok", "team_absences")
			Expect(d.Allowed).To(BeTrue())
			Expect(d.User).To(Equal(resolver.user))
			Expect(d.Session).To(Equal(resolver.sess))
		})

		It("should allow admins without explicit grants", func() {
			resolver.user = &auth.User{ID: 1, Role: permission.RoleAdmin, Status: "active"}

			d := guard.Authorize("tok", "settings")
			Expect(d.Allowed).To(BeTrue())
		})
	})

	Describe("AllowedPages", func() {
		It("should list every page for an admin", func() {
			admin := &auth.User{ID: 1, Role: permission.RoleAdmin, Status: "active"}
			Expect(guard.AllowedPages(admin)).To(HaveLen(len(authz.Registry)))
		})

		It("should list only reachable pages for an employee", func() {
			employee := &auth.User{
				ID:          7,
				Role:        permission.RoleEmployee,
				Status:      "active",
				Permissions: []string{permission.PermClockPointage},
			}

			pages := guard.AllowedPages(employee)
			codes := make([]string, len(pages))
			for i, p := range pages {
				codes[i] = p.Code
			}
			Expect(codes).To(ConsistOf("dashboard", "pointages"))
		})
	})
})
