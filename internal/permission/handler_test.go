package permission_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-chi/chi"

	"github.com/elitehr/elite-time/internal"
	"github.com/elitehr/elite-time/internal/activity"
	activityDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/activity"
	userDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/user"
	"github.com/elitehr/elite-time/internal/permission"
	"github.com/elitehr/elite-time/internal/transport"
)

// mockUserSource implements permission.UserSource for testing
type mockUserSource struct {
	users map[int64]*userDatamodel.User
}

func (m *mockUserSource) GetByID(id int64) (*userDatamodel.User, error) {
	return m.users[id], nil
}

// discardActivityRepo drops audit writes
type discardActivityRepo struct{}

func (discardActivityRepo) Create(log *activityDatamodel.ActivityLog) error { return nil }
func (discardActivityRepo) List(filter activity.Filter) ([]*activityDatamodel.ActivityLog, error) {
	return nil, nil
}

var _ = Describe("Permission Handler", func() {
	var (
		mockRepo *MockRepository
		users    *mockUserSource
		router   *chi.Mux
	)

	const actorID = int64(99)

	asActor := func(req *http.Request) *http.Request {
		return req.WithContext(internal.ContextWithUserID(req.Context(), actorID))
	}

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		mockRepo.SeedDefinitions()
		users = &mockUserSource{users: map[int64]*userDatamodel.User{
			7: {ID: 7, Email: "nora@x.test", Role: permission.RoleEmployee},
		}}

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := permission.NewService(mockRepo, logger)
		recorder := activity.NewRecorder(discardActivityRepo{}, logger)
		handler := permission.NewHandler(transport.NewBaseHandler(logger), service, users, recorder)

		router = chi.NewRouter()
		router.Post("/admin/users/{userId}/permissions/grant", handler.Grant)
		router.Delete("/admin/users/{userId}/permissions/{permissionId}", handler.Revoke)
		router.Post("/admin/users/{userId}/permissions/reset", handler.Reset)
		router.Post("/admin/permissions/grant-all", handler.GrantAll)
	})

	Describe("Grant", func() {
		It("should create the grant for an actor resolved from the request context", func() {
			permID := mockRepo.IDForName(permission.PermApproveAbsences)
			body, _ := json.Marshal(permission.GrantDTO{PermissionID: permID})

			rec := httptest.NewRecorder()
			req := asActor(httptest.NewRequest(http.MethodPost, "/admin/users/7/permissions/grant", bytes.NewReader(body)))
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			held, err := mockRepo.HasGrant(7, permID)
			Expect(err).NotTo(HaveOccurred())
			Expect(held).To(BeTrue())
		})

		It("should reject a request with no actor in the context", func() {
			permID := mockRepo.IDForName(permission.PermApproveAbsences)
			body, _ := json.Marshal(permission.GrantDTO{PermissionID: permID})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/users/7/permissions/grant", bytes.NewReader(body)))

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			held, err := mockRepo.HasGrant(7, permID)
			Expect(err).NotTo(HaveOccurred())
			Expect(held).To(BeFalse())
		})
	})

	Describe("Revoke", func() {
		It("should remove the grant", func() {
			permID := mockRepo.IDForName(permission.PermApproveAbsences)
			Expect(mockRepo.CreateGrant(&userDatamodel.UserPermission{UserID: 7, PermissionID: permID})).To(Succeed())

			rec := httptest.NewRecorder()
			target := fmt.Sprintf("/admin/users/7/permissions/%d", permID)
			req := asActor(httptest.NewRequest(http.MethodDelete, target, nil))
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			held, err := mockRepo.HasGrant(7, permID)
			Expect(err).NotTo(HaveOccurred())
			Expect(held).To(BeFalse())
		})
	})

	Describe("Reset", func() {
		It("should leave the target on role defaults", func() {
			extraID := mockRepo.IDForName(permission.PermManageSettings)
			Expect(mockRepo.CreateGrant(&userDatamodel.UserPermission{UserID: 7, PermissionID: extraID})).To(Succeed())

			rec := httptest.NewRecorder()
			req := asActor(httptest.NewRequest(http.MethodPost, "/admin/users/7/permissions/reset", nil))
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			held, err := mockRepo.HasGrant(7, extraID)
			Expect(err).NotTo(HaveOccurred())
			Expect(held).To(BeFalse())
		})
	})

	Describe("GrantAll", func() {
		It("should report the admin and link counts", func() {
			mockRepo.usersByRole[permission.RoleAdmin] = []int64{1}

			rec := httptest.NewRecorder()
			req := asActor(httptest.NewRequest(http.MethodPost, "/admin/permissions/grant-all", nil))
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var resp map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["success"]).To(BeTrue())
			Expect(resp["admins_updated"]).To(BeEquivalentTo(1))
		})
	})
})
