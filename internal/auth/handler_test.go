package auth_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-chi/chi"

	"golang.org/x/crypto/bcrypt"

	"github.com/elitehr/elite-time/internal/activity"
	"github.com/elitehr/elite-time/internal/auth"
	userDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/user"
	"github.com/elitehr/elite-time/internal/permission"
	"github.com/elitehr/elite-time/internal/session"
	"github.com/elitehr/elite-time/internal/transport"
)

var _ = Describe("Auth Handler", func() {
	var (
		userRepo *mockUserRepo
		sessRepo *mockSessionRepo
		service  *auth.Service
		router   *chi.Mux
	)

	login := func(email, password string) string {
		_, sess, err := service.Login(context.Background(), auth.LoginDTO{Email: email, Password: password})
		Expect(err).NotTo(HaveOccurred())
		return sess.Token
	}

	withCookie := func(req *http.Request, token string) *http.Request {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
		return req
	}

	BeforeEach(func() {
		userRepo = newMockUserRepo()
		sessRepo = newMockSessionRepo()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		recorder := activity.NewRecorder(nullActivityRepo{}, logger)
		sessions := session.NewService(sessRepo, time.Hour, logger)
		permissions := permission.NewService(newMockPermissionRepo(), logger)
		service = auth.NewService(userRepo, sessions, permissions, recorder, &mockDirectory{}, logger)

		hashed, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())
		userRepo.users[7] = &userDatamodel.User{
			ID:           7,
			Email:        "nora@x.test",
			Name:         "Nora",
			PasswordHash: string(hashed),
			Role:         permission.RoleEmployee,
			Status:       "active",
		}

		handler := auth.NewHandler(transport.NewBaseHandler(logger), service, time.Hour, false)
		router = chi.NewRouter()
		router.Group(func(r chi.Router) {
			r.Use(handler.OptionalSession)
			r.Get("/me", handler.Me)
			r.Post("/logout", handler.Logout)
		})
	})

	Describe("Me", func() {
		It("should answer an anonymous caller with a null user", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			var body map[string]json.RawMessage
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(string(body["user"])).To(Equal("null"))
		})

		It("should treat a stale cookie like no session", func() {
			rec := httptest.NewRecorder()
			req := withCookie(httptest.NewRequest(http.MethodGet, "/me", nil), "no-such-token")
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var resp auth.MeResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.User).To(BeNil())
		})

		It("should return the user for a live session", func() {
			token := login("nora@x.test", "s3cret-pass")

			rec := httptest.NewRecorder()
			req := withCookie(httptest.NewRequest(http.MethodGet, "/me", nil), token)
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var resp auth.MeResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.User).NotTo(BeNil())
			Expect(resp.User.Email).To(Equal("nora@x.test"))
		})
	})

	Describe("Logout", func() {
		It("should succeed for an anonymous caller and clear the cookie", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			var resp auth.LogoutResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Success).To(BeTrue())

			setCookie := rec.Header().Get("Set-Cookie")
			Expect(setCookie).To(ContainSubstring(session.CookieName + "="))
			Expect(setCookie).To(ContainSubstring("Max-Age=0"))
		})

		It("should revoke a live session", func() {
			token := login("nora@x.test", "s3cret-pass")
			Expect(sessRepo.sessions).To(HaveLen(1))

			rec := httptest.NewRecorder()
			req := withCookie(httptest.NewRequest(http.MethodPost, "/logout", nil), token)
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(sessRepo.sessions).To(BeEmpty())

			_, _, err := service.ResolveSession(token)
			Expect(err).To(HaveOccurred())
		})
	})
})
