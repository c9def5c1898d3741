package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/elitehr/elite-time/internal/transport/middleware"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var _ = Describe("LoggingMiddleware", func() {
	var (
		buf     *bytes.Buffer
		handler http.Handler
	)

	serve := func(status int, body string) http.Handler {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		})
		logger := slog.New(slog.NewJSONHandler(buf, nil))
		return middleware.LoggingMiddleware(logger)(inner)
	}

	BeforeEach(func() {
		buf = &bytes.Buffer{}
	})

	It("should log the request line with status and size", func() {
		handler = serve(http.StatusCreated, "created")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/departments?x=1", nil))

		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(buf.String()).To(ContainSubstring(`"status":201`))
		Expect(buf.String()).To(ContainSubstring(`"path":"/departments"`))
		Expect(buf.String()).To(ContainSubstring(`"bytes":7`))
	})

	It("should redact credential-bearing headers", func() {
		handler = serve(http.StatusOK, "ok")

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer super-secret-token")
		req.Header.Set("Cookie", "elite_session=abc123")
		req.Header.Set("X-Request-Source", "portal")

		handler.ServeHTTP(httptest.NewRecorder(), req)

		Expect(buf.String()).NotTo(ContainSubstring("super-secret-token"))
		Expect(buf.String()).NotTo(ContainSubstring("abc123"))
		Expect(buf.String()).To(ContainSubstring("[REDACTED]"))
		Expect(buf.String()).To(ContainSubstring("portal"))
	})

	It("should escalate the level for error statuses", func() {
		handler = serve(http.StatusInternalServerError, "boom")

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

		Expect(buf.String()).To(ContainSubstring(`"level":"ERROR"`))
	})
})
