package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRateLimit(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "RateLimit Suite")
}

var _ = Describe("Limiter", func() {
	var (
		limiter *Limiter
		clock   time.Time
	)

	BeforeEach(func() {
		limiter = New(Config{MaxRequests: 3, Window: time.Minute})
		clock = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
		limiter.now = func() time.Time { return clock }
	})

	AfterEach(func() {
		limiter.Stop()
	})

	Describe("Allow", func() {
		It("should allow requests up to the window budget", func() {
			for i := 0; i < 3; i++ {
				res := limiter.Allow("10.0.0.1")
				Expect(res.Allowed).To(BeTrue())
				Expect(res.Remaining).To(Equal(2 - i))
			}
		})

		It("should deny the request over budget with a future reset time", func() {
			for i := 0; i < 3; i++ {
				limiter.Allow("10.0.0.1")
			}

			res := limiter.Allow("10.0.0.1")
			Expect(res.Allowed).To(BeFalse())
			Expect(res.Remaining).To(Equal(0))
			Expect(res.ResetTime).To(Equal(clock.Add(time.Minute)))
		})

		It("should track keys independently", func() {
			for i := 0; i < 3; i++ {
				limiter.Allow("10.0.0.1")
			}

			res := limiter.Allow("10.0.0.2")
			Expect(res.Allowed).To(BeTrue())
		})

		It("should grant a fresh budget after the window expires", func() {
			for i := 0; i < 4; i++ {
				limiter.Allow("10.0.0.1")
			}

			clock = clock.Add(time.Minute + time.Second)

			res := limiter.Allow("10.0.0.1")
			Expect(res.Allowed).To(BeTrue())
			Expect(res.Remaining).To(Equal(2))
		})
	})

	Describe("sweep", func() {
		It("should drop only expired windows", func() {
			limiter.Allow("10.0.0.1")
			clock = clock.Add(30 * time.Second)
			limiter.Allow("10.0.0.2")
			clock = clock.Add(45 * time.Second)

			limiter.sweep()
			Expect(limiter.size()).To(Equal(1))
		})
	})

	Describe("Middleware", func() {
		It("should return 429 with a Retry-After header once over budget", func() {
			handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			var rec *httptest.ResponseRecorder
			for i := 0; i < 4; i++ {
				rec = httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
				req.RemoteAddr = "10.0.0.1:52000"
				handler.ServeHTTP(rec, req)
			}

			Expect(rec.Code).To(Equal(http.StatusTooManyRequests))
			Expect(rec.Header().Get("Retry-After")).NotTo(BeEmpty())
		})

		It("should key clients by the first X-Forwarded-For hop", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
			req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
			Expect(ClientIP(req)).To(Equal("203.0.113.9"))
		})
	})
})
