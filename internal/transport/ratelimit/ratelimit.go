package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

type Config struct {
	MaxRequests   int
	Window        time.Duration
	SweepInterval time.Duration
}

type window struct {
	count int
	reset time.Time
}

// Limiter is a fixed-window per-client counter. Bursts straddling a
// window boundary are accepted; precision is traded for simplicity at
// the intended thresholds (tens of requests per minute per client).
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*window

	maxRequests int
	windowSize  time.Duration

	stop chan struct{}
	once sync.Once
	now  func() time.Time
}

// Result reports a limiter decision; ResetTime lets callers emit a
// Retry-After hint on denial.
type Result struct {
	Allowed   bool
	Remaining int
	ResetTime time.Time
}

func New(cfg Config) *Limiter {
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = 60
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}

	l := &Limiter{
		entries:     make(map[string]*window),
		maxRequests: cfg.MaxRequests,
		windowSize:  cfg.Window,
		stop:        make(chan struct{}),
		now:         time.Now,
	}

	if cfg.SweepInterval > 0 {
		go l.sweepLoop(cfg.SweepInterval)
	}
	return l
}

// Allow records a hit for the key and decides whether it is within the
// window budget.
func (l *Limiter) Allow(key string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.entries[key]
	if !ok || now.After(entry.reset) {
		entry = &window{count: 1, reset: now.Add(l.windowSize)}
		l.entries[key] = entry
		return Result{Allowed: true, Remaining: l.maxRequests - 1, ResetTime: entry.reset}
	}

	if entry.count < l.maxRequests {
		entry.count++
		return Result{Allowed: true, Remaining: l.maxRequests - entry.count, ResetTime: entry.reset}
	}

	return Result{Allowed: false, Remaining: 0, ResetTime: entry.reset}
}

// Stop terminates the sweep goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *Limiter) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

func (l *Limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, entry := range l.entries {
		if now.After(entry.reset) {
			delete(l.entries, key)
		}
	}
}

func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Middleware applies the limiter per client IP.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := l.Allow(ClientIP(r))
		if !res.Allowed {
			retryAfter := int(time.Until(res.ResetTime).Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"too many requests"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP prefers the first X-Forwarded-For hop, falling back to the
// socket peer.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
