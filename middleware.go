package main

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/stevemurr/jsonrest/router"
)

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// requestMiddleware tags each request with an id (reusing X-Request-ID when
// the client sent one), logs it once served and records its metrics.
func requestMiddleware(next http.Handler, m *metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := withRequestID(r.Context(), id)
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r.WithContext(ctx))
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		d := time.Since(start)
		if m != nil {
			m.observe(r.Method, rec.status, d)
		}
		slog.InfoContext(ctx, "Request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "dur", d.Round(time.Microsecond))
	})
}

// corsMiddleware wraps an http.Handler with CORS headers.
func corsMiddleware(next http.Handler, allowedOrigins []string) http.Handler {
	// Fast path: wildcard allows everything.
	allowAll := len(allowedOrigins) == 1 && allowedOrigins[0] == "*"

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowAll {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin != "" {
			for _, o := range allowedOrigins {
				if strings.TrimSpace(o) == origin {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Vary", "Origin")
					break
				}
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware rejects requests beyond the token bucket with a 429.
func rateLimitMiddleware(next http.Handler, l *rate.Limiter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := l.Reserve()
		if d := res.Delay(); d > 0 {
			res.Cancel()
			secs := int(d.Seconds())
			if time.Duration(secs)*time.Second < d {
				secs++
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			router.WriteError(w, http.StatusTooManyRequests, router.ErrorCodeRateLimited, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jsonrest",
			Name:      "requests_total",
			Help:      "Requests served, by method and status code.",
		}, []string{"method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "jsonrest",
			Name:      "request_duration_seconds",
			Help:      "Request latency, by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m *metrics) observe(method string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method).Observe(d.Seconds())
}

// newHandler assembles the middleware chain around the router.
func newHandler(rt http.Handler, cfg *Config, m *metrics) http.Handler {
	h := corsMiddleware(rt, cfg.AllowedOrigins)
	if cfg.Rate > 0 {
		h = rateLimitMiddleware(h, rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst))
	}
	return requestMiddleware(h, m)
}
