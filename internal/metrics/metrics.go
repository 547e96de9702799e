// Package metrics holds the Prometheus collectors of the login service.
// They live in a standalone package so both the strategy and the HTTP layer
// can report without importing each other.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors registered by New.
type Metrics struct {
	gatherer prometheus.Gatherer

	ProfileFetches       *prometheus.CounterVec
	ProfileFetchDuration *prometheus.HistogramVec
	Logins               *prometheus.CounterVec

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg. A nil reg means a
// fresh private registry, which keeps tests isolated.
func New(reg *prometheus.Registry) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		gatherer: reg,
		ProfileFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "provider_profile_fetch_total",
			Help: "Profile lookups against the identity provider, by outcome",
		}, []string{"provider", "outcome"}),
		ProfileFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "provider_profile_fetch_duration_seconds",
			Help:    "Latency of profile lookups against the identity provider",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "social_login_total",
			Help: "Completed callbacks, by provider and result",
		}, []string{"provider", "result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	for _, c := range []prometheus.Collector{
		m.ProfileFetches,
		m.ProfileFetchDuration,
		m.Logins,
		m.HTTPRequests,
		m.HTTPRequestDuration,
	} {
		if err := registerCollector(reg, c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// registerCollector registra el collector ignorando duplicados.
func registerCollector(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

// ObserveProfileFetch implements ripple.ProfileObserver.
func (m *Metrics) ObserveProfileFetch(provider, outcome string, d time.Duration) {
	m.ProfileFetches.WithLabelValues(provider, outcome).Inc()
	m.ProfileFetchDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// ObserveLogin counts a finished callback. result is success, rejected or error.
func (m *Metrics) ObserveLogin(provider, result string) {
	m.Logins.WithLabelValues(provider, result).Inc()
}

// Handler exposes the registry for /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware instruments requests. The route label is the chi pattern, so
// /auth/ripple/login and /auth/other/login share /auth/{provider}/login.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		route := routePattern(r)
		method := strings.ToUpper(r.Method)
		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

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
