// internal/api/http/server.go
package http

import (
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/logger"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/metrics"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/observability"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/reference"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/scoring"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/session"
)

// Dependencies are shared read-only by every request.
type Dependencies struct {
	Store          *session.Store
	Engine         *scoring.Engine
	Catalog        *reference.Catalog
	Observability  *observability.Observability
	Logger         logger.Logger
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	RequestTimeout time.Duration
	Now            func() time.Time
}

// Server serves the survey wizard and its results over JSON.
type Server struct {
	store          *session.Store
	engine         *scoring.Engine
	catalog        *reference.Catalog
	obs            *observability.Observability
	logger         logger.Logger
	gatherer       prometheus.Gatherer
	allowedOrigins []string
	timeout        time.Duration
	now            func() time.Time
}

func NewServer(deps Dependencies) *Server {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		store:          deps.Store,
		engine:         deps.Engine,
		catalog:        deps.Catalog,
		obs:            deps.Observability,
		logger:         log.WithFields(map[string]interface{}{"component": "http"}),
		gatherer:       gatherer,
		allowedOrigins: deps.AllowedOrigins,
		timeout:        timeout,
		now:            now,
	}
}

// Routes builds the router. Handlers only depend on the Server fields.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(s.instrument)
	r.Use(middleware.Timeout(s.timeout))

	if len(s.allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{"Content-Length"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", s.health)
	r.Get("/ready", s.ready)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/sessions", func(sr chi.Router) {
			sr.Post("/", s.createSession)
			sr.Route("/{id}", func(one chi.Router) {
				one.Get("/", s.getSession)
				one.Put("/profile", s.submitProfile)
				one.Put("/scores", s.submitScores)
				one.Put("/psychology", s.submitPsychology)
				one.Put("/behavior", s.submitBehavior)
				one.Post("/back", s.back)
				one.Get("/result", s.result)
				one.Get("/plan", s.plan)
				one.Get("/report", s.report)
			})
		})
		api.Route("/reference", func(ref chi.Router) {
			ref.Get("/majors", s.majors)
			ref.Get("/institutions", s.institutions)
		})
	})
	return r
}

// instrument records a span, request metrics and an access log line per request.
func (s *Server) instrument(next nethttp.Handler) nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		start := time.Now()
		ctx, span := s.obs.StartSpan(r.Context(), "http "+r.Method,
			attribute.String("http.method", r.Method),
			attribute.String("http.target", r.URL.Path),
		)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = nethttp.StatusOK
		}
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)
		span.End()

		elapsed := time.Since(start)
		metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())

		s.logger.Info("http request", map[string]interface{}{
			"requestId":  middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"route":      route,
			"status":     status,
			"durationMs": elapsed.Milliseconds(),
		})
	})
}

func (s *Server) health(w nethttp.ResponseWriter, _ *nethttp.Request) {
	respondJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"})
}

// ready fails while the session store is unreachable.
func (s *Server) ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	checks := map[string]string{"sessions": "ok"}
	status := nethttp.StatusOK
	if err := s.store.Ping(r.Context()); err != nil {
		checks["sessions"] = err.Error()
		status = nethttp.StatusServiceUnavailable
	}
	body := map[string]interface{}{"status": "ready", "checks": checks}
	if status != nethttp.StatusOK {
		body["status"] = "not ready"
	}
	if s.catalog != nil {
		body["reference"] = s.catalog.Version()
	}
	respondJSON(w, status, body)
}
