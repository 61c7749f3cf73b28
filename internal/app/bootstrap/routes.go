// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/dalemusser/facilidocs/internal/app/docs"
	documentsfeature "github.com/dalemusser/facilidocs/internal/app/features/documents"
	facilitiesfeature "github.com/dalemusser/facilidocs/internal/app/features/facilities"
	healthfeature "github.com/dalemusser/facilidocs/internal/app/features/health"
	preferencesfeature "github.com/dalemusser/facilidocs/internal/app/features/preferences"
	apikeystore "github.com/dalemusser/facilidocs/internal/app/store/apikeys"
	"github.com/dalemusser/facilidocs/internal/app/store/audit"
	facilitystore "github.com/dalemusser/facilidocs/internal/app/store/facility"
	"github.com/dalemusser/facilidocs/internal/app/store/prefs"
	"github.com/dalemusser/facilidocs/internal/app/system/apicors"
	"github.com/dalemusser/facilidocs/internal/app/system/auditlog"
	"github.com/dalemusser/facilidocs/internal/app/system/auth"
	"github.com/dalemusser/facilidocs/internal/app/system/metrics"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// The service is a headless JSON API. Every /api route requires a
// database-backed API key (Bearer scheme) plus an X-Actor-ID header naming
// the back-office user the request acts for. Health probes and the metrics
// scrape endpoint stay unauthenticated.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Stores
	auditStore := audit.New(deps.MongoDatabase)
	facilityStore := facilitystore.New(deps.MongoDatabase)
	prefStore := prefs.New(deps.MongoDatabase)
	keyStore := apikeystore.New(deps.MongoDatabase)

	// Audit logger: MongoDB + zap per configuration.
	auditLogger := auditlog.New(auditStore, logger, auditlog.Config{
		Document: appCfg.AuditLogDocument,
		Security: appCfg.AuditLogSecurity,
		Admin:    appCfg.AuditLogAdmin,
	})

	// Document service and download gateway.
	docService := docs.NewService(deps.MongoDatabase, deps.FileStorage, logger)
	gateway := docs.NewGateway(deps.FileStorage, logger)

	// Prometheus metrics.
	m := metrics.New()

	// Feature handlers
	documentsHandler := documentsfeature.NewHandler(docService, gateway, prefStore, auditLogger, m, logger)
	facilitiesHandler := facilitiesfeature.NewHandler(facilityStore, auditLogger, logger)
	preferencesHandler := preferencesfeature.NewHandler(prefStore, logger)
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	// Request timeout middleware: prevents requests from hanging indefinitely.
	// Downloads stream within this window; 100 MB over a slow link is the
	// sizing constraint here.
	r.Use(chimw.Timeout(5 * time.Minute))

	// CORS middleware: must be early in the chain to handle preflight requests.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// ─────────────────────────────────────────────────────────────────────────────
	// Routes
	// ─────────────────────────────────────────────────────────────────────────────

	// Health check endpoints for load balancers and orchestrators
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Prometheus scrape endpoint
	if appCfg.MetricsEnabled {
		r.Handle("/metrics", m.Handler())
	}

	// JSON API: API key auth, permissive CORS, no CSRF.
	r.Route("/api", func(api chi.Router) {
		api.Use(apicors.Middleware())
		api.Use(m.Middleware("/api"))
		api.Use(auth.APIKeyAuth(keyStore, logger))

		api.Mount("/facilities", facilitiesfeature.Routes(
			facilitiesHandler,
			documentsfeature.Routes(documentsHandler),
			preferencesfeature.Routes(preferencesHandler),
		))
	})

	return r, nil
}
