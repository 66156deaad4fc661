package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/agbarbie/Rural-Connect-sub000/internal/domain/auth"
	"github.com/agbarbie/Rural-Connect-sub000/internal/ports"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Applications  ApplicationsService
	Notifications NotificationsService
	Jobs          JobsService
	Bookmarks     BookmarksService
	Verifier      ports.TokenVerifier
	// Optional: dependency probes reported by /healthz
	HealthChecks map[string]HealthCheck
	MaxBodyBytes int64
	Logger       *slog.Logger // Logger for request and error logging (optional)
}

// guard wraps handlers with bearer authentication and a role check.
type guard struct {
	verifier ports.TokenVerifier
	logger   *slog.Logger
}

func (g guard) wrap(h http.HandlerFunc, roles ...domainauth.Role) http.Handler {
	return RequireAuth(g.verifier, g.logger)(RequireRole(roles...)(h))
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	g := guard{verifier: services.Verifier, logger: logger}

	registerApplicationRoutes(mux, g, &ApplicationHandlers{Svc: services.Applications, Logger: logger})
	registerNotificationRoutes(mux, g, &NotificationHandlers{Svc: services.Notifications, Logger: logger})
	registerJobRoutes(mux, g, &JobHandlers{Svc: services.Jobs, Logger: logger})
	registerBookmarkRoutes(mux, g, &BookmarkHandlers{Svc: services.Bookmarks, Logger: logger})

	health := healthHandler(services.HealthChecks)
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)

	return Chain(mux, Recover(logger), Logging(logger), LimitBody(services.MaxBodyBytes))
}

func registerApplicationRoutes(mux *http.ServeMux, g guard, h *ApplicationHandlers) {
	mux.Handle("POST /jobs/{jobId}/apply", g.wrap(h.Apply, domainauth.RoleJobseeker))
	mux.Handle("DELETE /jobs/{jobId}/withdraw", g.wrap(h.WithdrawByJob, domainauth.RoleJobseeker))
	mux.Handle("GET /jobs/{jobId}/application-status", g.wrap(h.Status, domainauth.RoleJobseeker))
	mux.Handle("GET /applications", g.wrap(h.List, domainauth.RoleJobseeker))
	mux.Handle("GET /applications/stats", g.wrap(h.Stats, domainauth.RoleJobseeker))
	mux.Handle("PUT /applications/{id}", g.wrap(h.Update, domainauth.RoleJobseeker))
	mux.Handle("DELETE /applications/{id}", g.wrap(h.Withdraw, domainauth.RoleJobseeker))
	mux.Handle("PUT /applications/{id}/status", g.wrap(h.UpdateStatus, domainauth.RoleEmployer))
}

func registerNotificationRoutes(mux *http.ServeMux, g guard, h *NotificationHandlers) {
	mux.Handle("GET /notifications", g.wrap(h.List))
	mux.Handle("GET /notifications/unread-count", g.wrap(h.UnreadCount))
	mux.Handle("PUT /notifications/read-all", g.wrap(h.MarkAllRead))
	mux.Handle("PUT /notifications/{id}/read", g.wrap(h.MarkRead))
	mux.Handle("DELETE /notifications/{id}", g.wrap(h.Delete))
}

func registerJobRoutes(mux *http.ServeMux, g guard, h *JobHandlers) {
	mux.Handle("GET /jobs/{jobId}", g.wrap(h.Get))
	mux.Handle("POST /jobs", g.wrap(h.Create, domainauth.RoleEmployer))
	mux.Handle("PUT /jobs/{jobId}", g.wrap(h.Update, domainauth.RoleEmployer))
	mux.Handle("PUT /jobs/{jobId}/status", g.wrap(h.SetStatus, domainauth.RoleEmployer))
	mux.Handle("DELETE /jobs/{jobId}", g.wrap(h.Delete, domainauth.RoleEmployer))
}

func registerBookmarkRoutes(mux *http.ServeMux, g guard, h *BookmarkHandlers) {
	mux.Handle("POST /jobs/{jobId}/bookmark", g.wrap(h.Save, domainauth.RoleJobseeker))
	mux.Handle("DELETE /jobs/{jobId}/bookmark", g.wrap(h.Remove, domainauth.RoleJobseeker))
	mux.Handle("GET /bookmarks", g.wrap(h.List, domainauth.RoleJobseeker))
}
