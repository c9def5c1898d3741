package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/elitehr/elite-time/internal/absence"
	"github.com/elitehr/elite-time/internal/activity"
	"github.com/elitehr/elite-time/internal/auth"
	"github.com/elitehr/elite-time/internal/authz"
	"github.com/elitehr/elite-time/internal/department"
	"github.com/elitehr/elite-time/internal/ldap"
	"github.com/elitehr/elite-time/internal/permission"
	"github.com/elitehr/elite-time/internal/pointage"
	"github.com/elitehr/elite-time/internal/position"
	"github.com/elitehr/elite-time/internal/report"
	"github.com/elitehr/elite-time/internal/settings"
	"github.com/elitehr/elite-time/internal/transport/middleware"
	"github.com/elitehr/elite-time/internal/transport/ratelimit"
	"github.com/elitehr/elite-time/internal/transport/swagger"
	"github.com/elitehr/elite-time/internal/user"
)

// Handlers bundles every HTTP handler the router mounts. Nil members
// are skipped so partial wiring (tests, tools) still routes.
type Handlers struct {
	Auth       *auth.Handler
	Authz      *authz.Handler
	User       *user.Handler
	Permission *permission.Handler
	Department *department.Handler
	Position   *position.Handler
	Absence    *absence.Handler
	Pointage   *pointage.Handler
	Settings   *settings.Handler
	Activity   *activity.Handler
	Ldap       *ldap.Handler
	Report     *report.Handler
}

type RouterConfig struct {
	AllowedOrigins string
	Production     bool
}

func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	h Handlers,
	limiter *ratelimit.Limiter,
	socketHandler http.Handler,
	hubStats RealtimeStats,
	cfg RouterConfig,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db, hubStats)

	router.Use(middleware.RequestID)
	router.Use(middleware.SecurityHeaders(cfg.Production))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	if limiter != nil {
		router.Use(limiter.Middleware)
	}

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	if socketHandler != nil {
		router.Handle("/realtime/*", socketHandler)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth == nil {
			return
		}

		r.Post("/login", h.Auth.Login)

		// Session-aware but tolerant of anonymous callers.
		r.Group(func(sr chi.Router) {
			sr.Use(h.Auth.OptionalSession)
			sr.Get("/me", h.Auth.Me)
			sr.Post("/logout", h.Auth.Logout)
		})

		if h.Report != nil {
			// Download authenticates with the signed token instead of
			// a session.
			r.Get("/reports/download", h.Report.Download)
		}

		// Everything below requires a live session.
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.SessionMiddleware)
			pr.Use(auth.RequireAuthenticated)

			pr.Get("/user/permissions", h.Auth.GetUserPermissions)

			if h.Authz != nil {
				pr.Get("/pages", h.Authz.ListPages)
				pr.Get("/pages/{code}/access", h.Authz.CheckAccess)
			}

			if h.Pointage != nil {
				pr.Route("/pointages", func(tr chi.Router) {
					tr.Get("/", h.Pointage.List)
					tr.Post("/clock-in", h.Pointage.ClockIn)
					tr.Post("/clock-out", h.Pointage.ClockOut)
				})
				pr.Route("/breaks", func(br chi.Router) {
					br.Get("/", h.Pointage.ListBreaks)
					br.Post("/start", h.Pointage.StartBreak)
					br.Post("/end", h.Pointage.EndBreak)
				})
			}

			if h.Absence != nil {
				pr.Route("/absences", func(ar chi.Router) {
					ar.Get("/", h.Absence.List)
					ar.Post("/", h.Absence.Create)
					ar.Get("/{id}", h.Absence.Get)
					ar.Patch("/{id}/approve", h.Absence.Approve)
					ar.Patch("/{id}/reject", h.Absence.Reject)
				})
			}

			if h.Department != nil {
				pr.Route("/departments", func(dr chi.Router) {
					dr.Get("/", h.Department.List)
					dr.Get("/{id}", h.Department.Get)
					dr.Group(func(mr chi.Router) {
						mr.Use(auth.RequirePermission(permission.PermManageDepartments))
						mr.Post("/", h.Department.Create)
						mr.Patch("/{id}", h.Department.Update)
						mr.Post("/{id}/rename", h.Department.Rename)
						mr.Delete("/{id}", h.Department.Delete)
					})
				})
			}

			if h.Position != nil {
				pr.Route("/positions", func(psr chi.Router) {
					psr.Get("/", h.Position.List)
					psr.Get("/{id}", h.Position.Get)
					psr.Group(func(mr chi.Router) {
						mr.Use(auth.RequirePermission(permission.PermManagePositions))
						mr.Post("/", h.Position.Create)
						mr.Patch("/{id}", h.Position.Update)
						mr.Delete("/{id}", h.Position.Delete)
					})
				})
			}

			if h.Report != nil {
				pr.Post("/reports/export", h.Report.Export)
			}

			if h.Settings != nil {
				pr.Get("/settings", h.Settings.Get)
			}

			if h.Activity != nil {
				pr.Group(func(ar chi.Router) {
					ar.Use(auth.RequirePermission(permission.PermViewActivityLogs))
					ar.Get("/activity", h.Activity.List)
				})
			}

			// Admin surface.
			pr.Route("/admin", func(ar chi.Router) {
				if h.User != nil {
					ar.Group(func(ur chi.Router) {
						ur.Use(auth.RequirePermission(permission.PermManageUsers))
						ur.Get("/users", h.User.List)
						ur.Post("/users", h.User.Create)
						ur.Get("/users/{userId}", h.User.Get)
						ur.Patch("/users/{userId}", h.User.Update)
						ur.Delete("/users/{userId}", h.User.Delete)
					})
				}

				if h.Permission != nil {
					ar.Group(func(pmr chi.Router) {
						pmr.Use(auth.RequirePermission(permission.PermManagePermissions))
						pmr.Get("/permissions", h.Permission.ListAll)
						pmr.Post("/permissions/grant-all", h.Permission.GrantAll)
						pmr.Get("/users/{userId}/permissions", h.Permission.ListForUser)
						pmr.Post("/users/{userId}/permissions/grant", h.Permission.Grant)
						pmr.Delete("/users/{userId}/permissions/{permissionId}", h.Permission.Revoke)
						pmr.Post("/users/{userId}/permissions/reset", h.Permission.Reset)
					})
				}

				if h.Settings != nil {
					ar.Group(func(sr chi.Router) {
						sr.Use(auth.RequirePermission(permission.PermManageSettings))
						sr.Patch("/settings", h.Settings.Update)
					})
				}

				if h.Ldap != nil {
					ar.Group(func(lr chi.Router) {
						lr.Use(auth.RequirePermission(permission.PermRunLdapSync))
						lr.Post("/ldap/sync", h.Ldap.Sync)
					})
				}
			})
		})
	})
}
