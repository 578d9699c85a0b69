package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/steelvault/project-dashboard/docs"
	"github.com/steelvault/project-dashboard/internal/api/handler"
	"github.com/steelvault/project-dashboard/internal/api/middleware"
	"github.com/steelvault/project-dashboard/internal/core/domain"
	"github.com/steelvault/project-dashboard/internal/core/gate"
	"github.com/steelvault/project-dashboard/internal/core/ports"
)

// Dependencies is everything the router needs. Registry and LoginLimiter are
// optional.
type Dependencies struct {
	Auth      ports.AuthService
	Dashboard ports.DashboardService
	Projects  ports.ProjectService
	Clients   ports.ClientService
	Team      ports.TeamService

	Gate           gate.Gate
	Metrics        ports.Metrics
	Registry       *prometheus.Registry
	LoginLimiter   *middleware.RateLimiter
	Checks         map[string]handler.Check
	OtherThreshold int
	Log            zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	if d.Metrics == nil {
		d.Metrics = ports.NopMetrics{}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	if d.Registry != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "dashboard",
			Registerer: d.Registry,
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Registry}))
	}
	e.Use(middleware.Session(d.Auth))

	// --- Health probes and docs (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewHealthDependenciesHandler(d.Checks).Readiness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth)
	requireAuth := middleware.RequireAuth(d.Gate, d.Metrics)

	var loginMW []echo.MiddlewareFunc
	if d.LoginLimiter != nil {
		loginMW = append(loginMW, d.LoginLimiter.Middleware())
	}
	e.POST("/auth/login", authHandler.Login, loginMW...)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/session", authHandler.Session, requireAuth)

	dashboardHandler := handler.NewDashboardHandler(d.Dashboard, d.OtherThreshold)
	projectHandler := handler.NewProjectHandler(d.Projects)
	clientHandler := handler.NewClientHandler(d.Clients)
	teamHandler := handler.NewTeamHandler(d.Team)

	// --- Signed-in users ---
	v1 := e.Group("/v1", requireAuth)

	dash := v1.Group("/dashboard")
	dash.GET("/overview", dashboardHandler.Overview)
	dash.GET("/status", dashboardHandler.Status)
	dash.GET("/clients", dashboardHandler.Clients)
	dash.GET("/team-leads", dashboardHandler.TeamLeads)
	dash.GET("/importance", dashboardHandler.Importance)
	dash.GET("/workload", dashboardHandler.Workload)

	v1.GET("/projects", projectHandler.List)
	v1.GET("/projects/:id", projectHandler.Get)
	v1.GET("/clients", clientHandler.List)
	v1.GET("/clients/:id", clientHandler.Get)
	v1.GET("/team-leads", teamHandler.TeamLeads)

	// --- Admin ---
	admin := v1.Group("/admin", middleware.RequireRole(d.Gate, d.Metrics, domain.RoleAdmin))

	admin.POST("/projects", projectHandler.Create)
	admin.PUT("/projects/:id", projectHandler.Update)
	admin.DELETE("/projects/:id", projectHandler.Delete)
	admin.PUT("/projects/:id/team-lead", projectHandler.AssignTeamLead)
	admin.POST("/projects/:id/rfis", projectHandler.AddRFI)
	admin.POST("/projects/:id/packages", projectHandler.AddPackage)

	admin.POST("/clients", clientHandler.Create)
	admin.PUT("/clients/:id", clientHandler.Update)
	admin.DELETE("/clients/:id", clientHandler.Delete)

	admin.POST("/team-leads", teamHandler.CreateTeamLead)
	admin.GET("/client-pms", teamHandler.ClientPMs)
	admin.POST("/client-pms", teamHandler.CreateClientPM)
	admin.DELETE("/users/:id", teamHandler.DeleteUser)

	admin.GET("/upcoming-packages", dashboardHandler.Upcoming)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
