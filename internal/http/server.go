package http

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"temple/internal/core"
	applog "temple/internal/log"
	"temple/internal/middleware/trace"
	"temple/internal/report"
	"temple/internal/services"
)

// Authenticator checks login credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (core.Identity, error)
}

// ReceiptAPI is the receipt side of the service layer.
type ReceiptAPI interface {
	Create(ctx context.Context, in core.NewReceipt) (int64, error)
	List(ctx context.Context, f core.ReceiptFilter) ([]core.Receipt, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Reprint(ctx context.Context, id int64) ([]byte, error)
	Export(ctx context.Context, id int64) (string, error)
	Markup(ctx context.Context, id int64) ([]byte, error)
}

// CatalogAPI manages the pooja catalog.
type CatalogAPI interface {
	List(ctx context.Context) ([]core.Pooja, error)
	Add(ctx context.Context, name string, price core.Money) (int64, error)
	Edit(ctx context.Context, id int64, name string, price core.Money) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// BackupAPI writes backup reports.
type BackupAPI interface {
	Generate(ctx context.Context, rng core.DateRange) (services.BackupResult, error)
}

// StatsAPI computes dashboard figures.
type StatsAPI interface {
	Stats(ctx context.Context, rng core.DateRange) (report.Stats, error)
}

// Deps are the services the handlers call.
type Deps struct {
	Auth      Authenticator
	Tokens    *TokenIssuer
	Receipts  ReceiptAPI
	Catalog   CatalogAPI
	Backups   BackupAPI
	Dashboard StatsAPI
}

// Config holds the server's own settings.
type Config struct {
	Addr        string
	CORSOrigins []string
	// Location is where civil dates in requests are interpreted.
	Location *time.Location
	Now      func() time.Time
	Logger   *applog.Logger
}

type Server struct {
	http.Server
	deps   Deps
	loc    *time.Location
	now    func() time.Time
	logger *applog.Logger

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(cfg Config, deps Deps) *Server {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = applog.New(applog.Config{Handler: slog.Default().Handler()})
	}
	logger := cfg.Logger.WithComponent(applog.ComponentHTTP)

	s := &Server{
		deps:   deps,
		loc:    cfg.Location,
		now:    cfg.Now,
		logger: logger,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(trace.NewMiddleware(cfg.Logger).Handler())
	r.Use(applog.Middleware(logger, trace.GetRequestID))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	}

	s.routes(r)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/healthz", handleHealth)

	api := r.Group("/api")
	api.POST("/login", s.handleLogin)

	authed := api.Group("", requireAuth(s.deps.Tokens))
	authed.GET("/poojas", s.handleListPoojas)
	authed.GET("/receipts", s.handleListReceipts)
	authed.POST("/receipts", s.handleCreateReceipt)
	authed.POST("/receipts/:id/reprint", s.handleReprintReceipt)
	authed.POST("/receipts/:id/export", s.handleExportReceipt)
	authed.GET("/receipts/:id/print", s.handlePrintMarkup)
	authed.GET("/dashboard", s.handleDashboard)

	admin := authed.Group("", requireRole(core.RoleAdmin))
	admin.POST("/poojas", s.handleAddPooja)
	admin.PUT("/poojas/:id", s.handleEditPooja)
	admin.DELETE("/poojas/:id", s.handleDeletePooja)
	admin.DELETE("/receipts/:id", s.handleDeleteReceipt)
	admin.POST("/backups", s.handleGenerateBackup)
}

// corsConfig allows exactly the configured origins, or every origin when
// "*" is among them. Origins are matched by func so UI shells with custom
// schemes are accepted.
func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOriginFunc = func(origin string) bool {
			return slices.Contains(origins, origin)
		}
	}
	cfg.AddAllowHeaders("Authorization", trace.HeaderRequestID)
	cfg.AddExposeHeaders(trace.HeaderRequestID, "Content-Disposition")
	return cfg
}

// today is the server clock in the configured location.
func (s *Server) today() time.Time {
	return s.now().In(s.loc)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(c *gin.Context) {
	NewResult().With("status", "ok").Write(c)
}
