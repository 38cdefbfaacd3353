package server

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"creditreport-backend/internal/audit"
	"creditreport-backend/internal/reports"
	"creditreport-backend/internal/shared/config"
	"creditreport-backend/internal/shared/metrics"
	"creditreport-backend/internal/shared/server/middleware"
	"creditreport-backend/internal/shared/server/respond"
	"creditreport-backend/internal/shared/storage/db"
	"creditreport-backend/internal/shared/telemetry"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(cfg.Env),
	)

	// Dependencies
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			telemetry.Warn("db.connect_failed_memory_fallback", map[string]any{"error": err.Error()})
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				telemetry.Warn("db.migrate_failed_memory_fallback", map[string]any{"error": err.Error()})
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var reportRepo reports.Repo
	var auditLogger audit.Logger
	if sqlDB != nil {
		reportRepo = &reports.PGRepo{DB: sqlDB}
		auditLogger = &audit.PGLogger{DB: sqlDB}
	} else {
		reportRepo = reports.NewMemoryRepo()
		auditLogger = audit.NewMemoryLogger()
	}
	reportSvc := &reports.Service{Repo: reportRepo, Audit: auditLogger}
	reportHandler := reports.NewHandler(reportSvc)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	reportHandler.RegisterRoutes(api)

	r.GET("/metrics", metrics.Handler())

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
