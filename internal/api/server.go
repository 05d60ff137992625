package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/wiwebitazubi1/BerichtheftApp/internal/api/auth"
	"github.com/wiwebitazubi1/BerichtheftApp/internal/api/middleware"
	"github.com/wiwebitazubi1/BerichtheftApp/internal/config"
	"github.com/wiwebitazubi1/BerichtheftApp/internal/model"
	"github.com/wiwebitazubi1/BerichtheftApp/internal/pkg/metrics"
	"github.com/wiwebitazubi1/BerichtheftApp/internal/pkg/notify"
	"github.com/wiwebitazubi1/BerichtheftApp/internal/pkg/ratelimit"
)

// Server wires the dependencies of the API: database, redis, auth handler,
// report store, notifier and the gin router.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *gorm.DB
	rdb      *redis.Client
	router   *gin.Engine
	auth     *auth.Handler
	store    ReportStore
	notifier notify.Notifier
}

// NewServer initializes the API server.
//
// It connects to MySQL, runs the schema migration, connects to redis and
// builds the route table. The store handle lives for the process lifetime
// and is passed into everything that needs it; there is no package-level
// database state.
func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.User{}, &model.Report{}, &model.Comment{}); err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	metrics.InitMetrics()

	limiter := ratelimit.NewLoginLimiter(rdb, cfg.App.LoginRateLimit, cfg.App.LoginRateBurst)
	notifier := notify.NewEmailNotifier(&cfg.Email, logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		rdb:      rdb,
		router:   r,
		auth:     auth.NewHandler(db, cfg.Security.AuthSecret, limiter, logger, cfg.Production()),
		store:    NewReportStore(db),
		notifier: notifier,
	}
	s.registerRoutes()
	return s, nil
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close shuts down the database and redis connections.
func (s *Server) Close() error {
	var firstErr error
	if s.rdb != nil {
		if err := s.rdb.Close(); err != nil {
			firstErr = err
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
		} else if closeErr := sqlDB.Close(); closeErr != nil && firstErr == nil {
			firstErr = closeErr
		}
	}
	return firstErr
}

// registerRoutes registers all API routes.
func (s *Server) registerRoutes() {
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/healthz", s.handleHealthz)

	s.router.POST("/auth/register", s.auth.Register)
	s.router.POST("/auth/login", s.auth.Login)

	authed := s.router.Group("/")
	authed.Use(middleware.AuthMiddleware(s.cfg.Security.AuthSecret))
	authed.GET("/auth/me", s.auth.Me)
	authed.POST("/auth/logout", s.auth.Logout)

	authed.GET("/calendar", s.handleCalendar)

	authed.POST("/reports", s.handleCreateReport)
	authed.GET("/reports", s.handleListReports)
	authed.GET("/reports/:id", s.handleGetReport)
	authed.PUT("/reports/:id", s.handleUpdateReport)
	authed.POST("/reports/:id/submit", s.handleSubmitReport)
	authed.POST("/reports/:id/approve", s.handleApproveReport)
	authed.POST("/reports/:id/request-changes", s.handleRequestChanges)
	authed.GET("/reports/:id/comments", s.handleListComments)
	authed.POST("/reports/:id/comments", s.handleAddComment)
}

func (s *Server) handleHealthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.db == nil || s.rdb == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}

	var one int
	if err := s.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
