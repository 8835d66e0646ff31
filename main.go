package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"videoportalapi/bootstrap"
	"videoportalapi/config"
	"videoportalapi/controllers"
	_ "videoportalapi/docs"
	"videoportalapi/pkg/logger"
	"videoportalapi/repository"
	"videoportalapi/services/access"
	"videoportalapi/services/catalog"
	"videoportalapi/services/expiry"
	"videoportalapi/services/session"
	"videoportalapi/services/streamable"
	"videoportalapi/services/visibility"
	"videoportalapi/utils"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           videoportalapi
// @version         1.0
// @description     Access-code gated video portal API

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token from POST /api/session, as "Bearer <token>"

func main() {
	// 1) Load config
	if err := config.LoadConfig(); err != nil {
		log.Fatalf("LoadConfig error: %v", err)
	}

	// 2) Init structured logger with config
	if err := logger.Init(logger.Options{
		Path:       config.Cfg.LogFile,
		Level:      logger.ParseLogLevel(config.Cfg.LogLevel),
		MaxSizeMB:  config.Cfg.LogMaxSize,
		MaxBackups: config.Cfg.LogMaxBackups,
		MaxAgeDays: config.Cfg.LogMaxAge,
		Compress:   config.Cfg.LogCompress,
	}); err != nil {
		log.Fatalf("Logger init error: %v", err)
	}
	logger.Infof("Starting video portal API with log level: %s", config.Cfg.LogLevel)

	sweepMode, err := expiry.ParseMode(config.Cfg.ExpirySweepMode)
	if err != nil {
		logger.Fatalf("Invalid EXPIRY_SWEEP_MODE: %v", err)
	}

	// 3) Connect DB (GORM), migrate and seed
	if err := config.ConnectDB(); err != nil {
		logger.Fatalf("ConnectDB error: %v", err)
	}
	if config.DB == nil {
		logger.Fatalf("Database is nil after ConnectDB")
	}
	if config.Cfg.DBAutoMigrate {
		if err := bootstrap.Migrate(config.DB); err != nil {
			logger.Fatalf("Migrate error: %v", err)
		}
	}
	if err := bootstrap.SeedMainAdmin(context.Background(), repository.NewAccessCodeRepository(), config.Cfg.SeedMainAdminCode); err != nil {
		logger.Fatalf("Seed error: %v", err)
	}

	// 4) Wire services
	policy := visibility.Policy{AdminBypassExpiry: config.Cfg.AdminBypassExpiry}
	broker := catalog.NewBroker()

	controllers.SetSessionServices(access.NewResolver(), session.NewRegistry())
	if config.Cfg.LoginRateLimit > 0 {
		controllers.SetLoginRateLimiter(utils.NewLoginRateLimiter(config.Cfg.LoginRateLimit, config.Cfg.LoginRateBurst))
	}
	controllers.SetVideoServices(
		catalog.NewVideoService(streamable.NewClientFromConfig(), broker, policy),
		catalog.NewFeedbackService(policy),
		broker,
	)
	controllers.SetGroupService(catalog.NewGroupService(broker))
	controllers.SetClientService(catalog.NewClientService())
	controllers.SetAccessCodeService(catalog.NewAccessCodeService())
	controllers.SetHealthCheck(func(ctx context.Context) error {
		sqlDB, err := config.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})

	sweeper := expiry.NewSweeper(sweepMode, config.Cfg.ExpirySweepInterval, broker)
	sweeper.Start()

	// 5) Setup Gin
	gin.SetMode(config.Cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), utils.LoggerMiddleware())

	controllers.RegisterHealthRoutes(router)
	api := router.Group("/api")
	{
		controllers.RegisterSessionRoutes(api)
		controllers.RegisterVideoRoutes(api)
		controllers.RegisterGroupRoutes(api)
		controllers.RegisterClientRoutes(api)
		controllers.RegisterAccessCodeRoutes(api)
	}

	// 6) Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 7) Run until SIGINT/SIGTERM
	// Cancelling the base context on shutdown ends open event streams.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:              "0.0.0.0:" + config.Cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(cancelBase)
	go func() {
		logger.Infof("Starting server at port %s", config.Cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Infof("Received shutdown signal, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown error: %v", err)
	}
	sweeper.Stop()
	config.CloseDB()

	logger.Infof("Application shutdown complete")
}
