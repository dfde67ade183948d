package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"termwatch/internal/client/fivech"
	"termwatch/internal/config"
	"termwatch/internal/crawler"
	cronrunner "termwatch/internal/cron"
	"termwatch/internal/db"
	"termwatch/internal/dict"
	"termwatch/internal/handler"
	"termwatch/internal/logger"
	gormrepository "termwatch/internal/repository/gorm"
	"termwatch/internal/service"
	"termwatch/internal/tokenizer"

	_ "termwatch/docs"
)

func main() {
	cfgPath := os.Getenv("TW_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("TW_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		logger.Warn("timezone load failed, falling back to UTC", zap.Error(err))
		loc = time.UTC
	}

	boardHTTP := &http.Client{Timeout: cfg.Crawler.Timeout}
	boardClient := fivech.NewClient(boardHTTP, cfg.Crawler)

	tok, err := tokenizer.New(cfg.Tokenizer.UserDict)
	if err != nil {
		// The user dict may not exist until the first dict update has run.
		logger.Warn("user dict unavailable, using base dictionary only", zap.Error(err))
		tok, err = tokenizer.New("")
	}
	if err != nil {
		logger.Fatal("tokenizer init failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	harvester := &crawler.Crawler{
		Client:   boardClient,
		Logger:   logger,
		MaxPosts: cfg.Crawler.MaxPosts,
	}
	dailySvc := &service.DailyHarvestService{
		Repo:        store,
		Crawler:     harvester,
		Tokenizer:   tok,
		Logger:      logger,
		BoardKey:    cfg.Crawler.BoardKey,
		BaseURL:     cfg.Crawler.BaseURL,
		BoardPath:   cfg.Crawler.BoardPath,
		CodeVersion: cfg.App.CodeVersion,
		Location:    loc,
	}
	weeklySvc := &service.WeeklyTrendService{
		Repo:     store,
		Logger:   logger,
		BoardKey: cfg.Crawler.BoardKey,
		Alpha:    cfg.Analysis.Alpha,
		Location: loc,
	}
	dictUpdater := &dict.Updater{
		Repo:       cfg.Dict.Repo,
		InstallDir: cfg.Dict.InstallDir,
		AssetName:  cfg.Dict.AssetName,
		HTTPClient: &http.Client{Timeout: cfg.Dict.Timeout},
		Logger:     logger,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	termHandler := &handler.TermHandler{Repo: store}
	termHandler.Register(engine)
	trendHandler := &handler.TrendHandler{Repo: store}
	trendHandler.Register(engine)
	regressionHandler := &handler.RegressionHandler{Repo: store}
	regressionHandler.Register(engine)
	runHandler := &handler.RunHandler{Repo: store}
	runHandler.Register(engine)
	metricsHandler := &handler.MetricsHandler{Repo: store}
	metricsHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx, loc)
	if cfg.Cron.Enabled {
		_, err = cronRunner.Add(cfg.Cron.Daily, func(ctx context.Context) {
			if err := dailySvc.RunOnce(ctx); err != nil {
				logger.Warn("cron daily harvest failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register daily harvest failed", zap.Error(err))
		}

		_, err = cronRunner.Add(cfg.Cron.Weekly, func(ctx context.Context) {
			if err := weeklySvc.RunOnce(ctx); err != nil {
				logger.Warn("cron weekly trends failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register weekly trends failed", zap.Error(err))
		}

		_, err = cronRunner.Add(cfg.Cron.DictUpdate, func(ctx context.Context) {
			if _, err := dictUpdater.Update(ctx, false); err != nil {
				logger.Warn("cron dict update failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register dict update failed", zap.Error(err))
		}

		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
