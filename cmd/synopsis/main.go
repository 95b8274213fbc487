package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/synopsis/internal/ai"
	"github.com/xxxsen/synopsis/internal/config"
	"github.com/xxxsen/synopsis/internal/db"
	"github.com/xxxsen/synopsis/internal/filestore"
	"github.com/xxxsen/synopsis/internal/handler"
	"github.com/xxxsen/synopsis/internal/job"
	"github.com/xxxsen/synopsis/internal/middleware"
	"github.com/xxxsen/synopsis/internal/pdftext"
	"github.com/xxxsen/synopsis/internal/repo"
	"github.com/xxxsen/synopsis/internal/schedule"
	"github.com/xxxsen/synopsis/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "synopsis",
		Short: "synopsis pdf summarization server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run synopsis server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			conn, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(conn); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, conn)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("file_store", cfg.FileStore.Type),
		zap.String("ai_provider", cfg.AI.Provider),
	)

	userRepo := repo.NewUserRepo(conn)
	planRepo := repo.NewPlanRepo(conn)
	summaryRepo := repo.NewSummaryRepo(conn)

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}
	provider, err := ai.NewProvider(cfg.AI.Provider, cfg.AI.Data)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	client := ai.NewClient(provider, ai.ClientConfig{
		Model:          cfg.AI.Model,
		Timeout:        time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
		InsightTimeout: time.Duration(cfg.AI.InsightTimeoutSeconds) * time.Second,
	})

	quotaService := service.NewQuotaService(userRepo, planRepo)
	summarizeService := service.NewSummarizeService(
		userRepo, summaryRepo, quotaService, store,
		pdftext.PDFExtractor{}, client,
		cfg.AI.MaxInputChars, cfg.Quota.InsightMinTier,
	)
	summaryService := service.NewSummaryService(summaryRepo, quotaService)
	planService := service.NewPlanService(planRepo)

	deps := handler.RouterDeps{
		Summarize:       handler.NewSummarizeHandler(summarizeService),
		Summaries:       handler.NewSummaryHandler(summaryService, userRepo),
		Plans:           handler.NewPlanHandler(planService),
		JWTSecret:       []byte(cfg.JWTSecret),
		SummarizeWindow: time.Duration(cfg.RateLimitSeconds) * time.Second,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if cfg.Retention.Days > 0 {
		retention := job.NewRetentionJob(summaryRepo, store, time.Duration(cfg.Retention.Days)*24*time.Hour)
		if err := scheduler.AddJob(retention, cfg.Retention.CronSpec); err != nil {
			return err
		}
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
