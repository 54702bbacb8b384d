package main

import (
	"context"
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
	"go.uber.org/zap"

	"github.com/karwash91/my-chatbot/internal/ai"
	"github.com/karwash91/my-chatbot/internal/config"
	"github.com/karwash91/my-chatbot/internal/embedcache"
	"github.com/karwash91/my-chatbot/internal/filestore"
	"github.com/karwash91/my-chatbot/internal/handler"
	"github.com/karwash91/my-chatbot/internal/middleware"
	"github.com/karwash91/my-chatbot/internal/queue"
	"github.com/karwash91/my-chatbot/internal/service"
	"github.com/karwash91/my-chatbot/internal/store"
	"github.com/karwash91/my-chatbot/internal/worker"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "chatbot",
		Short: "document chatbot backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run api server and ingest worker",
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
			return run(cfg)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func run(cfg *config.Config) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("file_store", cfg.FileStore.Type),
		zap.String("store", cfg.Store.Type),
		zap.String("queue", cfg.Queue.Type),
		zap.String("ai_provider", cfg.AI.Provider),
	)

	files, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}
	chunkStore, err := store.New(cfg.Store)
	if err != nil {
		return fmt.Errorf("init chunk store: %w", err)
	}
	ingestQueue, err := queue.New(cfg.Queue)
	if err != nil {
		return fmt.Errorf("init queue: %w", err)
	}
	providerArgs := cfg.AI.Data
	if providerArgs == nil {
		providerArgs = map[string]interface{}{}
	}
	aiProvider, err := ai.NewProvider(cfg.AI.Provider, providerArgs)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	embedder := ai.NewEmbedder(aiProvider, cfg.AI.EmbedModel)
	if cfg.AI.EmbedCacheSize > 0 && cfg.AI.EmbedCacheTTL > 0 {
		embedder = embedcache.WrapLruCacheToEmbedder(
			embedder,
			cfg.AI.EmbedCacheSize,
			time.Duration(cfg.AI.EmbedCacheTTL)*time.Minute,
		)
	}
	generator := ai.NewGenerator(aiProvider, cfg.AI.GenerateModel)

	uploadService := service.NewUploadService(files, ingestQueue)
	ingestService := service.NewIngestService(files, embedder, chunkStore, cfg.Retrieval.ChunkSize)
	queryService := service.NewQueryService(embedder, generator, chunkStore, service.QueryConfig{
		TopK:             cfg.Retrieval.TopK,
		MinScore:         cfg.Retrieval.MinSimilarity,
		MaxAnswerTokens:  cfg.AI.MaxAnswerTokens,
		GuardrailEnabled: cfg.Guardrail.Enabled,
		GuardrailID:      cfg.Guardrail.ID,
		GuardrailVersion: cfg.Guardrail.Version,
	})

	deps := handler.RouterDeps{
		Upload: handler.NewUploadHandler(uploadService),
		Query:  handler.NewQueryHandler(queryService),
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.CORS(cfg.CORSOrigins),
		gzip.Gzip(gzip.DefaultCompression),
	)
	handler.RegisterRoutes(engine.Group("/api/v1"), deps)

	srv := &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ingestWorker := worker.New(ingestQueue, ingestService, worker.Config{
		BatchSize: cfg.Worker.BatchSize,
		Wait:      time.Duration(cfg.Worker.WaitSeconds) * time.Second,
	})
	go ingestWorker.Run(ctx)

	go func() {
		logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
