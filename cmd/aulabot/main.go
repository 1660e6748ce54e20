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
	"go.uber.org/zap"

	"github.com/calarcon/aulabot/internal/ai"
	"github.com/calarcon/aulabot/internal/config"
	"github.com/calarcon/aulabot/internal/filestore"
	"github.com/calarcon/aulabot/internal/handler"
	"github.com/calarcon/aulabot/internal/middleware"
	"github.com/calarcon/aulabot/internal/pkg/logutil"
	"github.com/calarcon/aulabot/internal/repo"
	"github.com/calarcon/aulabot/internal/service"
	"github.com/calarcon/aulabot/internal/session"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "aulabot",
		Short: "aulabot course assistant server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run aulabot server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logutil.Init(cfg.LogConfig)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			db, err := repo.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := repo.ApplyMigrations(db, cfg.MigrationsDir); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, db)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, db *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("db_path", cfg.DBPath),
		zap.String("file_store", cfg.FileStore.Type),
		zap.String("ai_provider", cfg.AI.Provider),
	)

	courseRepo := repo.NewCourseRepo(db)

	providerArgs := cfg.AI.Data
	if providerArgs == nil {
		providerArgs = cfg.AI
	}
	aiProvider, err := ai.NewProvider(cfg.AI.Provider, providerArgs)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	generator := ai.NewGenerator(aiProvider, cfg.AI.Model)
	embedder := ai.NewEmbedder(aiProvider, cfg.AI.EmbedModel)
	assistant := ai.NewAssistant(generator, time.Duration(cfg.AI.Timeout)*time.Second)

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	sessions := session.NewStore()
	gate := service.NewGate(generator)
	assembler := service.NewAssembler(courseRepo, store, embedder)
	queryService := service.NewQueryService(assembler, assistant)
	conversation := service.NewConversation(sessions, courseRepo, assistant, gate, queryService)

	deps := handler.RouterDeps{
		Chat:        handler.NewChatHandler(conversation),
		Courses:     handler.NewCourseHandler(courseRepo),
		AdminAPIKey: cfg.AdminAPIKey,
		ChatWindow:  time.Duration(cfg.ChatWindowSecs) * time.Second,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.CORS(cfg.CORSAllowlist),
		gzip.Gzip(gzip.DefaultCompression),
	)
	handler.RegisterRoutes(engine.Group("/api/v1"), deps)

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
