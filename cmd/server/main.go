package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/moxuz/gemchat/config"
	"github.com/moxuz/gemchat/handlers"
	"github.com/moxuz/gemchat/internal/conversation"
	"github.com/moxuz/gemchat/internal/logging"
	"github.com/moxuz/gemchat/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: failed to load: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("logging: failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()

	ctx := context.Background()

	gemini, err := services.NewGeminiService(ctx, cfg, sugar)
	if err != nil {
		log.Fatalf("gemini: failed to initialise client: %v", err)
	}

	if err := os.MkdirAll(cfg.Gemini.OutputDir, 0o755); err != nil {
		log.Fatalf("output: failed to create directory %q: %v", cfg.Gemini.OutputDir, err)
	}

	store := conversation.NewStore(gemini, cfg.Gemini, sugar)

	router := setupRouter(store, cfg, sugar)

	server := &http.Server{
		Addr:        cfg.ServerAddr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Image generation can take well over a minute on the model side.
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infof("server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("server crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Warnf("graceful shutdown failed: %v", err)
	}

	sugar.Info("server stopped cleanly")
}

func setupRouter(store *conversation.Store, cfg *config.Config, logger *zap.SugaredLogger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	handlers.NewChatHandler(store, cfg.Gemini.OutputDir, logger).RegisterRoutes(router)

	return router
}
