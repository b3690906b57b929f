package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inamate/stage/internal/auth"
	"github.com/inamate/stage/internal/config"
	"github.com/inamate/stage/internal/dom/htmldom"
	"github.com/inamate/stage/internal/engine"
	"github.com/inamate/stage/internal/inspect"
	mw "github.com/inamate/stage/internal/middleware"
	"github.com/inamate/stage/internal/stage"
	"github.com/inamate/stage/internal/vdom"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	vdom.SetLogger(logger.With("component", "vdom"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Headless stage rendered into an in-memory body
	scene, camera := engine.NewSampleScene()
	eng := engine.NewEngine(scene, camera,
		engine.WithViewport(cfg.ViewportWidth, cfg.ViewportHeight),
		engine.WithLogger(logger.With("component", "engine")),
	)
	doc := htmldom.NewDocument()
	if err := eng.Mount(doc, doc.CreateElement("body")); err != nil {
		slog.Error("mount stage", "error", err)
		os.Exit(1)
	}

	hub := inspect.NewHub(eng)
	go hub.Run(ctx)
	go stage.Loop(ctx, eng, cfg.FrameInterval(), hub.PublishFrame)

	if cfg.OperatorPasswordHash == "" {
		slog.Warn("OPERATOR_PASSWORD_HASH not set, scene control is disabled")
	}
	authService := auth.NewService(cfg.JWTSecret, cfg.OperatorPasswordHash, cfg.TokenTTL)
	authHandler := auth.NewHandler(authService)
	stageHandler := stage.NewHandler(eng)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.AllowedOrigins))

	// Preflight for every route; CORS answers it
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	stageHandler.Register(r, authService.AuthMiddleware)

	// Frame inspector
	r.HandleFunc("/ws/inspect", inspect.Handler(hub, cfg.AllowedOrigins))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop the frame loop and disconnect inspectors first
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "fps", cfg.FPS)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
