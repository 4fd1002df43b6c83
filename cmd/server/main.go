package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"research-orchestrator/api/rest/handlers"
	"research-orchestrator/api/rest/routes"
	"research-orchestrator/config"
	"research-orchestrator/core/events"
	"research-orchestrator/core/generation"
	"research-orchestrator/core/jobstore"
	"research-orchestrator/core/repository"
	"research-orchestrator/core/retrieval"
	"research-orchestrator/core/supervisor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	// Persistence is optional: a missing or unreachable database degrades
	// lookups but never the pipeline.
	var persist supervisor.Persistence
	if cfg.DatabaseURL != "" {
		db, err := repository.NewDB(cfg.DatabaseURL)
		if err != nil {
			log.Warn("failed to initialize database, continuing without persistence", zap.Error(err))
		} else {
			defer db.Close()
			persist = repository.NewJobRepository(db)
			log.Info("database persistence enabled")
		}
	}

	store := jobstore.NewMemoryStore()
	hub := events.NewHub(log)
	gen := generation.NewHTTPClient(
		cfg.Generation.Endpoint,
		cfg.Generation.APIKey,
		cfg.Generation.Model,
		cfg.GenerationTimeout(),
	)
	retriever := retrieval.NewClient(
		cfg.Retrieval.Endpoint,
		cfg.Retrieval.APIKey,
		cfg.RetrievalTimeout(),
		log,
	)

	sup := supervisor.New(store, hub, persist, retriever, gen, supervisor.Options{
		BriefingConcurrency: cfg.Pipeline.BriefingConcurrency,
		CurationMinScore:    cfg.Pipeline.CurationMinScore,
		ConnectDelay:        cfg.ConnectDelay(),
	}, log)

	r := mux.NewRouter()
	routes.SetupRoutes(r,
		handlers.NewResearchHandler(sup, store, persist, log),
		handlers.NewWSHandler(hub, store, log),
	)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info("starting server", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := server.Shutdown(context.Background()); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}
