package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	intcache "offsetsdb/internal/cache"
	intconfig "offsetsdb/internal/config"
	router "offsetsdb/internal/http"
	"offsetsdb/internal/http/handlers"
	"offsetsdb/internal/ingest"
	"offsetsdb/internal/query"
	"offsetsdb/internal/repositories"
	"offsetsdb/internal/services"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db := intconfig.ConnectDB(env.Database)
	defer intconfig.CloseDB()

	var store intcache.Store
	if env.RedisAddr != "" {
		store = intcache.NewRedisStore(env.RedisAddr)
	}

	aliases := query.NewStaticAliases()
	fileRepo := repositories.FileRepo{DB: db}
	ingestor := ingest.Ingestor{DB: db, Files: fileRepo, Cache: store}

	api := handlers.API{
		Projects: services.ProjectService{Repo: repositories.ProjectRepo{DB: db}, Aliases: aliases},
		Credits:  services.CreditService{Repo: repositories.CreditRepo{DB: db}, Aliases: aliases},
		Clips:    services.ClipService{Repo: repositories.ClipRepo{DB: db}},
		Files:    services.FileService{Repo: fileRepo, Ingestor: ingestor},
		Charts:   services.ChartService{Repo: repositories.ChartRepo{DB: db}, Aliases: aliases},
	}
	health := handlers.Health{Files: fileRepo, Staging: env.Staging}

	r := router.NewRouter(env, api, health, store)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly.")
}
