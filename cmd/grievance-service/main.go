package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"grievance-service/internal/ai"
	"grievance-service/internal/auth"
	"grievance-service/internal/cache"
	"grievance-service/internal/config"
	"grievance-service/internal/db"
	httphandler "grievance-service/internal/http"
	"grievance-service/internal/http/middleware"
	"grievance-service/internal/logger"
	"grievance-service/internal/notify"
	"grievance-service/internal/repository"
	"grievance-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	grievanceRepo := repository.NewGrievanceRepository(database)
	historyRepo := repository.NewHistoryRepository(database)
	statsRepo := repository.NewStatsRepository(database)

	aiClient := ai.NewClient(cfg.AI, log)
	dispatcher := notify.NewDispatcher(cfg.WhatsApp, log)
	statsCache := cache.NewStatsCache(cfg.Redis, log)

	grievanceService := service.NewGrievanceService(grievanceRepo, historyRepo, aiClient, log)
	workflowService := service.NewWorkflowService(
		grievanceRepo,
		aiClient,
		dispatcher,
		service.PolicyForEnvironment(cfg.Workflow.Strict),
		cfg.WhatsApp.Timeout,
		log,
	)
	statsService := service.NewStatsService(statsRepo, statsCache, log)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(grievanceService, workflowService, statsService, log)
	healthCheck := func(c *gin.Context) error {
		return db.HealthCheck(c.Request.Context(), database)
	}
	router := httphandler.NewRouter(handler, middleware.Auth(tokenParser), healthCheck, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting grievance service")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
