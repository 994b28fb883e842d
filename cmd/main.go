package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/bughunt-2025.net/internal/adapter/crypto"
	"gitlab.com/bughunt-2025.net/internal/adapter/piston"
	"gitlab.com/bughunt-2025.net/internal/adapter/postgres/matcharchive"
	"gitlab.com/bughunt-2025.net/internal/adapter/questions"
	"gitlab.com/bughunt-2025.net/internal/adapter/redis/questioncache"
	"gitlab.com/bughunt-2025.net/internal/config"
	"gitlab.com/bughunt-2025.net/internal/core/ports/primary"
	"gitlab.com/bughunt-2025.net/internal/core/ports/secondary"
	executionsvc "gitlab.com/bughunt-2025.net/internal/core/services/execution"
	matchsvc "gitlab.com/bughunt-2025.net/internal/core/services/match"
	"gitlab.com/bughunt-2025.net/internal/core/services/scoring"
	logger2 "gitlab.com/bughunt-2025.net/internal/global/logger"
	http2 "gitlab.com/bughunt-2025.net/internal/http"
)

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	logger2.Info("Starting bug hunt match service")

	logger := logger2.Logger

	sysCfg := config.NewSystemConfig()

	// SECONDARY PORTS
	gateway := piston.NewGateway(sysCfg.PistonConfig, logger)
	questionStore := setupQuestionStore(sysCfg, logger)
	archive := setupArchive(sysCfg, logger)

	// services
	executionService := executionsvc.NewExecutionService(sysCfg.ExecutionCfg, gateway, logger)
	scoringService := scoring.NewScoringService(executionService, sysCfg.MatchCfg, logger)
	matchService := matchsvc.NewMatchService(scoringService, questionStore, archive, sysCfg.MatchCfg, logger)

	var jwtProvider primary.JWTService
	if sysCfg.JwtConfig.Secret != "" {
		jwtProvider = crypto.NewJWTService(sysCfg.JwtConfig)
	}

	serviceProvider := http2.NewServiceProvider(executionService, matchService, jwtProvider)

	//server
	httServer := http2.NewServer(sysCfg.HTTPPort, "bugHuntArena", *serviceProvider, logger)
	if err := httServer.Init(); err != nil {
		panic(err)
	}

	ctxBg := context.Background()
	executionService.Start(ctxBg)
	httServer.Start(ctxBg)

	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(ctxBg, 5*time.Second)
	defer cancel()
	httServer.Stop(ctx)
	if err := executionService.Stop(); err != nil {
		logger.Error("Failed to stop execution queue", "error", err)
	}

	logger.Info("successfully shutdown server")
}

// setupQuestionStore loads the JSON question store, wrapped in a Redis
// cache when Redis is reachable
func setupQuestionStore(sysCfg *config.AppConfig, logger primary.Logger) secondary.QuestionStore {
	store := questions.NewJSONStore(sysCfg.QuestionConfig.JSONPath, logger)
	if err := store.Preload(); err != nil {
		logger.Error("Failed to preload questions", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sysCfg.RedisConfig.Url,
		Password: sysCfg.RedisConfig.Password,
		DB:       sysCfg.RedisConfig.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Warn("Redis unavailable, question caching disabled", "error", err)
		return store
	}

	return questioncache.NewCachedStore(store, redisClient, sysCfg.QuestionConfig.CacheTTL, logger)
}

// setupArchive connects the completed-match archive; archiving is
// best-effort, so a missing database only disables it
func setupArchive(sysCfg *config.AppConfig, logger primary.Logger) secondary.MatchArchive {
	db, err := sqlx.Open("postgres", sysCfg.PostgresConfig.Url)
	if err != nil {
		logger.Warn("Postgres unavailable, match archiving disabled", "error", err)
		return nil
	}
	if err := db.Ping(); err != nil {
		logger.Warn("Postgres unavailable, match archiving disabled", "error", err)
		return nil
	}

	return matcharchive.NewMatchArchive(db, logger, "public")
}

func InitReader() {
	environment := ""
	if len(os.Args) < 2 {
		log.Fatalf("Env not supplied in argument")
	} else {
		environment = os.Args[1]
	}

	err := godotenv.Load(environment + ".env")
	if err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
