// Command routerapi runs the optional HTTP front end over the same
// construct/ALNS/report pipeline cmd/router drives from the command
// line: a synchronous /solve endpoint for small inputs, plus a
// Redis-backed job queue and worker pool for larger ones.
//
// Configuration is read from the environment (graceful shutdown and
// env-var wiring follow cmd/server/main.go's pattern), trimmed to what
// this much smaller surface needs.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/shuttlefleet/routeopt/internal/api"
	"github.com/shuttlefleet/routeopt/internal/config"
	"github.com/shuttlefleet/routeopt/internal/httpauth"
	"github.com/shuttlefleet/routeopt/internal/jobqueue"
	"github.com/shuttlefleet/routeopt/internal/logging"
)

func main() {
	logCfg := logging.DefaultConfig()
	if getEnv("LOG_LEVEL", "info") == "debug" {
		logCfg = logging.DebugConfig()
	}
	logger := logging.New(logCfg)

	solverCfg, err := config.Load(getEnv("ROUTER_CONFIG", ""))
	if err != nil {
		logger.Error("cannot load solver configuration", "error", err)
		log.Fatal(err)
	}
	// Read once at process startup, never inside the solver: every job
	// this server runs for the rest of its life shares this seed unless
	// SHUTTLE_SEED/the config file set one explicitly.
	if solverCfg.Seed == 0 {
		solverCfg.Seed = time.Now().UnixNano()
	}
	logger.Info("solver seed", "seed", solverCfg.Seed)

	operatorSecret := getEnv("ROUTER_OPERATOR_SECRET", "")
	if operatorSecret == "" {
		logger.Error("ROUTER_OPERATOR_SECRET must be set")
		log.Fatal("ROUTER_OPERATOR_SECRET must be set")
	}
	jwtSigningKey := getEnv("ROUTER_JWT_SIGNING_KEY", "")
	if jwtSigningKey == "" {
		logger.Error("ROUTER_JWT_SIGNING_KEY must be set")
		log.Fatal("ROUTER_JWT_SIGNING_KEY must be set")
	}
	issuer, err := httpauth.NewIssuer(jwtSigningKey, operatorSecret, 15*time.Minute)
	if err != nil {
		logger.Error("cannot initialise token issuer", "error", err)
		log.Fatal(err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: getEnv("REDIS_ADDR", "localhost:6379")})
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Error("cannot connect to redis", "error", err)
		log.Fatal(err)
	}
	logger.Info("redis connected")

	queue := jobqueue.New(redisClient, "routeopt_jobs")

	server := api.NewServer(api.Deps{
		SolverCfg:         solverCfg,
		Queue:             queue,
		Issuer:            issuer,
		Logger:            logger,
		RequestsPerMinute: 60,
	})

	worker := jobqueue.NewWorker(queue, server.SolveFunc(), jobqueue.DefaultWorkerConfig(), logger)
	worker.Start(context.Background())
	defer worker.Stop()

	port := getEnv("PORT", "8081")
	httpServer := &http.Server{
		Addr:    ":" + port,
		Handler: server.Engine(),
	}

	go func() {
		logger.Info("routerapi starting", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		log.Fatal(err)
	}
	logger.Info("shut down cleanly")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
