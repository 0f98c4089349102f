package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aurapaste/aurapaste/config"
	"github.com/aurapaste/aurapaste/handlers"
	"github.com/aurapaste/aurapaste/internal/metrics"
	"github.com/aurapaste/aurapaste/internal/services"
	"github.com/aurapaste/aurapaste/storage"
)

// Version/build info (set via -ldflags at build time)
var (
	Version    = "dev"
	BuildTime  = "unknown"
	CommitHash = "none"
)

// Lambda adapters, initialized once when running on AWS Lambda.
var (
	ginLambdaV1   *ginadapter.GinLambda
	ginLambdaV2   *ginadapter.GinLambdaV2
	ginLambdaOnce sync.Once
)

// isLambdaEnvironment detects if running in AWS Lambda.
func isLambdaEnvironment() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting aurapaste",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", CommitHash))

	cfg := config.LoadConfig()
	cfg.Version = Version
	cfg.BuildTime = BuildTime
	cfg.CommitHash = CommitHash

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if isLambdaEnvironment() {
		// Lambda deployments always run against DynamoDB.
		cfg.StorageBackend = "dynamodb"
	}

	store, err := storage.NewStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage", zap.Error(err))
	}

	router := setupRouter(store, cfg, logger)

	if isLambdaEnvironment() {
		logger.Info("starting in AWS Lambda mode")
		ginLambdaOnce.Do(func() {
			ginLambdaV1 = ginadapter.New(router)
			ginLambdaV2 = ginadapter.NewV2(router)
		})
		lambda.Start(lambdaHandler)
		return
	}

	logger.Info("starting in HTTP server mode", zap.Int("port", cfg.Port))
	runHTTPServer(router, cfg, store, logger)
}

// lambdaHandler handles Lambda requests for both v1 and v2 API Gateway formats.
func lambdaHandler(ctx context.Context, event interface{}) (interface{}, error) {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       "Failed to process event",
		}, err
	}

	var reqV2 events.APIGatewayV2HTTPRequest
	if err := json.Unmarshal(eventBytes, &reqV2); err == nil && reqV2.RequestContext.HTTP.Method != "" {
		return ginLambdaV2.ProxyWithContext(ctx, reqV2)
	}

	var reqV1 events.APIGatewayProxyRequest
	if err := json.Unmarshal(eventBytes, &reqV1); err == nil && reqV1.HTTPMethod != "" {
		return ginLambdaV1.ProxyWithContext(ctx, reqV1)
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       "Unsupported event type - expected an API Gateway or Lambda Function URL event",
	}, fmt.Errorf("unsupported event type: %T", event)
}

// setupRouter creates and configures the Gin router.
func setupRouter(store storage.PasteStore, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	pasteService := services.NewPasteService(store, cfg, logger)

	pasteHandler := handlers.NewPasteHandler(pasteService, logger)
	listingHandler := handlers.NewListingHandler(pasteService, logger)
	systemHandler := handlers.NewSystemHandler()

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(jsonRecovery(logger))
	router.Use(requestMetrics())
	router.Use(handlers.Identity())

	// Canonical paste URL plus raw download.
	router.GET("/paste/:id", pasteHandler.View)
	router.GET("/raw/:id", pasteHandler.Raw)

	// JSON API consumed by the UI collaborators.
	api := router.Group("/api")
	{
		api.POST("/pastes", pasteHandler.Create)
		api.GET("/pastes/recent", listingHandler.RecentPublic)
		api.GET("/pastes/:id/meta", pasteHandler.Meta)
		api.GET("/users/:id/pastes", listingHandler.UserPastes)
	}

	// System routes
	router.GET("/health", systemHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Global 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	})

	return router
}

// jsonRecovery recovers from handler panics and answers with a JSON body so
// API clients never see an HTML error page.
func jsonRecovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("handler panic", zap.Any("panic", r))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
		}()
		c.Next()
	}
}

// requestMetrics observes handler latency per route.
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// runHTTPServer starts the HTTP server for container mode and shuts it down
// gracefully on SIGINT/SIGTERM.
func runHTTPServer(router *gin.Engine, cfg *config.Config, store storage.PasteStore, logger *zap.Logger) {
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("error closing storage", zap.Error(err))
		}
	}()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	} else {
		logger.Info("server shutdown complete")
	}
}
