package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"routeprocessing/cmd/fx/config_fx"
	"routeprocessing/cmd/fx/controllers_fx"
	"routeprocessing/cmd/fx/db_fx"
	"routeprocessing/cmd/fx/grpc_fx"
	"routeprocessing/cmd/fx/logger_fx"
	"routeprocessing/cmd/fx/messaging_fx"
	"routeprocessing/cmd/fx/optimizer_fx"
	"routeprocessing/cmd/fx/processing_fx"
	"routeprocessing/docs"
	"routeprocessing/internal/api/controllers"
	"routeprocessing/internal/config"
	"routeprocessing/pkg/middleware"
)

func main() {
	app := fx.New(
		config_fx.Module,
		logger_fx.Module,
		db_fx.Module,
		grpc_fx.Module,
		messaging_fx.Module,
		optimizer_fx.Module,
		processing_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, log zerolog.Logger) {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info().Str("addr", srv.Addr).Msg("Starting HTTP server")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("Failed to start server")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(cfg *config.Config, log zerolog.Logger, processingController *controllers.RouteProcessingController) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(log))
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.Server.CORSAllowedOrigins))

	docs.SwaggerInfo.BasePath = "/api/v1"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	RegisterRoutes(r, cfg, processingController)

	return r
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, processingController *controllers.RouteProcessingController) {
	api := r.Group("/api/v1")
	api.GET("/health", processingController.Health)

	processGroup := api.Group("/process-route")
	processGroup.Use(middleware.JWTAuthMiddleware(cfg.Server.JWTSecret))
	processGroup.POST("", processingController.ProcessRoute)
	processGroup.POST("/async", processingController.ProcessRouteAsync)
	processGroup.GET("/runs", processingController.ListRuns)
	processGroup.GET("/runs/:runId", processingController.GetRun)
}
