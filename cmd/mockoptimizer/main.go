package main

import (
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"

	"routeprocessing/internal/mockoptimizer"
	"routeprocessing/internal/routepb"
	"routeprocessing/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	l := logger.New(logger.Config{Level: os.Getenv("LOG_LEVEL"), Pretty: true})
	logger.SetGlobalLogger(l)

	port := os.Getenv("GRPC_PORT")
	if port == "" {
		port = "50051"
	}
	steps, err := strconv.Atoi(os.Getenv("MOCK_STEPS_TO_COMPLETE"))
	if err != nil {
		steps = 3
	}

	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		log.Fatal().Err(err).Str("port", port).Msg("listen")
	}

	srv := grpc.NewServer()
	routepb.RegisterOptimizationServer(srv, mockoptimizer.NewServer(steps, l))

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("stopping mock optimizer")
		srv.GracefulStop()
	}()

	log.Info().Str("addr", lis.Addr().String()).Int("steps_to_complete", steps).Msg("mock optimizer listening")
	if err := srv.Serve(lis); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
}
