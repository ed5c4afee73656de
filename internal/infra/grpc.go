package infra

import (
	"crypto/tls"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"routeprocessing/internal/config"
)

// DialOptimizer creates the shared channel to the optimization service. The
// connection is established lazily on the first call.
func DialOptimizer(cfg config.GrpcConfig, log zerolog.Logger) (*grpc.ClientConn, error) {
	creds := insecure.NewCredentials()
	if cfg.EnableTLS {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	conn, err := grpc.NewClient(cfg.Target(), grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create grpc channel to %s: %w", cfg.Target(), err)
	}

	log.Info().Str("target", cfg.Target()).Bool("tls", cfg.EnableTLS).Msg("gRPC channel created")
	return conn, nil
}

func CloseOptimizer(conn *grpc.ClientConn, log zerolog.Logger) {
	if err := conn.Close(); err != nil {
		log.Error().Err(err).Msg("close grpc channel")
		return
	}
	log.Info().Msg("gRPC channel closed")
}
