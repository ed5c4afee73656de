package grpc_fx

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"google.golang.org/grpc"

	"routeprocessing/internal/config"
	"routeprocessing/internal/infra"
	"routeprocessing/internal/routepb"
)

var Module = fx.Provide(provideConn, provideClient)

func provideConn(lc fx.Lifecycle, cfg *config.Config, log zerolog.Logger) (*grpc.ClientConn, error) {
	conn, err := infra.DialOptimizer(cfg.Grpc, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.CloseOptimizer(conn, log)
			return nil
		},
	})
	return conn, nil
}

func provideClient(conn *grpc.ClientConn) *routepb.Client {
	return routepb.NewClient(conn)
}
