package messaging_fx

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"routeprocessing/internal/config"
	"routeprocessing/internal/infra"
	"routeprocessing/internal/services"
)

var Module = fx.Provide(providePublisher)

func providePublisher(lc fx.Lifecycle, cfg *config.Config, log zerolog.Logger) (services.MessagePublisher, error) {
	switch cfg.Messaging.StatusSink {
	case config.SinkRedis:
		client, err := infra.InitRedis(context.Background(), cfg.Messaging, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		})
		return services.NewRedisPublisher(client, cfg.Messaging.RedisStatusChannel, cfg.Messaging.RedisResultsKey), nil

	case config.SinkRabbitMQ:
		mq, err := infra.InitRabbitMQ(cfg.Messaging.RabbitMQURL, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				mq.Close(log)
				return nil
			},
		})
		return services.NewRabbitPublisher(mq.Channel), nil

	default:
		return services.NewLogPublisher(log), nil
	}
}
