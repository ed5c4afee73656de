package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"routeprocessing/internal/infra"
	"routeprocessing/internal/models/response_models"
)

const publishTimeout = 2 * time.Second

type StatusEvent struct {
	RunID     string `json:"run_id"`
	RouteID   string `json:"route_id"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type ResultEvent struct {
	RunID     string                          `json:"run_id"`
	RouteID   string                          `json:"route_id"`
	Status    string                          `json:"status"`
	Result    *response_models.OptimizedRoute `json:"result,omitempty"`
	Error     string                          `json:"error,omitempty"`
	Timestamp string                          `json:"timestamp"`
}

// MessagePublisher forwards run progress and outcomes to external listeners.
type MessagePublisher interface {
	PublishStatus(ctx context.Context, event StatusEvent) error
	PublishResult(ctx context.Context, event ResultEvent) error
}

type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log.With().Str("component", "publisher").Logger()}
}

func (p *LogPublisher) PublishStatus(_ context.Context, e StatusEvent) error {
	p.log.Info().Str("run_id", e.RunID).Str("route_id", e.RouteID).Msg(e.Message)
	return nil
}

func (p *LogPublisher) PublishResult(_ context.Context, e ResultEvent) error {
	ev := p.log.Info()
	if e.Error != "" {
		ev = p.log.Warn().Str("error", e.Error)
	}
	ev.Str("run_id", e.RunID).Str("route_id", e.RouteID).Str("status", e.Status).Msg("run finished")
	return nil
}

// RedisPublisher publishes status events on a pub/sub channel and appends
// result events to a list.
type RedisPublisher struct {
	client     redis.UniversalClient
	channel    string
	resultsKey string
}

func NewRedisPublisher(client redis.UniversalClient, channel, resultsKey string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel, resultsKey: resultsKey}
}

func (p *RedisPublisher) PublishStatus(ctx context.Context, e StatusEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish status to %s: %w", p.channel, err)
	}
	return nil
}

func (p *RedisPublisher) PublishResult(ctx context.Context, e ResultEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := p.client.RPush(ctx, p.resultsKey, payload).Err(); err != nil {
		return fmt.Errorf("push result to %s: %w", p.resultsKey, err)
	}
	return nil
}

// amqpPublisher is the subset of *amqp.Channel used for publishing.
type amqpPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitPublisher struct {
	ch amqpPublisher
}

func NewRabbitPublisher(ch amqpPublisher) *RabbitPublisher {
	return &RabbitPublisher{ch: ch}
}

func (p *RabbitPublisher) PublishStatus(ctx context.Context, e StatusEvent) error {
	return p.publish(ctx, infra.StatusRouting, e)
}

func (p *RabbitPublisher) PublishResult(ctx context.Context, e ResultEvent) error {
	return p.publish(ctx, infra.ResultRouting, e)
}

func (p *RabbitPublisher) publish(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	err = p.ch.PublishWithContext(ctx, infra.ProcessingExchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish to %s/%s: %w", infra.ProcessingExchange, key, err)
	}
	return nil
}

// StatusNotifier turns engine status events of one run into published
// StatusEvents. Publish failures are logged and dropped.
type StatusNotifier struct {
	publisher MessagePublisher
	runID     string
	routeID   string
	log       zerolog.Logger
}

func NewStatusNotifier(publisher MessagePublisher, runID, routeID string, log zerolog.Logger) *StatusNotifier {
	return &StatusNotifier{publisher: publisher, runID: runID, routeID: routeID, log: log}
}

func (n *StatusNotifier) Notify(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err := n.publisher.PublishStatus(ctx, StatusEvent{
		RunID:     n.runID,
		RouteID:   n.routeID,
		Message:   text,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		n.log.Warn().Err(err).Str("run_id", n.runID).Msg("publish status event")
	}
}
