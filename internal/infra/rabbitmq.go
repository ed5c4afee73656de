package infra

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	ProcessingExchange = "route_processing_exchange"

	StatusQueue   = "queue_route_processing_status"
	ResultsQueue  = "queue_route_processing_results"
	StatusRouting = "processing_status_key"
	ResultRouting = "processing_results_key"
)

type RabbitMQ struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
}

// InitRabbitMQ connects and declares the topic exchange with its status and
// results queues.
func InitRabbitMQ(url string, log zerolog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	if err := DeclareTopology(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	log.Info().Str("exchange", ProcessingExchange).Msg("RabbitMQ topology declared")
	return &RabbitMQ{Conn: conn, Channel: ch}, nil
}

// Declarer is the subset of *amqp.Channel used to declare the topology.
type Declarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

func DeclareTopology(ch Declarer) error {
	if err := ch.ExchangeDeclare(ProcessingExchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", ProcessingExchange, err)
	}

	bindings := []struct{ queue, key string }{
		{StatusQueue, StatusRouting},
		{ResultsQueue, ResultRouting},
	}
	for _, b := range bindings {
		if _, err := ch.QueueDeclare(b.queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", b.queue, err)
		}
		if err := ch.QueueBind(b.queue, b.key, ProcessingExchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", b.queue, err)
		}
	}
	return nil
}

func (r *RabbitMQ) Close(log zerolog.Logger) {
	if err := r.Channel.Close(); err != nil {
		log.Warn().Err(err).Msg("close rabbitmq channel")
	}
	if err := r.Conn.Close(); err != nil {
		log.Error().Err(err).Msg("close rabbitmq connection")
		return
	}
	log.Info().Msg("RabbitMQ connection closed")
}
