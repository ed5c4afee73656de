package infra

import (
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeclarer struct {
	exchanges []string
	queues    []string
	bindings  []string
	failQueue string
}

func (f *fakeDeclarer) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.exchanges = append(f.exchanges, name+":"+kind)
	return nil
}

func (f *fakeDeclarer) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	if name == f.failQueue {
		return amqp.Queue{}, errors.New("access refused")
	}
	f.queues = append(f.queues, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeDeclarer) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	f.bindings = append(f.bindings, exchange+"/"+key+"->"+name)
	return nil
}

func TestDeclareTopology(t *testing.T) {
	d := &fakeDeclarer{}
	require.NoError(t, DeclareTopology(d))

	assert.Equal(t, []string{"route_processing_exchange:topic"}, d.exchanges)
	assert.Equal(t, []string{"queue_route_processing_status", "queue_route_processing_results"}, d.queues)
	assert.Equal(t, []string{
		"route_processing_exchange/processing_status_key->queue_route_processing_status",
		"route_processing_exchange/processing_results_key->queue_route_processing_results",
	}, d.bindings)
}

func TestDeclareTopology_QueueFailure(t *testing.T) {
	d := &fakeDeclarer{failQueue: ResultsQueue}

	err := DeclareTopology(d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ResultsQueue)
}
