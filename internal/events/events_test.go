package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeProducer) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeProducer) Close() error {
	f.closed = true
	return nil
}

type published struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	sent []published
	err  error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{exchange, key, msg})
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func sampleEvent() Event {
	return New(TypeSaleUpdate, ActionSaleCreated, "sale-42", "Sale recorded", map[string]string{"status": "FULFILLED"})
}

func TestKafkaPublisher(t *testing.T) {
	producer := &fakeProducer{}
	p := NewKafkaPublisher(producer)

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	require.Len(t, producer.msgs, 1)

	msg := producer.msgs[0]
	assert.Equal(t, "sale-42", string(msg.Key))
	assert.Equal(t, []kafka.Header{
		{Key: "event-type", Value: []byte(TypeSaleUpdate)},
		{Key: "event-action", Value: []byte(ActionSaleCreated)},
	}, msg.Headers)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, ActionSaleCreated, body["action"])
	assert.NotContains(t, body, "Key")

	producer.err = errors.New("leader not available")
	err := p.Publish(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, producer.err)

	require.NoError(t, p.Close())
	assert.True(t, producer.closed)
}

func TestRabbitPublisher(t *testing.T) {
	ch := &fakeChannel{}
	p := NewRabbitPublisher(ch, "retail.events")

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	require.Len(t, ch.sent, 1)

	sent := ch.sent[0]
	assert.Equal(t, "retail.events", sent.exchange)
	assert.Equal(t, "sale_update.sale_created", sent.key)
	assert.Equal(t, "application/json", sent.msg.ContentType)
	assert.Equal(t, amqp.Persistent, sent.msg.DeliveryMode)
	assert.Equal(t, "sale-42", sent.msg.MessageId)

	ch.err = errors.New("channel closed")
	assert.ErrorIs(t, p.Publish(context.Background(), sampleEvent()), ch.err)
	assert.NoError(t, p.Close())
}

func TestFanout(t *testing.T) {
	good := &fakeProducer{}
	bad := &fakeChannel{err: errors.New("nack")}
	fan := Fanout{NewKafkaPublisher(good), NewRabbitPublisher(bad, "x"), Nop}

	err := fan.Publish(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, bad.err)
	assert.Len(t, good.msgs, 1, "one failing sink does not stop the others")

	assert.NoError(t, fan.Close())
	assert.True(t, good.closed)
}

func TestDialRabbitRequiresExchange(t *testing.T) {
	_, err := DialRabbit("amqp://localhost", "", nil)
	assert.Error(t, err)
}
