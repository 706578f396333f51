package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
		Async:        false,
	}
	return &KafkaPublisher{writer: w, topic: topic}
}

// Publish keys messages by application id so one application's events stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, evt ApplicationEvent) error {
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	msg := kafkago.Message{
		Key:   []byte(evt.ApplicationID),
		Value: b,
		Time:  evt.OccurredAt,
		Headers: []kafkago.Header{
			{Key: "event-type", Value: []byte(evt.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s to %s: %w", evt.Type, p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
