package broadcaster

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
)

// Publisher delivers one event to the broker and returns once the broker has
// acknowledged it.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
	Close() error
}

type SaramaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewSaramaPublisher(producer sarama.SyncProducer, topic string) *SaramaPublisher {
	return &SaramaPublisher{producer: producer, topic: topic}
}

// DialSarama connects a synchronous producer that waits for all in-sync
// replicas.
func DialSarama(brokers []string, topic string) (*SaramaPublisher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("dial kafka %v: %w", brokers, err)
	}
	return NewSaramaPublisher(producer, topic), nil
}

// Publish ignores ctx; a sarama sync producer cannot be interrupted.
func (p *SaramaPublisher) Publish(_ context.Context, key, value []byte) error {
	_, _, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.ByteEncoder(key),
		Value: sarama.ByteEncoder(value),
	})
	return err
}

func (p *SaramaPublisher) Close() error {
	return p.producer.Close()
}
