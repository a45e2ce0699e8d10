// Package kafka publica los eventos de internación en un tópico
// Kafka/Redpanda usando franz-go.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"pet-inpatient-care/internal/ports/notify"
)

const DefaultTopic = "internacao.registro-atualizado"

type Config struct {
	Brokers []string
	Topic   string

	// LingerMS agrupa eventos antes de enviar; la internación no es de
	// alto volumen, alcanza con un linger corto.
	LingerMS int64
}

func DefaultConfig() Config {
	return Config{
		Brokers:  []string{"localhost:9092"},
		Topic:    DefaultTopic,
		LingerMS: 20,
	}
}

type Notifier struct {
	client *kgo.Client
	topic  string
	log    *zap.Logger
}

func NewNotifier(cfg Config, log *zap.Logger) (*Notifier, error) {
	if log == nil {
		log = zap.NewNop()
	}
	topic := strings.TrimSpace(cfg.Topic)
	if topic == "" {
		topic = DefaultTopic
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ProducerLinger(time.Duration(cfg.LingerMS)*time.Millisecond),
		kgo.ProducerBatchCompression(kgo.Lz4Compression()),
		kgo.RequiredAcks(kgo.LeaderAck()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	return &Notifier{client: client, topic: topic, log: log}, nil
}

// RecordUpdated publica el evento con el id del registro como key, así
// los consumidores ven los cambios de una misma ficha en orden.
func (n *Notifier) RecordUpdated(ctx context.Context, ev notify.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	record := &kgo.Record{
		Topic: n.topic,
		Key:   []byte(ev.RecordID),
		Value: payload,
	}

	result := n.client.ProduceSync(ctx, record)
	if err := result.FirstErr(); err != nil {
		n.log.Warn("kafka: falha ao publicar evento de internação",
			zap.String("topic", n.topic), zap.String("record_id", ev.RecordID), zap.Error(err))
		return err
	}
	return nil
}

func (n *Notifier) Close() {
	n.client.Close()
}
