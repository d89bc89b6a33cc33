package events

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/sports-data-api/internal/shared/kafka"
	"github.com/radieske/sports-data-api/pkg/contracts/events"
)

// KafkaPublisher enfileira no writer assíncrono; a requisição não espera o flush do batch
type KafkaPublisher struct {
	Writer  *kafka.Writer
	log     *zap.Logger
	OnError func(sink string)
}

// NewKafkaPublisher assume o callback Completion do writer para logar falhas de entrega
func NewKafkaPublisher(w *kafka.Writer, log *zap.Logger) *KafkaPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	p := &KafkaPublisher{Writer: w, log: log}
	w.Completion = p.completed
	return p
}

func (p *KafkaPublisher) Name() string { return "kafka" }

// Publish usa o id da entidade como chave (ordem por entidade na partição)
func (p *KafkaPublisher) Publish(ctx context.Context, e events.EntityChanged) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return kafka.WriteJSON(ctx, p.Writer, e.ID, b, e.Ts)
}

func (p *KafkaPublisher) completed(msgs []kafkago.Message, err error) {
	if err == nil {
		return
	}
	p.log.Warn("kafka delivery failed",
		zap.String("topic", p.Writer.Topic),
		zap.Int("messages", len(msgs)),
		zap.Error(err),
	)
	if p.OnError != nil {
		p.OnError(p.Name())
	}
}
