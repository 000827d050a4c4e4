// Package events publica os eventos de análise concluída
package events

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/vfg2006/shop-analyzer-api/internal/config"
	"github.com/vfg2006/shop-analyzer-api/internal/domain"
	"github.com/vfg2006/shop-analyzer-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(cfg config.Kafka) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        true,
		},
	}
}

// NewMessage mensagem Kafka do evento; a chave é o ID da análise
func NewMessage(event *domain.AnalysisEvent) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, errors.Wrap(err, "erro ao serializar evento")
	}

	return kafka.Message{
		Key:   []byte(event.Summary.ID),
		Value: payload,
		Time:  event.Timestamp,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(event.Name)},
		},
	}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event *domain.AnalysisEvent) error {
	msg, err := NewMessage(event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrapf(err, "erro ao publicar evento %s", event.Name)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher apenas registra o evento quando o Kafka está desabilitado
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, event *domain.AnalysisEvent) error {
	log.ForContext(ctx).WithFields(log.Fields{
		"event":       event.Name,
		"analysis_id": event.Summary.ID,
	}).Debug("Evento de análise")
	return nil
}
