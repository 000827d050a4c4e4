package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/shop-analyzer-api/internal/domain"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func testEvent() *domain.AnalysisEvent {
	return &domain.AnalysisEvent{
		Name:      "analysis_complete",
		Summary:   domain.AnalysisSummary{ID: "abc123", ShopName: "BoutiqueX"},
		Timestamp: time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	tests := []struct {
		name     string
		writer   *fakeWriter
		validate func(t *testing.T, w *fakeWriter, err error)
	}{
		{
			name:   "Publica com chave e cabeçalho do evento",
			writer: &fakeWriter{},
			validate: func(t *testing.T, w *fakeWriter, err error) {
				require.NoError(t, err)
				require.Len(t, w.messages, 1)

				msg := w.messages[0]
				assert.Equal(t, []byte("abc123"), msg.Key)
				assert.Equal(t, []kafka.Header{{Key: "event", Value: []byte("analysis_complete")}}, msg.Headers)

				decoded := &domain.AnalysisEvent{}
				require.NoError(t, json.Unmarshal(msg.Value, decoded))
				assert.Equal(t, "BoutiqueX", decoded.Summary.ShopName)
			},
		},
		{
			name:   "Erro do broker é propagado",
			writer: &fakeWriter{err: errors.New("broker indisponível")},
			validate: func(t *testing.T, w *fakeWriter, err error) {
				assert.ErrorContains(t, err, "broker indisponível")
				assert.Empty(t, w.messages)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher := &KafkaPublisher{writer: tt.writer}
			err := publisher.Publish(context.Background(), testEvent())
			tt.validate(t, tt.writer, err)
		})
	}
}
