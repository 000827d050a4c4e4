package log

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIsRelevant(t *testing.T) {
	tests := []struct {
		key      string
		expected bool
	}{
		{key: "correlation_id", expected: true},
		{key: "status_code", expected: true},
		{key: "user_email", expected: true},
		{key: "analysis_id", expected: true},
		{key: "shop_name", expected: true},
		{key: "shop1", expected: true},
		{key: "group", expected: true},
		{key: "remote_addr", expected: false},
		{key: "content_length", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, isRelevant(tt.key))
		})
	}
}

func TestWithCorrelationID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		reused   bool
	}{
		{name: "ID recebido é reaproveitado", incoming: "req-42", reused: true},
		{name: "ID com espaços é aparado", incoming: "  req-43 ", reused: true},
		{name: "Sem ID gera um novo", incoming: ""},
		{name: "ID longo demais gera um novo", incoming: strings.Repeat("x", maxCorrelationID+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, id := WithCorrelationID(context.Background(), tt.incoming)

			assert.Equal(t, id, GetCorrelationID(ctx))
			if tt.reused {
				assert.Equal(t, strings.TrimSpace(tt.incoming), id)
				return
			}
			_, err := uuid.Parse(id)
			assert.NoError(t, err)
		})
	}
}

func TestGetCorrelationID_SemValor(t *testing.T) {
	assert.Empty(t, GetCorrelationID(context.Background()))
	assert.Empty(t, GetCorrelationID(WithAnalysisID(context.Background(), "abc123")))
}
