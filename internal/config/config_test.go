package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/shop-analyzer-api/internal/domain"
)

func TestParseOperators(t *testing.T) {
	tests := []struct {
		name        string
		raw         []string
		expected    []domain.Operator
		expectedErr string
	}{
		{
			name:     "Lista vazia",
			raw:      nil,
			expected: []domain.Operator{},
		},
		{
			name: "Email normalizado e hash com dois-pontos preservado",
			raw:  []string{" Admin@Loja.FR:1:$2a$10$abc:def ", ""},
			expected: []domain.Operator{
				{Email: "admin@loja.fr", RoleID: domain.RoleAdmin, PasswordHash: "$2a$10$abc:def"},
			},
		},
		{
			name: "Vários operadores",
			raw:  []string{"admin@loja.fr:1:hash1", "analista@loja.fr:2:hash2"},
			expected: []domain.Operator{
				{Email: "admin@loja.fr", RoleID: domain.RoleAdmin, PasswordHash: "hash1"},
				{Email: "analista@loja.fr", RoleID: domain.RoleAnalyst, PasswordHash: "hash2"},
			},
		},
		{
			name:        "Entrada sem hash",
			raw:         []string{"admin@loja.fr:1"},
			expectedErr: "operador inválido",
		},
		{
			name:        "Role não numérica",
			raw:         []string{"admin@loja.fr:admin:hash"},
			expectedErr: "role inválida",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			operators, err := ParseOperators(tt.raw)

			if tt.expectedErr != "" {
				assert.ErrorContains(t, err, tt.expectedErr)
				assert.Nil(t, operators)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, operators)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			History:  History{Backend: HistoryBackendMemory, Size: 10},
			Analysis: Analysis{MaxTextBytes: 1024},
		}
	}

	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectedErr string
	}{
		{name: "Configuração padrão", mutate: func(c *Config) {}},
		{
			name:        "Backend desconhecido",
			mutate:      func(c *Config) { c.History.Backend = "mongo" },
			expectedErr: "HISTORY_BACKEND",
		},
		{
			name:        "Histórico sem tamanho",
			mutate:      func(c *Config) { c.History.Size = 0 },
			expectedErr: "HISTORY_SIZE",
		},
		{
			name:        "Limite de texto zerado",
			mutate:      func(c *Config) { c.Analysis.MaxTextBytes = 0 },
			expectedErr: "ANALYSIS_MAX_TEXT_BYTES",
		},
		{
			name:        "Autenticação sem segredo",
			mutate:      func(c *Config) { c.Auth.Enabled = true },
			expectedErr: "AUTH_SECRET",
		},
		{
			name:        "Kafka sem brokers",
			mutate:      func(c *Config) { c.Kafka.Enabled = true },
			expectedErr: "KAFKA_BROKERS",
		},
		{
			name: "Redis com Kafka habilitado",
			mutate: func(c *Config) {
				c.History.Backend = HistoryBackendRedis
				c.Kafka = Kafka{Enabled: true, Brokers: []string{"localhost:9092"}, Topic: "analysis_complete"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.expectedErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.expectedErr)
		})
	}
}
