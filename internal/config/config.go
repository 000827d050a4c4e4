package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/vfg2006/shop-analyzer-api/internal/domain"
)

// Backends suportados para o histórico de análises
const (
	HistoryBackendMemory   = "memory"
	HistoryBackendPostgres = "postgres"
	HistoryBackendRedis    = "redis"
)

type Config struct {
	App              App              `mapstructure:",squash"`
	Server           Server           `mapstructure:",squash"`
	Database         Database         `mapstructure:",squash"`
	Redis            Redis            `mapstructure:",squash"`
	Kafka            Kafka            `mapstructure:",squash"`
	History          History          `mapstructure:",squash"`
	Analysis         Analysis         `mapstructure:",squash"`
	Auth             Auth             `mapstructure:",squash"`
	HistoryRetention HistoryRetention `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	AllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"server_read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"server_write_timeout"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Redis struct {
	Addr     string `mapstructure:"redis_addr"`
	Password string `mapstructure:"redis_password"`
	DB       int    `mapstructure:"redis_db"`
	Key      string `mapstructure:"redis_history_key"`
}

type Kafka struct {
	Enabled bool     `mapstructure:"kafka_enabled"`
	Brokers []string `mapstructure:"kafka_brokers"`
	Topic   string   `mapstructure:"kafka_topic"`
}

type History struct {
	Backend string `mapstructure:"history_backend"`
	Size    int    `mapstructure:"history_size"`
}

type Analysis struct {
	MaxTextBytes int `mapstructure:"analysis_max_text_bytes"`
}

type Auth struct {
	Enabled bool   `mapstructure:"auth_enabled"`
	Secret  string `mapstructure:"auth_secret"`
	// Cada entrada no formato email:role_id:bcrypt_hash
	RawOperators []string          `mapstructure:"auth_operators"`
	TokenTTL     time.Duration     `mapstructure:"auth_token_ttl"`
	Operators    []domain.Operator `mapstructure:"-"`
}

type HistoryRetention struct {
	CronSchedule string `mapstructure:"history_retention_cron"`
	Enabled      bool   `mapstructure:"history_retention_enabled"`
	Days         int    `mapstructure:"history_retention_days"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "30s")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/shop_analyzer?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_HISTORY_KEY", "shop-analyzer:history")

	viper.SetDefault("KAFKA_ENABLED", false)
	viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("KAFKA_TOPIC", "analysis_complete")

	viper.SetDefault("HISTORY_BACKEND", HistoryBackendMemory)
	viper.SetDefault("HISTORY_SIZE", 10)

	viper.SetDefault("ANALYSIS_MAX_TEXT_BYTES", 2<<20) // 2 MiB

	viper.SetDefault("AUTH_ENABLED", false)
	viper.SetDefault("AUTH_SECRET", "")
	viper.SetDefault("AUTH_OPERATORS", "")
	viper.SetDefault("AUTH_TOKEN_TTL", "24h")

	viper.SetDefault("HISTORY_RETENTION_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("HISTORY_RETENTION_ENABLED", false)
	viper.SetDefault("HISTORY_RETENTION_DAYS", 30)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.Auth.Operators, err = ParseOperators(config.Auth.RawOperators)
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Validate verifica combinações de configuração que impedem a API de subir
func (c *Config) Validate() error {
	switch c.History.Backend {
	case HistoryBackendMemory, HistoryBackendPostgres, HistoryBackendRedis:
	default:
		return fmt.Errorf("HISTORY_BACKEND inválido: %q", c.History.Backend)
	}

	if c.History.Size <= 0 {
		return fmt.Errorf("HISTORY_SIZE deve ser positivo: %d", c.History.Size)
	}

	if c.Analysis.MaxTextBytes <= 0 {
		return fmt.Errorf("ANALYSIS_MAX_TEXT_BYTES deve ser positivo: %d", c.Analysis.MaxTextBytes)
	}

	if c.Auth.Enabled && c.Auth.Secret == "" {
		return fmt.Errorf("AUTH_SECRET é obrigatório quando AUTH_ENABLED=true")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS é obrigatório quando KAFKA_ENABLED=true")
	}

	return nil
}

// ParseOperators converte entradas email:role_id:bcrypt_hash em operadores
func ParseOperators(raw []string) ([]domain.Operator, error) {
	operators := make([]domain.Operator, 0, len(raw))

	for _, entry := range raw {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
			return nil, fmt.Errorf("operador inválido em AUTH_OPERATORS: %q", entry)
		}

		roleID, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("role inválida para o operador %s: %w", parts[0], err)
		}

		operators = append(operators, domain.Operator{
			Email:        strings.ToLower(strings.TrimSpace(parts[0])),
			RoleID:       roleID,
			PasswordHash: parts[2],
		})
	}

	return operators, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
