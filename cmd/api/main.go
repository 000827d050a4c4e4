package main

import (
	"context"
	"os"
	"path"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/shop-analyzer-api/infrastructure/cache"
	"github.com/vfg2006/shop-analyzer-api/infrastructure/database/postgres"
	"github.com/vfg2006/shop-analyzer-api/infrastructure/events"
	"github.com/vfg2006/shop-analyzer-api/infrastructure/repository"
	"github.com/vfg2006/shop-analyzer-api/internal/api"
	"github.com/vfg2006/shop-analyzer-api/internal/api/handler"
	"github.com/vfg2006/shop-analyzer-api/internal/config"
	"github.com/vfg2006/shop-analyzer-api/internal/scheduler"
	"github.com/vfg2006/shop-analyzer-api/internal/usecases/analyzing"
	"github.com/vfg2006/shop-analyzer-api/internal/usecases/authenticating"
	"github.com/vfg2006/shop-analyzer-api/pkg/log"
)

func main() {
	chdirToSource()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Configure(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cleanups []func() error

	history, closeHistory := newHistoryStore(ctx, cfg)
	if closeHistory != nil {
		cleanups = append(cleanups, closeHistory)
	}

	publisher, closePublisher := newPublisher(cfg)
	if closePublisher != nil {
		cleanups = append(cleanups, closePublisher)
	}

	analyzer := analyzing.NewService(history, publisher, cfg)
	authenticator := authenticating.NewService(cfg)

	retentionService := scheduler.NewHistoryRetentionService(history, cfg)
	if err := retentionService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de retenção do histórico")
	} else {
		logrus.Info("Agendador de retenção do histórico iniciado com sucesso")
	}

	cronServices := handler.CronJobServices{
		handler.CronJobTypeHistoryRetention: retentionService,
	}

	server := api.New(cfg, analyzer, authenticator, cronServices, cleanups...)

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// chdirToSource garante que o .env ao lado do binário seja encontrado em desenvolvimento
func chdirToSource() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	if err := os.Chdir(dir); err != nil {
		logrus.WithError(err).Debug("Não foi possível mudar para o diretório do main")
	}
}

// newHistoryStore escolhe o backend do histórico conforme HISTORY_BACKEND
func newHistoryStore(ctx context.Context, cfg *config.Config) (analyzing.HistoryStore, func() error) {
	switch cfg.History.Backend {
	case config.HistoryBackendPostgres:
		conn := pgconn(ctx, cfg.Database)
		return repository.NewAnalysisHistoryRepository(conn, cfg.History.Size), conn.Close

	case config.HistoryBackendRedis:
		client := cache.NewClient(cfg.Redis)
		if err := client.Ping(ctx).Err(); err != nil {
			logrus.WithError(err).Fatal("Erro ao conectar ao Redis")
		}
		logrus.Info("Conexão com Redis estabelecida com sucesso")
		return cache.NewHistoryStore(client, cfg.Redis.Key, cfg.History.Size), client.Close

	default:
		logrus.Info("Histórico de análises mantido em memória")
		return repository.NewMemoryHistoryRepository(cfg.History.Size), nil
	}
}

func newPublisher(cfg *config.Config) (analyzing.EventPublisher, func() error) {
	if !cfg.Kafka.Enabled {
		return events.LogPublisher{}, nil
	}

	publisher := events.NewKafkaPublisher(cfg.Kafka)
	logrus.WithField("topic", cfg.Kafka.Topic).Info("Eventos de análise publicados no Kafka")
	return publisher, publisher.Close
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
