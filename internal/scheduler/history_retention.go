// Package scheduler contém os jobs agendados da API
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/shop-analyzer-api/internal/config"
)

// HistoryPruner remove do histórico as análises anteriores ao corte
type HistoryPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type HistoryRetentionConfig struct {
	CronSchedule  string
	Enabled       bool
	RetentionDays int
}

type HistoryRetentionService struct {
	scheduler          *gocron.Scheduler
	history            HistoryPruner
	config             HistoryRetentionConfig
	clock              func() time.Time
	running            bool
	mutex              sync.Mutex
	lastRunStartedAt   time.Time
	lastRunCompletedAt time.Time
	lastRemoved        int64
}

func NewHistoryRetentionService(history HistoryPruner, cfg *config.Config) *HistoryRetentionService {
	retentionConfig := HistoryRetentionConfig{
		CronSchedule:  cfg.HistoryRetention.CronSchedule,
		Enabled:       cfg.HistoryRetention.Enabled,
		RetentionDays: cfg.HistoryRetention.Days,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":  retentionConfig.CronSchedule,
		"retention_days": retentionConfig.RetentionDays,
	}).Info("Configuração do agendador de retenção do histórico carregada")

	return &HistoryRetentionService{
		scheduler: gocron.NewScheduler(time.Local),
		history:   history,
		config:    retentionConfig,
		clock:     time.Now,
	}
}

func (s *HistoryRetentionService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Cron de retenção do histórico desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de retenção do histórico")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if _, err := s.Purge(ctx); err != nil {
			logrus.WithError(err).Error("Erro na retenção do histórico de análises")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar retenção do histórico: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de retenção do histórico")
		s.scheduler.Stop()
	}()

	return nil
}

// Purge remove as análises mais antigas que o período de retenção.
// Com retenção <= 0 nada é removido.
func (s *HistoryRetentionService) Purge(ctx context.Context) (int64, error) {
	s.mutex.Lock()
	if s.running {
		s.mutex.Unlock()
		logrus.Warn("Retenção do histórico já está em execução")
		return 0, nil
	}
	s.running = true
	s.lastRunStartedAt = s.clock()
	s.mutex.Unlock()

	var removed int64
	defer func() {
		s.mutex.Lock()
		s.running = false
		s.lastRunCompletedAt = s.clock()
		s.lastRemoved = removed
		s.mutex.Unlock()
	}()

	if s.config.RetentionDays <= 0 {
		return 0, nil
	}

	cutoff := s.clock().AddDate(0, 0, -s.config.RetentionDays)
	removed, err := s.history.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("erro ao remover análises anteriores a %s: %w", cutoff.Format(time.DateOnly), err)
	}

	logrus.WithFields(logrus.Fields{
		"cutoff":  cutoff.Format(time.DateOnly),
		"removed": removed,
	}).Info("Retenção do histórico concluída")

	return removed, nil
}

// TriggerManualSync inicia manualmente a retenção do histórico
func (s *HistoryRetentionService) TriggerManualSync() {
	s.mutex.Lock()
	if s.running {
		s.mutex.Unlock()
		logrus.Info("Retenção do histórico já em andamento, ignorando solicitação manual")
		return
	}
	s.mutex.Unlock()

	logrus.Info("Iniciando retenção manual do histórico")
	go func() {
		if _, err := s.Purge(context.Background()); err != nil {
			logrus.WithError(err).Error("Erro na retenção manual do histórico")
		}
	}()
}

func (s *HistoryRetentionService) GetStatus() map[string]any {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return map[string]any{
		"enabled":               s.config.Enabled,
		"cron":                  s.config.CronSchedule,
		"retention_days":        s.config.RetentionDays,
		"running":               s.running,
		"last_run_started_at":   s.lastRunStartedAt,
		"last_run_completed_at": s.lastRunCompletedAt,
		"last_removed":          s.lastRemoved,
	}
}
