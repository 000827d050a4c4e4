package analyzing

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

import (
	"context"
	"time"

	"github.com/vfg2006/shop-analyzer-api/internal/domain"
)

// HistoryStore guarda os resumos das análises mais recentes
type HistoryStore interface {
	Save(ctx context.Context, summary *domain.AnalysisSummary) error
	// List retorna os resumos mais recentes primeiro
	List(ctx context.Context, limit int) ([]*domain.AnalysisSummary, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// EventPublisher publica o evento de análise concluída
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.AnalysisEvent) error
}
