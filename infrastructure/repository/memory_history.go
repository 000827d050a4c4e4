package repository

import (
	"context"
	"sync"
	"time"

	"github.com/vfg2006/shop-analyzer-api/internal/domain"
)

// MemoryHistoryRepository histórico em memória, mais recente primeiro
type MemoryHistoryRepository struct {
	mu        sync.RWMutex
	summaries []*domain.AnalysisSummary
	size      int
}

func NewMemoryHistoryRepository(size int) *MemoryHistoryRepository {
	return &MemoryHistoryRepository{
		summaries: make([]*domain.AnalysisSummary, 0, size),
		size:      size,
	}
}

func (r *MemoryHistoryRepository) Save(_ context.Context, summary *domain.AnalysisSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *summary
	r.summaries = append([]*domain.AnalysisSummary{&stored}, r.summaries...)
	if len(r.summaries) > r.size {
		r.summaries = r.summaries[:r.size]
	}
	return nil
}

func (r *MemoryHistoryRepository) List(_ context.Context, limit int) ([]*domain.AnalysisSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.summaries) {
		limit = len(r.summaries)
	}

	out := make([]*domain.AnalysisSummary, 0, limit)
	for _, summary := range r.summaries[:limit] {
		copied := *summary
		out = append(out, &copied)
	}
	return out, nil
}

func (r *MemoryHistoryRepository) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.summaries[:0]
	var removed int64
	for _, summary := range r.summaries {
		if summary.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, summary)
	}
	r.summaries = kept
	return removed, nil
}
