// Package cache contém o histórico de análises mantido no Redis
package cache

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/vfg2006/shop-analyzer-api/internal/config"
	"github.com/vfg2006/shop-analyzer-api/internal/domain"
	"github.com/vfg2006/shop-analyzer-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HistoryStore lista Redis com os resumos serializados, mais recente na cabeça
type HistoryStore struct {
	client redis.Cmdable
	key    string
	size   int
}

func NewClient(cfg config.Redis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewHistoryStore(client redis.Cmdable, key string, size int) *HistoryStore {
	return &HistoryStore{
		client: client,
		key:    key,
		size:   size,
	}
}

func (s *HistoryStore) Save(ctx context.Context, summary *domain.AnalysisSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return errors.Wrap(err, "erro ao serializar análise")
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, s.key, payload)
		pipe.LTrim(ctx, s.key, 0, int64(s.size-1))
		return nil
	})
	return errors.Wrapf(err, "erro ao gravar análise %s no redis", summary.ID)
}

func (s *HistoryStore) List(ctx context.Context, limit int) ([]*domain.AnalysisSummary, error) {
	if limit <= 0 || limit > s.size {
		limit = s.size
	}

	raw, err := s.client.LRange(ctx, s.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao ler histórico do redis")
	}

	return decodeSummaries(raw), nil
}

// DeleteOlderThan reescreve a lista sem as entradas anteriores ao corte
func (s *HistoryStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	raw, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return 0, errors.Wrap(err, "erro ao ler histórico do redis")
	}

	summaries := decodeSummaries(raw)
	kept := make([]interface{}, 0, len(summaries))
	for _, summary := range summaries {
		if summary.CreatedAt.Before(cutoff) {
			continue
		}
		payload, err := json.Marshal(summary)
		if err != nil {
			return 0, errors.Wrap(err, "erro ao serializar análise")
		}
		kept = append(kept, payload)
	}

	removed := int64(len(raw) - len(kept))
	if removed == 0 {
		return 0, nil
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(kept) > 0 {
			pipe.RPush(ctx, s.key, kept...)
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "erro ao reescrever histórico no redis")
	}

	return removed, nil
}

// decodeSummaries ignora entradas que não são resumos válidos
func decodeSummaries(raw []string) []*domain.AnalysisSummary {
	summaries := make([]*domain.AnalysisSummary, 0, len(raw))
	for _, entry := range raw {
		summary := &domain.AnalysisSummary{}
		if err := json.UnmarshalFromString(entry, summary); err != nil {
			log.L.WithError(err).Warn("Entrada inválida no histórico do redis")
			continue
		}
		if summary.TopBrands == nil {
			summary.TopBrands = []string{}
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
