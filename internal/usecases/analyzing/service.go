package analyzing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/vfg2006/shop-analyzer-api/internal/comparison"
	"github.com/vfg2006/shop-analyzer-api/internal/config"
	"github.com/vfg2006/shop-analyzer-api/internal/domain"
	"github.com/vfg2006/shop-analyzer-api/internal/extraction"
	"github.com/vfg2006/shop-analyzer-api/internal/metrics"
	"github.com/vfg2006/shop-analyzer-api/pkg/log"
	"github.com/vfg2006/shop-analyzer-api/pkg/utils"
)

// EventAnalysisComplete nome do evento publicado ao final de cada análise
const EventAnalysisComplete = "analysis_complete"

const summaryTopBrands = 5

type Analyzer interface {
	Analyze(ctx context.Context, text string) (*domain.AnalysisResult, error)
	Compare(ctx context.Context, shop1, shop2 string) (*domain.ComparisonReport, error)
	History(ctx context.Context) ([]*domain.AnalysisSummary, error)
}

type Service struct {
	builder      *extraction.Builder
	engine       *metrics.Engine
	comparator   *comparison.Comparator
	history      HistoryStore
	publisher    EventPublisher
	maxTextBytes int
	historySize  int
	clock        func() time.Time
	generateID   func() (string, error)
}

type Option func(*Service)

// WithClock fixa o relógio usado na extração, nas métricas e nos resumos
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

func WithIDGenerator(generate func() (string, error)) Option {
	return func(s *Service) {
		s.generateID = generate
	}
}

func NewService(history HistoryStore, publisher EventPublisher, cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		history:      history,
		publisher:    publisher,
		maxTextBytes: cfg.Analysis.MaxTextBytes,
		historySize:  cfg.History.Size,
		clock:        time.Now,
		generateID:   utils.GenerateID,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.builder = extraction.NewBuilder(extraction.WithClock(s.clock))
	s.engine = metrics.NewEngine(metrics.WithClock(s.clock))
	s.comparator = comparison.NewComparator(s.engine)

	return s
}

func (s *Service) validate(field, text string) error {
	if strings.TrimSpace(text) == "" {
		return NewAnalysisError(ErrEmptyText, codeFor(ErrEmptyText), field, "")
	}
	if !utf8.ValidString(text) {
		return NewAnalysisError(ErrInvalidEncoding, codeFor(ErrInvalidEncoding), field, "")
	}
	if s.maxTextBytes > 0 && len(text) > s.maxTextBytes {
		return NewAnalysisError(ErrTextTooLarge, codeFor(ErrTextTooLarge), field,
			fmt.Sprintf("%d bytes, máximo %d", len(text), s.maxTextBytes))
	}
	return nil
}

func (s *Service) analyze(text string) *domain.AnalysisResult {
	record := s.builder.Extract(text)
	return &domain.AnalysisResult{
		Record:  record,
		Metrics: s.engine.Compute(record),
	}
}

func (s *Service) Analyze(ctx context.Context, text string) (*domain.AnalysisResult, error) {
	if err := s.validate("text", text); err != nil {
		return nil, err
	}

	id, err := s.generateID()
	if err != nil {
		return nil, NewAnalysisError(ErrGenerateID, codeFor(err), "", err.Error())
	}

	result := s.analyze(text)
	result.ID = id

	log.ForContext(ctx).WithFields(log.Fields{
		"analysis_id": id,
		"shop_name":   result.Record.Profile.ShopName,
		"defaulted":   len(result.Record.Diagnostics.Defaulted),
		"malformed":   len(result.Record.Diagnostics.Malformed),
	}).Info("Análise de perfil concluída")

	s.record(ctx, Summarize(id, domain.AnalysisTypeProfile, result, s.clock()))

	return result, nil
}

// Compare extrai as duas lojas em paralelo; cada extração é independente
func (s *Service) Compare(ctx context.Context, shop1, shop2 string) (*domain.ComparisonReport, error) {
	if err := s.validate("shop1", shop1); err != nil {
		return nil, err
	}
	if err := s.validate("shop2", shop2); err != nil {
		return nil, err
	}

	id, err := s.generateID()
	if err != nil {
		return nil, NewAnalysisError(ErrGenerateID, codeFor(err), "", err.Error())
	}

	var (
		wg     sync.WaitGroup
		first  *domain.AnalysisResult
		second *domain.AnalysisResult
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		first = s.analyze(shop1)
	}()
	go func() {
		defer wg.Done()
		second = s.analyze(shop2)
	}()
	wg.Wait()

	first.ID = id + "-1"
	second.ID = id + "-2"

	report := &domain.ComparisonReport{
		ID:         id,
		Shop1:      first,
		Shop2:      second,
		Comparison: s.comparator.Compare(first.Record, second.Record),
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"analysis_id": id,
		"shop1":       first.Record.Profile.ShopName,
		"shop2":       second.Record.Profile.ShopName,
	}).Info("Comparação de lojas concluída")

	now := s.clock()
	s.record(ctx, Summarize(first.ID, domain.AnalysisTypeComparison, first, now))
	s.record(ctx, Summarize(second.ID, domain.AnalysisTypeComparison, second, now))

	return report, nil
}

func (s *Service) History(ctx context.Context) ([]*domain.AnalysisSummary, error) {
	if s.history == nil {
		return []*domain.AnalysisSummary{}, nil
	}

	summaries, err := s.history.List(ctx, s.historySize)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar histórico de análises: %w", err)
	}
	if summaries == nil {
		summaries = []*domain.AnalysisSummary{}
	}
	return summaries, nil
}

// record grava o resumo e publica o evento. Falhas aqui são apenas logadas:
// a análise já foi calculada e é devolvida mesmo sem histórico.
func (s *Service) record(ctx context.Context, summary *domain.AnalysisSummary) {
	ctx = log.WithAnalysisID(ctx, summary.ID)
	logger := log.ForContext(ctx)

	if s.history != nil {
		if err := s.history.Save(ctx, summary); err != nil {
			logger.WithError(err).Error("Erro ao salvar análise no histórico")
		}
	}

	if s.publisher != nil {
		event := &domain.AnalysisEvent{
			Name:      EventAnalysisComplete,
			Summary:   *summary,
			Timestamp: summary.CreatedAt,
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			logger.WithError(err).Warn("Erro ao publicar evento de análise")
		}
	}
}

// Summarize resumo de uma análise para o histórico
func Summarize(id, analysisType string, result *domain.AnalysisResult, createdAt time.Time) *domain.AnalysisSummary {
	record := result.Record
	catalog := result.Metrics.Basic.Catalog

	return &domain.AnalysisSummary{
		ID:               id,
		Type:             analysisType,
		ShopName:         record.Profile.ShopName,
		Followers:        record.Profile.Followers,
		ItemsCount:       len(record.Items),
		TotalSales:       record.Profile.TotalRatings,
		TotalRevenue:     record.Financials.TotalRevenue,
		TransactionCount: len(record.Transactions),
		AverageOrder:     result.Metrics.Basic.AverageOrderValue,
		TopBrands:        topBrandNames(catalog.TopBrands, summaryTopBrands),
		CreatedAt:        createdAt,
	}
}

// topBrandNames marcas com mais artigos; empates em ordem alfabética
func topBrandNames(brands map[string]int, limit int) []string {
	names := make([]string, 0, len(brands))
	for name := range brands {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if brands[names[i]] != brands[names[j]] {
			return brands[names[i]] > brands[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > limit {
		names = names[:limit]
	}
	return names
}
