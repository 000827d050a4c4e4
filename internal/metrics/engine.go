// Package metrics calcula as métricas derivadas de um StructuredRecord.
//
// Os grupos (básico, vendas, engajamento) são independentes: uma falha em um grupo
// é registrada em Metrics.Failed e não impede o cálculo dos demais.
// Toda divisão usa piso 1 no denominador quando o denominador natural é zero,
// de forma que nenhuma métrica emitida é NaN ou infinita.
package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/vfg2006/shop-analyzer-api/internal/domain"
	"github.com/vfg2006/shop-analyzer-api/internal/extraction"
	"github.com/vfg2006/shop-analyzer-api/internal/extraction/patterns"
	"github.com/vfg2006/shop-analyzer-api/pkg/log"
	"github.com/vfg2006/shop-analyzer-api/pkg/utils"
)

const (
	GroupBasic      = "basic"
	GroupSales      = "sales"
	GroupEngagement = "engagement"
)

const day = 24 * time.Hour

type Engine struct {
	table *patterns.Table
	clock func() time.Time
}

type Option func(*Engine)

// WithClock define o "agora" usado nas janelas de tempo (últimos 7/30 dias, crescimento)
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithTable define a tabela usada para classificar categorias e extrair marcas de vendas
func WithTable(table *patterns.Table) Option {
	return func(e *Engine) {
		e.table = table
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		table: patterns.Default(),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute nunca falha. O registro é normalizado antes do cálculo e não é alterado.
func (e *Engine) Compute(record *domain.StructuredRecord) *domain.Metrics {
	record = extraction.Normalize(record)
	now := e.clock()
	m := &domain.Metrics{}

	e.run(GroupBasic, m, func() { m.Basic = e.basic(record, now) })
	e.run(GroupSales, m, func() { m.Sales = e.sales(record, now) })
	e.run(GroupEngagement, m, func() { m.Engagement = e.engagement(record, now) })

	return m
}

func (e *Engine) run(group string, m *domain.Metrics, compute func()) {
	defer func() {
		if r := recover(); r != nil {
			log.L.WithError(fmt.Errorf("%v", r)).
				WithField("group", group).
				Errorf("metrics: falha ao calcular grupo %s", group)
			m.Failed = append(m.Failed, group)
		}
	}()
	compute()
}

// ratio divide num por den, usando 1 quando den é zero
func ratio(num, den float64) float64 {
	if den == 0 {
		den = 1
	}
	return finite(num / den)
}

func percent(num, den float64) float64 {
	return ratio(num, den) * 100
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func round(v float64) float64 {
	return utils.RoundWithTwoDecimalPlace(finite(v))
}

// within indica se date está em [now-window, now]
func within(date, now time.Time, window time.Duration) bool {
	return !date.Before(now.Add(-window)) && !date.After(now)
}

// dated filtra as transações que têm data, mantendo a ordem original
func dated(transactions []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.Date != nil {
			out = append(out, tx)
		}
	}
	return out
}

// saleSpan intervalo entre a venda datada mais antiga e a mais recente
func saleSpan(sales []domain.Transaction) time.Duration {
	if len(sales) == 0 {
		return 0
	}
	oldest, newest := *sales[0].Date, *sales[0].Date
	for _, tx := range sales[1:] {
		if tx.Date.Before(oldest) {
			oldest = *tx.Date
		}
		if tx.Date.After(newest) {
			newest = *tx.Date
		}
	}
	return newest.Sub(oldest)
}

// conversionRate artigos vendidos sobre artigos anunciados, em %
func conversionRate(record *domain.StructuredRecord) float64 {
	return percent(float64(record.SoldItems()), float64(len(record.Items)))
}

// averageDaysToSell intervalo médio entre vendas datadas; 0 com menos de duas vendas
func averageDaysToSell(sales []domain.Transaction) float64 {
	if len(sales) < 2 {
		return 0
	}
	return ratio(saleSpan(sales).Hours()/24, float64(len(sales)))
}
