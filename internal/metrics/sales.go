package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/shop-analyzer-api/internal/domain"
)

// GrowthWindows tamanhos de janela, em dias, usados no cálculo de crescimento
var GrowthWindows = []int{30, 60, 90}

const (
	topItems  = 5
	topBrands = 10
)

func (e *Engine) sales(record *domain.StructuredRecord, now time.Time) domain.SalesMetrics {
	sales := record.SaleTransactions()

	return domain.SalesMetrics{
		Growth: growth(dated(sales), now),
		BestSelling: domain.BestSelling{
			Items:  bestSellingItems(sales),
			Brands: e.bestSellingBrands(sales, record.Items),
		},
		Distribution: distribution(sales, record.Sales.Recent),
		Performance:  performance(record, sales),
	}
}

func growthKey(days int) string {
	return fmt.Sprintf("%ddays", days)
}

// growth compara [now-N, now] com a janela anterior [now-2N, now-N).
// Sem vendas na janela anterior o crescimento é 0.
func growth(sales []domain.Transaction, now time.Time) map[string]domain.GrowthRate {
	rates := make(map[string]domain.GrowthRate, len(GrowthWindows))

	for _, days := range GrowthWindows {
		window := time.Duration(days) * day
		currentStart := now.Add(-window)
		previousStart := now.Add(-2 * window)

		rate := domain.GrowthRate{WindowDays: days}
		for _, tx := range sales {
			date := *tx.Date
			switch {
			case within(date, now, window):
				rate.Current++
			case !date.Before(previousStart) && date.Before(currentStart):
				rate.Previous++
			}
		}

		if rate.Previous > 0 {
			rate.Growth = round(float64(rate.Current-rate.Previous) / float64(rate.Previous) * 100)
		}
		rates[growthKey(days)] = rate
	}

	return rates
}

type salesTally struct {
	key     string
	count   int
	revenue decimal.Decimal
}

// tally agrupa valores por chave preservando a ordem da primeira aparição
func tally(sales []domain.Transaction, keyOf func(domain.Transaction) string) []*salesTally {
	index := make(map[string]*salesTally)
	ordered := make([]*salesTally, 0)

	for _, tx := range sales {
		key := keyOf(tx)
		if key == "" {
			continue
		}
		entry, ok := index[key]
		if !ok {
			entry = &salesTally{key: key, revenue: decimal.Zero}
			index[key] = entry
			ordered = append(ordered, entry)
		}
		entry.count++
		entry.revenue = entry.revenue.Add(decimal.NewFromFloat(tx.Amount))
	}

	return ordered
}

// rank ordena de forma estável (empates mantêm a ordem de entrada) e corta em limit
func rank(entries []*salesTally, limit int, less func(a, b *salesTally) bool) []*salesTally {
	sorted := make([]*salesTally, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func byCount(a, b *salesTally) bool { return a.count > b.count }

func byRevenue(a, b *salesTally) bool { return a.revenue.GreaterThan(b.revenue) }

func bestSellingItems(sales []domain.Transaction) domain.RankedItems {
	entries := tally(sales, func(tx domain.Transaction) string {
		return strings.TrimSpace(tx.Description)
	})

	toItems := func(ranked []*salesTally) []domain.ItemSales {
		out := make([]domain.ItemSales, 0, len(ranked))
		for _, entry := range ranked {
			out = append(out, domain.ItemSales{
				Name:         entry.key,
				Count:        entry.count,
				TotalRevenue: round(entry.revenue.InexactFloat64()),
			})
		}
		return out
	}

	return domain.RankedItems{
		ByQuantity: toItems(rank(entries, topItems, byCount)),
		ByRevenue:  toItems(rank(entries, topItems, byRevenue)),
	}
}

// saleBrand usa "marque : X" da descrição; sem isso, procura um artigo cujo nome aparece na descrição
func (e *Engine) saleBrand(tx domain.Transaction, items []domain.Item) string {
	if match := e.table.SaleBrand.FindStringSubmatch(tx.Description); match != nil {
		return strings.TrimSpace(match[1])
	}

	description := strings.ToLower(tx.Description)
	for _, item := range items {
		if item.Name != "" && strings.Contains(description, strings.ToLower(item.Name)) {
			return item.Brand
		}
	}
	return ""
}

func (e *Engine) bestSellingBrands(sales []domain.Transaction, items []domain.Item) domain.RankedBrands {
	entries := tally(sales, func(tx domain.Transaction) string {
		return e.saleBrand(tx, items)
	})

	toBrands := func(ranked []*salesTally) []domain.BrandSales {
		out := make([]domain.BrandSales, 0, len(ranked))
		for _, entry := range ranked {
			revenue := entry.revenue.InexactFloat64()
			out = append(out, domain.BrandSales{
				Brand:        entry.key,
				Count:        entry.count,
				TotalRevenue: round(revenue),
				AveragePrice: round(ratio(revenue, float64(entry.count))),
			})
		}
		return out
	}

	return domain.RankedBrands{
		ByQuantity: toBrands(rank(entries, topBrands, byCount)),
		ByRevenue:  toBrands(rank(entries, topBrands, byRevenue)),
	}
}

type bucketEntry struct {
	count   int
	revenue decimal.Decimal
}

type bucketTotals map[string]*bucketEntry

func (b bucketTotals) add(key string, amount decimal.Decimal) {
	entry, ok := b[key]
	if !ok {
		entry = &bucketEntry{revenue: decimal.Zero}
		b[key] = entry
	}
	entry.count++
	entry.revenue = entry.revenue.Add(amount)
}

func (b bucketTotals) buckets() map[string]domain.Bucket {
	out := make(map[string]domain.Bucket, len(b))
	for key, entry := range b {
		revenue := entry.revenue.InexactFloat64()
		out[key] = domain.Bucket{
			Count:        entry.count,
			Revenue:      round(revenue),
			AverageValue: round(ratio(revenue, float64(entry.count))),
		}
	}
	return out
}

// distribution agrupa as vendas por dia, mês e ano. Usa as transações de venda datadas;
// sem nenhuma, usa as menções relativas de venda (apenas contagem, sem receita).
func distribution(sales []domain.Transaction, events []domain.SaleEvent) domain.SalesDistribution {
	daily, monthly, yearly := bucketTotals{}, bucketTotals{}, bucketTotals{}

	add := func(date time.Time, amount decimal.Decimal) {
		date = date.UTC()
		daily.add(date.Format(time.DateOnly), amount)
		monthly.add(date.Format("2006-01"), amount)
		yearly.add(date.Format("2006"), amount)
	}

	withDate := dated(sales)
	if len(withDate) > 0 {
		for _, tx := range withDate {
			add(*tx.Date, decimal.NewFromFloat(tx.Amount))
		}
	} else {
		for _, event := range events {
			add(event.Date, decimal.Zero)
		}
	}

	return domain.SalesDistribution{
		Daily:   daily.buckets(),
		Monthly: monthly.buckets(),
		Yearly:  yearly.buckets(),
	}
}

// PerformanceScore 0.6×min(conversão, 100) + 0.4×max(0, 100 − 2×dias médios para vender)
func PerformanceScore(conversion, averageDays float64) float64 {
	conversionScore := min(conversion, 100)
	speedScore := max(0, 100-2*averageDays)
	return conversionScore*0.6 + speedScore*0.4
}

func performance(record *domain.StructuredRecord, sales []domain.Transaction) domain.SalesPerformance {
	conversion := conversionRate(record)
	averageDays := averageDaysToSell(dated(sales))

	return domain.SalesPerformance{
		ConversionRate:    round(conversion),
		AverageDaysToSell: round(averageDays),
		Score:             round(PerformanceScore(conversion, averageDays)),
	}
}
