package metrics

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/shop-analyzer-api/internal/domain"
)

func (e *Engine) basic(record *domain.StructuredRecord, now time.Time) domain.BasicMetrics {
	sales := record.SaleTransactions()
	revenue := sumAmounts(sales)

	return domain.BasicMetrics{
		EstimatedRevenue:     estimatedRevenue(sales, now),
		SalesFrequency:       salesFrequency(sales),
		CategoryDistribution: e.categoryDistribution(sales),
		AverageOrderValue:    round(ratio(revenue, float64(len(sales)))),
		Satisfaction:         satisfaction(record.Profile),
		Catalog:              catalog(record, now),
	}
}

func sumAmounts(transactions []domain.Transaction) float64 {
	total := decimal.Zero
	for _, tx := range transactions {
		total = total.Add(decimal.NewFromFloat(tx.Amount))
	}
	return total.InexactFloat64()
}

// revenueSince soma as vendas datadas dentro da janela [now-window, now]
func revenueSince(sales []domain.Transaction, now time.Time, window time.Duration) float64 {
	inWindow := make([]domain.Transaction, 0, len(sales))
	for _, tx := range sales {
		if tx.Date != nil && within(*tx.Date, now, window) {
			inWindow = append(inWindow, tx)
		}
	}
	return sumAmounts(inWindow)
}

func estimatedRevenue(sales []domain.Transaction, now time.Time) domain.EstimatedRevenue {
	return domain.EstimatedRevenue{
		Total:     round(sumAmounts(sales)),
		LastMonth: round(revenueSince(sales, now, 30*day)),
		LastWeek:  round(revenueSince(sales, now, 7*day)),
	}
}

// salesFrequency vendas datadas divididas pelo número de dias entre a primeira e a última
func salesFrequency(sales []domain.Transaction) domain.SalesFrequency {
	withDate := dated(sales)
	if len(withDate) == 0 {
		return domain.SalesFrequency{}
	}

	daily := ratio(float64(len(withDate)), saleSpan(withDate).Hours()/24)
	return domain.SalesFrequency{
		Daily:   round(daily),
		Weekly:  round(daily * 7),
		Monthly: round(daily * 30),
	}
}

func (e *Engine) categoryDistribution(sales []domain.Transaction) map[string]domain.CategoryShare {
	counts := make(map[string]int)
	for _, tx := range sales {
		counts[e.table.Classify(tx.Description)]++
	}

	distribution := make(map[string]domain.CategoryShare, len(counts))
	for category, count := range counts {
		distribution[category] = domain.CategoryShare{
			Count:      count,
			Percentage: round(percent(float64(count), float64(len(sales)))),
		}
	}
	return distribution
}

func satisfaction(profile domain.Profile) domain.Satisfaction {
	return domain.Satisfaction{
		Rating:        profile.Rating,
		Percentage:    round(profile.Rating / 5 * 100),
		TotalRatings:  profile.TotalRatings,
		MemberRatings: profile.MemberRatings,
		AutoRatings:   profile.AutoRatings,
	}
}

func catalog(record *domain.StructuredRecord, now time.Time) domain.CatalogSummary {
	summary := domain.CatalogSummary{
		TotalItems: len(record.Items),
		ItemsSold:  record.SoldItems(),
		TopBrands:  make(map[string]int),
	}

	prices := decimal.Zero
	for _, item := range record.Items {
		prices = prices.Add(decimal.NewFromFloat(item.Price))
		summary.TotalViews += item.Views
		summary.TotalFavorites += item.Favorites
		summary.TopBrands[item.Brand]++
	}

	recent := 0
	for _, event := range record.Sales.Recent {
		if within(event.Date, now, 30*day) {
			recent++
		}
	}

	summary.AveragePrice = round(ratio(prices.InexactFloat64(), float64(summary.TotalItems)))
	summary.ConversionRate = round(conversionRate(record))
	summary.RevenuePerItem = round(ratio(record.Financials.TotalRevenue, float64(summary.ItemsSold)))
	summary.SalesVelocity = round(float64(recent) / 30)

	return summary
}
