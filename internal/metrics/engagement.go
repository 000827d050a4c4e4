package metrics

import (
	"sort"
	"time"

	"github.com/vfg2006/shop-analyzer-api/internal/domain"
)

// marketShareThreshold fração mínima das vendas para um país contar na penetração de mercado
const marketShareThreshold = 0.1

func (e *Engine) engagement(record *domain.StructuredRecord, now time.Time) domain.EngagementMetrics {
	// Cada avaliação corresponde a uma venda concluída
	totalSales := record.Profile.TotalRatings

	return domain.EngagementMetrics{
		Rates:     rates(record, totalSales, now),
		Followers: followerMetrics(record, totalSales),
		Products:  e.productMetrics(record.Items),
		Location:  e.location(record.Sales.ByCountry, totalSales),
	}
}

func recentEvents(events []domain.SaleEvent, now time.Time, window time.Duration) int {
	count := 0
	for _, event := range events {
		if within(event.Date, now, window) {
			count++
		}
	}
	return count
}

func rates(record *domain.StructuredRecord, totalSales int, now time.Time) domain.EngagementRates {
	followers := float64(record.Profile.Followers)

	return domain.EngagementRates{
		Overall: round(percent(float64(totalSales), followers)),
		Weekly:  round(percent(float64(recentEvents(record.Sales.Recent, now, 7*day)), followers)),
		Monthly: round(percent(float64(recentEvents(record.Sales.Recent, now, 30*day)), followers)),
	}
}

func followerMetrics(record *domain.StructuredRecord, totalSales int) domain.FollowerMetrics {
	followers := record.Profile.Followers
	revenue := record.Financials.TotalRevenue

	return domain.FollowerMetrics{
		Conversion: domain.FollowerConversion{
			Percentage:     round(percent(float64(totalSales), float64(followers))),
			TotalBuyers:    totalSales,
			TotalFollowers: followers,
		},
		RevenuePerFollower: domain.RevenuePerFollower{
			Amount: round(ratio(revenue, float64(followers))),
			Total:  round(revenue),
		},
	}
}

func (e *Engine) productMetrics(items []domain.Item) domain.ProductMetrics {
	sold := 0
	popularity := make(map[string]domain.CategoryPopularity)

	for _, item := range items {
		category := e.table.Classify(item.Name + " " + item.Brand)
		entry := popularity[category]
		entry.Total++
		entry.Views += item.Views
		entry.Favorites += item.Favorites
		if item.IsSold {
			entry.Sold++
			sold++
		}
		popularity[category] = entry
	}

	for category, entry := range popularity {
		entry.ConversionRate = round(percent(float64(entry.Sold), float64(entry.Total)))
		entry.EngagementRate = round(ratio(float64(entry.Views+entry.Favorites), float64(entry.Total)))
		popularity[category] = entry
	}

	return domain.ProductMetrics{
		Turnover: domain.Turnover{
			Percentage: round(percent(float64(sold), float64(len(items)))),
			Sold:       sold,
			Available:  len(items),
		},
		Popularity: popularity,
	}
}

// countryOrder países na ordem da tabela de regras, seguidos dos demais em ordem alfabética
func (e *Engine) countryOrder(byCountry map[string]int) []string {
	order := make([]string, 0, len(byCountry))
	seen := make(map[string]bool, len(byCountry))
	for _, rule := range e.table.CountryRules {
		if _, ok := byCountry[rule.Country]; ok && !seen[rule.Country] {
			order = append(order, rule.Country)
			seen[rule.Country] = true
		}
	}

	others := make([]string, 0)
	for country := range byCountry {
		if !seen[country] {
			others = append(others, country)
		}
	}
	sort.Strings(others)

	return append(order, others...)
}

func (e *Engine) location(byCountry map[string]int, totalSales int) domain.LocationMetrics {
	metrics := domain.LocationMetrics{
		Distribution: make(map[string]domain.LocationShare, len(byCountry)),
	}
	threshold := float64(max(totalSales, 1)) * marketShareThreshold

	for _, country := range e.countryOrder(byCountry) {
		count := byCountry[country]
		metrics.Distribution[country] = domain.LocationShare{
			Count:      count,
			Percentage: round(percent(float64(count), float64(totalSales))),
		}

		// Empates ficam com o primeiro país na ordem das regras
		if count > 0 && (metrics.MainMarket == nil || count > metrics.MainMarket.Count) {
			metrics.MainMarket = &domain.MainMarket{Country: country, Count: count}
		}
		if float64(count) > threshold {
			metrics.MarketPenetration++
		}
	}

	return metrics
}
