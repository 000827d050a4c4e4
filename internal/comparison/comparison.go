// Package comparison compara as métricas de duas lojas
package comparison

import (
	"sort"

	"github.com/vfg2006/shop-analyzer-api/internal/domain"
	"github.com/vfg2006/shop-analyzer-api/internal/extraction"
	"github.com/vfg2006/shop-analyzer-api/internal/metrics"
	"github.com/vfg2006/shop-analyzer-api/pkg/utils"
)

// Nomes das métricas comparadas
const (
	MetricFollowers      = "followers"
	MetricRating         = "rating"
	MetricTotalRatings   = "total_ratings"
	MetricAveragePrice   = "average_price"
	MetricTotalItems     = "total_items"
	MetricItemsSold      = "items_sold"
	MetricConversionRate = "conversion_rate"
	MetricTotalViews     = "total_views"
	MetricTotalFavorites = "total_favorites"
	MetricSalesVelocity  = "sales_velocity"
	MetricRevenuePerItem = "revenue_per_item"
)

type snapshot struct {
	record  *domain.StructuredRecord
	metrics *domain.Metrics
}

type extractor func(s snapshot) float64

var comparedMetrics = map[string]extractor{
	MetricFollowers:      func(s snapshot) float64 { return float64(s.record.Profile.Followers) },
	MetricRating:         func(s snapshot) float64 { return s.record.Profile.Rating },
	MetricTotalRatings:   func(s snapshot) float64 { return float64(s.record.Profile.TotalRatings) },
	MetricAveragePrice:   func(s snapshot) float64 { return s.metrics.Basic.Catalog.AveragePrice },
	MetricTotalItems:     func(s snapshot) float64 { return float64(s.metrics.Basic.Catalog.TotalItems) },
	MetricItemsSold:      func(s snapshot) float64 { return float64(s.metrics.Basic.Catalog.ItemsSold) },
	MetricConversionRate: func(s snapshot) float64 { return s.metrics.Basic.Catalog.ConversionRate },
	MetricTotalViews:     func(s snapshot) float64 { return float64(s.metrics.Basic.Catalog.TotalViews) },
	MetricTotalFavorites: func(s snapshot) float64 { return float64(s.metrics.Basic.Catalog.TotalFavorites) },
	MetricSalesVelocity:  func(s snapshot) float64 { return s.metrics.Basic.Catalog.SalesVelocity },
	MetricRevenuePerItem: func(s snapshot) float64 { return s.metrics.Basic.Catalog.RevenuePerItem },
}

// Metrics lista os nomes das métricas comparadas, em ordem alfabética
func Metrics() []string {
	names := make([]string, 0, len(comparedMetrics))
	for name := range comparedMetrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Comparator struct {
	engine *metrics.Engine
}

func NewComparator(engine *metrics.Engine) *Comparator {
	if engine == nil {
		engine = metrics.NewEngine()
	}
	return &Comparator{engine: engine}
}

// Compare nunca falha: registros nulos ou incompletos são normalizados antes da comparação
func (c *Comparator) Compare(a, b *domain.StructuredRecord) *domain.ComparisonResult {
	shop1 := snapshot{record: extraction.Normalize(a)}
	shop1.metrics = c.engine.Compute(shop1.record)
	shop2 := snapshot{record: extraction.Normalize(b)}
	shop2.metrics = c.engine.Compute(shop2.record)

	result := &domain.ComparisonResult{
		Metrics: make(map[string]domain.MetricDelta, len(comparedMetrics)),
	}
	for name, value := range comparedMetrics {
		result.Metrics[name] = Delta(value(shop1), value(shop2))
	}
	result.BrandOverlap = Overlap(shop1.metrics.Basic.Catalog.TopBrands, shop2.metrics.Basic.Catalog.TopBrands)

	return result
}

// Delta diferença absoluta e percentual de v1 em relação a v2 (percentual 0 quando v2 é 0)
func Delta(v1, v2 float64) domain.MetricDelta {
	delta := domain.MetricDelta{
		Difference: utils.RoundWithTwoDecimalPlace(v1 - v2),
		Shop1Value: v1,
		Shop2Value: v2,
	}
	if v2 != 0 {
		delta.Percentage = utils.RoundWithTwoDecimalPlace((v1 - v2) / v2 * 100)
	}
	return delta
}

// Overlap marcas em comum e exclusivas de cada loja, em ordem alfabética
func Overlap(brands1, brands2 map[string]int) domain.BrandOverlap {
	overlap := domain.BrandOverlap{
		CommonBrands:  []string{},
		UniqueBrands1: []string{},
		UniqueBrands2: []string{},
	}

	for brand := range brands1 {
		if _, ok := brands2[brand]; ok {
			overlap.CommonBrands = append(overlap.CommonBrands, brand)
		} else {
			overlap.UniqueBrands1 = append(overlap.UniqueBrands1, brand)
		}
	}
	for brand := range brands2 {
		if _, ok := brands1[brand]; !ok {
			overlap.UniqueBrands2 = append(overlap.UniqueBrands2, brand)
		}
	}

	sort.Strings(overlap.CommonBrands)
	sort.Strings(overlap.UniqueBrands1)
	sort.Strings(overlap.UniqueBrands2)

	overlap.TotalCommon = len(overlap.CommonBrands)
	overlap.TotalUnique1 = len(overlap.UniqueBrands1)
	overlap.TotalUnique2 = len(overlap.UniqueBrands2)

	return overlap
}
