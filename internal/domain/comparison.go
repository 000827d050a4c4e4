package domain

// MetricDelta diferença de uma métrica numérica entre duas lojas
type MetricDelta struct {
	Difference float64 `json:"difference"`
	Percentage float64 `json:"percentage"` // 0 quando o valor da segunda loja é 0
	Shop1Value float64 `json:"shop1_value"`
	Shop2Value float64 `json:"shop2_value"`
}

type BrandOverlap struct {
	CommonBrands  []string `json:"common_brands"`
	UniqueBrands1 []string `json:"unique_brands1"`
	UniqueBrands2 []string `json:"unique_brands2"`
	TotalCommon   int      `json:"total_common"`
	TotalUnique1  int      `json:"total_unique1"`
	TotalUnique2  int      `json:"total_unique2"`
}

// ComparisonResult resultado da comparação entre duas lojas.
// Metrics é indexado pelo nome da métrica (ex: "followers", "average_price").
type ComparisonResult struct {
	Metrics      map[string]MetricDelta `json:"metrics"`
	BrandOverlap BrandOverlap           `json:"brand_overlap"`
}
