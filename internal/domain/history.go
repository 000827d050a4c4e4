package domain

import "time"

const (
	AnalysisTypeProfile    = "profile_analysis"
	AnalysisTypeComparison = "shops_comparison"
)

// AnalysisSummary resumo de uma análise mantido no histórico (máximo de 10 entradas)
type AnalysisSummary struct {
	ID               string    `json:"id"`
	Type             string    `json:"type"`
	ShopName         string    `json:"shop_name"`
	Followers        int       `json:"followers"`
	ItemsCount       int       `json:"items_count"`
	TotalSales       int       `json:"total_sales"`
	TotalRevenue     float64   `json:"total_revenue"`
	TransactionCount int       `json:"transaction_count"`
	AverageOrder     float64   `json:"average_order_value"`
	TopBrands        []string  `json:"top_brands"`
	CreatedAt        time.Time `json:"created_at"`
}

// AnalysisEvent evento publicado ao final de cada análise
type AnalysisEvent struct {
	Name      string          `json:"name"`
	Summary   AnalysisSummary `json:"summary"`
	Timestamp time.Time       `json:"timestamp"`
}

// AnalysisResult resposta de uma análise de perfil
type AnalysisResult struct {
	ID      string            `json:"id"`
	Record  *StructuredRecord `json:"record"`
	Metrics *Metrics          `json:"metrics"`
}

// ComparisonReport resposta de uma comparação entre duas lojas
type ComparisonReport struct {
	ID         string            `json:"id"`
	Shop1      *AnalysisResult   `json:"shop1"`
	Shop2      *AnalysisResult   `json:"shop2"`
	Comparison *ComparisonResult `json:"comparison"`
}
