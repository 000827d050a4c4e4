package domain

// Metrics agrupa os quatro grupos de métricas derivadas de um StructuredRecord.
// Failed lista os grupos que não puderam ser calculados (ficam com valor zero).
type Metrics struct {
	Basic      BasicMetrics      `json:"basic"`
	Sales      SalesMetrics      `json:"sales"`
	Engagement EngagementMetrics `json:"engagement"`
	Failed     []string          `json:"failed,omitempty"`
}

// ---- Basic ----

type BasicMetrics struct {
	EstimatedRevenue     EstimatedRevenue         `json:"estimated_revenue"`
	SalesFrequency       SalesFrequency           `json:"sales_frequency"`
	CategoryDistribution map[string]CategoryShare `json:"category_distribution"`
	AverageOrderValue    float64                  `json:"average_order_value"`
	Satisfaction         Satisfaction             `json:"satisfaction"`
	Catalog              CatalogSummary           `json:"catalog"`
}

type EstimatedRevenue struct {
	Total     float64 `json:"total"`
	LastMonth float64 `json:"last_month"`
	LastWeek  float64 `json:"last_week"`
}

type SalesFrequency struct {
	Daily   float64 `json:"daily"`
	Weekly  float64 `json:"weekly"`
	Monthly float64 `json:"monthly"`
}

type CategoryShare struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type Satisfaction struct {
	Rating        float64 `json:"rating"`
	Percentage    float64 `json:"percentage"`
	TotalRatings  int     `json:"total_ratings"`
	MemberRatings int     `json:"member_ratings"`
	AutoRatings   int     `json:"auto_ratings"`
}

// CatalogSummary visão geral dos artigos anunciados
type CatalogSummary struct {
	TotalItems     int            `json:"total_items"`
	ItemsSold      int            `json:"items_sold"`
	AveragePrice   float64        `json:"average_price"`
	ConversionRate float64        `json:"conversion_rate"`
	TotalViews     int            `json:"total_views"`
	TotalFavorites int            `json:"total_favorites"`
	RevenuePerItem float64        `json:"revenue_per_item"`
	SalesVelocity  float64        `json:"sales_velocity"` // vendas por dia nos últimos 30 dias
	TopBrands      map[string]int `json:"top_brands"`
}

// ---- Sales ----

type SalesMetrics struct {
	Growth       map[string]GrowthRate `json:"growth"`
	BestSelling  BestSelling           `json:"best_selling"`
	Distribution SalesDistribution     `json:"distribution"`
	Performance  SalesPerformance      `json:"performance"`
}

// GrowthRate compara a janela atual com a janela anterior de mesmo tamanho.
// Growth é 0 quando Previous é 0 (aproximação conhecida, não é um sinal real de crescimento).
type GrowthRate struct {
	WindowDays int     `json:"window_days"`
	Current    int     `json:"current"`
	Previous   int     `json:"previous"`
	Growth     float64 `json:"growth"`
}

type BestSelling struct {
	Items  RankedItems  `json:"items"`
	Brands RankedBrands `json:"brands"`
}

type RankedItems struct {
	ByQuantity []ItemSales `json:"by_quantity"`
	ByRevenue  []ItemSales `json:"by_revenue"`
}

type ItemSales struct {
	Name         string  `json:"name"`
	Count        int     `json:"count"`
	TotalRevenue float64 `json:"total_revenue"`
}

type RankedBrands struct {
	ByQuantity []BrandSales `json:"by_quantity"`
	ByRevenue  []BrandSales `json:"by_revenue"`
}

type BrandSales struct {
	Brand        string  `json:"brand"`
	Count        int     `json:"count"`
	TotalRevenue float64 `json:"total_revenue"`
	AveragePrice float64 `json:"average_price"`
}

type SalesDistribution struct {
	Daily   map[string]Bucket `json:"daily"`   // yyyy-mm-dd
	Monthly map[string]Bucket `json:"monthly"` // yyyy-mm
	Yearly  map[string]Bucket `json:"yearly"`  // yyyy
}

type Bucket struct {
	Count        int     `json:"count"`
	Revenue      float64 `json:"revenue"`
	AverageValue float64 `json:"average_value"`
}

type SalesPerformance struct {
	ConversionRate    float64 `json:"conversion_rate"`
	AverageDaysToSell float64 `json:"average_days_to_sell"`
	Score             float64 `json:"score"`
}

// ---- Engagement ----

type EngagementMetrics struct {
	Rates     EngagementRates `json:"rates"`
	Followers FollowerMetrics `json:"followers"`
	Products  ProductMetrics  `json:"products"`
	Location  LocationMetrics `json:"location"`
}

type EngagementRates struct {
	Overall float64 `json:"overall"`
	Weekly  float64 `json:"weekly"`
	Monthly float64 `json:"monthly"`
}

type FollowerMetrics struct {
	Conversion         FollowerConversion `json:"conversion"`
	RevenuePerFollower RevenuePerFollower `json:"revenue_per_follower"`
}

type FollowerConversion struct {
	Percentage     float64 `json:"percentage"`
	TotalBuyers    int     `json:"total_buyers"`
	TotalFollowers int     `json:"total_followers"`
}

type RevenuePerFollower struct {
	Amount float64 `json:"amount"`
	Total  float64 `json:"total"`
}

type ProductMetrics struct {
	Turnover   Turnover                      `json:"turnover"`
	Popularity map[string]CategoryPopularity `json:"popularity"`
}

type Turnover struct {
	Percentage float64 `json:"percentage"`
	Sold       int     `json:"sold"`
	Available  int     `json:"available"`
}

type CategoryPopularity struct {
	Total          int     `json:"total"`
	Sold           int     `json:"sold"`
	Views          int     `json:"views"`
	Favorites      int     `json:"favorites"`
	ConversionRate float64 `json:"conversion_rate"`
	EngagementRate float64 `json:"engagement_rate"` // interações (views + favoritos) por artigo
}

type LocationMetrics struct {
	Distribution      map[string]LocationShare `json:"distribution"`
	MainMarket        *MainMarket              `json:"main_market"`
	MarketPenetration int                      `json:"market_penetration"` // países com mais de 10% das vendas
}

type LocationShare struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type MainMarket struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}
