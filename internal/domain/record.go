// Package domain contém as estruturas de dados do domínio da aplicação
package domain

import "time"

type TransactionType string

const (
	TransactionSale           TransactionType = "Sale"
	TransactionMarketingBoost TransactionType = "MarketingBoost"
	TransactionShowcaseBoost  TransactionType = "ShowcaseBoost"
	TransactionTransfer       TransactionType = "Transfer"
)

// IsBoost indica se a transação é um gasto de promoção (boost ou vitrine)
func (t TransactionType) IsBoost() bool {
	return t == TransactionMarketingBoost || t == TransactionShowcaseBoost
}

type TimeUnit string

const (
	UnitHour  TimeUnit = "hour"
	UnitDay   TimeUnit = "day"
	UnitWeek  TimeUnit = "week"
	UnitMonth TimeUnit = "month"
	UnitYear  TimeUnit = "year"
)

type BusinessInfo struct {
	RegistrationID string `json:"registration_id"`
	RegistryRef    string `json:"registry_ref"`
}

// Profile identidade e reputação da loja
type Profile struct {
	ShopName      string        `json:"shop_name"`
	Followers     int           `json:"followers"`
	Following     int           `json:"following"`
	MemberRatings int           `json:"member_ratings"`
	AutoRatings   int           `json:"auto_ratings"`
	TotalRatings  int           `json:"total_ratings"`
	Rating        float64       `json:"rating"`
	IsPro         bool          `json:"is_pro"`
	BusinessInfo  *BusinessInfo `json:"business_info"`
	TotalArticles int           `json:"total_articles"`
}

type Item struct {
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Brand     string  `json:"brand"`
	Size      string  `json:"size"`
	Views     int     `json:"views"`
	Favorites int     `json:"favorites"`
	IsSold    bool    `json:"is_sold"`
}

type Transaction struct {
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Date        *time.Time      `json:"date"`
}

// SaleEvent menção de venda relativa ("il y a 3 jours") já resolvida para uma data absoluta
type SaleEvent struct {
	TimeAgo int       `json:"time_ago"`
	Unit    TimeUnit  `json:"unit"`
	Date    time.Time `json:"date"`
}

type SalesInfo struct {
	ByDate    map[string]int `json:"by_date"` // Formato yyyy-mm-dd
	ByCountry map[string]int `json:"by_country"`
	Recent    []SaleEvent    `json:"recent"`
}

type Financials struct {
	InitialBalance float64       `json:"initial_balance"`
	CurrentBalance float64       `json:"current_balance"`
	TotalRevenue   float64       `json:"total_revenue"`
	TotalExpenses  float64       `json:"total_expenses"`
	BoostExpenses  float64       `json:"boost_expenses"`
	Transfers      []Transaction `json:"transfers"`
}

// Period intervalo de datas absolutas mencionadas no extrato
type Period struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// Diagnostics lista os campos que caíram no valor padrão durante a extração.
// Defaulted: o padrão não foi encontrado no texto. Malformed: o valor capturado não era numérico.
type Diagnostics struct {
	Defaulted []string `json:"defaulted"`
	Malformed []string `json:"malformed"`
}

// IsDefaulted indica se o campo foi preenchido com o valor padrão
func (d Diagnostics) IsDefaulted(field string) bool {
	for _, f := range d.Defaulted {
		if f == field {
			return true
		}
	}
	return false
}

// StructuredRecord resultado normalizado da extração de um texto de loja
type StructuredRecord struct {
	Profile      Profile       `json:"profile"`
	Items        []Item        `json:"items"`
	Transactions []Transaction `json:"transactions"`
	Sales        SalesInfo     `json:"sales"`
	Financials   Financials    `json:"financials"`
	Period       Period        `json:"period"`
	Diagnostics  Diagnostics   `json:"diagnostics"`
}

// SoldItems retorna a quantidade de itens marcados como vendidos
func (r *StructuredRecord) SoldItems() int {
	sold := 0
	for _, item := range r.Items {
		if item.IsSold {
			sold++
		}
	}
	return sold
}

// SaleTransactions retorna apenas as transações de venda, na ordem original
func (r *StructuredRecord) SaleTransactions() []Transaction {
	sales := make([]Transaction, 0, len(r.Transactions))
	for _, t := range r.Transactions {
		if t.Type == TransactionSale {
			sales = append(sales, t)
		}
	}
	return sales
}
