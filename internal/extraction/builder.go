package extraction

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/shop-analyzer-api/internal/domain"
	"github.com/vfg2006/shop-analyzer-api/internal/extraction/patterns"
	"github.com/vfg2006/shop-analyzer-api/pkg/log"
	"golang.org/x/text/unicode/norm"
)

// Builder monta um StructuredRecord a partir do texto de uma loja.
// Não guarda estado entre chamadas e pode ser usado por várias goroutines.
type Builder struct {
	table *patterns.Table
	clock func() time.Time
}

type Option func(*Builder)

// WithClock define o relógio usado para resolver datas relativas ("il y a 3 jours")
func WithClock(clock func() time.Time) Option {
	return func(b *Builder) {
		b.clock = clock
	}
}

func WithTable(table *patterns.Table) Option {
	return func(b *Builder) {
		b.table = table
	}
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		table: patterns.Default(),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

var defaultBuilder = NewBuilder()

// Extract usa o Builder padrão (tabela padrão, relógio do sistema)
func Extract(text string) *domain.StructuredRecord {
	return defaultBuilder.Extract(text)
}

var whitespaceReplacer = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\u00a0", " ",
	"\u202f", " ",
)

// NormalizeText aplica NFC e unifica quebras de linha e espaços não separáveis
func NormalizeText(text string) string {
	return whitespaceReplacer.Replace(norm.NFC.String(text))
}

type diagnostics struct {
	defaulted []string
	malformed []string
}

func (d *diagnostics) track(name string, defaulted, malformed bool) {
	if defaulted {
		d.defaulted = append(d.defaulted, name)
	}
	if malformed {
		d.malformed = append(d.malformed, name)
	}
}

func trackField[T any](d *diagnostics, name string, f Field[T]) T {
	d.track(name, f.Defaulted, f.Malformed)
	return f.Value
}

// Extract nunca falha: campos ausentes ficam com o valor padrão e são listados em Diagnostics
func (b *Builder) Extract(text string) *domain.StructuredRecord {
	text = NormalizeText(text)
	now := b.clock()
	t := b.table
	diag := &diagnostics{}

	profile := domain.Profile{
		ShopName:      trackField(diag, "shop_name", ShopName(t, text)),
		Followers:     trackField(diag, "followers", Followers(t, text)),
		Following:     trackField(diag, "following", Following(t, text)),
		MemberRatings: trackField(diag, "member_ratings", MemberRatings(t, text)),
		AutoRatings:   trackField(diag, "auto_ratings", AutoRatings(t, text)),
		Rating:        trackField(diag, "rating", Rating(t, text)),
		IsPro:         IsPro(t, text),
		TotalArticles: trackField(diag, "total_articles", TotalArticles(t, text)),
	}
	profile.TotalRatings = profile.MemberRatings + profile.AutoRatings
	if profile.IsPro {
		profile.BusinessInfo = trackField(diag, "business_info", Business(t, text))
	}

	items, bad := Items(t, text)
	diag.malformed = append(diag.malformed, bad...)
	diag.track("items", len(items) == 0, false)

	events, bad := SaleEvents(t, text, now)
	diag.malformed = append(diag.malformed, bad...)
	diag.track("sales.recent", len(events) == 0, false)

	byCountry := CountryCounts(t, text)
	diag.track("sales.by_country", len(byCountry) == 0, false)

	transactions, bad := Transactions(t, text)
	diag.malformed = append(diag.malformed, bad...)
	diag.track("transactions", len(transactions) == 0, false)

	initial, final := Balances(t, text)
	financials := summarize(transactions)
	financials.InitialBalance = trackField(diag, "financials.initial_balance", initial)
	financials.CurrentBalance = trackField(diag, "financials.current_balance", final)

	record := &domain.StructuredRecord{
		Profile:      profile,
		Items:        items,
		Transactions: transactions,
		Sales: domain.SalesInfo{
			ByDate:    SalesByDate(events),
			ByCountry: byCountry,
			Recent:    events,
		},
		Financials: financials,
		Period:     LedgerPeriod(t, text),
		Diagnostics: domain.Diagnostics{
			Defaulted: diag.defaulted,
			Malformed: diag.malformed,
		},
	}

	log.L.WithFields(log.Fields{
		"shop_name":     profile.ShopName,
		"items":         len(items),
		"transactions":  len(transactions),
		"sale_events":   len(events),
		"defaulted":     len(diag.defaulted),
		"malformed":     len(diag.malformed),
		"pattern_table": t.Version,
	}).Debug("extraction: registro montado")

	return Normalize(record)
}

// summarize totaliza o extrato. Vendas somam na receita, boosts e vitrine somam (em módulo)
// nas despesas e transferências são apenas listadas.
func summarize(transactions []domain.Transaction) domain.Financials {
	revenue, expenses, boosts := decimal.Zero, decimal.Zero, decimal.Zero
	transfers := make([]domain.Transaction, 0)

	for _, tx := range transactions {
		amount := decimal.NewFromFloat(tx.Amount)
		switch {
		case tx.Type == domain.TransactionSale:
			revenue = revenue.Add(amount)
		case tx.Type.IsBoost():
			boosts = boosts.Add(amount.Abs())
			expenses = expenses.Add(amount.Abs())
		case tx.Type == domain.TransactionTransfer:
			transfers = append(transfers, tx)
		}
	}

	return domain.Financials{
		TotalRevenue:  revenue.InexactFloat64(),
		TotalExpenses: expenses.InexactFloat64(),
		BoostExpenses: boosts.InexactFloat64(),
		Transfers:     transfers,
	}
}

// Normalize garante um registro completo: coleções nunca nulas, contadores não negativos
// e TotalRatings coerente com as parcelas. Não altera o registro recebido.
// Aceita nil e devolve um registro vazio.
func Normalize(record *domain.StructuredRecord) *domain.StructuredRecord {
	if record == nil {
		record = &domain.StructuredRecord{}
	}
	out := *record

	out.Profile.Followers = max(out.Profile.Followers, 0)
	out.Profile.Following = max(out.Profile.Following, 0)
	out.Profile.MemberRatings = max(out.Profile.MemberRatings, 0)
	out.Profile.AutoRatings = max(out.Profile.AutoRatings, 0)
	out.Profile.TotalArticles = max(out.Profile.TotalArticles, 0)
	out.Profile.TotalRatings = out.Profile.MemberRatings + out.Profile.AutoRatings
	if out.Profile.Rating < 0 || out.Profile.Rating > 5 {
		out.Profile.Rating = 0
	}

	if out.Items == nil {
		out.Items = []domain.Item{}
	}
	if out.Transactions == nil {
		out.Transactions = []domain.Transaction{}
	}
	if out.Sales.ByDate == nil {
		out.Sales.ByDate = map[string]int{}
	}
	if out.Sales.ByCountry == nil {
		out.Sales.ByCountry = map[string]int{}
	}
	if out.Sales.Recent == nil {
		out.Sales.Recent = []domain.SaleEvent{}
	}
	if out.Financials.Transfers == nil {
		out.Financials.Transfers = []domain.Transaction{}
	}
	if out.Diagnostics.Defaulted == nil {
		out.Diagnostics.Defaulted = []string{}
	}
	if out.Diagnostics.Malformed == nil {
		out.Diagnostics.Malformed = []string{}
	}

	return &out
}
