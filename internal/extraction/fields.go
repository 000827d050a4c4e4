package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/shop-analyzer-api/internal/domain"
	"github.com/vfg2006/shop-analyzer-api/internal/extraction/patterns"
	"github.com/vfg2006/shop-analyzer-api/pkg/log"
)

// Field valor extraído de um texto. Defaulted indica que o padrão não foi encontrado;
// Malformed indica que o valor foi encontrado mas não pôde ser convertido.
// Nos dois casos Value contém o valor padrão do tipo.
type Field[T any] struct {
	Value     T
	Defaulted bool
	Malformed bool
}

func found[T any](v T) Field[T] {
	return Field[T]{Value: v}
}

func missing[T any]() Field[T] {
	return Field[T]{Defaulted: true}
}

func malformed[T any]() Field[T] {
	return Field[T]{Malformed: true}
}

// parseDecimal aceita vírgula como separador decimal ("45,00" -> 45.00)
func parseDecimal(raw string) (decimal.Decimal, bool) {
	normalized := strings.TrimPrefix(strings.Replace(strings.TrimSpace(raw), ",", ".", 1), "+")
	value, err := decimal.NewFromString(normalized)
	if err != nil {
		log.L.WithError(err).Debugf("extraction: valor decimal inválido %q, usando 0", raw)
		return decimal.Zero, false
	}
	return value, true
}

func parseInt(raw string) (int, bool) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 0 {
		log.L.Debugf("extraction: valor inteiro inválido %q, usando 0", raw)
		return 0, false
	}
	return value, true
}

func toMoney(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func firstGroup(match []string) string {
	if len(match) < 2 {
		return ""
	}
	return match[1]
}

// ShopName primeira linha não vazia do texto antes do primeiro cabeçalho de seção conhecido
func ShopName(t *patterns.Table, text string) Field[string] {
	head := text
	for _, header := range t.SectionHeaders {
		if idx := strings.Index(head, header); idx >= 0 {
			head = head[:idx]
		}
	}

	for _, line := range strings.Split(head, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			return found(name)
		}
	}
	return missing[string]()
}

// IsPro presença do selo profissional ou do número de empresa
func IsPro(t *patterns.Table, text string) bool {
	return t.ProBadge.MatchString(text)
}

// Business dados de registro da empresa. Só é procurado quando a conta é profissional.
func Business(t *patterns.Table, text string) Field[*domain.BusinessInfo] {
	match := t.Business.FindStringSubmatch(text)
	if match == nil {
		return missing[*domain.BusinessInfo]()
	}
	return found(&domain.BusinessInfo{
		RegistrationID: strings.TrimSpace(match[1]),
		RegistryRef:    strings.TrimSpace(match[2]),
	})
}

func countField(re *regexp.Regexp, text string) Field[int] {
	raw := firstGroup(re.FindStringSubmatch(text))
	if raw == "" {
		return missing[int]()
	}
	value, ok := parseInt(raw)
	if !ok {
		return malformed[int]()
	}
	return found(value)
}

func Followers(t *patterns.Table, text string) Field[int] {
	return countField(t.Followers, text)
}

func Following(t *patterns.Table, text string) Field[int] {
	return countField(t.Following, text)
}

func MemberRatings(t *patterns.Table, text string) Field[int] {
	return countField(t.MemberRatings, text)
}

func AutoRatings(t *patterns.Table, text string) Field[int] {
	return countField(t.AutoRatings, text)
}

// TotalArticles quantidade de artigos anunciada no perfil ("37 articles")
func TotalArticles(t *patterns.Table, text string) Field[int] {
	return countField(t.TotalArticles, text)
}

// Rating nota média na escala de 0 a 5. Valores fora da escala são tratados como malformados.
func Rating(t *patterns.Table, text string) Field[float64] {
	raw := firstGroup(t.Rating.FindStringSubmatch(text))
	if raw == "" {
		return missing[float64]()
	}
	value, ok := parseDecimal(raw)
	if !ok {
		return malformed[float64]()
	}
	rating := value.InexactFloat64()
	if rating < 0 || rating > 5 {
		log.L.Debugf("extraction: nota fora da escala (%v), usando 0", rating)
		return malformed[float64]()
	}
	return found(rating)
}

// Items artigos anunciados. Retorna também os nomes dos campos que não puderam ser convertidos.
func Items(t *patterns.Table, text string) ([]domain.Item, []string) {
	matches := t.Item.FindAllStringSubmatchIndex(text, -1)
	items := make([]domain.Item, 0, len(matches))
	var bad []string

	for i, m := range matches {
		group := func(n int) string {
			if m[2*n] < 0 {
				return ""
			}
			return text[m[2*n]:m[2*n+1]]
		}

		name := strings.TrimSpace(group(1))
		brand := strings.TrimSpace(group(3))
		size := strings.TrimSpace(group(4))
		if name == "" || brand == "" || size == "" {
			continue
		}

		item := domain.Item{Name: name, Brand: brand, Size: size}

		price, ok := parseDecimal(group(2))
		if !ok {
			bad = append(bad, fmt.Sprintf("items[%d].price", i))
		}
		item.Price = toMoney(price)

		if raw := group(5); raw != "" {
			if item.Views, ok = parseInt(raw); !ok {
				bad = append(bad, fmt.Sprintf("items[%d].views", i))
			}
		}
		if raw := group(6); raw != "" {
			if item.Favorites, ok = parseInt(raw); !ok {
				bad = append(bad, fmt.Sprintf("items[%d].favorites", i))
			}
		}

		// A janela do marcador "Vendu" não avança sobre o artigo seguinte
		windowEnd := min(m[0]+patterns.SoldWindow, len(text))
		if i+1 < len(matches) {
			windowEnd = min(windowEnd, matches[i+1][0])
		}
		windowEnd = max(windowEnd, m[1])
		item.IsSold = t.SoldMarker.MatchString(text[m[0]:windowEnd])

		items = append(items, item)
	}

	return items, bad
}

func parseUnit(raw string) (domain.TimeUnit, bool) {
	switch strings.ToLower(raw) {
	case "heure", "heures":
		return domain.UnitHour, true
	case "jour", "jours":
		return domain.UnitDay, true
	case "semaine", "semaines":
		return domain.UnitWeek, true
	case "mois":
		return domain.UnitMonth, true
	case "an", "ans":
		return domain.UnitYear, true
	}
	return "", false
}

// ResolveTimeAgo converte "há N unidades" em uma data absoluta a partir de now
func ResolveTimeAgo(now time.Time, amount int, unit domain.TimeUnit) time.Time {
	switch unit {
	case domain.UnitHour:
		return now.Add(-time.Duration(amount) * time.Hour)
	case domain.UnitDay:
		return now.AddDate(0, 0, -amount)
	case domain.UnitWeek:
		return now.AddDate(0, 0, -7*amount)
	case domain.UnitMonth:
		return now.AddDate(0, -amount, 0)
	case domain.UnitYear:
		return now.AddDate(-amount, 0, 0)
	}
	return now
}

// SaleEvents menções "il y a N <unité>" resolvidas contra now, na ordem em que aparecem
func SaleEvents(t *patterns.Table, text string, now time.Time) ([]domain.SaleEvent, []string) {
	events := make([]domain.SaleEvent, 0)
	var bad []string

	for i, match := range t.SaleTimeAgo.FindAllStringSubmatch(text, -1) {
		amount, ok := parseInt(match[1])
		if !ok || amount == 0 {
			bad = append(bad, fmt.Sprintf("sales.recent[%d].time_ago", i))
			continue
		}
		unit, ok := parseUnit(match[2])
		if !ok {
			bad = append(bad, fmt.Sprintf("sales.recent[%d].unit", i))
			continue
		}
		events = append(events, domain.SaleEvent{
			TimeAgo: amount,
			Unit:    unit,
			Date:    ResolveTimeAgo(now, amount, unit),
		})
	}

	return events, bad
}

// SalesByDate agrega os eventos de venda por dia (yyyy-mm-dd, UTC)
func SalesByDate(events []domain.SaleEvent) map[string]int {
	byDate := make(map[string]int)
	for _, event := range events {
		byDate[event.Date.UTC().Format(time.DateOnly)]++
	}
	return byDate
}

// CountryCounts conta, para cada regra de país, quantas vezes o padrão aparece no texto.
// As regras são independentes: o mesmo trecho pode contar para mais de um país.
func CountryCounts(t *patterns.Table, text string) map[string]int {
	counts := make(map[string]int)
	for _, rule := range t.CountryRules {
		if n := len(rule.Pattern.FindAllStringIndex(text, -1)); n > 0 {
			counts[rule.Country] += n
		}
	}
	return counts
}

// Balances saldos inicial e final. Se a linha aparecer mais de uma vez, a última prevalece.
func Balances(t *patterns.Table, text string) (initial Field[float64], final Field[float64]) {
	initial, final = missing[float64](), missing[float64]()

	for _, match := range t.Balance.FindAllStringSubmatch(text, -1) {
		field := malformed[float64]()
		if amount, ok := parseDecimal(match[2]); ok {
			field = found(toMoney(amount))
		}

		if match[1] == "initial" {
			initial = field
		} else {
			final = field
		}
	}
	return initial, final
}

// ParseLedgerDate interpreta datas do extrato no formato "12 mars 2024"
func ParseLedgerDate(raw string) (*time.Time, bool) {
	fields := strings.Fields(raw)
	if len(fields) != 3 {
		return nil, false
	}

	day, err := strconv.Atoi(fields[0])
	if err != nil || day < 1 || day > 31 {
		return nil, false
	}
	month, ok := patterns.Month(fields[1])
	if !ok {
		return nil, false
	}
	year, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, false
	}

	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day {
		// 31 février e afins
		return nil, false
	}
	return &date, true
}

// Transactions linhas do extrato financeiro, na ordem em que aparecem
func Transactions(t *patterns.Table, text string) ([]domain.Transaction, []string) {
	transactions := make([]domain.Transaction, 0)
	var bad []string

	for i, match := range t.Transaction.FindAllStringSubmatch(text, -1) {
		kind, ok := t.TransactionKind[match[1]]
		if !ok {
			continue
		}

		amount, ok := parseDecimal(match[3])
		if !ok {
			bad = append(bad, fmt.Sprintf("transactions[%d].amount", i))
		}

		transaction := domain.Transaction{
			Type:        kind,
			Description: strings.TrimSpace(match[2]),
			Amount:      toMoney(amount),
		}

		if raw := match[4]; raw != "" {
			if date, ok := ParseLedgerDate(raw); ok {
				transaction.Date = date
			} else {
				bad = append(bad, fmt.Sprintf("transactions[%d].date", i))
			}
		}

		transactions = append(transactions, transaction)
	}

	return transactions, bad
}

// LedgerPeriod menor e maior data absoluta mencionadas no texto
func LedgerPeriod(t *patterns.Table, text string) domain.Period {
	var period domain.Period
	for _, match := range t.LedgerDate.FindAllString(text, -1) {
		date, ok := ParseLedgerDate(match)
		if !ok {
			continue
		}
		if period.Start == nil || date.Before(*period.Start) {
			period.Start = date
		}
		if period.End == nil || date.After(*period.End) {
			d := *date
			period.End = &d
		}
	}
	return period
}
