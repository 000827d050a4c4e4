// Package patterns é o catálogo fixo de regras de texto usadas na extração.
// Nenhuma regra tem efeito colateral; a tabela é montada uma única vez e só é lida depois disso.
package patterns

import (
	"regexp"
	"strings"
	"time"

	"github.com/vfg2006/shop-analyzer-api/internal/domain"
)

// Version identifica a tabela de padrões. Deve mudar sempre que uma regra mudar.
const Version = "2024.1"

// SoldWindow quantidade de caracteres após o início de um artigo onde o marcador "Vendu" é procurado
const SoldWindow = 200

const (
	CategoryStickers    = "Stickers"
	CategoryClothing    = "Clothing"
	CategoryAccessories = "Accessories"
	CategoryAutoMoto    = "Auto-Moto"
	CategoryOther       = "Other"
)

// CountryRule associa um conjunto de expressões de agradecimento a um país.
// As regras não são exclusivas: um mesmo trecho pode contar para vários países.
type CountryRule struct {
	Country string
	Pattern *regexp.Regexp
}

// CategoryRule classifica uma descrição de venda ou nome de artigo
type CategoryRule struct {
	Category string
	Pattern  *regexp.Regexp
}

// Table reúne todas as regras de extração
type Table struct {
	Version        string
	SectionHeaders []string

	// Perfil
	ProBadge      *regexp.Regexp
	Business      *regexp.Regexp
	Followers     *regexp.Regexp
	Following     *regexp.Regexp
	MemberRatings *regexp.Regexp
	AutoRatings   *regexp.Regexp
	Rating        *regexp.Regexp
	TotalArticles *regexp.Regexp

	// Artigos
	Item       *regexp.Regexp
	SoldMarker *regexp.Regexp

	// Vendas
	SaleTimeAgo  *regexp.Regexp
	SaleBrand    *regexp.Regexp
	CountryRules []CountryRule

	// Financeiro
	Balance         *regexp.Regexp
	Transaction     *regexp.Regexp
	LedgerDate      *regexp.Regexp
	TransactionKind map[string]domain.TransactionType

	CategoryRules []CategoryRule
}

var defaultTable = &Table{
	Version:        Version,
	SectionHeaders: []string{"À propos"},

	ProBadge:      regexp.MustCompile(`Pro\n@|Numéro d['’]entreprise`),
	Business:      regexp.MustCompile(`Numéro d['’]entreprise\s+(\S+)\s+([^\n]*?)\s*R\.C\.S`),
	Followers:     regexp.MustCompile(`(\d+)\s*Abonnés?`),
	Following:     regexp.MustCompile(`(\d+)\s*Abonnements?`),
	MemberRatings: regexp.MustCompile(`Évaluations des membres \((\d+)\)`),
	AutoRatings:   regexp.MustCompile(`Évaluations automatiques \((\d+)\)`),
	Rating:        regexp.MustCompile(`(\d+[.,]\d+)\s*\(`),
	TotalArticles: regexp.MustCompile(`(\d+)\s*articles?\b`),

	// <nom>, prix : <décimal> €, marque : <marque>, taille : <taille> [\n<N> vues] [\n<N> favoris]
	Item: regexp.MustCompile(
		`([^,\n]+),\s*prix\s*:\s*(\d+(?:[.,]\d+)?)\s*€,\s*marque\s*:\s*([^,\n]+),\s*taille\s*:\s*([^\n]+)` +
			`(?:\s*\n\s*(\d+)\s*vues)?(?:\s*\n\s*(\d+)\s*favoris)?`),
	SoldMarker: regexp.MustCompile(`\bVendu\b`),

	SaleTimeAgo: regexp.MustCompile(`(?i)il y a (\d+) (heures?|jours?|semaines?|mois|ans?)\b`),
	SaleBrand:   regexp.MustCompile(`(?i)marque\s*:\s*([^,\n]+)`),
	CountryRules: []CountryRule{
		{Country: "France", Pattern: regexp.MustCompile(`(?i)merci|parfait|nickel`)},
		{Country: "Italie", Pattern: regexp.MustCompile(`(?i)grazie|perfetto`)},
		{Country: "Espagne", Pattern: regexp.MustCompile(`(?i)gracias|perfecto`)},
		{Country: "Royaume-Uni", Pattern: regexp.MustCompile(`(?i)thank you|perfect`)},
		{Country: "Allemagne", Pattern: regexp.MustCompile(`(?i)danke|perfekt`)},
	},

	Balance: regexp.MustCompile(`Solde (initial|final)\s*([+-]?\d+(?:[.,]\d+)?)\s*€`),
	Transaction: regexp.MustCompile(
		`(Vente|Commande d['’]un Boost|Commande Dressing en vitrine|Transfert vers le compte bancaire)\b` +
			`\s*([^\n]*?)\s+([+-]?\d+(?:[.,]\d+)?)\s*€(?:[ \t]*\n?[ \t]*(\d{1,2}\s+\pL+\.?\s+\d{4}))?`),
	LedgerDate: regexp.MustCompile(`(\d{1,2})\s+(\pL+)\.?\s+(\d{4})`),
	TransactionKind: map[string]domain.TransactionType{
		"Vente":                             domain.TransactionSale,
		"Commande d'un Boost":               domain.TransactionMarketingBoost,
		"Commande d’un Boost":               domain.TransactionMarketingBoost,
		"Commande Dressing en vitrine":      domain.TransactionShowcaseBoost,
		"Transfert vers le compte bancaire": domain.TransactionTransfer,
	},

	CategoryRules: []CategoryRule{
		{Category: CategoryStickers, Pattern: regexp.MustCompile(`(?i)sticker|autocollant`)},
		{Category: CategoryClothing, Pattern: regexp.MustCompile(`(?i)veste|pull|débardeur|robe`)},
		{Category: CategoryAccessories, Pattern: regexp.MustCompile(`(?i)accessoire|décoration|porte-clés`)},
		{Category: CategoryAutoMoto, Pattern: regexp.MustCompile(`(?i)porsche|bmw|yamaha|honda|kawasaki`)},
	},
}

// Default retorna a tabela padrão. Deve ser tratada como somente leitura.
func Default() *Table {
	return defaultTable
}

// Classify retorna a primeira categoria cujo padrão casa com o texto, ou CategoryOther
func (t *Table) Classify(text string) string {
	for _, rule := range t.CategoryRules {
		if rule.Pattern.MatchString(text) {
			return rule.Category
		}
	}
	return CategoryOther
}

// Categories lista as categorias na ordem de avaliação, terminando em CategoryOther
func (t *Table) Categories() []string {
	categories := make([]string, 0, len(t.CategoryRules)+1)
	for _, rule := range t.CategoryRules {
		categories = append(categories, rule.Category)
	}
	return append(categories, CategoryOther)
}

var frenchMonths = map[string]time.Month{
	"janvier":   time.January,
	"janv":      time.January,
	"février":   time.February,
	"fevrier":   time.February,
	"févr":      time.February,
	"mars":      time.March,
	"avril":     time.April,
	"avr":       time.April,
	"mai":       time.May,
	"juin":      time.June,
	"juillet":   time.July,
	"juil":      time.July,
	"août":      time.August,
	"aout":      time.August,
	"septembre": time.September,
	"sept":      time.September,
	"octobre":   time.October,
	"oct":       time.October,
	"novembre":  time.November,
	"nov":       time.November,
	"décembre":  time.December,
	"decembre":  time.December,
	"déc":       time.December,
}

// Month converte o nome (ou abreviação) de um mês em francês
func Month(name string) (time.Month, bool) {
	m, ok := frenchMonths[strings.ToLower(strings.TrimSuffix(name, "."))]
	return m, ok
}
