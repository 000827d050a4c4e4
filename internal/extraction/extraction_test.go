package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/shop-analyzer-api/internal/domain"
	"github.com/vfg2006/shop-analyzer-api/internal/extraction/patterns"
)

var fixedNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

const fullShopText = `BoutiqueX
À propos
Pro
@boutiquex
Numéro d'entreprise 123456789 Paris B R.C.S
120 Abonnés
3 Abonnements
Évaluations des membres (40)
Évaluations automatiques (5)
4,8 (45)
12 articles
Veste cuir, prix : 45,00 €, marque : Zara, taille : M
120 vues
8 favoris
Vendu
Sticker Porsche, prix : 5 €, marque : Artisan, taille : Unique
10 vues
Merci, parfait ! il y a 3 jours
Grazie mille il y a 2 semaines
Solde initial 100,00 €
Vente Veste cuir 45,00 €
12 mars 2024
Commande d'un Boost -2,50 €
14 mars 2024
Commande Dressing en vitrine -1,20 €
Transfert vers le compte bancaire -30,00 €
15 mars 2024
Solde final 250,50 €`

func TestBuilder_Extract_Profile(t *testing.T) {
	b := NewBuilder(WithClock(fixedClock))

	record := b.Extract("BoutiqueX\nÀ propos\n120 Abonnés\n3 Abonnements\nÉvaluations des membres (40)\nÉvaluations automatiques (5)\n4,8 (")

	assert.Equal(t, "BoutiqueX", record.Profile.ShopName)
	assert.Equal(t, 120, record.Profile.Followers)
	assert.Equal(t, 3, record.Profile.Following)
	assert.Equal(t, 40, record.Profile.MemberRatings)
	assert.Equal(t, 5, record.Profile.AutoRatings)
	assert.Equal(t, 45, record.Profile.TotalRatings)
	assert.InDelta(t, 4.8, record.Profile.Rating, 1e-9)
	assert.False(t, record.Profile.IsPro)
	assert.Nil(t, record.Profile.BusinessInfo)

	assert.False(t, record.Diagnostics.IsDefaulted("followers"))
	assert.True(t, record.Diagnostics.IsDefaulted("items"))
	assert.True(t, record.Diagnostics.IsDefaulted("financials.initial_balance"))

	single := b.Extract("Shop\nÀ propos\n1 Abonné\n0 Abonnement\n")
	assert.Equal(t, 1, single.Profile.Followers)
	assert.Equal(t, 0, single.Profile.Following)
	assert.False(t, single.Diagnostics.IsDefaulted("followers"))
	assert.False(t, single.Diagnostics.IsDefaulted("following"))
}

func TestBuilder_Extract_Item(t *testing.T) {
	b := NewBuilder(WithClock(fixedClock))

	record := b.Extract("Veste cuir, prix : 45,00 €, marque : Zara, taille : M\n120 vues\n8 favoris\nVendu")

	require.Len(t, record.Items, 1)
	assert.Equal(t, domain.Item{
		Name:      "Veste cuir",
		Price:     45.00,
		Brand:     "Zara",
		Size:      "M",
		Views:     120,
		Favorites: 8,
		IsSold:    true,
	}, record.Items[0])
}

func TestBuilder_Extract_EmptyText(t *testing.T) {
	b := NewBuilder(WithClock(fixedClock))

	record := b.Extract("")

	assert.Equal(t, "", record.Profile.ShopName)
	assert.Equal(t, 0, record.Profile.Followers)
	assert.Equal(t, 0, record.Profile.TotalRatings)
	assert.Empty(t, record.Items)
	assert.NotNil(t, record.Items)
	assert.NotNil(t, record.Transactions)
	assert.NotNil(t, record.Sales.ByCountry)
	assert.NotNil(t, record.Sales.ByDate)
	assert.Equal(t, 0.0, record.Financials.TotalRevenue)
	assert.Nil(t, record.Period.Start)
	assert.True(t, record.Diagnostics.IsDefaulted("shop_name"))
	assert.True(t, record.Diagnostics.IsDefaulted("rating"))
	assert.Empty(t, record.Diagnostics.Malformed)
}

func TestBuilder_Extract_FullText(t *testing.T) {
	b := NewBuilder(WithClock(fixedClock))

	record := b.Extract(fullShopText)

	t.Run("perfil profissional", func(t *testing.T) {
		assert.Equal(t, "BoutiqueX", record.Profile.ShopName)
		assert.True(t, record.Profile.IsPro)
		require.NotNil(t, record.Profile.BusinessInfo)
		assert.Equal(t, "123456789", record.Profile.BusinessInfo.RegistrationID)
		assert.Equal(t, "Paris B", record.Profile.BusinessInfo.RegistryRef)
		assert.Equal(t, 12, record.Profile.TotalArticles)
	})

	t.Run("artigos", func(t *testing.T) {
		require.Len(t, record.Items, 2)
		assert.True(t, record.Items[0].IsSold)
		assert.Equal(t, "Sticker Porsche", record.Items[1].Name)
		assert.Equal(t, 5.0, record.Items[1].Price)
		assert.Equal(t, 10, record.Items[1].Views)
		assert.Equal(t, 0, record.Items[1].Favorites)
		assert.False(t, record.Items[1].IsSold, "o marcador do artigo anterior não pode vazar")
	})

	t.Run("vendas", func(t *testing.T) {
		require.Len(t, record.Sales.Recent, 2)
		assert.Equal(t, 3, record.Sales.Recent[0].TimeAgo)
		assert.Equal(t, domain.UnitDay, record.Sales.Recent[0].Unit)
		assert.Equal(t, fixedNow.AddDate(0, 0, -3), record.Sales.Recent[0].Date)
		assert.Equal(t, domain.UnitWeek, record.Sales.Recent[1].Unit)
		assert.Equal(t, fixedNow.AddDate(0, 0, -14), record.Sales.Recent[1].Date)
		assert.Equal(t, map[string]int{"2024-03-17": 1, "2024-03-06": 1}, record.Sales.ByDate)
		assert.Equal(t, map[string]int{"France": 2, "Italie": 1}, record.Sales.ByCountry)
	})

	t.Run("financeiro", func(t *testing.T) {
		require.Len(t, record.Transactions, 4)
		assert.Equal(t, domain.TransactionSale, record.Transactions[0].Type)
		assert.Equal(t, "Veste cuir", record.Transactions[0].Description)
		require.NotNil(t, record.Transactions[0].Date)
		assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), *record.Transactions[0].Date)
		assert.Equal(t, domain.TransactionMarketingBoost, record.Transactions[1].Type)
		assert.Equal(t, domain.TransactionShowcaseBoost, record.Transactions[2].Type)
		assert.Nil(t, record.Transactions[2].Date)

		assert.Equal(t, 100.00, record.Financials.InitialBalance)
		assert.Equal(t, 250.50, record.Financials.CurrentBalance)
		assert.InDelta(t, 45.00, record.Financials.TotalRevenue, 1e-9)
		assert.InDelta(t, 3.70, record.Financials.BoostExpenses, 1e-9)
		assert.InDelta(t, 3.70, record.Financials.TotalExpenses, 1e-9)
		require.Len(t, record.Financials.Transfers, 1)
		assert.Equal(t, -30.00, record.Financials.Transfers[0].Amount)
	})

	t.Run("período", func(t *testing.T) {
		require.NotNil(t, record.Period.Start)
		require.NotNil(t, record.Period.End)
		assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), *record.Period.Start)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *record.Period.End)
	})
}

func TestBuilder_Extract_Idempotent(t *testing.T) {
	b := NewBuilder(WithClock(fixedClock))

	assert.Equal(t, b.Extract(fullShopText), b.Extract(fullShopText))
}

func TestBuilder_Extract_RevenueMatchesSales(t *testing.T) {
	b := NewBuilder(WithClock(fixedClock))
	text := "Vente Pull 10,10 €\nVente Robe 20,20 €\nVente Veste 0,30 €\nCommande d'un Boost -1,00 €"

	record := b.Extract(text)

	sum := 0.0
	for _, tx := range record.SaleTransactions() {
		sum += tx.Amount
	}
	assert.InDelta(t, sum, record.Financials.TotalRevenue, 1e-9)
	assert.InDelta(t, 30.60, record.Financials.TotalRevenue, 1e-9)
	assert.LessOrEqual(t, record.Financials.BoostExpenses, record.Financials.TotalExpenses)
}

func TestBuilder_Extract_NormalizesUnicode(t *testing.T) {
	b := NewBuilder(WithClock(fixedClock))
	// "É" decomposto (E + acento combinante) e espaço fino antes de €
	text := "E\u0301valuations des membres (7)\r\nSolde final 12,00\u202f€"

	record := b.Extract(text)

	assert.Equal(t, 7, record.Profile.MemberRatings)
	assert.Equal(t, 12.0, record.Financials.CurrentBalance)
}

func TestCountryCounts(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected map[string]int
	}{
		{
			name:     "Conta todas as ocorrências de cada país",
			text:     "Merci beaucoup ! Grazie mille, grazie ancora",
			expected: map[string]int{"France": 1, "Italie": 2},
		},
		{
			name:     "Regras não exclusivas",
			text:     "perfecto",
			expected: map[string]int{"Espagne": 1, "Royaume-Uni": 1},
		},
		{
			name:     "Sem agradecimentos",
			text:     "rien à signaler",
			expected: map[string]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CountryCounts(patterns.Default(), tt.text))
		})
	}
}

func TestBalances(t *testing.T) {
	initial, final := Balances(patterns.Default(), "Solde initial 100,00 €\nSolde final 250,50 €")

	assert.Equal(t, 100.00, initial.Value)
	assert.False(t, initial.Defaulted)
	assert.Equal(t, 250.50, final.Value)
	assert.False(t, final.Defaulted)

	initial, final = Balances(patterns.Default(), "sem extrato")
	assert.True(t, initial.Defaulted)
	assert.True(t, final.Defaulted)

	initial, final = Balances(patterns.Default(), "Solde initial +20,00 €\nSolde final -5,00 €")
	assert.Equal(t, 20.00, initial.Value)
	assert.False(t, initial.Defaulted)
	assert.Equal(t, -5.00, final.Value)
	assert.False(t, final.Defaulted)
}

func TestRating(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		expected  float64
		defaulted bool
		malformed bool
	}{
		{name: "Vírgula decimal", text: "4,8 (12)", expected: 4.8},
		{name: "Ponto decimal", text: "3.5 (2)", expected: 3.5},
		{name: "Ausente", text: "sem nota", defaulted: true},
		{name: "Fora da escala", text: "7,5 (3)", malformed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := Rating(patterns.Default(), tt.text)
			assert.InDelta(t, tt.expected, field.Value, 1e-9)
			assert.Equal(t, tt.defaulted, field.Defaulted)
			assert.Equal(t, tt.malformed, field.Malformed)
		})
	}
}

func TestParseLedgerDate(t *testing.T) {
	tests := []struct {
		raw      string
		expected *time.Time
	}{
		{raw: "12 mars 2024", expected: ptrTime(time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC))},
		{raw: "1 févr. 2023", expected: ptrTime(time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC))},
		{raw: "31 février 2024"},
		{raw: "12 foo 2024"},
		{raw: "12 mars"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			date, ok := ParseLedgerDate(tt.raw)
			if tt.expected == nil {
				assert.False(t, ok)
				assert.Nil(t, date)
				return
			}
			assert.True(t, ok)
			assert.Equal(t, *tt.expected, *date)
		})
	}
}

func TestResolveTimeAgo(t *testing.T) {
	assert.Equal(t, fixedNow.Add(-5*time.Hour), ResolveTimeAgo(fixedNow, 5, domain.UnitHour))
	assert.Equal(t, time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC), ResolveTimeAgo(fixedNow, 2, domain.UnitMonth))
	assert.Equal(t, time.Date(2023, 3, 20, 12, 0, 0, 0, time.UTC), ResolveTimeAgo(fixedNow, 1, domain.UnitYear))
}

func TestNormalize(t *testing.T) {
	t.Run("Registro nulo", func(t *testing.T) {
		record := Normalize(nil)
		require.NotNil(t, record)
		assert.NotNil(t, record.Items)
		assert.NotNil(t, record.Sales.ByCountry)
	})

	t.Run("Corrige contadores e não altera a entrada", func(t *testing.T) {
		input := &domain.StructuredRecord{
			Profile: domain.Profile{Followers: -3, MemberRatings: 4, AutoRatings: 1, TotalRatings: 99, Rating: 9},
		}

		record := Normalize(input)

		assert.Equal(t, 0, record.Profile.Followers)
		assert.Equal(t, 5, record.Profile.TotalRatings)
		assert.Equal(t, 0.0, record.Profile.Rating)
		assert.Equal(t, -3, input.Profile.Followers)
		assert.Nil(t, input.Items)
	})
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestLedgerPeriod(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		expectedStart *time.Time
		expectedEnd   *time.Time
	}{
		{
			name: "Menor e maior data do extrato",
			text: "Vente Robe 10,00 €\n14 mars 2024\nVente Pull 8,00 €\n2 févr. 2024\nTransfert vers le compte bancaire -18,00 €\n20 mars 2024",

			expectedStart: ptrTime(time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)),
			expectedEnd:   ptrTime(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)),
		},
		{
			name: "Datas inválidas são ignoradas",
			text: "31 février 2024\n5 avril 2023",

			expectedStart: ptrTime(time.Date(2023, 4, 5, 0, 0, 0, 0, time.UTC)),
			expectedEnd:   ptrTime(time.Date(2023, 4, 5, 0, 0, 0, 0, time.UTC)),
		},
		{
			name: "Sem datas absolutas",
			text: "Merci ! il y a 3 jours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			period := LedgerPeriod(patterns.Default(), tt.text)

			assert.Equal(t, tt.expectedStart, period.Start)
			assert.Equal(t, tt.expectedEnd, period.End)
		})
	}
}
