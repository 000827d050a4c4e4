package patterns

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTable_Classify(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "Sticker antes de marca de carro", text: "Sticker Porsche 911", expected: CategoryStickers},
		{name: "Roupa", text: "Veste en jean", expected: CategoryClothing},
		{name: "Acessório", text: "Porte-clés cuir", expected: CategoryAccessories},
		{name: "Auto-moto", text: "Casque Yamaha", expected: CategoryAutoMoto},
		{name: "Sem categoria", text: "Livre de cuisine", expected: CategoryOther},
	}

	table := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, table.Classify(tt.text))
		})
	}
}

func TestTable_Categories(t *testing.T) {
	assert.Equal(t,
		[]string{CategoryStickers, CategoryClothing, CategoryAccessories, CategoryAutoMoto, CategoryOther},
		Default().Categories(),
	)
}

func TestMonth(t *testing.T) {
	tests := []struct {
		name     string
		expected time.Month
		ok       bool
	}{
		{name: "mars", expected: time.March, ok: true},
		{name: "Août", expected: time.August, ok: true},
		{name: "déc.", expected: time.December, ok: true},
		{name: "févr", expected: time.February, ok: true},
		{name: "march", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			month, ok := Month(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, month)
		})
	}
}

func TestCountryRules_NaoExclusivas(t *testing.T) {
	// "perfecto" contém "perfect": conta para Espanha e Reino Unido
	text := "Merci, perfecto!"

	var matched []string
	for _, rule := range Default().CountryRules {
		if rule.Pattern.MatchString(text) {
			matched = append(matched, rule.Country)
		}
	}

	assert.Equal(t, []string{"France", "Espagne", "Royaume-Uni"}, matched)
}
