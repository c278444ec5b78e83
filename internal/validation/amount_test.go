package validation

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"v1lefarmBot/internal/domain/models"
)

const price = 10.0

func TestParseAmount_CashGrammar(t *testing.T) {
	tests := []struct {
		input     string
		wantGrams float64
		wantCash  float64
	}{
		{"$25", 2.5, 25},
		{"$20", 2, 20},
		{"$100", 10, 100},
		{" $30 ", 3, 30},
		// Сумма пересчитывается от округленных граммов
		{"$25.50", 2.6, 26},
		{"$23.04", 2.3, 23},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			grams, cash, err := ParseAmount(tt.input, price)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantGrams, grams, 1e-9)
			assert.InDelta(t, tt.wantCash, cash, 1e-9)

			// Пара grams/cash согласована через цену
			assert.InDelta(t, math.Round(grams*price*100)/100, cash, 1e-9)
		})
	}
}

func TestParseAmount_GramsGrammar(t *testing.T) {
	tests := []struct {
		input     string
		wantGrams float64
		wantCash  float64
	}{
		{"2", 2, 20},
		{"2.5", 2.5, 25},
		{"2.3", 2.5, 25}, // округление к ближайшим 0.5
		{"1.9", 2, 20},   // округление происходит до проверки минимума
		{"2.2", 2, 20},
		{"3.75", 4, 40},
		{"10", 10, 100},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			grams, cash, err := ParseAmount(tt.input, price)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantGrams, grams, 1e-9)
			assert.InDelta(t, tt.wantCash, cash, 1e-9)
		})
	}
}

func TestParseAmount_BelowMinimum(t *testing.T) {
	for _, input := range []string{"1", "1.7", "$10", "$19", "0.5"} {
		t.Run(input, func(t *testing.T) {
			_, _, err := ParseAmount(input, price)
			assert.ErrorIs(t, err, models.ErrBelowMinimum)
		})
	}
}

func TestParseAmount_BadInput(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "$", "$abc", "-3", "$-5", "0", "NaN", "Inf"} {
		t.Run(fmt.Sprintf("%q", input), func(t *testing.T) {
			_, _, err := ParseAmount(input, price)
			assert.ErrorIs(t, err, models.ErrBadAmount)
		})
	}
}

// Раунд-трип: сумма, равная цене округленных граммов, разбирается в те же граммы
func TestParseAmount_RoundTrip(t *testing.T) {
	for g := 2.0; g <= 12.0; g += 0.5 {
		cashInput := fmt.Sprintf("$%v", g*price)

		grams, cash, err := ParseAmount(cashInput, price)
		require.NoError(t, err)
		assert.InDelta(t, g, grams, 1e-9, "input %s", cashInput)
		assert.InDelta(t, g*price, cash, 1e-9, "input %s", cashInput)

		// Граммы всегда кратны 0.5
		assert.InDelta(t, grams, math.Round(grams*2)/2, 1e-9)
	}
}
