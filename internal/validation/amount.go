package validation

import (
	"math"
	"strconv"
	"strings"

	"v1lefarmBot/internal/domain/models"
)

// ParseAmount разбирает текст суммы заказа по двум грамматикам:
// "$<число>" — сумма в долларах, граммы вычисляются по цене с точностью 0.1;
// "<число>" — граммы, округляются к ближайшим 0.5.
// Сумма всегда пересчитывается от округленных граммов, чтобы пара
// grams/cash в заказе была согласована через цену товара.
// Возвращает ErrBadAmount для нечисловых значений и ErrBelowMinimum,
// если получившиеся граммы меньше минимума каталога.
func ParseAmount(text string, pricePerGram float64) (grams, cash float64, err error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return 0, 0, models.ErrBadAmount
	}

	if rest, ok := strings.CutPrefix(raw, "$"); ok {
		c, parseErr := parsePositiveNumber(rest)
		if parseErr != nil {
			return 0, 0, parseErr
		}

		grams = math.Round(math.Round(c*100)/10/pricePerGram) / 10
	} else {
		g, parseErr := parsePositiveNumber(raw)
		if parseErr != nil {
			return 0, 0, parseErr
		}

		grams = math.Round(g*2) / 2
	}

	cash = math.Round(grams*pricePerGram*100) / 100

	if grams < models.MinimumGrams {
		return 0, 0, models.ErrBelowMinimum
	}

	return grams, cash, nil
}

func parsePositiveNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, models.ErrBadAmount
	}

	return v, nil
}
