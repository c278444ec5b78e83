package models

// MinimumGrams минимальный вес заказа в граммах
const MinimumGrams = 2.0

// Product представляет позицию статического каталога
type Product struct {
	Key          string
	Name         string
	PricePerGram float64
}

// Каталог фиксирован: две позиции с одинаковой ценой
var catalog = []Product{
	{Key: "god", Name: "God Complex", PricePerGram: 10},
	{Key: "kgb", Name: "Killer Green Budz", PricePerGram: 10},
}

// Catalog возвращает все товары каталога в порядке отображения
func Catalog() []Product {
	return catalog
}

// ProductByKey возвращает товар по ключу callback-данных
func ProductByKey(key string) (Product, bool) {
	for _, p := range catalog {
		if p.Key == key {
			return p, true
		}
	}

	return Product{}, false
}
