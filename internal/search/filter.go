// Package search фильтрует и сортирует объявления в памяти.
// Чистая функция без побочных эффектов: браузер каталога и поиск
// работают поверх полного списка активных объявлений.
package search

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/campusswap/campusswap-api/internal/models"
)

// Варианты сортировки. price_low/price_high — синонимы из панели фильтров.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceLow  = "price_low"
	SortPriceDesc = "price_desc"
	SortPriceHigh = "price_high"
	SortPopular   = "popular"
)

// All значение-заглушка "без фильтра" для категории и состояния
const All = "all"

// Filters параметры выборки объявлений
type Filters struct {
	// ShowSold true — показывать проданные вместо активных
	ShowSold  bool
	Search    string
	Category  string
	Condition string
	// Границы цены включительно; nil — без ограничения
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	SortBy   string
}

// Apply возвращает отфильтрованный и отсортированный список объявлений.
// Исходный срез не модифицируется. Сортировка стабильная, поэтому
// повторное применение тех же фильтров не меняет порядок.
func Apply(listings []models.Listing, f Filters) []models.Listing {
	status := models.ListingStatusActive
	if f.ShowSold {
		status = models.ListingStatusSold
	}

	term := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Status != status {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(l.Title), term) &&
			!strings.Contains(strings.ToLower(l.Description), term) {
			continue
		}
		if f.Category != "" && f.Category != All && l.Category != f.Category {
			continue
		}
		if f.Condition != "" && f.Condition != All && l.Condition != f.Condition {
			continue
		}
		if f.MinPrice != nil && l.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && l.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		out = append(out, l)
	}

	switch f.SortBy {
	case SortPriceAsc, SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case SortPriceDesc, SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	case SortPopular:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	default: // newest
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}

	return out
}
