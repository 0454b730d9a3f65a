package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Статусы объявления. Из active объявление уходит только в sold или removed.
const (
	ListingStatusActive  = "active"
	ListingStatusSold    = "sold"
	ListingStatusRemoved = "removed"
)

// MaxListingImages максимальное число фотографий у объявления
const MaxListingImages = 8

// Listing представляет объявление в системе
type Listing struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Condition   string          `json:"condition"`
	Images      []string        `json:"images"`
	Status      string          `json:"status"`
	SellerEmail string          `json:"seller_email"`
	SellerName  string          `json:"seller_name"`
	SellerPhone string          `json:"seller_phone,omitempty"`
	Views       int             `json:"views"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Categories список категорий каталога
var Categories = []string{
	"Textbooks", "Electronics", "Furniture", "Clothing & Accessories", "Dorm Essentials",
	"School Supplies", "Sports & Outdoors", "Transportation", "Tickets & Events", "Other",
}

// Conditions список состояний товара
var Conditions = []string{"New", "Like New", "Good", "Fair", "Used"}

// ValidCategory проверяет, что категория входит в каталог
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ValidCondition проверяет, что состояние входит в список
func ValidCondition(condition string) bool {
	for _, c := range Conditions {
		if c == condition {
			return true
		}
	}
	return false
}
