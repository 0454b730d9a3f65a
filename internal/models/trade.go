package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Статусы предложения обмена. pending — единственное нетерминальное состояние.
const (
	TradeStatusPending   = "pending"
	TradeStatusAccepted  = "accepted"
	TradeStatusDeclined  = "declined"
	TradeStatusCancelled = "cancelled"
	TradeStatusCompleted = "completed"
)

// Trade представляет предложение об обмене
type Trade struct {
	ID                 uuid.UUID       `json:"id"`
	OfferedListingID   uuid.UUID       `json:"offered_listing_id"`
	RequestedListingID uuid.UUID       `json:"requested_listing_id"`
	OffererEmail       string          `json:"offerer_email"`
	ReceiverEmail      string          `json:"receiver_email"`
	Message            string          `json:"message,omitempty"`
	CashOffer          decimal.Decimal `json:"cash_offer"`
	ValueDifference    decimal.Decimal `json:"value_difference"`
	Status             string          `json:"status"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`

	// Дополнительные поля для API
	OfferedListing   *Listing `json:"offered_listing,omitempty"`
	RequestedListing *Listing `json:"requested_listing,omitempty"`
	OffererName      string   `json:"offerer_name,omitempty"`
	ReceiverName     string   `json:"receiver_name,omitempty"`
}

// Terminal сообщает, находится ли обмен в терминальном состоянии
func (t *Trade) Terminal() bool {
	return t.Status != TradeStatusPending
}
