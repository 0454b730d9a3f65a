package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы запроса контакта. Статус двигается только вперед:
// pending -> number_viewed -> contacted.
const (
	ContactStatusPending      = "pending"
	ContactStatusNumberViewed = "number_viewed"
	ContactStatusContacted    = "contacted"
)

// ContactRequest представляет запрос покупателя на контакт продавца
type ContactRequest struct {
	ID             uuid.UUID `json:"id"`
	ListingID      uuid.UUID `json:"listing_id"`
	RequesterEmail string    `json:"requester_email"`
	OwnerEmail     string    `json:"owner_email"`
	PhoneNumber    string    `json:"phone_number"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Дополнительные поля для API
	Listing *Listing `json:"listing,omitempty"`
}
