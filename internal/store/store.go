package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campusswap/campusswap-api/internal/models"
)

// Хранилище сущностей: create/get/list/update/delete по коллекциям.
// Update везде имеет merge-семантику — nil-поля патча не трогают запись.
// Отсутствующая запись — models.ErrNotFound.

// ListingPatch частичное обновление объявления
type ListingPatch struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	Condition   *string
	Images      *[]string
	Status      *string
	SellerPhone *string
}

// TradePatch частичное обновление обмена
type TradePatch struct {
	Status *string
}

// ContactRequestPatch частичное обновление запроса контакта
type ContactRequestPatch struct {
	Status *string
}

// UserPatch частичное обновление пользователя
type UserPatch struct {
	FullName   *string
	Phone      *string
	TrustScore *float64
}

// ListingStore хранилище объявлений
type ListingStore interface {
	Create(ctx context.Context, listing *models.Listing) (*models.Listing, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	List(ctx context.Context) ([]models.Listing, error)
	ListBySeller(ctx context.Context, sellerEmail, status string) ([]models.Listing, error)
	Update(ctx context.Context, id uuid.UUID, patch ListingPatch) (*models.Listing, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

// TradeStore хранилище обменов
type TradeStore interface {
	Create(ctx context.Context, trade *models.Trade) (*models.Trade, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Trade, error)
	// List возвращает обмены в порядке создания, новые первыми
	List(ctx context.Context) ([]models.Trade, error)
	ListByParticipant(ctx context.Context, email string) ([]models.Trade, error)
	Update(ctx context.Context, id uuid.UUID, patch TradePatch) (*models.Trade, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContactRequestStore хранилище запросов контакта
type ContactRequestStore interface {
	Create(ctx context.Context, request *models.ContactRequest) (*models.ContactRequest, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ContactRequest, error)
	ListByParticipant(ctx context.Context, email string) ([]models.ContactRequest, error)
	Update(ctx context.Context, id uuid.UUID, patch ContactRequestPatch) (*models.ContactRequest, error)
}

// UserStore хранилище пользователей
type UserStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, patch UserPatch) (*models.User, error)
}
