// Package contact реализует запросы контакта продавца:
// pending -> number_viewed -> contacted, только вперед.
package contact

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

// Engine координирует запросы контакта
type Engine struct {
	requests store.ContactRequestStore
	listings store.ListingStore
}

// NewEngine создает новый экземпляр Engine
func NewEngine(requests store.ContactRequestStore, listings store.ListingStore) *Engine {
	return &Engine{requests: requests, listings: listings}
}

// Create создает запрос контакта от имени актора к владельцу объявления.
// Номер телефона запрашивающего фиксируется в момент создания.
func (e *Engine) Create(ctx context.Context, actor *models.User, listingID uuid.UUID, phoneNumber string) (*models.ContactRequest, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: не авторизован", models.ErrUnauthorized)
	}
	if listingID == uuid.Nil {
		return nil, fmt.Errorf("%w: не указано объявление", models.ErrValidation)
	}
	if phoneNumber == "" {
		return nil, fmt.Errorf("%w: не указан номер телефона", models.ErrValidation)
	}

	listing, err := e.listings.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if actor.Email == listing.SellerEmail {
		return nil, fmt.Errorf("%w: нельзя запросить контакт по своему объявлению", models.ErrPrecondition)
	}

	request := &models.ContactRequest{
		ListingID:      listing.ID,
		RequesterEmail: actor.Email,
		OwnerEmail:     listing.SellerEmail,
		PhoneNumber:    phoneNumber,
		Status:         models.ContactStatusPending,
	}

	return e.requests.Create(ctx, request)
}

// View отмечает просмотр запроса. Если смотрит владелец объявления и
// запрос еще в pending, статус переходит в number_viewed; во всех
// остальных случаях операция ничего не меняет.
func (e *Engine) View(ctx context.Context, actor *models.User, requestID uuid.UUID) (*models.ContactRequest, error) {
	request, err := e.requests.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if actor == nil || actor.Email != request.OwnerEmail || request.Status != models.ContactStatusPending {
		return request, nil
	}

	status := models.ContactStatusNumberViewed
	return e.requests.Update(ctx, requestID, store.ContactRequestPatch{Status: &status})
}

// MarkContacted переводит запрос в статус contacted. Доступно только
// владельцу объявления; текущий статус не проверяется, переход вперед
// допустим из любого состояния.
func (e *Engine) MarkContacted(ctx context.Context, actor *models.User, requestID uuid.UUID) (*models.ContactRequest, error) {
	request, err := e.requests.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if actor == nil || actor.Email != request.OwnerEmail {
		return nil, fmt.Errorf("%w: только владелец объявления может отметить контакт", models.ErrUnauthorized)
	}

	status := models.ContactStatusContacted
	return e.requests.Update(ctx, requestID, store.ContactRequestPatch{Status: &status})
}

// ListForUser возвращает запросы, где пользователь запрашивающий или владелец
func (e *Engine) ListForUser(ctx context.Context, email string) ([]models.ContactRequest, error) {
	return e.requests.ListByParticipant(ctx, email)
}
