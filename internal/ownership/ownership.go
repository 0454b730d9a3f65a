// Package ownership решает, кто имеет право изменять объявление:
// продавец по email либо актор, прошедший проверку по номеру телефона.
package ownership

import (
	"context"
	"fmt"
	"log"

	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

// Verifier проверяет права на управление объявлением
type Verifier struct {
	users store.UserStore
}

// NewVerifier создает новый экземпляр Verifier
func NewVerifier(users store.UserStore) *Verifier {
	return &Verifier{users: users}
}

// CanManage сообщает, может ли актор редактировать, удалять или
// помечать проданным данное объявление
func (v *Verifier) CanManage(actor *models.User, listing *models.Listing) bool {
	if actor == nil || listing == nil {
		return false
	}
	if actor.Email != "" && actor.Email == listing.SellerEmail {
		return true
	}
	return actor.Phone != "" && listing.SellerPhone != "" && actor.Phone == listing.SellerPhone
}

// VerifyByPhone проверяет номер телефона против seller_phone объявления.
// Сравнение строгое, без нормализации. При успехе актор получает номер
// на время сессии, а в запись пользователя номер дописывается только
// если он там еще не сохранен. При несовпадении ничего не записывается.
func (v *Verifier) VerifyByPhone(ctx context.Context, actor *models.User, listing *models.Listing, candidatePhone string) error {
	if actor == nil {
		return fmt.Errorf("%w: не авторизован", models.ErrUnauthorized)
	}
	if candidatePhone == "" {
		return fmt.Errorf("%w: номер телефона не указан", models.ErrValidation)
	}
	if listing.SellerPhone == "" || candidatePhone != listing.SellerPhone {
		return fmt.Errorf("%w: номер телефона не совпадает с номером продавца", models.ErrUnauthorized)
	}

	if actor.Phone == "" {
		phone := candidatePhone
		if _, err := v.users.Update(ctx, actor.ID, store.UserPatch{Phone: &phone}); err != nil {
			// Проверка пройдена, не проваливаем ее из-за записи номера
			log.Printf("Ошибка сохранения номера телефона пользователя %s: %v", actor.ID, err)
		}
	}
	actor.Phone = candidatePhone

	return nil
}
