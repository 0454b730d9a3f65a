// Package trading реализует жизненный цикл предложений обмена:
// pending -> accepted | declined | cancelled, с каскадной продажей
// обоих объявлений при принятии.
package trading

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

// Решения получателя по предложению обмена
const (
	DecisionAccepted = models.TradeStatusAccepted
	DecisionDeclined = models.TradeStatusDeclined
)

// Engine координирует обмены и связанные с ними объявления
type Engine struct {
	trades   store.TradeStore
	listings store.ListingStore
}

// NewEngine создает новый экземпляр Engine
func NewEngine(trades store.TradeStore, listings store.ListingStore) *Engine {
	return &Engine{trades: trades, listings: listings}
}

// Proposal параметры нового предложения обмена
type Proposal struct {
	OfferedListingID   uuid.UUID
	RequestedListingID uuid.UUID
	CashOffer          decimal.Decimal
	Message            string
}

// Propose создает предложение обмена от имени актора.
// Предлагаемое объявление должно принадлежать актору и быть активным,
// запрашиваемое — активным и чужим. value_difference считается как
// цена запрашиваемого минус цена предлагаемого минус доплата.
func (e *Engine) Propose(ctx context.Context, actor *models.User, p Proposal) (*models.Trade, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: не авторизован", models.ErrUnauthorized)
	}
	if p.OfferedListingID == uuid.Nil || p.RequestedListingID == uuid.Nil {
		return nil, fmt.Errorf("%w: не выбрано объявление для обмена", models.ErrValidation)
	}
	if p.OfferedListingID == p.RequestedListingID {
		return nil, fmt.Errorf("%w: нельзя обменять объявление на само себя", models.ErrPrecondition)
	}

	eligible, err := e.listings.ListBySeller(ctx, actor.Email, models.ListingStatusActive)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, fmt.Errorf("%w: у вас нет активных объявлений для обмена", models.ErrPrecondition)
	}

	offered, err := e.listings.Get(ctx, p.OfferedListingID)
	if err != nil {
		return nil, fmt.Errorf("предлагаемое объявление: %w", err)
	}
	if offered.SellerEmail != actor.Email {
		return nil, fmt.Errorf("%w: нельзя предложить чужое объявление", models.ErrUnauthorized)
	}
	if offered.Status != models.ListingStatusActive {
		return nil, fmt.Errorf("%w: предлагаемое объявление не активно", models.ErrPrecondition)
	}

	requested, err := e.listings.Get(ctx, p.RequestedListingID)
	if err != nil {
		return nil, fmt.Errorf("запрашиваемое объявление: %w", err)
	}
	if requested.Status != models.ListingStatusActive {
		return nil, fmt.Errorf("%w: запрашиваемое объявление не активно", models.ErrPrecondition)
	}
	if requested.SellerEmail == actor.Email {
		return nil, fmt.Errorf("%w: нельзя предложить обмен самому себе", models.ErrPrecondition)
	}

	trade := &models.Trade{
		OfferedListingID:   offered.ID,
		RequestedListingID: requested.ID,
		OffererEmail:       actor.Email,
		ReceiverEmail:      requested.SellerEmail,
		Message:            p.Message,
		CashOffer:          p.CashOffer,
		ValueDifference:    requested.Price.Sub(offered.Price).Sub(p.CashOffer),
		Status:             models.TradeStatusPending,
	}

	return e.trades.Create(ctx, trade)
}

// Respond принимает или отклоняет предложение обмена. Доступно только
// получателю и только пока обмен в статусе pending. При принятии сначала
// обновляется статус обмена, затем оба объявления помечаются проданными
// в программном порядке; частичный сбой каскада не откатывается, а
// возвращается как models.ErrConsistency (восстановление — Repair).
func (e *Engine) Respond(ctx context.Context, actor *models.User, tradeID uuid.UUID, decision string) (*models.Trade, error) {
	if decision != DecisionAccepted && decision != DecisionDeclined {
		return nil, fmt.Errorf("%w: недопустимое решение %q", models.ErrValidation, decision)
	}

	trade, err := e.trades.Get(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade.Status != models.TradeStatusPending {
		return nil, fmt.Errorf("%w: обмен уже не в ожидании", models.ErrPrecondition)
	}
	if actor == nil || actor.Email != trade.ReceiverEmail {
		return nil, fmt.Errorf("%w: только получатель может принять или отклонить обмен", models.ErrUnauthorized)
	}

	status := decision
	trade, err = e.trades.Update(ctx, tradeID, store.TradePatch{Status: &status})
	if err != nil {
		return nil, err
	}

	if decision == DecisionAccepted {
		if err := e.markListingsSold(ctx, trade); err != nil {
			return trade, err
		}
	}

	return trade, nil
}

// Cancel отменяет предложение обмена. Доступно только отправителю и
// только пока обмен в статусе pending. Запись сохраняется со статусом
// cancelled.
func (e *Engine) Cancel(ctx context.Context, actor *models.User, tradeID uuid.UUID) (*models.Trade, error) {
	trade, err := e.trades.Get(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade.Status != models.TradeStatusPending {
		return nil, fmt.Errorf("%w: обмен уже не в ожидании", models.ErrPrecondition)
	}
	if actor == nil || actor.Email != trade.OffererEmail {
		return nil, fmt.Errorf("%w: только отправитель может отменить обмен", models.ErrUnauthorized)
	}

	status := models.TradeStatusCancelled
	return e.trades.Update(ctx, tradeID, store.TradePatch{Status: &status})
}

// Repair повторно проводит каскад продажи для принятого обмена.
// Идемпотентна: уже проданные объявления не трогает.
func (e *Engine) Repair(ctx context.Context, tradeID uuid.UUID) error {
	trade, err := e.trades.Get(ctx, tradeID)
	if err != nil {
		return err
	}
	if trade.Status != models.TradeStatusAccepted && trade.Status != models.TradeStatusCompleted {
		return fmt.Errorf("%w: обмен не принят, восстанавливать нечего", models.ErrPrecondition)
	}
	return e.markListingsSold(ctx, trade)
}

// ListPublic возвращает все обмены, новые первыми
func (e *Engine) ListPublic(ctx context.Context) ([]models.Trade, error) {
	return e.trades.List(ctx)
}

// ListForUser возвращает обмены, где пользователь отправитель или получатель
func (e *Engine) ListForUser(ctx context.Context, email string) ([]models.Trade, error) {
	return e.trades.ListByParticipant(ctx, email)
}

// Partition раскладывает обмены по витринным корзинам: активные (pending)
// и завершенные (accepted либо completed). Отклоненные и отмененные в
// витрину не попадают.
func Partition(trades []models.Trade) (active, completed []models.Trade) {
	for _, t := range trades {
		switch t.Status {
		case models.TradeStatusPending:
			active = append(active, t)
		case models.TradeStatusAccepted, models.TradeStatusCompleted:
			completed = append(completed, t)
		}
	}
	return active, completed
}

// markListingsSold помечает оба объявления обмена проданными.
// Обход продолжается после сбоя, чтобы один недоступный листинг
// не блокировал второй.
func (e *Engine) markListingsSold(ctx context.Context, trade *models.Trade) error {
	sold := models.ListingStatusSold
	var failed []uuid.UUID

	for _, id := range []uuid.UUID{trade.OfferedListingID, trade.RequestedListingID} {
		listing, err := e.listings.Get(ctx, id)
		if err == nil && listing.Status == models.ListingStatusSold {
			continue
		}
		if _, err := e.listings.Update(ctx, id, store.ListingPatch{Status: &sold}); err != nil {
			log.Printf("Ошибка каскадной продажи объявления %s по обмену %s: %v", id, trade.ID, err)
			failed = append(failed, id)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%w: обмен %s принят, но объявления %v не помечены проданными", models.ErrConsistency, trade.ID, failed)
	}
	return nil
}
