package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campusswap/campusswap-api/internal/db"
	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

// TradeStore хранилище обменов в Postgres
type TradeStore struct{}

// NewTradeStore создает новый экземпляр TradeStore
func NewTradeStore() *TradeStore {
	return &TradeStore{}
}

const tradeColumns = `id, offered_listing_id, requested_listing_id, offerer_email, receiver_email,
	message, cash_offer, value_difference, status, created_at, updated_at`

// Create вставляет предложение обмена
func (s *TradeStore) Create(ctx context.Context, trade *models.Trade) (*models.Trade, error) {
	row := db.Pool.QueryRow(ctx, `
		INSERT INTO trades (id, offered_listing_id, requested_listing_id, offerer_email,
			receiver_email, message, cash_offer, value_difference, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+tradeColumns,
		uuid.New(), trade.OfferedListingID, trade.RequestedListingID, trade.OffererEmail,
		trade.ReceiverEmail, trade.Message, trade.CashOffer, trade.ValueDifference, trade.Status)

	return scanTrade(row)
}

// Get возвращает предложение обмена по ID
func (s *TradeStore) Get(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+tradeColumns+` FROM trades WHERE id = $1`, id)
	return scanTrade(row)
}

// List возвращает все обмены, новые первыми
func (s *TradeStore) List(ctx context.Context) ([]models.Trade, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса обменов: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// ListByParticipant возвращает обмены, где пользователь отправитель или получатель
func (s *TradeStore) ListByParticipant(ctx context.Context, email string) ([]models.Trade, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE offerer_email = $1 OR receiver_email = $1
		ORDER BY created_at DESC
	`, email)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса обменов пользователя: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// Update применяет частичное обновление и возвращает свежую запись
func (s *TradeStore) Update(ctx context.Context, id uuid.UUID, patch store.TradePatch) (*models.Trade, error) {
	if patch.Status == nil {
		return s.Get(ctx, id)
	}

	row := db.Pool.QueryRow(ctx, `
		UPDATE trades SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+tradeColumns, id, *patch.Status)

	return scanTrade(row)
}

// Delete удаляет предложение обмена
func (s *TradeStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM trades WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления обмена: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func scanTrade(row pgx.Row) (*models.Trade, error) {
	var t models.Trade
	err := row.Scan(
		&t.ID, &t.OfferedListingID, &t.RequestedListingID, &t.OffererEmail, &t.ReceiverEmail,
		&t.Message, &t.CashOffer, &t.ValueDifference, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования обмена: %w", err)
	}
	return &t, nil
}

func scanTrades(rows pgx.Rows) ([]models.Trade, error) {
	var trades []models.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, *t)
	}
	return trades, rows.Err()
}
