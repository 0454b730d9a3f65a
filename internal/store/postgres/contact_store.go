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

// ContactRequestStore хранилище запросов контакта в Postgres
type ContactRequestStore struct{}

// NewContactRequestStore создает новый экземпляр ContactRequestStore
func NewContactRequestStore() *ContactRequestStore {
	return &ContactRequestStore{}
}

const contactColumns = `id, listing_id, requester_email, owner_email, phone_number, status,
	created_at, updated_at`

// Create вставляет запрос контакта
func (s *ContactRequestStore) Create(ctx context.Context, request *models.ContactRequest) (*models.ContactRequest, error) {
	row := db.Pool.QueryRow(ctx, `
		INSERT INTO contact_requests (id, listing_id, requester_email, owner_email, phone_number, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+contactColumns,
		uuid.New(), request.ListingID, request.RequesterEmail, request.OwnerEmail,
		request.PhoneNumber, request.Status)

	return scanContactRequest(row)
}

// Get возвращает запрос контакта по ID
func (s *ContactRequestStore) Get(ctx context.Context, id uuid.UUID) (*models.ContactRequest, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM contact_requests WHERE id = $1`, id)
	return scanContactRequest(row)
}

// ListByParticipant возвращает запросы, где пользователь запрашивающий или владелец
func (s *ContactRequestStore) ListByParticipant(ctx context.Context, email string) ([]models.ContactRequest, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT `+contactColumns+`
		FROM contact_requests
		WHERE requester_email = $1 OR owner_email = $1
		ORDER BY created_at DESC
	`, email)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса контактных запросов: %w", err)
	}
	defer rows.Close()

	var requests []models.ContactRequest
	for rows.Next() {
		r, err := scanContactRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *r)
	}
	return requests, rows.Err()
}

// Update применяет частичное обновление и возвращает свежую запись
func (s *ContactRequestStore) Update(ctx context.Context, id uuid.UUID, patch store.ContactRequestPatch) (*models.ContactRequest, error) {
	if patch.Status == nil {
		return s.Get(ctx, id)
	}

	row := db.Pool.QueryRow(ctx, `
		UPDATE contact_requests SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+contactColumns, id, *patch.Status)

	return scanContactRequest(row)
}

func scanContactRequest(row pgx.Row) (*models.ContactRequest, error) {
	var r models.ContactRequest
	err := row.Scan(
		&r.ID, &r.ListingID, &r.RequesterEmail, &r.OwnerEmail, &r.PhoneNumber,
		&r.Status, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования запроса контакта: %w", err)
	}
	return &r, nil
}
