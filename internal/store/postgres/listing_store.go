// Package postgres реализует хранилища сущностей поверх pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campusswap/campusswap-api/internal/db"
	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

// ListingStore хранилище объявлений в Postgres
type ListingStore struct{}

// NewListingStore создает новый экземпляр ListingStore
func NewListingStore() *ListingStore {
	return &ListingStore{}
}

const listingColumns = `id, title, description, price, category, condition, images, status,
	seller_email, seller_name, seller_phone, views, created_at, updated_at`

// Create вставляет объявление; идентификатор и отметки времени назначает база
func (s *ListingStore) Create(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	row := db.Pool.QueryRow(ctx, `
		INSERT INTO listings (id, title, description, price, category, condition, images, status,
			seller_email, seller_name, seller_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+listingColumns,
		uuid.New(), listing.Title, listing.Description, listing.Price, listing.Category,
		listing.Condition, listing.Images, listing.Status, listing.SellerEmail,
		listing.SellerName, listing.SellerPhone)

	return scanListing(row)
}

// Get возвращает объявление по ID
func (s *ListingStore) Get(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	return scanListing(row)
}

// List возвращает все объявления, новые первыми
func (s *ListingStore) List(ctx context.Context) ([]models.Listing, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT `+listingColumns+`
		FROM listings
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса объявлений: %w", err)
	}
	defer rows.Close()

	return scanListings(rows)
}

// ListBySeller возвращает объявления продавца, опционально по статусу
func (s *ListingStore) ListBySeller(ctx context.Context, sellerEmail, status string) ([]models.Listing, error) {
	var rows pgx.Rows
	var err error

	if status == "" || status == "all" {
		rows, err = db.Pool.Query(ctx, `
			SELECT `+listingColumns+`
			FROM listings
			WHERE seller_email = $1
			ORDER BY created_at DESC
		`, sellerEmail)
	} else {
		rows, err = db.Pool.Query(ctx, `
			SELECT `+listingColumns+`
			FROM listings
			WHERE seller_email = $1 AND status = $2
			ORDER BY created_at DESC
		`, sellerEmail, status)
	}

	if err != nil {
		return nil, fmt.Errorf("ошибка запроса объявлений продавца: %w", err)
	}
	defer rows.Close()

	return scanListings(rows)
}

// Update применяет частичное обновление и возвращает свежую запись
func (s *ListingStore) Update(ctx context.Context, id uuid.UUID, patch store.ListingPatch) (*models.Listing, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Condition != nil {
		add("condition", *patch.Condition)
	}
	if patch.Images != nil {
		add("images", *patch.Images)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.SellerPhone != nil {
		add("seller_phone", *patch.SellerPhone)
	}

	row := db.Pool.QueryRow(ctx, `
		UPDATE listings SET `+strings.Join(sets, ", ")+`
		WHERE id = $1
		RETURNING `+listingColumns, args...)

	return scanListing(row)
}

// Delete удаляет объявление
func (s *ListingStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления объявления: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// IncrementViews увеличивает счетчик просмотров
func (s *ListingStore) IncrementViews(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `UPDATE listings SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка обновления счетчика просмотров: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func scanListing(row pgx.Row) (*models.Listing, error) {
	var l models.Listing
	err := row.Scan(
		&l.ID, &l.Title, &l.Description, &l.Price, &l.Category, &l.Condition,
		&l.Images, &l.Status, &l.SellerEmail, &l.SellerName, &l.SellerPhone,
		&l.Views, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования объявления: %w", err)
	}
	return &l, nil
}

func scanListings(rows pgx.Rows) ([]models.Listing, error) {
	var listings []models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}
