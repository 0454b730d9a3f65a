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

// UserStore хранилище пользователей в Postgres
type UserStore struct{}

// NewUserStore создает новый экземпляр UserStore
func NewUserStore() *UserStore {
	return &UserStore{}
}

const userColumns = `id, email, full_name, phone, role, trust_score, password_hash,
	created_at, updated_at`

// Create вставляет пользователя
func (s *UserStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	role := user.Role
	if role == "" {
		role = models.RoleUser
	}

	row := db.Pool.QueryRow(ctx, `
		INSERT INTO users (id, email, full_name, phone, role, trust_score, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		uuid.New(), user.Email, user.FullName, user.Phone, role, user.TrustScore, user.PasswordHash)

	return scanUser(row)
}

// Get возвращает пользователя по ID
func (s *UserStore) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail возвращает пользователя по email
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// Update применяет частичное обновление и возвращает свежую запись
func (s *UserStore) Update(ctx context.Context, id uuid.UUID, patch store.UserPatch) (*models.User, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.FullName != nil {
		add("full_name", *patch.FullName)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.TrustScore != nil {
		add("trust_score", *patch.TrustScore)
	}

	row := db.Pool.QueryRow(ctx, `
		UPDATE users SET `+strings.Join(sets, ", ")+`
		WHERE id = $1
		RETURNING `+userColumns, args...)

	return scanUser(row)
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.FullName, &u.Phone, &u.Role, &u.TrustScore, &u.PasswordHash,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования пользователя: %w", err)
	}
	return &u, nil
}
