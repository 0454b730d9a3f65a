package models

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователей
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User представляет пользователя в системе
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone,omitempty"`
	Role         string    `json:"role"`
	TrustScore   float64   `json:"trust_score"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin сообщает, является ли пользователь администратором
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
