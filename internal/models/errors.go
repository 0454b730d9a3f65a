package models

import "errors"

// Ошибки бизнес-логики. Сервисы преобразуют их в HTTP-статусы,
// движки оборачивают через fmt.Errorf("%w: ...").
var (
	// ErrValidation не заполнено обязательное поле запроса
	ErrValidation = errors.New("validation failed")

	// ErrPrecondition нарушено бизнес-правило (например, обмен уже не pending)
	ErrPrecondition = errors.New("precondition failed")

	// ErrUnauthorized у действующего пользователя нет прав на операцию
	ErrUnauthorized = errors.New("not allowed")

	// ErrNotFound запись не существует
	ErrNotFound = errors.New("not found")

	// ErrConsistency каскад применился частично и требует восстановления
	ErrConsistency = errors.New("inconsistent state")
)
