// Package memory реализует хранилище сущностей в памяти.
// Используется в тестах движков вместо Postgres.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

// Store держит все коллекции в памяти
type Store struct {
	mu       sync.Mutex
	now      func() time.Time
	listings map[uuid.UUID]models.Listing
	trades   map[uuid.UUID]models.Trade
	contacts map[uuid.UUID]models.ContactRequest
	users    map[uuid.UUID]models.User
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		now:      time.Now,
		listings: make(map[uuid.UUID]models.Listing),
		trades:   make(map[uuid.UUID]models.Trade),
		contacts: make(map[uuid.UUID]models.ContactRequest),
		users:    make(map[uuid.UUID]models.User),
	}
}

// SetClock подменяет источник времени (для детерминированных тестов)
func (s *Store) SetClock(now func() time.Time) { s.now = now }

// Listings возвращает коллекцию объявлений
func (s *Store) Listings() store.ListingStore { return (*listingStore)(s) }

// Trades возвращает коллекцию обменов
func (s *Store) Trades() store.TradeStore { return (*tradeStore)(s) }

// Contacts возвращает коллекцию запросов контакта
func (s *Store) Contacts() store.ContactRequestStore { return (*contactStore)(s) }

// Users возвращает коллекцию пользователей
func (s *Store) Users() store.UserStore { return (*userStore)(s) }

type listingStore Store

func (s *listingStore) Create(_ context.Context, listing *models.Listing) (*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := *listing
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.now()
	}
	l.UpdatedAt = l.CreatedAt
	s.listings[l.ID] = l
	out := l
	return &out, nil
}

func (s *listingStore) Get(_ context.Context, id uuid.UUID) (*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := l
	return &out, nil
}

func (s *listingStore) List(_ context.Context) ([]models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		out = append(out, l)
	}
	sortListingsNewestFirst(out)
	return out, nil
}

func (s *listingStore) ListBySeller(_ context.Context, sellerEmail, status string) ([]models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Listing
	for _, l := range s.listings {
		if l.SellerEmail != sellerEmail {
			continue
		}
		if status != "" && status != "all" && l.Status != status {
			continue
		}
		out = append(out, l)
	}
	sortListingsNewestFirst(out)
	return out, nil
}

func (s *listingStore) Update(_ context.Context, id uuid.UUID, patch store.ListingPatch) (*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if patch.Title != nil {
		l.Title = *patch.Title
	}
	if patch.Description != nil {
		l.Description = *patch.Description
	}
	if patch.Price != nil {
		l.Price = *patch.Price
	}
	if patch.Category != nil {
		l.Category = *patch.Category
	}
	if patch.Condition != nil {
		l.Condition = *patch.Condition
	}
	if patch.Images != nil {
		l.Images = append([]string(nil), (*patch.Images)...)
	}
	if patch.Status != nil {
		l.Status = *patch.Status
	}
	if patch.SellerPhone != nil {
		l.SellerPhone = *patch.SellerPhone
	}
	l.UpdatedAt = s.now()
	s.listings[id] = l
	out := l
	return &out, nil
}

func (s *listingStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listings[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.listings, id)
	return nil
}

func (s *listingStore) IncrementViews(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[id]
	if !ok {
		return models.ErrNotFound
	}
	l.Views++
	s.listings[id] = l
	return nil
}

type tradeStore Store

func (s *tradeStore) Create(_ context.Context, trade *models.Trade) (*models.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := *trade
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}
	t.UpdatedAt = t.CreatedAt
	s.trades[t.ID] = t
	out := t
	return &out, nil
}

func (s *tradeStore) Get(_ context.Context, id uuid.UUID) (*models.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trades[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := t
	return &out, nil
}

func (s *tradeStore) List(_ context.Context) ([]models.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Trade, 0, len(s.trades))
	for _, t := range s.trades {
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *tradeStore) ListByParticipant(ctx context.Context, email string) ([]models.Trade, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Trade
	for _, t := range all {
		if t.OffererEmail == email || t.ReceiverEmail == email {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *tradeStore) Update(_ context.Context, id uuid.UUID, patch store.TradePatch) (*models.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trades[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	t.UpdatedAt = s.now()
	s.trades[id] = t
	out := t
	return &out, nil
}

func (s *tradeStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trades[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.trades, id)
	return nil
}

type contactStore Store

func (s *contactStore) Create(_ context.Context, request *models.ContactRequest) (*models.ContactRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := *request
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	r.UpdatedAt = r.CreatedAt
	s.contacts[r.ID] = r
	out := r
	return &out, nil
}

func (s *contactStore) Get(_ context.Context, id uuid.UUID) (*models.ContactRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.contacts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := r
	return &out, nil
}

func (s *contactStore) ListByParticipant(_ context.Context, email string) ([]models.ContactRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.ContactRequest
	for _, r := range s.contacts {
		if r.RequesterEmail == email || r.OwnerEmail == email {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *contactStore) Update(_ context.Context, id uuid.UUID, patch store.ContactRequestPatch) (*models.ContactRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.contacts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if patch.Status != nil {
		r.Status = *patch.Status
	}
	r.UpdatedAt = s.now()
	s.contacts[id] = r
	out := r
	return &out, nil
}

type userStore Store

func (s *userStore) Create(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := *user
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = u
	out := u
	return &out, nil
}

func (s *userStore) Get(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := u
	return &out, nil
}

func (s *userStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *userStore) Update(_ context.Context, id uuid.UUID, patch store.UserPatch) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if patch.FullName != nil {
		u.FullName = *patch.FullName
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	if patch.TrustScore != nil {
		u.TrustScore = *patch.TrustScore
	}
	u.UpdatedAt = s.now()
	s.users[id] = u
	out := u
	return &out, nil
}

func sortListingsNewestFirst(listings []models.Listing) {
	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})
}
