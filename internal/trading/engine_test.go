package trading

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
	"github.com/campusswap/campusswap-api/internal/store/memory"
)

var (
	alice = &models.User{ID: uuid.New(), Email: "alice@utexas.edu"}
	bob   = &models.User{ID: uuid.New(), Email: "bob@utexas.edu"}
	carol = &models.User{ID: uuid.New(), Email: "carol@utexas.edu"}
)

func newFixture(t *testing.T) (*Engine, *memory.Store, *models.Listing, *models.Listing) {
	t.Helper()
	st := memory.New()
	ctx := context.Background()

	offered, err := st.Listings().Create(ctx, &models.Listing{
		Title:       "Mini Fridge",
		Price:       decimal.NewFromInt(50),
		Status:      models.ListingStatusActive,
		SellerEmail: alice.Email,
	})
	require.NoError(t, err)

	requested, err := st.Listings().Create(ctx, &models.Listing{
		Title:       "Acoustic Guitar",
		Price:       decimal.NewFromInt(80),
		Status:      models.ListingStatusActive,
		SellerEmail: bob.Email,
	})
	require.NoError(t, err)

	return NewEngine(st.Trades(), st.Listings()), st, offered, requested
}

func TestProposeComputesValueDifference(t *testing.T) {
	e, _, offered, requested := newFixture(t)

	trade, err := e.Propose(context.Background(), alice, Proposal{
		OfferedListingID:   offered.ID,
		RequestedListingID: requested.ID,
		CashOffer:          decimal.NewFromInt(10),
		Message:            "fridge + $10?",
	})
	require.NoError(t, err)

	// 80 - 50 - 10 = 20
	assert.True(t, trade.ValueDifference.Equal(decimal.NewFromInt(20)), "got %s", trade.ValueDifference)
	assert.Equal(t, models.TradeStatusPending, trade.Status)
	assert.Equal(t, alice.Email, trade.OffererEmail)
	assert.Equal(t, bob.Email, trade.ReceiverEmail)
}

func TestProposeRejectsSameListing(t *testing.T) {
	e, _, offered, _ := newFixture(t)

	_, err := e.Propose(context.Background(), alice, Proposal{
		OfferedListingID:   offered.ID,
		RequestedListingID: offered.ID,
	})
	assert.ErrorIs(t, err, models.ErrPrecondition)
}

func TestProposeRejectsMissingSelection(t *testing.T) {
	e, _, _, requested := newFixture(t)

	_, err := e.Propose(context.Background(), alice, Proposal{
		RequestedListingID: requested.ID,
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestProposeRequiresActiveListingOfOwn(t *testing.T) {
	e, _, offered, requested := newFixture(t)

	// у Carol нет активных объявлений вообще
	_, err := e.Propose(context.Background(), carol, Proposal{
		OfferedListingID:   offered.ID,
		RequestedListingID: requested.ID,
	})
	assert.ErrorIs(t, err, models.ErrPrecondition)
}

func TestProposeRejectsForeignOfferedListing(t *testing.T) {
	e, st, offered, requested := newFixture(t)
	ctx := context.Background()

	// у Carol есть свое активное объявление, но предлагает она чужое
	_, err := st.Listings().Create(ctx, &models.Listing{
		Title:       "Bike",
		Price:       decimal.NewFromInt(90),
		Status:      models.ListingStatusActive,
		SellerEmail: carol.Email,
	})
	require.NoError(t, err)

	_, err = e.Propose(ctx, carol, Proposal{
		OfferedListingID:   offered.ID,
		RequestedListingID: requested.ID,
	})
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestProposeRejectsOwnRequestedListing(t *testing.T) {
	e, st, _, _ := newFixture(t)
	ctx := context.Background()

	second, err := st.Listings().Create(ctx, &models.Listing{
		Title:       "Skateboard",
		Price:       decimal.NewFromInt(25),
		Status:      models.ListingStatusActive,
		SellerEmail: alice.Email,
	})
	require.NoError(t, err)

	first, err := st.Listings().ListBySeller(ctx, alice.Email, models.ListingStatusActive)
	require.NoError(t, err)

	_, err = e.Propose(ctx, alice, Proposal{
		OfferedListingID:   second.ID,
		RequestedListingID: first[len(first)-1].ID,
	})
	assert.ErrorIs(t, err, models.ErrPrecondition)
}

func TestProposeRejectsInactiveRequestedListing(t *testing.T) {
	e, st, offered, requested := newFixture(t)
	ctx := context.Background()

	sold := models.ListingStatusSold
	_, err := st.Listings().Update(ctx, requested.ID, store.ListingPatch{Status: &sold})
	require.NoError(t, err)

	_, err = e.Propose(ctx, alice, Proposal{
		OfferedListingID:   offered.ID,
		RequestedListingID: requested.ID,
	})
	assert.ErrorIs(t, err, models.ErrPrecondition)
}

func TestAcceptCascadesBothListingsToSold(t *testing.T) {
	e, st, offered, requested := newFixture(t)
	ctx := context.Background()

	trade, err := e.Propose(ctx, alice, Proposal{
		OfferedListingID:   offered.ID,
		RequestedListingID: requested.ID,
	})
	require.NoError(t, err)

	trade, err = e.Respond(ctx, bob, trade.ID, DecisionAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusAccepted, trade.Status)

	for _, id := range []uuid.UUID{offered.ID, requested.ID} {
		l, err := st.Listings().Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.ListingStatusSold, l.Status)
	}
}

func TestDeclineDoesNotTouchListings(t *testing.T) {
	e, st, offered, requested := newFixture(t)
	ctx := context.Background()

	trade, err := e.Propose(ctx, alice, Proposal{
		OfferedListingID:   offered.ID,
		RequestedListingID: requested.ID,
	})
	require.NoError(t, err)

	trade, err = e.Respond(ctx, bob, trade.ID, DecisionDeclined)
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusDeclined, trade.Status)

	l, err := st.Listings().Get(ctx, offered.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusActive, l.Status)
}

func TestRespondOnlyReceiver(t *testing.T) {
	e, _, offered, requested := newFixture(t)
	ctx := context.Background()

	trade, err := e.Propose(ctx, alice, Proposal{
		OfferedListingID:   offered.ID,
		RequestedListingID: requested.ID,
	})
	require.NoError(t, err)

	_, err = e.Respond(ctx, alice, trade.ID, DecisionAccepted)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = e.Respond(ctx, carol, trade.ID, DecisionDeclined)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestRespondAndCancelFailOnTerminalTrade(t *testing.T) {
	e, _, offered, requested := newFixture(t)
	ctx := context.Background()

	trade, err := e.Propose(ctx, alice, Proposal{
		OfferedListingID:   offered.ID,
		RequestedListingID: requested.ID,
	})
	require.NoError(t, err)

	_, err = e.Respond(ctx, bob, trade.ID, DecisionDeclined)
	require.NoError(t, err)

	_, err = e.Respond(ctx, bob, trade.ID, DecisionAccepted)
	assert.ErrorIs(t, err, models.ErrPrecondition)

	_, err = e.Cancel(ctx, alice, trade.ID)
	assert.ErrorIs(t, err, models.ErrPrecondition)
}

func TestCancelKeepsRecordWithCancelledStatus(t *testing.T) {
	e, _, offered, requested := newFixture(t)
	ctx := context.Background()

	trade, err := e.Propose(ctx, alice, Proposal{
		OfferedListingID:   offered.ID,
		RequestedListingID: requested.ID,
	})
	require.NoError(t, err)

	_, err = e.Cancel(ctx, bob, trade.ID)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	cancelled, err := e.Cancel(ctx, alice, trade.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusCancelled, cancelled.Status)

	all, err := e.ListPublic(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRespondMissingTrade(t *testing.T) {
	e, _, _, _ := newFixture(t)

	_, err := e.Respond(context.Background(), bob, uuid.New(), DecisionAccepted)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPartitionBuckets(t *testing.T) {
	trades := []models.Trade{
		{Status: models.TradeStatusPending},
		{Status: models.TradeStatusAccepted},
		{Status: models.TradeStatusDeclined},
		{Status: models.TradeStatusCompleted},
		{Status: models.TradeStatusCancelled},
	}

	active, completed := Partition(trades)
	assert.Len(t, active, 1)
	assert.Len(t, completed, 2)
}

// flakyListings пропускает каскадные обновления отдельных объявлений,
// имитируя частичный сбой внешнего хранилища.
type flakyListings struct {
	store.ListingStore
	failUpdates map[uuid.UUID]error
}

func (f *flakyListings) Update(ctx context.Context, id uuid.UUID, patch store.ListingPatch) (*models.Listing, error) {
	if err, ok := f.failUpdates[id]; ok {
		return nil, err
	}
	return f.ListingStore.Update(ctx, id, patch)
}

func TestAcceptPartialCascadeSurfacesConsistencyError(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	offered, err := st.Listings().Create(ctx, &models.Listing{
		Title: "Mini Fridge", Price: decimal.NewFromInt(50),
		Status: models.ListingStatusActive, SellerEmail: alice.Email,
	})
	require.NoError(t, err)
	requested, err := st.Listings().Create(ctx, &models.Listing{
		Title: "Acoustic Guitar", Price: decimal.NewFromInt(80),
		Status: models.ListingStatusActive, SellerEmail: bob.Email,
	})
	require.NoError(t, err)

	flaky := &flakyListings{
		ListingStore: st.Listings(),
		failUpdates:  map[uuid.UUID]error{requested.ID: errors.New("store unavailable")},
	}
	e := NewEngine(st.Trades(), flaky)

	trade, err := e.Propose(ctx, alice, Proposal{
		OfferedListingID:   offered.ID,
		RequestedListingID: requested.ID,
	})
	require.NoError(t, err)

	got, err := e.Respond(ctx, bob, trade.ID, DecisionAccepted)
	assert.ErrorIs(t, err, models.ErrConsistency)

	// статус обмена уже записан, первое объявление продано, второе зависло
	require.NotNil(t, got)
	assert.Equal(t, models.TradeStatusAccepted, got.Status)

	l, err := st.Listings().Get(ctx, offered.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusSold, l.Status)

	l, err = st.Listings().Get(ctx, requested.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusActive, l.Status)

	// Repair добивает каскад после восстановления хранилища
	delete(flaky.failUpdates, requested.ID)
	require.NoError(t, e.Repair(ctx, trade.ID))

	l, err = st.Listings().Get(ctx, requested.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusSold, l.Status)
}

func TestRepairRequiresAcceptedTrade(t *testing.T) {
	e, _, offered, requested := newFixture(t)
	ctx := context.Background()

	trade, err := e.Propose(ctx, alice, Proposal{
		OfferedListingID:   offered.ID,
		RequestedListingID: requested.ID,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, e.Repair(ctx, trade.ID), models.ErrPrecondition)
}
