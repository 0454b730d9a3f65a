package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store"
)

func TestListingLifecycle(t *testing.T) {
	st := New()
	ctx := context.Background()

	created, err := st.Listings().Create(ctx, &models.Listing{
		Title:       "Физика, том 1",
		Price:       decimal.NewFromInt(25),
		Status:      models.ListingStatusActive,
		SellerEmail: "alice@utexas.edu",
	})
	require.NoError(t, err)
	require.NotEqual(t, "00000000-0000-0000-0000-000000000000", created.ID.String())

	got, err := st.Listings().Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Физика, том 1", got.Title)

	title := "Физика, том 2"
	updated, err := st.Listings().Update(ctx, created.ID, store.ListingPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	// Поля вне патча не трогаются
	assert.Equal(t, "alice@utexas.edu", updated.SellerEmail)

	require.NoError(t, st.Listings().Delete(ctx, created.ID))

	_, err = st.Listings().Get(ctx, created.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, st.Listings().Delete(ctx, created.ID), models.ErrNotFound)
}

func TestListingsNewestFirst(t *testing.T) {
	st := New()
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	st.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})

	for _, title := range []string{"первое", "второе", "третье"} {
		_, err := st.Listings().Create(ctx, &models.Listing{
			Title:       title,
			Status:      models.ListingStatusActive,
			SellerEmail: "alice@utexas.edu",
		})
		require.NoError(t, err)
	}

	all, err := st.Listings().List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "третье", all[0].Title)
	assert.Equal(t, "первое", all[2].Title)
}

func TestListBySellerStatusFilter(t *testing.T) {
	st := New()
	ctx := context.Background()

	_, err := st.Listings().Create(ctx, &models.Listing{
		Title: "активное", Status: models.ListingStatusActive, SellerEmail: "alice@utexas.edu",
	})
	require.NoError(t, err)
	_, err = st.Listings().Create(ctx, &models.Listing{
		Title: "проданное", Status: models.ListingStatusSold, SellerEmail: "alice@utexas.edu",
	})
	require.NoError(t, err)

	active, err := st.Listings().ListBySeller(ctx, "alice@utexas.edu", models.ListingStatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "активное", active[0].Title)

	all, err := st.Listings().ListBySeller(ctx, "alice@utexas.edu", "all")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTradeDelete(t *testing.T) {
	st := New()
	ctx := context.Background()

	trade, err := st.Trades().Create(ctx, &models.Trade{
		OffererEmail:  "alice@utexas.edu",
		ReceiverEmail: "bob@utexas.edu",
		Status:        models.TradeStatusPending,
	})
	require.NoError(t, err)

	require.NoError(t, st.Trades().Delete(ctx, trade.ID))
	_, err = st.Trades().Get(ctx, trade.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserGetByEmail(t *testing.T) {
	st := New()
	ctx := context.Background()

	_, err := st.Users().Create(ctx, &models.User{Email: "carol@utexas.edu", FullName: "Carol"})
	require.NoError(t, err)

	user, err := st.Users().GetByEmail(ctx, "carol@utexas.edu")
	require.NoError(t, err)
	assert.Equal(t, "Carol", user.FullName)

	_, err = st.Users().GetByEmail(ctx, "nobody@utexas.edu")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
