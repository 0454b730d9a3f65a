package ownership

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store/memory"
)

func setup(t *testing.T) (*Verifier, *memory.Store) {
	t.Helper()
	st := memory.New()
	return NewVerifier(st.Users()), st
}

func TestCanManageBySellerEmail(t *testing.T) {
	v, _ := setup(t)

	listing := &models.Listing{SellerEmail: "seller@utexas.edu", SellerPhone: "512-555-0100"}

	assert.True(t, v.CanManage(&models.User{Email: "seller@utexas.edu"}, listing))
	assert.False(t, v.CanManage(&models.User{Email: "other@utexas.edu"}, listing))
	assert.False(t, v.CanManage(nil, listing))
}

func TestCanManageByVerifiedPhone(t *testing.T) {
	v, _ := setup(t)

	listing := &models.Listing{SellerEmail: "seller@utexas.edu", SellerPhone: "512-555-0100"}

	assert.True(t, v.CanManage(&models.User{Email: "guest@utexas.edu", Phone: "512-555-0100"}, listing))
	assert.False(t, v.CanManage(&models.User{Email: "guest@utexas.edu", Phone: "512-555-0199"}, listing))

	// объявление без номера продавца по телефону не управляется
	bare := &models.Listing{SellerEmail: "seller@utexas.edu"}
	assert.False(t, v.CanManage(&models.User{Email: "guest@utexas.edu", Phone: ""}, bare))
}

func TestVerifyByPhoneGrantsManagement(t *testing.T) {
	v, st := setup(t)
	ctx := context.Background()

	actor, err := st.Users().Create(ctx, &models.User{Email: "c@utexas.edu"})
	require.NoError(t, err)

	listing := &models.Listing{SellerEmail: "someone-else@utexas.edu", SellerPhone: "512-555-0100"}

	assert.False(t, v.CanManage(actor, listing))

	require.NoError(t, v.VerifyByPhone(ctx, actor, listing, "512-555-0100"))
	assert.True(t, v.CanManage(actor, listing))

	// номер дописан в запись пользователя
	stored, err := st.Users().Get(ctx, actor.ID)
	require.NoError(t, err)
	assert.Equal(t, "512-555-0100", stored.Phone)
}

func TestVerifyByPhoneMismatch(t *testing.T) {
	v, st := setup(t)
	ctx := context.Background()

	actor, err := st.Users().Create(ctx, &models.User{Email: "c@utexas.edu"})
	require.NoError(t, err)

	listing := &models.Listing{SellerEmail: "s@utexas.edu", SellerPhone: "512-555-0100"}

	err = v.VerifyByPhone(ctx, actor, listing, "512-555-0101")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	// при несовпадении ничего не записывается
	stored, err := st.Users().Get(ctx, actor.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Phone)
}

func TestVerifyByPhoneExactMatchNoNormalization(t *testing.T) {
	v, st := setup(t)
	ctx := context.Background()

	actor, err := st.Users().Create(ctx, &models.User{Email: "c@utexas.edu"})
	require.NoError(t, err)

	listing := &models.Listing{SellerEmail: "s@utexas.edu", SellerPhone: "512-555-0100"}

	// совпадение строгое: те же цифры в другом формате не проходят
	err = v.VerifyByPhone(ctx, actor, listing, "(512) 555-0100")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestVerifyByPhoneDoesNotOverwriteExistingPhone(t *testing.T) {
	v, st := setup(t)
	ctx := context.Background()

	actor, err := st.Users().Create(ctx, &models.User{Email: "c@utexas.edu", Phone: "512-555-0777"})
	require.NoError(t, err)

	listing := &models.Listing{SellerEmail: "s@utexas.edu", SellerPhone: "512-555-0100"}

	require.NoError(t, v.VerifyByPhone(ctx, actor, listing, "512-555-0100"))

	// сессия получает проверенный номер, запись пользователя не перезаписывается
	assert.Equal(t, "512-555-0100", actor.Phone)
	stored, err := st.Users().Get(ctx, actor.ID)
	require.NoError(t, err)
	assert.Equal(t, "512-555-0777", stored.Phone)
}

func TestVerifyByPhoneEmptyInput(t *testing.T) {
	v, _ := setup(t)

	listing := &models.Listing{SellerEmail: "s@utexas.edu", SellerPhone: "512-555-0100"}
	err := v.VerifyByPhone(context.Background(), &models.User{Email: "c@utexas.edu"}, listing, "")
	assert.ErrorIs(t, err, models.ErrValidation)
}
