package search

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusswap/campusswap-api/internal/models"
)

func listing(title, category, condition string, price float64, created time.Time) models.Listing {
	return models.Listing{
		ID:        uuid.New(),
		Title:     title,
		Category:  category,
		Condition: condition,
		Price:     decimal.NewFromFloat(price),
		Status:    models.ListingStatusActive,
		CreatedAt: created,
	}
}

func testListings() []models.Listing {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ls := []models.Listing{
		listing("Calculus Textbook", "Textbooks", "Good", 45, base.Add(1*time.Hour)),
		listing("Physics Textbook", "Textbooks", "Like New", 60, base.Add(2*time.Hour)),
		listing("Desk Lamp", "Dorm Essentials", "New", 15, base.Add(3*time.Hour)),
		listing("Gaming Laptop", "Electronics", "Good", 650, base.Add(4*time.Hour)),
		listing("Chemistry Textbook", "Textbooks", "Fair", 30, base.Add(5*time.Hour)),
	}
	ls[3].Views = 40
	ls[0].Views = 12
	return ls
}

func TestApplyStatusPartition(t *testing.T) {
	ls := testListings()
	ls[1].Status = models.ListingStatusSold

	active := Apply(ls, Filters{})
	assert.Len(t, active, 4)
	for _, l := range active {
		assert.Equal(t, models.ListingStatusActive, l.Status)
	}

	sold := Apply(ls, Filters{ShowSold: true})
	require.Len(t, sold, 1)
	assert.Equal(t, "Physics Textbook", sold[0].Title)
}

func TestApplyTextSearchCaseInsensitive(t *testing.T) {
	ls := testListings()
	ls[2].Description = "Adjustable LED lamp, barely used"

	out := Apply(ls, Filters{Search: "TEXTBOOK"})
	assert.Len(t, out, 3)

	// совпадение по описанию тоже считается
	out = Apply(ls, Filters{Search: "adjustable led"})
	require.Len(t, out, 1)
	assert.Equal(t, "Desk Lamp", out[0].Title)
}

func TestApplyCategoryAndConditionSentinel(t *testing.T) {
	ls := testListings()

	assert.Len(t, Apply(ls, Filters{Category: All, Condition: All}), 5)
	assert.Len(t, Apply(ls, Filters{Category: "Textbooks"}), 3)

	out := Apply(ls, Filters{Category: "Textbooks", Condition: "Fair"})
	require.Len(t, out, 1)
	assert.Equal(t, "Chemistry Textbook", out[0].Title)
}

func TestApplyPriceRangeInclusive(t *testing.T) {
	ls := testListings()
	min := decimal.NewFromInt(30)
	max := decimal.NewFromInt(60)

	out := Apply(ls, Filters{MinPrice: &min, MaxPrice: &max})
	require.Len(t, out, 3)
	for _, l := range out {
		assert.True(t, l.Price.GreaterThanOrEqual(min), "price %s below min", l.Price)
		assert.True(t, l.Price.LessThanOrEqual(max), "price %s above max", l.Price)
	}
}

func TestApplyTextbooksUnderFiftyAscending(t *testing.T) {
	ls := testListings()
	min := decimal.Zero
	max := decimal.NewFromInt(50)

	out := Apply(ls, Filters{Category: "Textbooks", MinPrice: &min, MaxPrice: &max, SortBy: SortPriceAsc})
	require.Len(t, out, 2)
	assert.Equal(t, "Chemistry Textbook", out[0].Title)
	assert.Equal(t, "Calculus Textbook", out[1].Title)
}

func TestApplySortVariants(t *testing.T) {
	ls := testListings()

	newest := Apply(ls, Filters{SortBy: SortNewest})
	assert.Equal(t, "Chemistry Textbook", newest[0].Title)
	assert.Equal(t, "Calculus Textbook", newest[len(newest)-1].Title)

	desc := Apply(ls, Filters{SortBy: SortPriceHigh})
	assert.Equal(t, "Gaming Laptop", desc[0].Title)

	popular := Apply(ls, Filters{SortBy: SortPopular})
	assert.Equal(t, "Gaming Laptop", popular[0].Title)
	assert.Equal(t, "Calculus Textbook", popular[1].Title)
}

func TestApplyStableForEqualKeys(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ls := []models.Listing{
		listing("A", "Other", "Good", 20, base),
		listing("B", "Other", "Good", 20, base),
		listing("C", "Other", "Good", 20, base),
	}

	out := Apply(ls, Filters{SortBy: SortPriceAsc})
	require.Len(t, out, 3)
	assert.Equal(t, "A", out[0].Title)
	assert.Equal(t, "B", out[1].Title)
	assert.Equal(t, "C", out[2].Title)
}

func TestApplyIdempotent(t *testing.T) {
	ls := testListings()
	min := decimal.NewFromInt(10)
	max := decimal.NewFromInt(700)
	f := Filters{Search: "t", MinPrice: &min, MaxPrice: &max, SortBy: SortPriceAsc}

	once := Apply(ls, f)
	twice := Apply(once, f)
	assert.Equal(t, once, twice)
}
