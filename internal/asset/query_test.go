// AngelaMos | 2026
// query_test.go

package asset

import (
	"math"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/stockhub/internal/core"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func ids(assets []Asset) []int64 {
	out := make([]int64, 0, len(assets))
	for _, a := range assets {
		out = append(out, a.ID)
	}
	return out
}

func catalogue() []Asset {
	return []Asset{
		{
			ID: 1, Title: "Sunset Beach", Type: TypePhoto, Price: 999,
			Status: StatusApproved, Tags: StringList{"beach", "sunset"},
			Categories: StringList{"nature", "travel"}, CreatedAt: epoch,
		},
		{
			ID: 2, Title: "Mountain Ridge", Description: ptr("Snowy peaks at dawn"),
			Type: TypePhoto, Price: 1499, Status: StatusApproved,
			Tags: StringList{"mountain"}, Categories: StringList{"nature"},
			CreatedAt: epoch.Add(time.Hour),
		},
		{
			ID: 3, Title: "City Loop", Type: TypeVideo, Price: 2500,
			Status: StatusApproved, Tags: StringList{"urban", "timelapse"},
			Categories: StringList{"city"}, CreatedAt: epoch.Add(2 * time.Hour),
		},
		{
			ID: 4, Title: "Beach Party Anthem", Type: TypeMusic, Price: 500,
			Status: StatusPending, Tags: StringList{"beach"},
			Categories: StringList{"music"}, CreatedAt: epoch.Add(3 * time.Hour),
		},
		{
			ID: 5, Title: "Flat Icons", Type: TypeVector, Price: 300,
			Status: StatusRejected, Categories: StringList{"business"},
			CreatedAt: epoch.Add(4 * time.Hour),
		},
		{
			ID: 6, Title: "Harbour Lights", Description: ptr("Beachfront at night"),
			Type: TypeIllustration, Price: 750, Status: StatusApproved,
			Categories: StringList{"travel", "city"}, CreatedAt: epoch.Add(5 * time.Hour),
		},
	}
}

func mustSearch(t *testing.T, assets []Asset, q Query) []Asset {
	t.Helper()
	got, err := Search(assets, q)
	require.NoError(t, err)
	return got
}

func TestSearchSunsetBeachScenario(t *testing.T) {
	assets := catalogue()

	assert.Contains(t, ids(mustSearch(t, assets, Query{Text: "beach"})), int64(1))
	assert.NotContains(t, ids(mustSearch(t, assets, Query{Text: "mountain"})), int64(1))
}

func TestSearchPriceRangeExcludesOutOfBounds(t *testing.T) {
	got := mustSearch(t, catalogue(), Query{MinPrice: ptr[int64](500), MaxPrice: ptr[int64](1000)})

	assert.NotContains(t, ids(got), int64(2))
	assert.ElementsMatch(t, []int64{1, 6}, ids(got))
}

func TestSearchPriceBoundsAreInclusive(t *testing.T) {
	got := mustSearch(t, catalogue(), Query{MinPrice: ptr[int64](999), MaxPrice: ptr[int64](1499)})
	assert.ElementsMatch(t, []int64{1, 2}, ids(got))
}

func TestSearchNeverReturnsUnapproved(t *testing.T) {
	queries := []Query{
		{},
		{Text: "beach"},
		{Type: TypeMusic},
		{Type: TypeVector},
		{Categories: []string{"music", "business"}},
		{MaxPrice: ptr[int64](500)},
		{Sort: SortPriceAsc},
	}
	for _, q := range queries {
		for _, a := range mustSearch(t, catalogue(), q) {
			assert.Equal(t, StatusApproved, a.Status, "query %+v returned %d", q, a.ID)
		}
	}
}

func TestSearchTextMatchesTitleDescriptionAndTags(t *testing.T) {
	assets := catalogue()

	assert.Equal(t, []int64{6, 1}, ids(mustSearch(t, assets, Query{Text: "  BEACH "})))
	assert.Equal(t, []int64{2}, ids(mustSearch(t, assets, Query{Text: "snowy"})))
	assert.Equal(t, []int64{3}, ids(mustSearch(t, assets, Query{Text: "timelapse"})))
}

func TestSearchTextNarrowsMonotonically(t *testing.T) {
	assets := catalogue()
	all := ids(mustSearch(t, assets, Query{}))

	for _, text := range []string{"a", "be", "beach", "sun", "x", "ridge", "night"} {
		for _, id := range ids(mustSearch(t, assets, Query{Text: text})) {
			assert.Contains(t, all, id, "text %q", text)
		}
	}
}

func TestSearchCategoriesAreUnion(t *testing.T) {
	assets := catalogue()

	nature := ids(mustSearch(t, assets, Query{Categories: []string{"nature"}}))
	city := ids(mustSearch(t, assets, Query{Categories: []string{"City"}}))
	both := ids(mustSearch(t, assets, Query{Categories: []string{"nature", "city"}}))

	union := slices.Compact(slices.Sorted(slices.Values(append(nature, city...))))
	assert.ElementsMatch(t, union, both)
}

func TestSearchTypeFilter(t *testing.T) {
	assets := catalogue()

	assert.Equal(t, []int64{3}, ids(mustSearch(t, assets, Query{Type: TypeVideo})))
	assert.Len(t, mustSearch(t, assets, Query{Type: TypeAll}), 4)
	assert.Empty(t, mustSearch(t, assets, Query{Type: TypeMusic}))
}

func TestSearchSortOrders(t *testing.T) {
	assets := catalogue()

	assert.Equal(t, []int64{6, 3, 2, 1}, ids(mustSearch(t, assets, Query{})))
	assert.Equal(t, []int64{6, 3, 2, 1}, ids(mustSearch(t, assets, Query{Sort: SortNewest})))
	assert.Equal(t, []int64{1, 2, 3, 6}, ids(mustSearch(t, assets, Query{Sort: SortOldest})))
	assert.Equal(t, []int64{6, 1, 2, 3}, ids(mustSearch(t, assets, Query{Sort: SortPriceAsc})))
}

func TestSearchPriceAscIsReverseOfDesc(t *testing.T) {
	assets := catalogue()

	asc := ids(mustSearch(t, assets, Query{Sort: SortPriceAsc}))
	desc := ids(mustSearch(t, assets, Query{Sort: SortPriceDesc}))

	slices.Reverse(desc)
	assert.Equal(t, asc, desc)
}

func TestSearchTiesBreakByID(t *testing.T) {
	assets := []Asset{
		{ID: 9, Price: 100, Status: StatusApproved, CreatedAt: epoch},
		{ID: 3, Price: 100, Status: StatusApproved, CreatedAt: epoch},
		{ID: 5, Price: 100, Status: StatusApproved, CreatedAt: epoch},
	}

	for _, order := range []string{SortNewest, SortOldest, SortPriceAsc, SortPriceDesc} {
		assert.Equal(t, []int64{3, 5, 9}, ids(mustSearch(t, assets, Query{Sort: order})), order)
	}
}

func TestSearchDoesNotMutateInput(t *testing.T) {
	assets := catalogue()
	before := ids(assets)

	mustSearch(t, assets, Query{Sort: SortPriceDesc})
	assert.Equal(t, before, ids(assets))
}

func TestSearchRejectsInvalidQueries(t *testing.T) {
	tests := []struct {
		name string
		q    Query
	}{
		{"unknown sort", Query{Sort: "popular"}},
		{"unknown type", Query{Type: "gif"}},
		{"negative min", Query{MinPrice: ptr[int64](-1)}},
		{"negative max", Query{MaxPrice: ptr[int64](-5)}},
		{"min above max", Query{MinPrice: ptr[int64](10), MaxPrice: ptr[int64](5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Search(catalogue(), tt.q)
			assert.ErrorIs(t, err, core.ErrInvalidInput)
		})
	}
}

func TestCategoryFacets(t *testing.T) {
	facets := CategoryFacets(catalogue())

	assert.Equal(t, []CategoryCount{
		{Category: "city", Count: 2},
		{Category: "nature", Count: 2},
		{Category: "travel", Count: 2},
	}, facets)
}

func TestPaginate(t *testing.T) {
	items := make([]Asset, 45)
	for i := range items {
		items[i].ID = int64(i + 1)
	}

	assert.Len(t, Paginate(items, Page{}), DefaultPageSize)
	assert.Equal(t, []int64{41, 42, 43, 44, 45}, ids(Paginate(items, Page{Number: 3, Size: 20})))
	assert.Empty(t, Paginate(items, Page{Number: 9, Size: 20}))
	assert.Len(t, Paginate(items, Page{Size: 1000}), 45)
	assert.Empty(t, Paginate(items, Page{Number: 1e17, Size: MaxPageSize}))
}

func TestPageNormalizeClampsNumber(t *testing.T) {
	p := Page{Number: math.MaxInt, Size: MaxPageSize}.Normalize()
	assert.Equal(t, maxPageNumber, p.Number)
	assert.Positive(t, p.Offset())

	assert.Equal(t, 1, Page{Number: -5}.Normalize().Number)
}

func TestNormalizeLabels(t *testing.T) {
	got := NormalizeLabels([]string{" Beach", "beach", "", "SUNSET", "  "})
	assert.Equal(t, StringList{"beach", "sunset"}, got)
}

func TestStringListRoundTripsThroughDriver(t *testing.T) {
	v, err := StringList{"a", "b"}.Value()
	require.NoError(t, err)

	var l StringList
	require.NoError(t, l.Scan(v))
	assert.Equal(t, StringList{"a", "b"}, l)

	require.NoError(t, l.Scan(nil))
	assert.Empty(t, l)

	assert.Error(t, l.Scan(42))
	assert.Error(t, l.Scan("not json"))
}
