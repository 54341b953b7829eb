package query

import (
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdfund/backend/models"
)

func TestParsePage(t *testing.T) {
	p, err := ParsePage("", "")
	require.NoError(t, err)
	assert.Equal(t, Page{Page: 1, Limit: 10}, p)

	p, err = ParsePage("3", "25")
	require.NoError(t, err)
	assert.Equal(t, 50, p.Skip())

	for _, bad := range [][2]string{{"0", "10"}, {"x", "10"}, {"1", "0"}, {"1", "101"}, {"-2", "5"}, {"100000000000000000", "100"}} {
		_, err := ParsePage(bad[0], bad[1])
		assert.ErrorIs(t, err, models.ErrInvalidParameters, bad)
	}
}

func TestTotalPagesAndWindow(t *testing.T) {
	p := Page{Page: 2, Limit: 4}
	assert.Equal(t, 3, p.TotalPages(9))
	assert.Equal(t, 0, p.TotalPages(0))
	assert.Equal(t, 2, p.TotalPages(8))

	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
	assert.Equal(t, []int{5, 6, 7, 8}, Paginate(items, p))
	assert.Equal(t, []int{9}, Paginate(items, Page{Page: 3, Limit: 4}))
	assert.Empty(t, Paginate(items, Page{Page: 9, Limit: 4}))
}

func TestPaginateHugePage(t *testing.T) {
	items := []int{1, 2, 3}
	for _, p := range []Page{
		{Page: math.MaxInt / 10, Limit: 100},
		{Page: math.MaxInt, Limit: 1},
		{Page: 0, Limit: 10},
	} {
		assert.NotPanics(t, func() {
			assert.Empty(t, Paginate(items, p))
		}, p)
	}

	last, err := ParsePage(strconv.Itoa(math.MaxInt/100), "100")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, last.Skip(), 0)
	assert.Empty(t, Paginate(items, last))
}

func TestParseSort(t *testing.T) {
	s, err := ParseIdeaSort("", "")
	require.NoError(t, err)
	assert.Equal(t, IdeaSort{By: IdeaByCreatedAt, Order: Desc}, s)

	s, err = ParseIdeaSort("targetAmount", "ASC")
	require.NoError(t, err)
	assert.Equal(t, IdeaSort{By: IdeaByTargetAmount, Order: Asc}, s)

	_, err = ParseIdeaSort("password", "asc")
	assert.ErrorIs(t, err, models.ErrInvalidParameters)
	_, err = ParseIdeaSort("name", "sideways")
	assert.ErrorIs(t, err, models.ErrInvalidParameters)

	fs, err := ParseForumSort("title", "asc")
	require.NoError(t, err)
	assert.Equal(t, ForumByTitle, fs.By)
	_, err = ParseForumSort("targetAmount", "asc")
	assert.ErrorIs(t, err, models.ErrInvalidParameters)
}

func TestIdeaSortApply(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ideas := []*models.Idea{
		{Name: "b", TargetAmount: 300, CreatedAt: base.Add(2 * time.Hour)},
		{Name: "a", TargetAmount: 100, CreatedAt: base},
		{Name: "c", TargetAmount: 200, CreatedAt: base.Add(time.Hour)},
	}

	IdeaSort{By: IdeaByName, Order: Asc}.Apply(ideas)
	assert.Equal(t, "a", ideas[0].Name)
	assert.Equal(t, "c", ideas[2].Name)

	IdeaSort{By: IdeaByTargetAmount, Order: Desc}.Apply(ideas)
	assert.Equal(t, 300.0, ideas[0].TargetAmount)
	assert.Equal(t, 100.0, ideas[2].TargetAmount)

	IdeaSort{By: IdeaByCreatedAt, Order: Desc}.Apply(ideas)
	assert.Equal(t, "b", ideas[0].Name)
}

func TestSearch(t *testing.T) {
	_, err := ParseSearch("   ", "")
	assert.ErrorIs(t, err, models.ErrInvalidQuery)
	_, err = ParseSearch("solar", "51")
	assert.ErrorIs(t, err, models.ErrInvalidParameters)

	s, err := ParseSearch("  Solar   Kiosk ", "5")
	require.NoError(t, err)
	assert.Equal(t, "solar kiosk", s.Normalized())
	assert.True(t, s.Matches("The SOLAR KIOSK project"))
	assert.False(t, s.Matches("solar panel kiosk"))
	assert.Equal(t, "idea:search:solar kiosk:5:name:asc", s.CacheKey("idea", "name:asc"))
}
