package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	opts := Parse(url.Values{}, 10)

	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, 10, opts.Limit)
	assert.Equal(t, 0, opts.Offset())
	assert.Nil(t, opts.Featured)
	assert.Nil(t, opts.DateFrom)
	assert.Nil(t, opts.DateTo)
}

func TestParseFilters(t *testing.T) {
	values := url.Values{}
	values.Set("status", "published")
	values.Set("category", "news")
	values.Set("featured", "true")
	values.Set("search", "hackathon")
	values.Set("dateFrom", "2026-01-01")
	values.Set("dateTo", "2026-06-30")
	values.Set("page", "2")
	values.Set("limit", "25")

	opts := Parse(values, 10)

	assert.Equal(t, "published", opts.Status)
	assert.Equal(t, "news", opts.Category)
	require.NotNil(t, opts.Featured)
	assert.True(t, *opts.Featured)
	assert.Equal(t, "hackathon", opts.Search)
	require.NotNil(t, opts.DateFrom)
	assert.Equal(t, 2026, opts.DateFrom.Year())
	require.NotNil(t, opts.DateTo)
	assert.Equal(t, 2, opts.Page)
	assert.Equal(t, 25, opts.Limit)
	assert.Equal(t, 25, opts.Offset())
}

func TestParseClampsAndIgnoresInvalid(t *testing.T) {
	values := url.Values{}
	values.Set("page", "-3")
	values.Set("limit", "100000")
	values.Set("dateFrom", "yesterday")

	opts := Parse(values, 10)

	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, MaxLimit, opts.Limit)
	assert.Nil(t, opts.DateFrom)
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		limit int
		total int64
		want  Pagination
	}{
		{
			name: "middle page", page: 2, limit: 10, total: 25,
			want: Pagination{CurrentPage: 2, TotalPages: 3, TotalCount: 25, HasNext: true, HasPrev: true},
		},
		{
			name: "first page", page: 1, limit: 10, total: 25,
			want: Pagination{CurrentPage: 1, TotalPages: 3, TotalCount: 25, HasNext: true, HasPrev: false},
		},
		{
			name: "last page", page: 3, limit: 10, total: 25,
			want: Pagination{CurrentPage: 3, TotalPages: 3, TotalCount: 25, HasNext: false, HasPrev: true},
		},
		{
			name: "empty result", page: 1, limit: 10, total: 0,
			want: Pagination{CurrentPage: 1, TotalPages: 0, TotalCount: 0, HasNext: false, HasPrev: false},
		},
		{
			name: "exact multiple", page: 2, limit: 5, total: 10,
			want: Pagination{CurrentPage: 2, TotalPages: 2, TotalCount: 10, HasNext: false, HasPrev: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Paginate(tt.page, tt.limit, tt.total))
		})
	}
}
