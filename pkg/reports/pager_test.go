package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		page    int
		perPage int
		want    pageWindow
	}{
		{name: "exact fit", total: 50, page: 2, perPage: 25, want: pageWindow{Pages: 2, PageNo: 2}},
		{name: "partial last page", total: 15, page: 2, perPage: 10, want: pageWindow{Pages: 2, PageNo: 2}},
		{name: "single page", total: 3, page: 1, perPage: 25, want: pageWindow{Pages: 1, PageNo: 1}},
		{name: "first of many", total: 101, page: 1, perPage: 10, want: pageWindow{Pages: 11, PageNo: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window, err := paginate(tt.total, tt.page, tt.perPage)
			require.NoError(t, err)
			assert.Equal(t, tt.want, window)
		})
	}
}

func TestPaginate_OutOfRange(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		page    int
		perPage int
	}{
		{name: "past last page", total: 15, page: 3, perPage: 10},
		{name: "empty result set", total: 0, page: 1, perPage: 10},
		{name: "page zero", total: 15, page: 0, perPage: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := paginate(tt.total, tt.page, tt.perPage)
			assert.ErrorIs(t, err, errPageOutOfRange)
		})
	}
}

func TestPaginate_InvalidPerPage(t *testing.T) {
	_, err := paginate(10, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
