package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplens/shoplens/pkg/repository"
)

var testDefaults = Defaults{PerPage: 25, MaxPerPage: 100}

func int64p(v int64) *int64       { return &v }
func float64p(v float64) *float64 { return &v }

func TestNormalize_Defaults(t *testing.T) {
	normalized, err := QueryArgs{}.Normalize(testDefaults)
	require.NoError(t, err)

	assert.Equal(t, 1, normalized.Page)
	assert.Equal(t, 25, normalized.PerPage)
	assert.Equal(t, repository.SortDesc, normalized.Order)
	assert.Equal(t, FieldDateRegistered, normalized.OrderBy)
	assert.Equal(t, MatchAll, normalized.Match)
	assert.Equal(t, reportFieldOrder, normalized.Fields)
}

func TestNormalize_PreservesSuppliedValues(t *testing.T) {
	normalized, err := QueryArgs{
		Country: "US",
		Match:   MatchAny,
		OrderBy: FieldTotalSpend,
		Order:   "asc",
		Page:    3,
		PerPage: 10,
		Fields:  []string{FieldCustomerID, FieldTotalSpend},
	}.Normalize(testDefaults)
	require.NoError(t, err)

	assert.Equal(t, "US", normalized.Country)
	assert.Equal(t, MatchAny, normalized.Match)
	assert.Equal(t, repository.SortAsc, normalized.Order)
	assert.Equal(t, 3, normalized.Page)
	assert.Equal(t, 10, normalized.PerPage)
	assert.Equal(t, []string{FieldCustomerID, FieldTotalSpend}, normalized.Fields)
}

func TestNormalize_Rejections(t *testing.T) {
	tests := []struct {
		name string
		args QueryArgs
	}{
		{name: "negative page", args: QueryArgs{Page: -1}},
		{name: "negative per_page", args: QueryArgs{PerPage: -5}},
		{name: "per_page above maximum", args: QueryArgs{PerPage: 101}},
		{name: "unknown order direction", args: QueryArgs{Order: "SIDEWAYS"}},
		{name: "unknown orderby field", args: QueryArgs{OrderBy: "shoe_size"}},
		{name: "unknown match operator", args: QueryArgs{Match: "some"}},
		{name: "orders_count min above max", args: QueryArgs{OrdersCountMin: int64p(5), OrdersCountMax: int64p(2)}},
		{name: "total_spend min above max", args: QueryArgs{TotalSpendMin: float64p(100), TotalSpendMax: float64p(10)}},
		{name: "avg_order_value min above max", args: QueryArgs{AvgOrderValueMin: float64p(9), AvgOrderValueMax: float64p(1)}},
		{name: "negative orders_count_min", args: QueryArgs{OrdersCountMin: int64p(-1)}},
		{name: "unknown report field", args: QueryArgs{Fields: []string{"favorite_color"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.args.Normalize(testDefaults)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestNormalize_EqualRangeBoundsAccepted(t *testing.T) {
	_, err := QueryArgs{
		OrdersCountMin: int64p(3),
		OrdersCountMax: int64p(3),
	}.Normalize(testDefaults)
	assert.NoError(t, err)
}

func TestNormalize_DedupesRequestedFields(t *testing.T) {
	normalized, err := QueryArgs{
		Fields: []string{FieldEmail, FieldEmail, FieldCountry},
	}.Normalize(testDefaults)
	require.NoError(t, err)
	assert.Equal(t, []string{FieldEmail, FieldCountry}, normalized.Fields)
}

func TestNormalize_OrderCaseInsensitive(t *testing.T) {
	normalized, err := QueryArgs{Order: "desc"}.Normalize(testDefaults)
	require.NoError(t, err)
	assert.Equal(t, repository.SortDesc, normalized.Order)
}
