package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/shoplens/shoplens/pkg/repository"
)

// Match operator values. MatchAll combines filter clauses with AND,
// MatchAny with OR.
const (
	MatchAll = "all"
	MatchAny = "any"
)

// Defaults supplies host configuration applied during normalization.
type Defaults struct {
	PerPage    int
	MaxPerPage int
}

// QueryArgs is the full set of recognized customer report filters.
// Zero values mean "not supplied"; Normalize fills defaults and
// validates the rest. The JSON form of a normalized QueryArgs is the
// input to cache key derivation.
type QueryArgs struct {
	RegisteredBefore *time.Time `json:"registered_before,omitempty"`
	RegisteredAfter  *time.Time `json:"registered_after,omitempty"`
	LastActiveBefore *time.Time `json:"last_active_before,omitempty"`
	LastActiveAfter  *time.Time `json:"last_active_after,omitempty"`
	LastOrderBefore  *time.Time `json:"last_order_before,omitempty"`
	LastOrderAfter   *time.Time `json:"last_order_after,omitempty"`

	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Country  string `json:"country,omitempty"`
	Name     string `json:"name,omitempty"`

	OrdersCountMin   *int64   `json:"orders_count_min,omitempty"`
	OrdersCountMax   *int64   `json:"orders_count_max,omitempty"`
	TotalSpendMin    *float64 `json:"total_spend_min,omitempty"`
	TotalSpendMax    *float64 `json:"total_spend_max,omitempty"`
	AvgOrderValueMin *float64 `json:"avg_order_value_min,omitempty"`
	AvgOrderValueMax *float64 `json:"avg_order_value_max,omitempty"`

	StatusIs    []string `json:"status_is,omitempty"`
	StatusIsNot []string `json:"status_is_not,omitempty"`

	Match   string               `json:"match,omitempty"`
	OrderBy string               `json:"orderby,omitempty"`
	Order   repository.SortOrder `json:"order,omitempty"`
	Page    int                  `json:"page,omitempty"`
	PerPage int                  `json:"per_page,omitempty"`

	// Fields restricts the report columns returned. Empty means all.
	Fields []string `json:"fields,omitempty"`
}

// Normalize returns a fully-populated copy of args with defaults applied
// and every field validated. Invalid input yields ErrInvalidArgument;
// min/max pairs with min > max are rejected rather than silently
// reordered or clamped.
func (a QueryArgs) Normalize(d Defaults) (QueryArgs, error) {
	out := a

	if out.Page == 0 {
		out.Page = 1
	}
	if out.Page < 1 {
		return QueryArgs{}, reportsError(ErrInvalidArgument, fmt.Sprintf("page must be at least 1, got %d", out.Page))
	}

	if out.PerPage == 0 {
		out.PerPage = d.PerPage
	}
	if out.PerPage < 1 {
		return QueryArgs{}, reportsError(ErrInvalidArgument, fmt.Sprintf("per_page must be at least 1, got %d", out.PerPage))
	}
	if d.MaxPerPage > 0 && out.PerPage > d.MaxPerPage {
		return QueryArgs{}, reportsError(ErrInvalidArgument, fmt.Sprintf("per_page must not exceed %d, got %d", d.MaxPerPage, out.PerPage))
	}

	switch strings.ToUpper(string(out.Order)) {
	case "":
		out.Order = repository.SortDesc
	case string(repository.SortAsc):
		out.Order = repository.SortAsc
	case string(repository.SortDesc):
		out.Order = repository.SortDesc
	default:
		return QueryArgs{}, reportsError(ErrInvalidArgument, fmt.Sprintf("order must be ASC or DESC, got %q", out.Order))
	}

	if out.OrderBy == "" {
		out.OrderBy = FieldDateRegistered
	}
	if _, ok := sortExpressions[out.OrderBy]; !ok {
		return QueryArgs{}, reportsError(ErrInvalidArgument, fmt.Sprintf("unknown orderby field %q", out.OrderBy))
	}

	switch out.Match {
	case "":
		out.Match = MatchAll
	case MatchAll, MatchAny:
	default:
		return QueryArgs{}, reportsError(ErrInvalidArgument, fmt.Sprintf("match must be %q or %q, got %q", MatchAll, MatchAny, out.Match))
	}

	if err := validateRange(FieldOrdersCount, floatPtr(out.OrdersCountMin), floatPtr(out.OrdersCountMax)); err != nil {
		return QueryArgs{}, err
	}
	if err := validateRange(FieldTotalSpend, out.TotalSpendMin, out.TotalSpendMax); err != nil {
		return QueryArgs{}, err
	}
	if err := validateRange(FieldAvgOrderValue, out.AvgOrderValueMin, out.AvgOrderValueMax); err != nil {
		return QueryArgs{}, err
	}
	if out.OrdersCountMin != nil && *out.OrdersCountMin < 0 {
		return QueryArgs{}, reportsError(ErrInvalidArgument, "orders_count_min must not be negative")
	}

	fields, err := normalizeFields(out.Fields)
	if err != nil {
		return QueryArgs{}, err
	}
	out.Fields = fields

	return out, nil
}

// normalizeFields validates and dedupes a requested column subset.
// An empty request expands to the full report column set.
func normalizeFields(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return append([]string{}, reportFieldOrder...), nil
	}
	seen := make(map[string]struct{}, len(requested))
	fields := make([]string, 0, len(requested))
	for _, field := range requested {
		if _, ok := reportColumns[field]; !ok {
			return nil, reportsError(ErrInvalidArgument, fmt.Sprintf("unknown report field %q", field))
		}
		if _, dup := seen[field]; dup {
			continue
		}
		seen[field] = struct{}{}
		fields = append(fields, field)
	}
	return fields, nil
}

func validateRange(field string, min, max *float64) error {
	if min != nil && max != nil && *min > *max {
		return reportsError(ErrInvalidArgument, fmt.Sprintf("%s_min exceeds %s_max", field, field))
	}
	return nil
}

func floatPtr(v *int64) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
