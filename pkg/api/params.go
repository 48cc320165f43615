package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shoplens/shoplens/pkg/reports"
	"github.com/shoplens/shoplens/pkg/repository"
)

// Accepted datetime layouts for range filter parameters.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseQueryArgs maps URL query parameters onto the typed report
// arguments. Missing parameters stay at their zero values; defaults are
// applied later by normalization.
func parseQueryArgs(c *gin.Context) (reports.QueryArgs, error) {
	var args reports.QueryArgs
	var err error

	if args.RegisteredBefore, err = timeParam(c, "registered_before"); err != nil {
		return args, err
	}
	if args.RegisteredAfter, err = timeParam(c, "registered_after"); err != nil {
		return args, err
	}
	if args.LastActiveBefore, err = timeParam(c, "last_active_before"); err != nil {
		return args, err
	}
	if args.LastActiveAfter, err = timeParam(c, "last_active_after"); err != nil {
		return args, err
	}
	if args.LastOrderBefore, err = timeParam(c, "last_order_before"); err != nil {
		return args, err
	}
	if args.LastOrderAfter, err = timeParam(c, "last_order_after"); err != nil {
		return args, err
	}

	args.Username = c.Query("username")
	args.Email = c.Query("email")
	args.Country = c.Query("country")
	args.Name = c.Query("name")

	if args.OrdersCountMin, err = intParam(c, "orders_count_min"); err != nil {
		return args, err
	}
	if args.OrdersCountMax, err = intParam(c, "orders_count_max"); err != nil {
		return args, err
	}
	if args.TotalSpendMin, err = floatParam(c, "total_spend_min"); err != nil {
		return args, err
	}
	if args.TotalSpendMax, err = floatParam(c, "total_spend_max"); err != nil {
		return args, err
	}
	if args.AvgOrderValueMin, err = floatParam(c, "avg_order_value_min"); err != nil {
		return args, err
	}
	if args.AvgOrderValueMax, err = floatParam(c, "avg_order_value_max"); err != nil {
		return args, err
	}

	args.StatusIs = listParam(c, "status_is")
	args.StatusIsNot = listParam(c, "status_is_not")
	args.Fields = listParam(c, "fields")

	args.Match = c.Query("match")
	args.OrderBy = c.Query("orderby")
	args.Order = repository.SortOrder(c.Query("order"))

	if args.Page, err = pageParam(c, "page"); err != nil {
		return args, err
	}
	if args.PerPage, err = pageParam(c, "per_page"); err != nil {
		return args, err
	}

	return args, nil
}

func invalidParam(name, value string) error {
	return fmt.Errorf("%w: invalid value %q for %s", reports.ErrInvalidArgument, value, name)
}

func timeParam(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, invalidParam(name, raw)
}

func intParam(c *gin.Context, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, invalidParam(name, raw)
	}
	return &v, nil
}

func floatParam(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, invalidParam(name, raw)
	}
	return &v, nil
}

func pageParam(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidParam(name, raw)
	}
	return v, nil
}

func listParam(c *gin.Context, name string) []string {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			values = append(values, v)
		}
	}
	return values
}
