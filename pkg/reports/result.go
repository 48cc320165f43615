package reports

import (
	"database/sql"
	"fmt"
	"time"
)

// CustomerRecord is one row of the customers report: the lookup-table
// attributes plus the per-customer order aggregates. Fields outside the
// requested subset stay at their zero values.
type CustomerRecord struct {
	CustomerID     int64      `json:"customer_id"`
	UserID         int64      `json:"user_id,omitempty"`
	Username       string     `json:"username,omitempty"`
	Name           string     `json:"name,omitempty"`
	Email          string     `json:"email,omitempty"`
	Country        string     `json:"country,omitempty"`
	City           string     `json:"city,omitempty"`
	Postcode       string     `json:"postcode,omitempty"`
	DateRegistered *time.Time `json:"date_registered,omitempty"`
	DateLastActive *time.Time `json:"date_last_active,omitempty"`
	OrdersCount    int64      `json:"orders_count"`
	TotalSpend     float64    `json:"total_spend"`
	AvgOrderValue  float64    `json:"avg_order_value"`
	DateLastOrder  *time.Time `json:"date_last_order,omitempty"`
}

// Result is the paginated report payload.
type Result struct {
	Data   []CustomerRecord `json:"data"`
	Total  int              `json:"total"`
	Pages  int              `json:"pages"`
	PageNo int              `json:"page_no"`
}

// emptyResult is the defined payload for out-of-range pages.
func emptyResult() Result {
	return Result{Data: []CustomerRecord{}}
}

// scanRecord reads one row into a CustomerRecord, honoring the selected
// field order. Aggregate columns scan through null-tolerant holders:
// a customer with no matching orders carries NULL aggregates, reported
// as zero values.
func scanRecord(rows *sql.Rows, fields []string) (CustomerRecord, error) {
	var rec CustomerRecord
	var (
		userID         sql.NullInt64
		username       sql.NullString
		name           sql.NullString
		email          sql.NullString
		country        sql.NullString
		city           sql.NullString
		postcode       sql.NullString
		dateRegistered sql.NullTime
		dateLastActive sql.NullTime
		ordersCount    sql.NullInt64
		totalSpend     sql.NullFloat64
		avgOrderValue  sql.NullFloat64
		dateLastOrder  sql.NullTime
	)

	holders := make([]any, len(fields))
	for i, field := range fields {
		switch field {
		case FieldCustomerID:
			holders[i] = &rec.CustomerID
		case FieldUserID:
			holders[i] = &userID
		case FieldUsername:
			holders[i] = &username
		case FieldName:
			holders[i] = &name
		case FieldEmail:
			holders[i] = &email
		case FieldCountry:
			holders[i] = &country
		case FieldCity:
			holders[i] = &city
		case FieldPostcode:
			holders[i] = &postcode
		case FieldDateRegistered:
			holders[i] = &dateRegistered
		case FieldDateLastActive:
			holders[i] = &dateLastActive
		case FieldOrdersCount:
			holders[i] = &ordersCount
		case FieldTotalSpend:
			holders[i] = &totalSpend
		case FieldAvgOrderValue:
			holders[i] = &avgOrderValue
		case FieldDateLastOrder:
			holders[i] = &dateLastOrder
		default:
			return rec, fmt.Errorf("unknown report field %q", field)
		}
	}

	if err := rows.Scan(holders...); err != nil {
		return rec, err
	}

	rec.UserID = userID.Int64
	rec.Username = username.String
	rec.Name = name.String
	rec.Email = email.String
	rec.Country = country.String
	rec.City = city.String
	rec.Postcode = postcode.String
	if dateRegistered.Valid {
		t := dateRegistered.Time
		rec.DateRegistered = &t
	}
	if dateLastActive.Valid {
		t := dateLastActive.Time
		rec.DateLastActive = &t
	}
	rec.OrdersCount = ordersCount.Int64
	rec.TotalSpend = totalSpend.Float64
	rec.AvgOrderValue = avgOrderValue.Float64
	if dateLastOrder.Valid {
		t := dateLastOrder.Time
		rec.DateLastOrder = &t
	}

	return rec, nil
}
