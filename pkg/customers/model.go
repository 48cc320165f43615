// Package customers maintains the customer lookup table: it resolves or
// creates customer identities from incoming orders and keeps registered
// customer rows in sync with profile changes.
package customers

import "time"

// Order carries the identity-relevant slice of a placed order. A zero
// UserID marks a guest checkout, identified by billing email.
type Order struct {
	OrderID          int64
	UserID           int64
	BillingEmail     string
	BillingFirstName string
	BillingLastName  string
	BillingCity      string
	BillingPostcode  string
	BillingCountry   string
	CreatedAt        time.Time
}

// Profile carries the registered-customer attributes synced into the
// lookup table on profile create/update.
type Profile struct {
	UserID         int64
	Username       string
	FirstName      string
	LastName       string
	Email          string
	City           string
	Postcode       string
	Country        string
	DateRegistered time.Time
	LastActive     *time.Time
}

// MatchKind names the identity-resolution outcome for an order.
type MatchKind int

const (
	// MatchUnknown means no customer could be resolved: a registered
	// user with no lookup row, or a guest order with no billing email.
	MatchUnknown MatchKind = iota
	// MatchRegistered means the order belongs to an existing
	// registered-customer row.
	MatchRegistered
	// MatchGuest means the order matched an existing guest row by
	// billing email.
	MatchGuest
	// MatchNewGuest means a guest row was created for the order.
	MatchNewGuest
)

// String returns the lowercase name of the match kind.
func (k MatchKind) String() string {
	switch k {
	case MatchRegistered:
		return "registered"
	case MatchGuest:
		return "guest"
	case MatchNewGuest:
		return "new_guest"
	default:
		return "unknown"
	}
}

// Resolution is the outcome of resolving an order to a customer.
// CustomerID is zero when Kind is MatchUnknown.
type Resolution struct {
	CustomerID int64
	Kind       MatchKind
}
