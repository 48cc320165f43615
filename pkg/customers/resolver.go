package customers

import (
	"context"
	"errors"

	"github.com/shoplens/shoplens/pkg/observability/logger"
)

// IdentityResolver maps incoming orders to customer identities and
// keeps registered rows in sync with profile changes.
type IdentityResolver struct {
	store *LookupStore
	log   logger.Logger
}

// NewIdentityResolver creates a resolver over the lookup store.
func NewIdentityResolver(store *LookupStore, log logger.Logger) *IdentityResolver {
	return &IdentityResolver{store: store, log: log}
}

// ResolveOrder resolves the customer identity for an order.
//
// A registered order (UserID > 0) resolves strictly by user id: when no
// lookup row exists the outcome is MatchUnknown — registered rows are
// created by profile sync, never here. A guest order resolves by
// billing email, creating a guest row on first sight; an empty billing
// email is terminal MatchUnknown.
func (r *IdentityResolver) ResolveOrder(ctx context.Context, order Order) (Resolution, error) {
	if order.UserID > 0 {
		customerID, found, err := r.store.CustomerIDByUserID(ctx, order.UserID)
		if err != nil {
			return Resolution{}, err
		}
		if !found {
			return Resolution{Kind: MatchUnknown}, nil
		}
		return Resolution{CustomerID: customerID, Kind: MatchRegistered}, nil
	}

	return r.GetOrCreateGuest(ctx, order)
}

// GetOrCreateGuest resolves a guest order's billing email to an
// existing guest row or creates one from the order's billing fields,
// with date_last_active set to the order creation time. Two concurrent
// first orders for the same email race on the insert; the guest_email
// unique index rejects the loser, which then re-reads and returns the
// surviving row, so exactly one guest row exists per email.
func (r *IdentityResolver) GetOrCreateGuest(ctx context.Context, order Order) (Resolution, error) {
	if order.BillingEmail == "" {
		return Resolution{Kind: MatchUnknown}, nil
	}

	customerID, found, err := r.store.GuestIDByEmail(ctx, order.BillingEmail)
	if err != nil {
		return Resolution{}, err
	}
	if found {
		return Resolution{CustomerID: customerID, Kind: MatchGuest}, nil
	}

	customerID, err = r.store.InsertGuest(ctx, order)
	if err != nil {
		if errors.Is(err, errDuplicateGuest) {
			customerID, found, err = r.store.GuestIDByEmail(ctx, order.BillingEmail)
			if err != nil {
				return Resolution{}, err
			}
			if !found {
				// Lost the race and the winner vanished between the
				// insert and the re-read. Treat as unresolved.
				return Resolution{Kind: MatchUnknown}, nil
			}
			return Resolution{CustomerID: customerID, Kind: MatchGuest}, nil
		}
		return Resolution{}, err
	}

	r.log.Info("created guest customer",
		"customer_id", customerID,
		"order_id", order.OrderID,
	)
	return Resolution{CustomerID: customerID, Kind: MatchNewGuest}, nil
}

// SyncRegistered upserts the lookup row for a registered customer
// profile. Repeated syncs for the same user id keep the original
// customer_id.
func (r *IdentityResolver) SyncRegistered(ctx context.Context, profile Profile) error {
	return r.store.UpsertRegistered(ctx, profile)
}
