package customers

import (
	"context"
	"time"

	"github.com/shoplens/shoplens/pkg/eventbus"
	"github.com/shoplens/shoplens/pkg/observability/logger"
)

// Event topics consumed by the identity resolver.
const (
	TopicOrderPlaced    = "order.placed"
	TopicProfileUpdated = "customer.profile.updated"
	TopicMetaUpdated    = "customer.meta.updated"
)

// LastActiveMetaKey is the only meta key the resolver reacts to.
const LastActiveMetaKey = "last_active"

// OrderPlacedEvent is the payload for TopicOrderPlaced.
type OrderPlacedEvent struct {
	OrderID          int64     `json:"order_id"`
	UserID           int64     `json:"user_id"`
	BillingEmail     string    `json:"billing_email"`
	BillingFirstName string    `json:"billing_first_name"`
	BillingLastName  string    `json:"billing_last_name"`
	BillingCity      string    `json:"billing_city"`
	BillingPostcode  string    `json:"billing_postcode"`
	BillingCountry   string    `json:"billing_country"`
	CreatedAt        time.Time `json:"created_at"`
}

// ProfileUpdatedEvent is the payload for TopicProfileUpdated.
type ProfileUpdatedEvent struct {
	UserID         int64      `json:"user_id"`
	Username       string     `json:"username"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	City           string     `json:"city"`
	Postcode       string     `json:"postcode"`
	Country        string     `json:"country"`
	DateRegistered time.Time  `json:"date_registered"`
	LastActive     *time.Time `json:"last_active,omitempty"`
}

// MetaUpdatedEvent is the payload for TopicMetaUpdated. Value is a Unix
// timestamp for the last_active key.
type MetaUpdatedEvent struct {
	UserID  int64  `json:"user_id"`
	MetaKey string `json:"meta_key"`
	Value   int64  `json:"value"`
}

// CacheInvalidator flushes memoized report results after a write.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context) error
}

// Subscriber wires the identity resolver to the event bus and flushes
// the report cache after every successful write.
type Subscriber struct {
	resolver    *IdentityResolver
	invalidator CacheInvalidator
	log         logger.Logger
}

// NewSubscriber creates the event subscriber.
func NewSubscriber(resolver *IdentityResolver, invalidator CacheInvalidator, log logger.Logger) *Subscriber {
	return &Subscriber{resolver: resolver, invalidator: invalidator, log: log}
}

// Register subscribes all customer event handlers on the bus.
func (s *Subscriber) Register(ctx context.Context, bus eventbus.Consumer) error {
	if err := bus.Subscribe(ctx, TopicOrderPlaced, s.handleOrderPlaced); err != nil {
		return err
	}
	if err := bus.Subscribe(ctx, TopicProfileUpdated, s.handleProfileUpdated); err != nil {
		return err
	}
	return bus.Subscribe(ctx, TopicMetaUpdated, s.handleMetaUpdated)
}

func (s *Subscriber) handleOrderPlaced(ctx context.Context, msg *eventbus.Message) error {
	var event OrderPlacedEvent
	if err := eventbus.DecodeJSON(msg, &event); err != nil {
		return err
	}

	resolution, err := s.resolver.ResolveOrder(ctx, Order{
		OrderID:          event.OrderID,
		UserID:           event.UserID,
		BillingEmail:     event.BillingEmail,
		BillingFirstName: event.BillingFirstName,
		BillingLastName:  event.BillingLastName,
		BillingCity:      event.BillingCity,
		BillingPostcode:  event.BillingPostcode,
		BillingCountry:   event.BillingCountry,
		CreatedAt:        event.CreatedAt,
	})
	if err != nil {
		return err
	}

	s.log.Debug("resolved order customer",
		"order_id", event.OrderID,
		"customer_id", resolution.CustomerID,
		"match", resolution.Kind.String(),
	)

	// An order changes the aggregates even when no customer row was
	// written, so memoized results are stale either way.
	return s.flush(ctx)
}

func (s *Subscriber) handleProfileUpdated(ctx context.Context, msg *eventbus.Message) error {
	var event ProfileUpdatedEvent
	if err := eventbus.DecodeJSON(msg, &event); err != nil {
		return err
	}

	if err := s.resolver.SyncRegistered(ctx, Profile{
		UserID:         event.UserID,
		Username:       event.Username,
		FirstName:      event.FirstName,
		LastName:       event.LastName,
		Email:          event.Email,
		City:           event.City,
		Postcode:       event.Postcode,
		Country:        event.Country,
		DateRegistered: event.DateRegistered,
		LastActive:     event.LastActive,
	}); err != nil {
		return err
	}
	return s.flush(ctx)
}

func (s *Subscriber) handleMetaUpdated(ctx context.Context, msg *eventbus.Message) error {
	var event MetaUpdatedEvent
	if err := eventbus.DecodeJSON(msg, &event); err != nil {
		return err
	}
	if event.MetaKey != LastActiveMetaKey {
		return nil
	}

	lastActive := time.Unix(event.Value, 0).UTC()
	if err := s.resolver.store.TouchLastActive(ctx, event.UserID, lastActive); err != nil {
		return err
	}
	return s.flush(ctx)
}

func (s *Subscriber) flush(ctx context.Context) error {
	if err := s.invalidator.InvalidateCache(ctx); err != nil {
		s.log.Warn("report cache flush failed", "error", err)
	}
	return nil
}
