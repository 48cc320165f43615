package customers

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplens/shoplens/pkg/observability/logger"
)

const (
	lookupByUserStmt  = "SELECT customer_id FROM customer_lookup WHERE user_id = ? LIMIT 1"
	lookupGuestStmt   = "SELECT customer_id FROM customer_lookup WHERE email = ? AND user_id IS NULL LIMIT 1"
	insertGuestStmt   = "INSERT INTO customer_lookup (first_name, last_name, email, city, postcode, country, date_last_active) VALUES (?, ?, ?, ?, ?, ?, ?)"
	guestDuplicateMsg = "Duplicate entry 'guest@example.com' for key 'uq_guest_email'"
)

func newTestResolver(t *testing.T) (*IdentityResolver, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewIdentityResolver(NewLookupStore(db), logger.NewNop()), mock
}

func TestResolveOrder_Registered(t *testing.T) {
	resolver, mock := newTestResolver(t)

	mock.ExpectQuery(lookupByUserStmt).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"customer_id"}).AddRow(77))

	res, err := resolver.ResolveOrder(context.Background(), Order{OrderID: 501, UserID: 11})
	require.NoError(t, err)
	assert.Equal(t, Resolution{CustomerID: 77, Kind: MatchRegistered}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveOrder_RegisteredWithoutRowIsUnknown(t *testing.T) {
	resolver, mock := newTestResolver(t)

	mock.ExpectQuery(lookupByUserStmt).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"customer_id"}))

	// No guest fallback: registered rows come from profile sync only.
	res, err := resolver.ResolveOrder(context.Background(), Order{
		OrderID:      501,
		UserID:       11,
		BillingEmail: "jane@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, Resolution{Kind: MatchUnknown}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveOrder_GuestWithoutEmailIsUnknown(t *testing.T) {
	resolver, mock := newTestResolver(t)

	res, err := resolver.ResolveOrder(context.Background(), Order{OrderID: 501})
	require.NoError(t, err)
	assert.Equal(t, Resolution{Kind: MatchUnknown}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateGuest_ReusesExistingRow(t *testing.T) {
	resolver, mock := newTestResolver(t)

	mock.ExpectQuery(lookupGuestStmt).
		WithArgs("guest@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"customer_id"}).AddRow(31))

	res, err := resolver.GetOrCreateGuest(context.Background(), testOrder())
	require.NoError(t, err)
	assert.Equal(t, Resolution{CustomerID: 31, Kind: MatchGuest}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateGuest_CreatesRowOnFirstSight(t *testing.T) {
	resolver, mock := newTestResolver(t)

	mock.ExpectQuery(lookupGuestStmt).
		WithArgs("guest@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"customer_id"}))
	mock.ExpectExec(insertGuestStmt).
		WithArgs("Guest", "Shopper", "guest@example.com", "Denver", "80202", "US", "2025-05-20 14:30:00").
		WillReturnResult(sqlmock.NewResult(31, 1))

	res, err := resolver.GetOrCreateGuest(context.Background(), testOrder())
	require.NoError(t, err)
	assert.Equal(t, Resolution{CustomerID: 31, Kind: MatchNewGuest}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateGuest_SecondOrderSameEmailSameRow(t *testing.T) {
	resolver, mock := newTestResolver(t)

	// First order: miss then insert.
	mock.ExpectQuery(lookupGuestStmt).
		WithArgs("guest@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"customer_id"}))
	mock.ExpectExec(insertGuestStmt).
		WillReturnResult(sqlmock.NewResult(31, 1))
	// Second order: resolves to the same row, no insert.
	mock.ExpectQuery(lookupGuestStmt).
		WithArgs("guest@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"customer_id"}).AddRow(31))

	first, err := resolver.GetOrCreateGuest(context.Background(), testOrder())
	require.NoError(t, err)
	second, err := resolver.GetOrCreateGuest(context.Background(), testOrder())
	require.NoError(t, err)

	assert.Equal(t, first.CustomerID, second.CustomerID)
	assert.Equal(t, MatchNewGuest, first.Kind)
	assert.Equal(t, MatchGuest, second.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateGuest_LostInsertRaceRereads(t *testing.T) {
	resolver, mock := newTestResolver(t)

	mock.ExpectQuery(lookupGuestStmt).
		WithArgs("guest@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"customer_id"}))
	mock.ExpectExec(insertGuestStmt).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: guestDuplicateMsg})
	mock.ExpectQuery(lookupGuestStmt).
		WithArgs("guest@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"customer_id"}).AddRow(31))

	res, err := resolver.GetOrCreateGuest(context.Background(), testOrder())
	require.NoError(t, err)
	assert.Equal(t, Resolution{CustomerID: 31, Kind: MatchGuest}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateGuest_RaceWinnerVanished(t *testing.T) {
	resolver, mock := newTestResolver(t)

	mock.ExpectQuery(lookupGuestStmt).
		WillReturnRows(sqlmock.NewRows([]string{"customer_id"}))
	mock.ExpectExec(insertGuestStmt).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: guestDuplicateMsg})
	mock.ExpectQuery(lookupGuestStmt).
		WillReturnRows(sqlmock.NewRows([]string{"customer_id"}))

	res, err := resolver.GetOrCreateGuest(context.Background(), testOrder())
	require.NoError(t, err)
	assert.Equal(t, Resolution{Kind: MatchUnknown}, res)
}

func TestSyncRegistered_RepeatedUpsertsKeepCustomerID(t *testing.T) {
	resolver, mock := newTestResolver(t)

	profile := Profile{
		UserID:         11,
		Username:       "jdoe",
		Email:          "jane@example.com",
		DateRegistered: testOrder().CreatedAt,
	}

	// Both syncs run the same keyed upsert; the second turns into an
	// UPDATE on the uq_user index and never allocates a new row.
	mock.ExpectExec(upsertRegisteredStmt).WillReturnResult(sqlmock.NewResult(77, 1))
	mock.ExpectExec(upsertRegisteredStmt).WillReturnResult(sqlmock.NewResult(77, 2))

	require.NoError(t, resolver.SyncRegistered(context.Background(), profile))
	profile.City = "Seattle"
	require.NoError(t, resolver.SyncRegistered(context.Background(), profile))
	assert.NoError(t, mock.ExpectationsWereMet())
}
