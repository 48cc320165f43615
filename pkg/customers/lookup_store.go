package customers

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/shoplens/shoplens/pkg/repository"
)

const tableName = "customer_lookup"

// mysqlDuplicateEntry is the server error for unique-key violations.
const mysqlDuplicateEntry = 1062

// LookupStore executes the customer lookup table queries. Guest
// uniqueness is enforced by the uq_guest_email unique index over the
// generated guest_email column (email when user_id is NULL); registered
// uniqueness by the uq_user index on user_id.
type LookupStore struct {
	db repository.SQLExecutor
}

// NewLookupStore creates a lookup store over the given executor.
func NewLookupStore(db repository.SQLExecutor) *LookupStore {
	return &LookupStore{db: db}
}

// CustomerIDByUserID returns the customer id for a registered user, or
// found=false when no row exists.
func (s *LookupStore) CustomerIDByUserID(ctx context.Context, userID int64) (int64, bool, error) {
	var customerID int64
	err := s.db.QueryRowContext(ctx,
		"SELECT customer_id FROM "+tableName+" WHERE user_id = ? LIMIT 1",
		userID,
	).Scan(&customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, storageError("lookup customer by user id", err)
	}
	return customerID, true, nil
}

// GuestIDByEmail returns the guest customer id for a billing email, or
// found=false when no guest row exists. The user_id IS NULL filter
// keeps guests distinct from registered customers sharing the email.
func (s *LookupStore) GuestIDByEmail(ctx context.Context, email string) (int64, bool, error) {
	var customerID int64
	err := s.db.QueryRowContext(ctx,
		"SELECT customer_id FROM "+tableName+" WHERE email = ? AND user_id IS NULL LIMIT 1",
		email,
	).Scan(&customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, storageError("lookup guest by email", err)
	}
	return customerID, true, nil
}

// InsertGuest creates a guest row from order billing fields and returns
// the generated customer id. A unique-key violation (concurrent insert
// for the same email) surfaces as errDuplicateGuest.
func (s *LookupStore) InsertGuest(ctx context.Context, order Order) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO "+tableName+
			" (first_name, last_name, email, city, postcode, country, date_last_active)"+
			" VALUES (?, ?, ?, ?, ?, ?, ?)",
		order.BillingFirstName,
		order.BillingLastName,
		order.BillingEmail,
		order.BillingCity,
		order.BillingPostcode,
		order.BillingCountry,
		order.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return 0, errDuplicateGuest
		}
		return 0, storageError("insert guest customer", err)
	}

	customerID, err := result.LastInsertId()
	if err != nil {
		return 0, storageError("read inserted guest id", err)
	}
	return customerID, nil
}

// UpsertRegistered inserts or updates the row for a registered user.
// The upsert keys on the user_id unique index, so an existing row keeps
// its customer_id across repeated profile updates.
func (s *LookupStore) UpsertRegistered(ctx context.Context, profile Profile) error {
	var lastActive any
	if profile.LastActive != nil {
		lastActive = profile.LastActive.UTC().Format("2006-01-02 15:04:05")
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO "+tableName+
			" (user_id, username, first_name, last_name, email, city, postcode, country, date_registered, date_last_active)"+
			" VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"+
			" ON DUPLICATE KEY UPDATE"+
			" username = VALUES(username), first_name = VALUES(first_name), last_name = VALUES(last_name),"+
			" email = VALUES(email), city = VALUES(city), postcode = VALUES(postcode), country = VALUES(country),"+
			" date_registered = VALUES(date_registered), date_last_active = VALUES(date_last_active)",
		profile.UserID,
		profile.Username,
		profile.FirstName,
		profile.LastName,
		profile.Email,
		profile.City,
		profile.Postcode,
		profile.Country,
		profile.DateRegistered.UTC().Format("2006-01-02 15:04:05"),
		lastActive,
	)
	if err != nil {
		return storageError("upsert registered customer", err)
	}
	return nil
}

// TouchLastActive updates date_last_active for a registered user. A
// missing lookup row is a no-op.
func (s *LookupStore) TouchLastActive(ctx context.Context, userID int64, lastActive time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE "+tableName+" SET date_last_active = ? WHERE user_id = ?",
		lastActive.UTC().Format("2006-01-02 15:04:05"),
		userID,
	)
	if err != nil {
		return storageError("touch last active", err)
	}
	return nil
}
