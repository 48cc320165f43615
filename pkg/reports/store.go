package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/shoplens/shoplens/pkg/cache"
	"github.com/shoplens/shoplens/pkg/observability/logger"
	"github.com/shoplens/shoplens/pkg/repository"
)

// CacheNamespace is the invalidation group for customer report results.
// Write paths flush the whole namespace; there is no per-entry
// invalidation.
const CacheNamespace = "report-customers"

// Store serves the customers report: it normalizes query arguments,
// assembles the count and data queries, paginates, and memoizes results
// in the cache.
type Store struct {
	db       repository.SQLExecutor
	cache    cache.Store
	log      logger.Logger
	defaults Defaults
}

// NewStore creates a report store over the given executor and cache.
func NewStore(db repository.SQLExecutor, cacheStore cache.Store, log logger.Logger, defaults Defaults) *Store {
	return &Store{db: db, cache: cacheStore, log: log, defaults: defaults}
}

// GetCustomers returns the report page described by args. Results are
// cached under a canonical hash of the normalized arguments. A page
// outside the available range returns the defined empty result, not an
// error.
func (s *Store) GetCustomers(ctx context.Context, args QueryArgs) (Result, error) {
	normalized, err := args.Normalize(s.defaults)
	if err != nil {
		return Result{}, err
	}

	key, err := cache.Key(normalized)
	if err != nil {
		return Result{}, storageError("derive cache key", err)
	}

	if raw, cacheErr := s.cache.Get(ctx, CacheNamespace, key); cacheErr == nil {
		var cached Result
		if unmarshalErr := json.Unmarshal(raw, &cached); unmarshalErr == nil {
			return cached, nil
		}
		s.log.Warn("discarding undecodable report cache entry", "key", key)
	} else if !errors.Is(cacheErr, cache.ErrCacheMiss) {
		s.log.Warn("report cache lookup failed", "key", key, "error", cacheErr)
	}

	started := time.Now()
	result, err := s.query(ctx, normalized)
	if err != nil {
		if errors.Is(err, errPageOutOfRange) {
			// Out-of-range pages are a defined empty outcome. Not
			// cached: the total may change before the page exists.
			return emptyResult(), nil
		}
		return Result{}, err
	}
	observeQueryDuration("customers", time.Since(started))

	if raw, marshalErr := json.Marshal(result); marshalErr == nil {
		if setErr := s.cache.Set(ctx, CacheNamespace, key, raw); setErr != nil {
			s.log.Warn("report cache write failed", "key", key, "error", setErr)
		}
	} else {
		s.log.Warn("failed to encode report result for cache", "key", key, "error", marshalErr)
	}

	return result, nil
}

func (s *Store) query(ctx context.Context, args QueryArgs) (Result, error) {
	countQuery := assembleCountQuery(args)

	var total int
	if err := s.db.QueryRowContext(ctx, countQuery.sql, countQuery.args...).Scan(&total); err != nil {
		return Result{}, storageError("count customers", err)
	}

	window, err := paginate(total, args.Page, args.PerPage)
	if err != nil {
		return Result{}, err
	}

	pag := repository.Pagination{Page: args.Page, PerPage: args.PerPage}
	dataQuery := assembleDataQuery(args, pag)

	rows, err := s.db.QueryContext(ctx, dataQuery.sql, dataQuery.args...)
	if err != nil {
		return Result{}, storageError("query customers", err)
	}
	defer rows.Close()

	records := []CustomerRecord{}
	for rows.Next() {
		rec, scanErr := scanRecord(rows, args.Fields)
		if scanErr != nil {
			return Result{}, storageError("scan customer row", scanErr)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return Result{}, storageError("iterate customer rows", err)
	}

	return Result{
		Data:   records,
		Total:  total,
		Pages:  window.Pages,
		PageNo: window.PageNo,
	}, nil
}

// GetCustomer returns a single customer with aggregates, or ErrNotFound.
func (s *Store) GetCustomer(ctx context.Context, customerID int64) (*CustomerRecord, error) {
	q := assembleSingleQuery(customerID)

	rows, err := s.db.QueryContext(ctx, q.sql, q.args...)
	if err != nil {
		return nil, storageError("query customer", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, storageError("query customer", err)
		}
		return nil, reportsError(ErrNotFound, "no customer for id")
	}

	rec, err := scanRecord(rows, reportFieldOrder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reportsError(ErrNotFound, "no customer for id")
		}
		return nil, storageError("scan customer row", err)
	}
	return &rec, nil
}

// InvalidateCache flushes every memoized customer report result. Called
// by write-path collaborators after customer or order data changes.
func (s *Store) InvalidateCache(ctx context.Context) error {
	return s.cache.Flush(ctx, CacheNamespace)
}
