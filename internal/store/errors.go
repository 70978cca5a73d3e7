package store

import "errors"

// Sentinel errors returned by storage implementations to signal well-known
// failure conditions. Callers should use [errors.Is] to match against these
// values.
var (
	// ErrKeyNotFound is returned by Get when the requested key does not
	// exist in the store.
	ErrKeyNotFound = errors.New("key not found")

	// ErrQuotaExceeded is returned by Set when the backing medium has no
	// capacity left (e.g. SQLITE_FULL). It is surfaced to the caller and
	// never retried.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// Low-level database operation errors. These are returned (or wrapped) by the
// SQLite storage when a SQL-level operation fails before any domain logic can
// be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRows is returned when scanning column values from a
	// result set fails.
	ErrScanningRows = errors.New("failed to scan storage rows")
)
