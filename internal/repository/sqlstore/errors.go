package sqlstore

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"institutebackend/internal/domain"
)

// MySQL server error numbers.
const (
	mysqlErrDBAccessDenied = 1044
	mysqlErrAccessDenied   = 1045
	mysqlErrDupEntry       = 1062
)

// wrapErr prefixes a driver error with the failed action, keeping the original message,
// and tags the error with a domain sentinel when its cause is recognizable.
func wrapErr(action string, err error) error {
	switch {
	case isAccessDenied(err):
		return fmt.Errorf("%s: %w: %w", action, domain.ErrStoreAccessDenied, err)
	case isConnRefused(err):
		return fmt.Errorf("%s: %w: %w", action, domain.ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
}

func isAccessDenied(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlErrAccessDenied || myErr.Number == mysqlErrDBAccessDenied
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// invalid_password, invalid_authorization_specification
		return pqErr.Code == "28P01" || pqErr.Code == "28000"
	}
	return false
}

func isConnRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}

func isUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlErrDupEntry
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
