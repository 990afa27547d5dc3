package syncer

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// ConnectivityError means a source pool could not be (re)established within
// the connection retry budget. It is never retried by the orchestrator.
type ConnectivityError struct {
	Source string
	Err    error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a lock/deadlock-class source error that
// is expected to resolve on retry without intervention.
//
// MySQL: 1205 lock wait timeout, 1213 deadlock found.
// Postgres: 40001 serialization failure, 40P01 deadlock detected.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1205 || myErr.Number == 1213
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadlock") || strings.Contains(msg, "lock wait timeout")
}

// IsConnectivity reports whether err looks like a broken connection rather
// than a query-level failure. Used to flip a pool's tracked state back to
// disconnected so the next run redials instead of trusting a stale flag.
func IsConnectivity(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe")
}
