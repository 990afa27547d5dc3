package syncer

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))

	assert.True(t, IsTransient(&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}))
	assert.True(t, IsTransient(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"}))
	assert.False(t, IsTransient(&mysql.MySQLError{Number: 1064, Message: "syntax error"}))

	assert.True(t, IsTransient(&pgconn.PgError{Code: "40001"}))
	assert.True(t, IsTransient(&pgconn.PgError{Code: "40P01"}))
	assert.False(t, IsTransient(&pgconn.PgError{Code: "42601"}))

	// Wrapped errors still classify.
	wrapped := fmt.Errorf("fetch: %w", &mysql.MySQLError{Number: 1213})
	assert.True(t, IsTransient(wrapped))

	// String fallback for drivers without typed errors.
	assert.True(t, IsTransient(errors.New("Transaction (Process ID 52) was deadlocked on lock resources")))
	assert.False(t, IsTransient(errors.New("relation does not exist")))
}

func TestIsConnectivity(t *testing.T) {
	assert.False(t, IsConnectivity(nil))
	assert.True(t, IsConnectivity(driver.ErrBadConn))
	assert.True(t, IsConnectivity(mysql.ErrInvalidConn))
	assert.True(t, IsConnectivity(fmt.Errorf("query: %w", driver.ErrBadConn)))
	assert.True(t, IsConnectivity(errors.New("dial tcp 10.0.0.5:3306: connection refused")))
	assert.True(t, IsConnectivity(errors.New("write: broken pipe")))
	assert.False(t, IsConnectivity(errors.New("duplicate key value")))
}

func TestConnectivityErrorUnwrap(t *testing.T) {
	inner := errors.New("dial tcp: connection refused")
	err := &ConnectivityError{Source: "ymce", Err: inner}

	assert.Contains(t, err.Error(), "ymce")
	assert.ErrorIs(t, err, inner)
}
