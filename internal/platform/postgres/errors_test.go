package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/essaylab-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockResult implements sql.Result for testing
type mockResult struct {
	rowsAffected int64
	err          error
}

func (m mockResult) LastInsertId() (int64, error) {
	return 0, nil
}

func (m mockResult) RowsAffected() (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.rowsAffected, nil
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{name: "nil_error", err: nil, expected: nil},
		{name: "no_rows", err: sql.ErrNoRows, expected: store.ErrNotFound},
		{
			name:     "unique_violation",
			err:      &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "accounts_email_key"},
			expected: store.ErrDuplicate,
		},
		{
			name:     "foreign_key_violation",
			err:      &pgconn.PgError{Code: foreignKeyViolationCode},
			expected: store.ErrInvalidEntity,
		},
		{
			name:     "check_violation",
			err:      &pgconn.PgError{Code: checkViolationCode, ConstraintName: "accounts_daily_count_check"},
			expected: store.ErrInvalidEntity,
		},
		{
			name:     "not_null_violation",
			err:      &pgconn.PgError{Code: notNullViolationCode, ColumnName: "email"},
			expected: store.ErrInvalidEntity,
		},
		{name: "bad_conn", err: driver.ErrBadConn, expected: store.ErrUnavailable},
		{name: "conn_done", err: sql.ErrConnDone, expected: store.ErrUnavailable},
		{
			name:     "connection_exception_class",
			err:      &pgconn.PgError{Code: "08006"},
			expected: store.ErrUnavailable,
		},
		{
			name:     "admin_shutdown",
			err:      &pgconn.PgError{Code: adminShutdownCode},
			expected: store.ErrUnavailable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError(tc.err)
			if tc.expected == nil {
				assert.NoError(t, got)
				return
			}
			require.Error(t, got)
			assert.ErrorIs(t, got, tc.expected)
		})
	}
}

func TestMapErrorPassesThroughUnknownErrors(t *testing.T) {
	orig := errors.New("something odd")
	assert.Same(t, orig, MapError(orig))
}

func TestConstraintHelpers(t *testing.T) {
	unique := fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "invite_codes_owner_id_key"})

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: foreignKeyViolationCode}))
	assert.Equal(t, "invite_codes_owner_id_key", constraintName(unique))
	assert.Equal(t, "", constraintName(errors.New("plain")))
}

func TestCheckRowsAffected(t *testing.T) {
	tests := []struct {
		name     string
		result   sql.Result
		notFound error
		expected error
	}{
		{name: "one_row", result: mockResult{rowsAffected: 1}},
		{name: "zero_rows_default", result: mockResult{}, expected: store.ErrNotFound},
		{name: "zero_rows_custom", result: mockResult{}, notFound: store.ErrAccountNotFound, expected: store.ErrAccountNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckRowsAffected(tc.result, tc.notFound)
			if tc.expected == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.expected)
		})
	}

	t.Run("nil_result", func(t *testing.T) {
		assert.Error(t, CheckRowsAffected(nil, nil))
	})

	t.Run("rows_affected_error", func(t *testing.T) {
		err := CheckRowsAffected(mockResult{err: errors.New("driver")}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rows affected")
	})
}
