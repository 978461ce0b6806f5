package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestNewUserRepository(t *testing.T) {
	db := &Connection{}
	repo := NewUserRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "wrapped", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "other pg error", err: &pgconn.PgError{Code: "23502"}},
		{name: "plain error", err: errors.New("boom")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}

func TestViolatedConstraint(t *testing.T) {
	assert.Equal(t, "users_username_key", violatedConstraint(
		fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})))
	assert.Empty(t, violatedConstraint(errors.New("boom")))
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	if got := nullable("alice"); assert.NotNil(t, got) {
		assert.Equal(t, "alice", *got)
	}
}

func TestConnection_PingNilPool(t *testing.T) {
	conn := &Connection{}
	assert.Error(t, conn.Ping(t.Context()))
	assert.NoError(t, conn.Close())
}
