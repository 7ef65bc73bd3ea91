package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"business-service/internal/rbac"
	"business-service/internal/repository"
	apperrors "business-service/pkg/errors"
)

var _ repository.UserRoleRepository = (*UserRepository)(nil)

type fakeRow struct {
	value string
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.value
	return nil
}

type fakeQuerier struct {
	row      fakeRow
	tag      pgconn.CommandTag
	execErr  error
	lastArgs []any
}

func (q *fakeQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	q.lastArgs = args
	return q.row
}

func (q *fakeQuerier) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	q.lastArgs = args
	return q.tag, q.execErr
}

func TestGetRole(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		row        fakeRow
		expected   rbac.Role
		isNotFound bool
		shouldErr  bool
	}{
		{"found", fakeRow{value: "manager"}, rbac.RoleManager, false, false},
		{"missing user", fakeRow{err: pgx.ErrNoRows}, "", true, true},
		{"driver failure", fakeRow{err: errors.New("conn reset")}, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &fakeQuerier{row: tt.row}
			repo := NewUserRepository(q)

			role, err := repo.GetRole(context.Background(), id)
			if !tt.shouldErr {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, role)
				assert.Equal(t, []any{id}, q.lastArgs)
				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.isNotFound, errors.Is(err, apperrors.ErrNotFound))
		})
	}
}

func TestUpdateRole(t *testing.T) {
	id := uuid.New()

	t.Run("updated", func(t *testing.T) {
		q := &fakeQuerier{tag: pgconn.NewCommandTag("UPDATE 1")}
		err := NewUserRepository(q).UpdateRole(context.Background(), id, rbac.RoleUser)
		require.NoError(t, err)
		assert.Equal(t, []any{id, "user"}, q.lastArgs)
	})

	t.Run("no such user", func(t *testing.T) {
		q := &fakeQuerier{tag: pgconn.NewCommandTag("UPDATE 0")}
		err := NewUserRepository(q).UpdateRole(context.Background(), id, rbac.RoleUser)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("check constraint", func(t *testing.T) {
		q := &fakeQuerier{execErr: &pgconn.PgError{Code: "23514"}}
		err := NewUserRepository(q).UpdateRole(context.Background(), id, "root")
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	})
}
