package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type boolRow struct {
	value bool
	err   error
}

func (r boolRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*bool)) = r.value
	return nil
}

type tableQuerier struct {
	existing map[string]bool
	rowErr   error
	execErr  error
	executed []string
}

func (q *tableQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	return boolRow{value: q.existing[args[0].(string)], err: q.rowErr}
}

func (q *tableQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	q.executed = append(q.executed, sql)
	return pgconn.NewCommandTag("CREATE TABLE"), q.execErr
}

func TestApplySchema(t *testing.T) {
	q := &tableQuerier{}
	require.NoError(t, ApplySchema(context.Background(), q))
	require.Len(t, q.executed, 1)
	assert.Contains(t, q.executed[0], "CREATE TABLE IF NOT EXISTS users")
	assert.Contains(t, q.executed[0], "CREATE TABLE IF NOT EXISTS authorization_denials")

	q = &tableQuerier{execErr: errors.New("permission denied")}
	err := ApplySchema(context.Background(), q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to apply schema")
}

func TestMissingTables(t *testing.T) {
	q := &tableQuerier{existing: map[string]bool{"users": true}}

	missing, err := MissingTables(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"authorization_denials"}, missing)

	q.existing["authorization_denials"] = true
	missing, err = MissingTables(context.Background(), q)
	require.NoError(t, err)
	assert.Empty(t, missing)

	q.rowErr = errors.New("connection reset")
	_, err = MissingTables(context.Background(), q)
	assert.ErrorContains(t, err, "users")
}
