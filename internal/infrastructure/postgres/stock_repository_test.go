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

// recordingQuerier guarda el SQL emitido y responde sin filas.
type recordingQuerier struct {
	stmts   []string
	execErr error
}

type noRow struct{}

func (noRow) Scan(...any) error { return pgx.ErrNoRows }

func (q *recordingQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	q.stmts = append(q.stmts, sql)
	return pgconn.NewCommandTag("INSERT 0 1"), q.execErr
}

func (q *recordingQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.stmts = append(q.stmts, sql)
	return nil, errors.New("no soportado")
}

func (q *recordingQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.stmts = append(q.stmts, sql)
	return noRow{}
}

var _ Querier = (*recordingQuerier)(nil)

func TestStockRepo_GetForUpdateLocksExistingRow(t *testing.T) {
	q := &recordingQuerier{}
	repo := NewStockRepository(q)

	s, err := repo.GetForUpdate(context.Background(), "p-1", "br-a")
	require.NoError(t, err)
	assert.Zero(t, s.Quantity)
	assert.Equal(t, "p-1", s.ProductID)

	// la fila se crea antes del bloqueo para que FOR UPDATE siempre tenga algo que bloquear
	require.Len(t, q.stmts, 2)
	assert.Contains(t, q.stmts[0], "INSERT INTO stock")
	assert.Contains(t, q.stmts[0], "DO NOTHING")
	assert.Contains(t, q.stmts[1], "FOR UPDATE")
}

func TestStockRepo_GetForUpdateEnsureRowFails(t *testing.T) {
	q := &recordingQuerier{execErr: errors.New("conexión perdida")}
	repo := NewStockRepository(q)

	_, err := repo.GetForUpdate(context.Background(), "p-1", "br-a")
	require.Error(t, err)
	assert.Len(t, q.stmts, 1, "sin fila asegurada no se intenta el bloqueo")
}

func TestStockRepo_GetDoesNotWrite(t *testing.T) {
	q := &recordingQuerier{}
	_, err := NewStockRepository(q).Get(context.Background(), "p-1", "br-a")
	require.NoError(t, err)
	require.Len(t, q.stmts, 1)
	assert.NotContains(t, q.stmts[0], "INSERT")
}
