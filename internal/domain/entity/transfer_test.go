package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/transfer"
)

var now = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func TestNewTransfer_StartsPending(t *testing.T) {
	tr, err := entity.NewTransfer("t1", "a", "b", []entity.TransferItem{{ProductID: "p1", Quantity: 2}}, "urgente", now)
	require.NoError(t, err)
	assert.Equal(t, transfer.StatusPending, tr.Status)
	assert.Equal(t, now, tr.CreatedAt)
}

func TestNewTransfer_Invalid(t *testing.T) {
	items := []entity.TransferItem{{ProductID: "p1", Quantity: 1}}
	cases := map[string]func() error{
		"sin origen": func() error { _, err := entity.NewTransfer("t", "", "b", items, "", now); return err },
		"misma sucursal": func() error { _, err := entity.NewTransfer("t", "a", "a", items, "", now); return err },
		"sin líneas": func() error { _, err := entity.NewTransfer("t", "a", "b", nil, "", now); return err },
		"cantidad cero": func() error {
			_, err := entity.NewTransfer("t", "a", "b", []entity.TransferItem{{ProductID: "p1"}}, "", now)
			return err
		},
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, fn(), domain.ErrInvalidInput)
		})
	}
}

func TestTransfer_WithStatusDoesNotMutate(t *testing.T) {
	tr, err := entity.NewTransfer("t1", "a", "b", []entity.TransferItem{{ProductID: "p1", Quantity: 2}}, "", now)
	require.NoError(t, err)

	later := now.Add(time.Hour)
	next, err := tr.WithStatus(transfer.StatusInTransit, later)
	require.NoError(t, err)

	assert.Equal(t, transfer.StatusInTransit, next.Status)
	assert.Equal(t, later, next.UpdatedAt)
	assert.Equal(t, transfer.StatusPending, tr.Status)
	assert.Equal(t, now, tr.UpdatedAt)

	next.Items[0].Quantity = 99
	assert.Equal(t, int64(2), tr.Items[0].Quantity)
}

func TestTransfer_WithStatusRejected(t *testing.T) {
	tr := entity.Transfer{ID: "t1", Status: transfer.StatusCompleted}
	_, err := tr.WithStatus(transfer.StatusCancelled, now)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.False(t, tr.CanDelete())
}
