package transfer_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/transfer"
)

func TestApplyTransition_ValidChain(t *testing.T) {
	s := transfer.Initial
	assert.Equal(t, transfer.StatusPending, s)

	s, err := transfer.ApplyTransition(s, transfer.StatusInTransit)
	require.NoError(t, err)
	s, err = transfer.ApplyTransition(s, transfer.StatusCompleted)
	require.NoError(t, err)

	assert.Equal(t, transfer.StatusCompleted, s)
	assert.True(t, s.IsTerminal())
	assert.Empty(t, transfer.Next(s))
}

func TestApplyTransition_PendingToCompletedFails(t *testing.T) {
	s, err := transfer.ApplyTransition(transfer.StatusPending, transfer.StatusCompleted)
	require.Error(t, err)
	assert.Equal(t, transfer.StatusPending, s, "el estado no cambia al fallar")

	var te *domain.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "PENDING", te.From)
	assert.Equal(t, "COMPLETED", te.To)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestApplyTransition_TerminalStatesAreImmutable(t *testing.T) {
	for _, from := range []transfer.Status{transfer.StatusCompleted, transfer.StatusCancelled} {
		for _, to := range transfer.AllStatuses {
			_, err := transfer.ApplyTransition(from, to)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition, "%s -> %s", from, to)
		}
	}
}

func TestTransitionTable(t *testing.T) {
	allowed := map[[2]transfer.Status]bool{
		{transfer.StatusPending, transfer.StatusInTransit}:   true,
		{transfer.StatusPending, transfer.StatusCancelled}:   true,
		{transfer.StatusInTransit, transfer.StatusCompleted}: true,
		{transfer.StatusInTransit, transfer.StatusCancelled}: true,
	}
	for _, from := range transfer.AllStatuses {
		for _, to := range transfer.AllStatuses {
			assert.Equal(t, allowed[[2]transfer.Status{from, to}], transfer.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestInTransitToPendingNotAllowed(t *testing.T) {
	_, err := transfer.ApplyTransition(transfer.StatusInTransit, transfer.StatusPending)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestParseStatus(t *testing.T) {
	s, err := transfer.ParseStatus("IN_TRANSIT")
	require.NoError(t, err)
	assert.Equal(t, transfer.StatusInTransit, s)

	_, err = transfer.ParseStatus("in_transit")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNextReturnsCopy(t *testing.T) {
	n := transfer.Next(transfer.StatusPending)
	require.Len(t, n, 2)
	n[0] = transfer.StatusCompleted
	assert.Equal(t, transfer.StatusInTransit, transfer.Next(transfer.StatusPending)[0])
}

func TestCanDelete(t *testing.T) {
	assert.True(t, transfer.CanDelete(transfer.StatusPending))
	assert.True(t, transfer.CanDelete(transfer.StatusInTransit))
	assert.True(t, transfer.CanDelete(transfer.StatusCancelled))
	assert.False(t, transfer.CanDelete(transfer.StatusCompleted))
}
