package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sucursales-api/internal/application/ports"
	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/transfer"
)

func seeded(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Organizations().Create(ctx, &entity.Organization{ID: "org-1", Name: "Abarrotes"}))
	require.NoError(t, s.Branches().Create(ctx, &entity.Branch{ID: "br-a", OrganizationID: "org-1", Code: "CTR"}))
	require.NoError(t, s.Branches().Create(ctx, &entity.Branch{ID: "br-b", OrganizationID: "org-1", Code: "NTE"}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p-1", BranchID: "br-a", SKU: "ARZ"}))
	return s
}

func TestTxRunner_RollbackRestoresSnapshot(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := NewTxRunner(s).Run(ctx, func(repos ports.TxRepos) error {
		require.NoError(t, repos.Stock.Upsert(ctx, &entity.Stock{ProductID: "p-1", BranchID: "br-a", Quantity: 7}))
		require.NoError(t, repos.Ledger.Create(ctx, &entity.InventoryEntry{ID: "e-1", ProductID: "p-1", BranchID: "br-a", Type: entity.EntryTypeManualAdd, Quantity: 7}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	st, err := s.Stock().Get(ctx, "p-1", "br-a")
	require.NoError(t, err)
	assert.Zero(t, st.Quantity)
	e, err := s.Ledger().GetByID(ctx, "e-1")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestTxRunner_CancelledContext(t *testing.T) {
	s := seeded(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewTxRunner(s).Run(ctx, func(ports.TxRepos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestTransferRepo_CompareAndSet(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	now := time.Now().UTC()
	tr, err := entity.NewTransfer("t-1", "br-a", "br-b", []entity.TransferItem{{ProductID: "p-1", Quantity: 1}}, "", now)
	require.NoError(t, err)
	require.NoError(t, s.Transfers().Create(ctx, tr))

	ok, err := s.Transfers().CompareAndSetStatus(ctx, "t-1", transfer.StatusPending, transfer.StatusInTransit, now)
	require.NoError(t, err)
	assert.True(t, ok)

	// segundo intento con el mismo "from" pierde
	ok, err = s.Transfers().CompareAndSetStatus(ctx, "t-1", transfer.StatusPending, transfer.StatusCancelled, now)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.Transfers().GetByID(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, transfer.StatusInTransit, got.Status)

	ok, err = s.Transfers().Delete(ctx, "t-1", transfer.StatusPending)
	require.NoError(t, err)
	assert.False(t, ok)

	counts, err := s.Transfers().CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[transfer.StatusInTransit])
}

func TestTransferRepo_ReturnsCopies(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	tr, err := entity.NewTransfer("t-1", "br-a", "br-b", []entity.TransferItem{{ProductID: "p-1", Quantity: 2}}, "", time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, s.Transfers().Create(ctx, tr))

	got, err := s.Transfers().GetByID(ctx, "t-1")
	require.NoError(t, err)
	got.Items[0].Quantity = 99

	again, err := s.Transfers().GetByID(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), again.Items[0].Quantity)
}

func TestReferentialIntegrity(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	err := s.Branches().Delete(ctx, "br-a")
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = s.Organizations().Delete(ctx, "org-1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = s.Products().Create(ctx, &entity.Product{ID: "p-2", BranchID: "br-a", SKU: "ARZ"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	err = s.Products().Create(ctx, &entity.Product{ID: "p-3", BranchID: "br-x", SKU: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = s.Stock().Upsert(ctx, &entity.Stock{ProductID: "p-1", BranchID: "br-a", Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	require.NoError(t, s.Branches().Delete(ctx, "br-b"))
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, page(items, 0, 0))
	assert.Equal(t, []int{3, 4}, page(items, 2, 2))
	assert.Nil(t, page(items, 10, 5))
	assert.Equal(t, []int{1}, page(items, 1, -3))
}
