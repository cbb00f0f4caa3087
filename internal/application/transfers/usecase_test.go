package transfers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sucursales-api/internal/application/dto"
	appinventory "github.com/jhoicas/sucursales-api/internal/application/inventory"
	"github.com/jhoicas/sucursales-api/internal/application/ports"
	"github.com/jhoicas/sucursales-api/internal/application/transfers"
	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
	"github.com/jhoicas/sucursales-api/internal/domain/transfer"
	"github.com/jhoicas/sucursales-api/internal/infrastructure/memory"
)

// racingTx simula otro proceso que confirma un cambio justo antes de la transacción.
type racingTx struct {
	inner  ports.TxRunner
	before func()
}

func (r *racingTx) Run(ctx context.Context, fn func(repos ports.TxRepos) error) error {
	if r.before != nil {
		r.before()
		r.before = nil
	}
	return r.inner.Run(ctx, fn)
}

type transitionRecorder struct {
	results []string
}

func (m *transitionRecorder) TransitionObserved(from, to, result string) {
	m.results = append(m.results, from+">"+to+":"+result)
}

type fixture struct {
	store   *memory.Store
	tx      *racingTx
	metrics *transitionRecorder
	uc      *transfers.UseCase
	src     string
	dst     string
	product string
}

func newFixture(t *testing.T, stock int64) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	now := time.Now().UTC()

	require.NoError(t, store.Organizations().Create(ctx, &entity.Organization{ID: "org-1", Name: "Abarrotes", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, store.Branches().Create(ctx, &entity.Branch{ID: "br-a", OrganizationID: "org-1", Name: "Centro", Code: "CTR"}))
	require.NoError(t, store.Branches().Create(ctx, &entity.Branch{ID: "br-b", OrganizationID: "org-1", Name: "Norte", Code: "NTE"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p-1", BranchID: "br-a", Name: "Arroz 500g", SKU: "ARZ-500", Unit: "und"}))

	tx := &racingTx{inner: memory.NewTxRunner(store)}
	if stock > 0 {
		require.NoError(t, tx.Run(ctx, func(repos ports.TxRepos) error {
			_, err := appinventory.Post(ctx, repos.Stock, repos.Ledger, appinventory.Movement{
				ProductID: "p-1", BranchID: "br-a", Type: entity.EntryTypeManualAdd, Quantity: stock,
			}, now)
			return err
		}))
	}

	rec := &transitionRecorder{}
	uc := transfers.NewUseCase(tx, store.Transfers(), store.Branches(), store.Products(), rec)
	return &fixture{store: store, tx: tx, metrics: rec, uc: uc, src: "br-a", dst: "br-b", product: "p-1"}
}

func (f *fixture) create(t *testing.T, qty int64) *dto.TransferResponse {
	t.Helper()
	out, err := f.uc.Create(context.Background(), dto.CreateTransferRequest{
		SourceBranchID:      f.src,
		DestinationBranchID: f.dst,
		Items:               []dto.TransferItemRequest{{ProductID: f.product, Quantity: qty}},
	})
	require.NoError(t, err)
	return out
}

func (f *fixture) stock(t *testing.T, branchID string) int64 {
	t.Helper()
	s, err := f.store.Stock().Get(context.Background(), f.product, branchID)
	require.NoError(t, err)
	return s.Quantity
}

func (f *fixture) entries(t *testing.T, entryType string) []*entity.InventoryEntry {
	t.Helper()
	list, err := f.store.Ledger().List(context.Background(), repository.InventoryFilter{Type: entryType})
	require.NoError(t, err)
	return list
}

func TestCreate_StartsPendingWithoutMovingStock(t *testing.T) {
	f := newFixture(t, 10)

	out := f.create(t, 4)

	assert.Equal(t, "PENDING", out.Status)
	assert.Equal(t, []string{"IN_TRANSIT", "CANCELLED"}, out.NextStatuses)
	assert.True(t, out.Deletable)
	assert.Equal(t, int64(10), f.stock(t, f.src))
	assert.Empty(t, f.entries(t, entity.EntryTypeTransferOut))
}

func TestCreate_RejectsUnknownBranchAndProduct(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, dto.CreateTransferRequest{
		SourceBranchID:      "br-x",
		DestinationBranchID: f.dst,
		Items:               []dto.TransferItemRequest{{ProductID: f.product, Quantity: 1}},
	})
	var inv *domain.InvalidInputError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "sourceBranchId", inv.Field)

	_, err = f.uc.Create(ctx, dto.CreateTransferRequest{
		SourceBranchID:      f.src,
		DestinationBranchID: f.dst,
		Items:               []dto.TransferItemRequest{{ProductID: "p-x", Quantity: 1}},
	})
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "productId", inv.Field)
}

func TestUpdateStatus_LedgerBalancesAcrossBranches(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	tr := f.create(t, 4)

	out, err := f.uc.UpdateStatus(ctx, tr.ID, "IN_TRANSIT")
	require.NoError(t, err)
	assert.Equal(t, "IN_TRANSIT", out.Status)
	assert.Equal(t, int64(6), f.stock(t, f.src))
	assert.Equal(t, int64(0), f.stock(t, f.dst))

	out, err = f.uc.UpdateStatus(ctx, tr.ID, "COMPLETED")
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", out.Status)
	assert.Empty(t, out.NextStatuses)
	assert.False(t, out.Deletable)
	assert.Equal(t, int64(6), f.stock(t, f.src))
	assert.Equal(t, int64(4), f.stock(t, f.dst))

	outs := f.entries(t, entity.EntryTypeTransferOut)
	ins := f.entries(t, entity.EntryTypeTransferIn)
	require.Len(t, outs, 1)
	require.Len(t, ins, 1)
	assert.Equal(t, tr.ID, outs[0].ReferenceID)
	assert.Equal(t, outs[0].Quantity, ins[0].Quantity)
	assert.Zero(t, outs[0].SignedQuantity()+ins[0].SignedQuantity())

	assert.Equal(t, []string{"PENDING>IN_TRANSIT:applied", "IN_TRANSIT>COMPLETED:applied"}, f.metrics.results)
}

func TestUpdateStatus_InvalidTransitionKeepsState(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	tr := f.create(t, 2)

	_, err := f.uc.UpdateStatus(ctx, tr.ID, "COMPLETED")
	var te *domain.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "PENDING", te.From)
	assert.Equal(t, "COMPLETED", te.To)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err := f.uc.Get(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", got.Status)
	assert.Equal(t, []string{"PENDING>COMPLETED:rejected"}, f.metrics.results)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	f := newFixture(t, 10)
	tr := f.create(t, 2)

	_, err := f.uc.UpdateStatus(context.Background(), tr.ID, "SHIPPED")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	f := newFixture(t, 0)
	_, err := f.uc.UpdateStatus(context.Background(), "missing", "IN_TRANSIT")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateStatus_InsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	tr := f.create(t, 5)

	_, err := f.uc.UpdateStatus(ctx, tr.ID, "IN_TRANSIT")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := f.uc.Get(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", got.Status)
	assert.Equal(t, int64(1), f.stock(t, f.src))
	assert.Empty(t, f.entries(t, entity.EntryTypeTransferOut))
}

func TestUpdateStatus_StaleReadReportsStoredStatus(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	tr := f.create(t, 2)

	// otro operador cancela entre la lectura y el commit
	f.tx.before = func() {
		ok, err := f.store.Transfers().CompareAndSetStatus(ctx, tr.ID, transfer.StatusPending, transfer.StatusCancelled, time.Now().UTC())
		require.NoError(t, err)
		require.True(t, ok)
	}

	_, err := f.uc.UpdateStatus(ctx, tr.ID, "IN_TRANSIT")
	var te *domain.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "CANCELLED", te.From)
	assert.Equal(t, "IN_TRANSIT", te.To)

	got, err := f.uc.Get(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", got.Status)
	assert.Equal(t, int64(10), f.stock(t, f.src))
	assert.Equal(t, []string{"PENDING>IN_TRANSIT:conflict"}, f.metrics.results)
}

func TestUpdateStatus_CancelInTransitReturnsStock(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	tr := f.create(t, 3)

	_, err := f.uc.UpdateStatus(ctx, tr.ID, "IN_TRANSIT")
	require.NoError(t, err)
	require.Equal(t, int64(7), f.stock(t, f.src))

	out, err := f.uc.UpdateStatus(ctx, tr.ID, "CANCELLED")
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", out.Status)
	assert.Equal(t, int64(10), f.stock(t, f.src))
	assert.Equal(t, int64(0), f.stock(t, f.dst))
	assert.Len(t, f.entries(t, entity.EntryTypeReturn), 1)

	_, err = f.uc.UpdateStatus(ctx, tr.ID, "PENDING")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdateStatus_CancelPendingTouchesNothing(t *testing.T) {
	f := newFixture(t, 10)
	tr := f.create(t, 3)

	_, err := f.uc.UpdateStatus(context.Background(), tr.ID, "CANCELLED")
	require.NoError(t, err)
	assert.Equal(t, int64(10), f.stock(t, f.src))
	assert.Empty(t, f.entries(t, entity.EntryTypeReturn))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("pending", func(t *testing.T) {
		f := newFixture(t, 10)
		tr := f.create(t, 3)
		require.NoError(t, f.uc.Delete(ctx, tr.ID))
		_, err := f.uc.Get(ctx, tr.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("in transit returns goods to source", func(t *testing.T) {
		f := newFixture(t, 10)
		tr := f.create(t, 3)
		_, err := f.uc.UpdateStatus(ctx, tr.ID, "IN_TRANSIT")
		require.NoError(t, err)

		require.NoError(t, f.uc.Delete(ctx, tr.ID))
		assert.Equal(t, int64(10), f.stock(t, f.src))
		assert.Len(t, f.entries(t, entity.EntryTypeReturn), 1)
	})

	t.Run("completed is rejected", func(t *testing.T) {
		f := newFixture(t, 10)
		tr := f.create(t, 3)
		_, err := f.uc.UpdateStatus(ctx, tr.ID, "IN_TRANSIT")
		require.NoError(t, err)
		_, err = f.uc.UpdateStatus(ctx, tr.ID, "COMPLETED")
		require.NoError(t, err)

		err = f.uc.Delete(ctx, tr.ID)
		var te *domain.TransitionError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, "COMPLETED", te.From)

		got, err := f.uc.Get(ctx, tr.ID)
		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", got.Status)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	notes := "entregar antes de las 10"

	t.Run("pending accepts notes and items", func(t *testing.T) {
		f := newFixture(t, 10)
		tr := f.create(t, 3)
		out, err := f.uc.Update(ctx, tr.ID, dto.UpdateTransferRequest{
			Notes: &notes,
			Items: []dto.TransferItemRequest{{ProductID: f.product, Quantity: 5}},
		})
		require.NoError(t, err)
		assert.Equal(t, notes, out.Notes)
		require.Len(t, out.Items, 1)
		assert.Equal(t, int64(5), out.Items[0].Quantity)
	})

	t.Run("in transit only notes", func(t *testing.T) {
		f := newFixture(t, 10)
		tr := f.create(t, 3)
		_, err := f.uc.UpdateStatus(ctx, tr.ID, "IN_TRANSIT")
		require.NoError(t, err)

		_, err = f.uc.Update(ctx, tr.ID, dto.UpdateTransferRequest{Notes: &notes})
		require.NoError(t, err)

		_, err = f.uc.Update(ctx, tr.ID, dto.UpdateTransferRequest{
			Items: []dto.TransferItemRequest{{ProductID: f.product, Quantity: 1}},
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("terminal rejects changes", func(t *testing.T) {
		f := newFixture(t, 10)
		tr := f.create(t, 3)
		_, err := f.uc.UpdateStatus(ctx, tr.ID, "CANCELLED")
		require.NoError(t, err)

		_, err = f.uc.Update(ctx, tr.ID, dto.UpdateTransferRequest{Notes: &notes})
		var te *domain.TransitionError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, "CANCELLED", te.From)
		assert.Equal(t, "UPDATED", te.To)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.NotErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("completed is immutable", func(t *testing.T) {
		f := newFixture(t, 10)
		tr := f.create(t, 3)
		_, err := f.uc.UpdateStatus(ctx, tr.ID, "IN_TRANSIT")
		require.NoError(t, err)
		_, err = f.uc.UpdateStatus(ctx, tr.ID, "COMPLETED")
		require.NoError(t, err)

		_, err = f.uc.Update(ctx, tr.ID, dto.UpdateTransferRequest{Notes: &notes})
		var te *domain.TransitionError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, "COMPLETED", te.From)

		got, err := f.uc.Get(ctx, tr.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Notes)
	})
}

func TestDelete_StaleReadReportsStoredStatus(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	tr := f.create(t, 2)
	_, err := f.uc.UpdateStatus(ctx, tr.ID, "IN_TRANSIT")
	require.NoError(t, err)

	// otro proceso completa el traslado entre la lectura y el borrado
	f.tx.before = func() {
		ok, err := f.store.Transfers().CompareAndSetStatus(ctx, tr.ID, transfer.StatusInTransit, transfer.StatusCompleted, time.Now().UTC())
		require.NoError(t, err)
		require.True(t, ok)
	}

	err = f.uc.Delete(ctx, tr.ID)
	var te *domain.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "COMPLETED", te.From)
	assert.Equal(t, "DELETED", te.To)

	got, err := f.uc.Get(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", got.Status)
	// sin asiento RETURN: la transacción no se confirmó
	assert.Empty(t, f.entries(t, entity.EntryTypeReturn))
	assert.Equal(t, int64(8), f.stock(t, f.src))
}

func TestListAndSummary(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	a := f.create(t, 1)
	f.create(t, 1)
	_, err := f.uc.UpdateStatus(ctx, a.ID, "CANCELLED")
	require.NoError(t, err)

	all, err := f.uc.List(ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	cancelled, err := f.uc.List(ctx, "CANCELLED", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, cancelled.Items, 1)
	assert.Equal(t, a.ID, cancelled.Items[0].ID)

	_, err = f.uc.List(ctx, "LOST", dto.PageRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	sum, err := f.uc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, dto.TransferSummaryResponse{Pending: 1, Cancelled: 1}, *sum)
}
