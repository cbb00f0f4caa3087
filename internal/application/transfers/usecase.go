// Package transfers orquesta los traslados entre sucursales: valida transiciones con la máquina de
// estados del dominio, las confirma con compare-and-set sobre el estado almacenado y registra los
// movimientos de inventario de cada paso.
package transfers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/sucursales-api/internal/application/dto"
	appinventory "github.com/jhoicas/sucursales-api/internal/application/inventory"
	"github.com/jhoicas/sucursales-api/internal/application/ports"
	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
	"github.com/jhoicas/sucursales-api/internal/domain/transfer"
)

// errStale el estado almacenado cambió entre la lectura y el commit.
var errStale = errors.New("transfers: estado almacenado cambió")

// Resultados reportados a las métricas.
const (
	resultApplied  = "applied"
	resultRejected = "rejected"
	resultConflict = "conflict"
)

// UseCase casos de uso de traslados.
type UseCase struct {
	tx        ports.TxRunner
	transfers repository.TransferRepository
	branches  repository.BranchRepository
	products  repository.ProductRepository
	metrics   ports.TransferMetrics
}

// NewUseCase construye el caso de uso. metrics puede ser nil.
func NewUseCase(
	tx ports.TxRunner,
	transfers repository.TransferRepository,
	branches repository.BranchRepository,
	products repository.ProductRepository,
	metrics ports.TransferMetrics,
) *UseCase {
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	return &UseCase{tx: tx, transfers: transfers, branches: branches, products: products, metrics: metrics}
}

// Create registra un traslado en estado PENDING. Aún no mueve inventario.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	items := toItems(in.Items)
	t, err := entity.NewTransfer(uuid.New().String(), in.SourceBranchID, in.DestinationBranchID, items, in.Notes, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := uc.checkBranch(ctx, "sourceBranchId", t.SourceBranchID); err != nil {
		return nil, err
	}
	if err := uc.checkBranch(ctx, "destinationBranchId", t.DestinationBranchID); err != nil {
		return nil, err
	}
	if err := uc.checkProducts(ctx, items); err != nil {
		return nil, err
	}
	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		return repos.Transfers.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return ToTransferResponse(t), nil
}

// UpdateStatus aplica una transición. La decisión local es consultiva: dentro de la transacción el
// cambio se confirma solo si el estado almacenado sigue siendo el leído. Si otro proceso se adelantó
// devuelve *domain.TransitionError calculado contra el estado recién almacenado.
func (uc *UseCase) UpdateStatus(ctx context.Context, id string, status string) (*dto.TransferResponse, error) {
	target, err := transfer.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	current, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := current.WithStatus(target, time.Now().UTC())
	if err != nil {
		uc.metrics.TransitionObserved(current.Status.String(), target.String(), resultRejected)
		return nil, err
	}

	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		ok, err := repos.Transfers.CompareAndSetStatus(ctx, id, current.Status, next.Status, next.UpdatedAt)
		if err != nil {
			return err
		}
		if !ok {
			return errStale
		}
		return applyInventory(ctx, repos, &next, current.Status, next.UpdatedAt)
	})
	if errors.Is(err, errStale) {
		uc.metrics.TransitionObserved(current.Status.String(), target.String(), resultConflict)
		return nil, uc.staleError(ctx, id, target.String())
	}
	if err != nil {
		return nil, err
	}
	uc.metrics.TransitionObserved(current.Status.String(), target.String(), resultApplied)
	return ToTransferResponse(&next), nil
}

// applyInventory movimientos de libro asociados a cada transición:
//
//	PENDING    -> IN_TRANSIT: TRANSFER_OUT en origen (exige stock)
//	IN_TRANSIT -> COMPLETED:  TRANSFER_IN en destino
//	IN_TRANSIT -> CANCELLED:  RETURN en origen
//	PENDING    -> CANCELLED:  nada
func applyInventory(ctx context.Context, repos ports.TxRepos, t *entity.Transfer, from transfer.Status, now time.Time) error {
	var (
		entryType string
		branchID  string
	)
	switch {
	case from == transfer.StatusPending && t.Status == transfer.StatusInTransit:
		entryType, branchID = entity.EntryTypeTransferOut, t.SourceBranchID
	case from == transfer.StatusInTransit && t.Status == transfer.StatusCompleted:
		entryType, branchID = entity.EntryTypeTransferIn, t.DestinationBranchID
	case from == transfer.StatusInTransit && t.Status == transfer.StatusCancelled:
		entryType, branchID = entity.EntryTypeReturn, t.SourceBranchID
	default:
		return nil
	}
	return postItems(ctx, repos, t, entryType, branchID, now)
}

func postItems(ctx context.Context, repos ports.TxRepos, t *entity.Transfer, entryType, branchID string, now time.Time) error {
	for _, it := range t.Items {
		_, err := appinventory.Post(ctx, repos.Stock, repos.Ledger, appinventory.Movement{
			ProductID:   it.ProductID,
			BranchID:    branchID,
			Type:        entryType,
			Quantity:    it.Quantity,
			ReferenceID: t.ID,
			Notes:       "traslado " + t.ID,
		}, now)
		if err != nil {
			return err
		}
	}
	return nil
}

// staleError relee el traslado y arma el error contra el estado vigente.
func (uc *UseCase) staleError(ctx context.Context, id, target string) error {
	fresh, err := uc.transfers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if fresh == nil {
		return domain.ErrNotFound
	}
	return &domain.TransitionError{From: fresh.Status.String(), To: target}
}

// Update edita notas mientras el traslado no sea terminal y líneas solo en PENDING.
// Un traslado terminal es inmutable: devuelve *domain.TransitionError.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateTransferRequest) (*dto.TransferResponse, error) {
	t, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status.IsTerminal() {
		return nil, &domain.TransitionError{From: t.Status.String(), To: "UPDATED"}
	}
	if in.Notes != nil {
		t.Notes = *in.Notes
	}
	if len(in.Items) > 0 {
		if t.Status != transfer.StatusPending {
			return nil, fmt.Errorf("%w: las líneas solo se editan en %s", domain.ErrConflict, transfer.StatusPending)
		}
		items := toItems(in.Items)
		if err := entity.ValidateTransferItems(items); err != nil {
			return nil, err
		}
		if err := uc.checkProducts(ctx, items); err != nil {
			return nil, err
		}
		t.Items = items
	}
	t.UpdatedAt = time.Now().UTC()
	var ok bool
	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		var err error
		ok, err = repos.Transfers.UpdateDetails(ctx, t)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: el estado del traslado cambió, recargue e intente de nuevo", domain.ErrConflict)
	}
	return ToTransferResponse(t), nil
}

// Delete elimina un traslado salvo que esté COMPLETED. Si está IN_TRANSIT devuelve la mercancía al origen.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	t, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	if !t.CanDelete() {
		return &domain.TransitionError{From: t.Status.String(), To: "DELETED"}
	}
	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		ok, err := repos.Transfers.Delete(ctx, id, t.Status)
		if err != nil {
			return err
		}
		if !ok {
			return errStale
		}
		if t.Status == transfer.StatusInTransit {
			return postItems(ctx, repos, t, entity.EntryTypeReturn, t.SourceBranchID, time.Now().UTC())
		}
		return nil
	})
	if errors.Is(err, errStale) {
		return uc.staleError(ctx, id, "DELETED")
	}
	return err
}

// Get obtiene un traslado.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.TransferResponse, error) {
	t, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToTransferResponse(t), nil
}

// List lista traslados, opcionalmente por estado.
func (uc *UseCase) List(ctx context.Context, status string, page dto.PageRequest) (*dto.TransferListResponse, error) {
	var s transfer.Status
	if status != "" {
		parsed, err := transfer.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		s = parsed
	}
	page.DefaultPage()
	list, err := uc.transfers.List(ctx, s, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *ToTransferResponse(t))
	}
	return &dto.TransferListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Summary conteo por estado para las tarjetas del dashboard.
func (uc *UseCase) Summary(ctx context.Context) (*dto.TransferSummaryResponse, error) {
	counts, err := uc.transfers.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.TransferSummaryResponse{
		Pending:   counts[transfer.StatusPending],
		InTransit: counts[transfer.StatusInTransit],
		Completed: counts[transfer.StatusCompleted],
		Cancelled: counts[transfer.StatusCancelled],
	}, nil
}

func (uc *UseCase) load(ctx context.Context, id string) (*entity.Transfer, error) {
	t, err := uc.transfers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (uc *UseCase) checkBranch(ctx context.Context, field, id string) error {
	b, err := uc.branches.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return domain.NewInvalidInput(field, "la sucursal no existe")
	}
	return nil
}

func (uc *UseCase) checkProducts(ctx context.Context, items []entity.TransferItem) error {
	for _, it := range items {
		p, err := uc.products.GetByID(ctx, it.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NewInvalidInput("productId", "el producto "+it.ProductID+" no existe")
		}
	}
	return nil
}

func toItems(in []dto.TransferItemRequest) []entity.TransferItem {
	out := make([]entity.TransferItem, 0, len(in))
	for _, it := range in {
		out = append(out, entity.TransferItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

// ToTransferResponse mapea la entidad al DTO, incluyendo las acciones disponibles.
func ToTransferResponse(t *entity.Transfer) *dto.TransferResponse {
	items := make([]dto.TransferItemResponse, 0, len(t.Items))
	for _, it := range t.Items {
		items = append(items, dto.TransferItemResponse{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	next := transfer.Next(t.Status)
	nextStatuses := make([]string, 0, len(next))
	for _, s := range next {
		nextStatuses = append(nextStatuses, s.String())
	}
	return &dto.TransferResponse{
		ID:                  t.ID,
		SourceBranchID:      t.SourceBranchID,
		DestinationBranchID: t.DestinationBranchID,
		Status:              t.Status.String(),
		Items:               items,
		Notes:               t.Notes,
		NextStatuses:        nextStatuses,
		Deletable:           t.CanDelete(),
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}
