package inventory

import (
	"context"

	"github.com/jhoicas/sucursales-api/internal/application/dto"
	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
)

// List lista asientos del libro con filtros opcionales.
func (uc *LedgerUseCase) List(ctx context.Context, q dto.InventoryQuery) (*dto.InventoryListResponse, error) {
	if q.Type != "" && !entity.IsValidEntryType(q.Type) {
		return nil, domain.NewInvalidInput("type", "tipo de movimiento desconocido: "+q.Type)
	}
	q.DefaultPage()
	list, err := uc.entries.List(ctx, repository.InventoryFilter{
		BranchID:  q.BranchID,
		ProductID: q.ProductID,
		Type:      q.Type,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryEntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, toEntryResponse(e))
	}
	return &dto.InventoryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

// Get obtiene un asiento por ID.
func (uc *LedgerUseCase) Get(ctx context.Context, id string) (*dto.InventoryEntryResponse, error) {
	e, err := uc.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	out := toEntryResponse(e)
	return &out, nil
}

// Stock existencias de todos los productos de una sucursal.
func (uc *LedgerUseCase) Stock(ctx context.Context, branchID string) ([]dto.StockResponse, error) {
	b, err := uc.branch.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.stock.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.StockResponse{
			ProductID: s.ProductID,
			BranchID:  s.BranchID,
			Quantity:  s.Quantity,
			UpdatedAt: s.UpdatedAt,
		})
	}
	return out, nil
}

func toEntryResponse(e *entity.InventoryEntry) dto.InventoryEntryResponse {
	return dto.InventoryEntryResponse{
		ID:          e.ID,
		ProductID:   e.ProductID,
		BranchID:    e.BranchID,
		Type:        e.Type,
		Quantity:    e.SignedQuantity(),
		ReferenceID: e.ReferenceID,
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt,
	}
}
