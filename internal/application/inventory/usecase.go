package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
)

// Movement entrada o salida a registrar en el libro.
type Movement struct {
	ProductID   string
	BranchID    string
	Type        string // entity.EntryType*
	Quantity    int64  // siempre positiva; el signo lo da Type
	ReferenceID string
	Notes       string
}

// Post registra un movimiento usando los repositorios de la transacción del caller.
// Bloquea la fila de stock (SELECT FOR UPDATE), verifica existencias en salidas, ajusta la cantidad
// y agrega el asiento al libro. Devuelve la cantidad previa al movimiento (la usa el costo promedio).
func Post(
	ctx context.Context,
	stockRepo repository.StockRepository,
	ledger repository.InventoryEntryRepository,
	m Movement,
	now time.Time,
) (int64, error) {
	if !entity.IsValidEntryType(m.Type) {
		return 0, domain.NewInvalidInput("type", "tipo de movimiento desconocido: "+m.Type)
	}
	if m.Quantity <= 0 {
		return 0, domain.NewInvalidInput("quantity", "debe ser mayor que cero")
	}
	stock, err := stockRepo.GetForUpdate(ctx, m.ProductID, m.BranchID)
	if err != nil {
		return 0, fmt.Errorf("inventory: bloquear stock: %w", err)
	}
	before := stock.Quantity
	entry := &entity.InventoryEntry{
		ID:          uuid.New().String(),
		ProductID:   m.ProductID,
		BranchID:    m.BranchID,
		Type:        m.Type,
		Quantity:    m.Quantity,
		ReferenceID: m.ReferenceID,
		Notes:       m.Notes,
		CreatedAt:   now,
	}
	next := before + entry.SignedQuantity()
	if next < 0 {
		return before, fmt.Errorf("%w: producto %s en sucursal %s (disponible %d, solicitado %d)",
			domain.ErrInsufficientStock, m.ProductID, m.BranchID, before, m.Quantity)
	}
	stock.Quantity = next
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(ctx, stock); err != nil {
		return before, fmt.Errorf("inventory: actualizar stock: %w", err)
	}
	if err := ledger.Create(ctx, entry); err != nil {
		return before, fmt.Errorf("inventory: registrar asiento: %w", err)
	}
	return before, nil
}

// LedgerUseCase consultas de solo lectura sobre el libro y las existencias.
type LedgerUseCase struct {
	entries repository.InventoryEntryRepository
	stock   repository.StockRepository
	branch  repository.BranchRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	entries repository.InventoryEntryRepository,
	stock repository.StockRepository,
	branch repository.BranchRepository,
) *LedgerUseCase {
	return &LedgerUseCase{entries: entries, stock: stock, branch: branch}
}
