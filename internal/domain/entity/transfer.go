package entity

import (
	"time"

	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/transfer"
)

// Transfer traslado de mercancía entre dos sucursales, gobernado por transfer.Status.
type Transfer struct {
	ID                  string
	SourceBranchID      string
	DestinationBranchID string
	Status              transfer.Status
	Items               []TransferItem
	Notes               string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TransferItem producto y cantidad trasladada.
type TransferItem struct {
	ProductID string
	Quantity  int64
}

// NewTransfer valida el traslado y lo crea en estado inicial (PENDING).
func NewTransfer(id, sourceBranchID, destinationBranchID string, items []TransferItem, notes string, now time.Time) (*Transfer, error) {
	if err := requireFields(
		field{"sourceBranchId", sourceBranchID},
		field{"destinationBranchId", destinationBranchID},
	); err != nil {
		return nil, err
	}
	if sourceBranchID == destinationBranchID {
		return nil, domain.NewInvalidInput("destinationBranchId", "debe ser distinta a la sucursal origen")
	}
	if err := ValidateTransferItems(items); err != nil {
		return nil, err
	}
	return &Transfer{
		ID:                  id,
		SourceBranchID:      sourceBranchID,
		DestinationBranchID: destinationBranchID,
		Status:              transfer.Initial,
		Items:               append([]TransferItem(nil), items...),
		Notes:               notes,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// ValidateTransferItems exige al menos una línea con producto y cantidad > 0.
func ValidateTransferItems(items []TransferItem) error {
	if len(items) == 0 {
		return domain.NewInvalidInput("items", "debe tener al menos una línea")
	}
	for _, it := range items {
		if it.ProductID == "" {
			return domain.NewInvalidInput("productId", "es requerido")
		}
		if it.Quantity <= 0 {
			return domain.NewInvalidInput("quantity", "debe ser mayor que cero")
		}
	}
	return nil
}

// WithStatus devuelve una copia con el nuevo estado si la transición es legal.
// No modifica el receptor.
func (t Transfer) WithStatus(target transfer.Status, now time.Time) (Transfer, error) {
	next, err := transfer.ApplyTransition(t.Status, target)
	if err != nil {
		return t, err
	}
	out := t
	out.Items = append([]TransferItem(nil), t.Items...)
	out.Status = next
	out.UpdatedAt = now
	return out, nil
}

// CanDelete regla de borrado: no se elimina un traslado COMPLETED.
func (t Transfer) CanDelete() bool {
	return transfer.CanDelete(t.Status)
}
