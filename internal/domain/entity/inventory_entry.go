package entity

import "time"

// Tipos de asiento del libro de inventario.
const (
	EntryTypePurchase     = "PURCHASE"
	EntryTypeTransferIn   = "TRANSFER_IN"
	EntryTypeTransferOut  = "TRANSFER_OUT"
	EntryTypeManualAdd    = "MANUAL_ADD"
	EntryTypeManualRemove = "MANUAL_REMOVE"
	EntryTypeReturn       = "RETURN"
	EntryTypeSale         = "SALE"
)

// IsIncrease true si el tipo suma stock a la sucursal.
func IsIncrease(entryType string) bool {
	switch entryType {
	case EntryTypePurchase, EntryTypeTransferIn, EntryTypeManualAdd, EntryTypeReturn:
		return true
	}
	return false
}

// IsValidEntryType valida el filtro de tipo recibido.
func IsValidEntryType(entryType string) bool {
	switch entryType {
	case EntryTypePurchase, EntryTypeTransferIn, EntryTypeTransferOut,
		EntryTypeManualAdd, EntryTypeManualRemove, EntryTypeReturn, EntryTypeSale:
		return true
	}
	return false
}

// InventoryEntry asiento del libro de inventario (solo inserción).
// Quantity siempre positiva; el signo lo da el tipo.
type InventoryEntry struct {
	ID          string
	ProductID   string
	BranchID    string
	Type        string
	Quantity    int64
	ReferenceID string // compra o traslado que originó el asiento
	Notes       string
	CreatedAt   time.Time
}

// SignedQuantity cantidad con signo según el tipo.
func (e InventoryEntry) SignedQuantity() int64 {
	if IsIncrease(e.Type) {
		return e.Quantity
	}
	return -e.Quantity
}
