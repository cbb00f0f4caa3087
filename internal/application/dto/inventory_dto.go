package dto

import "time"

// InventoryQuery filtros de GET /inventory.
type InventoryQuery struct {
	BranchID  string `query:"branchId"`
	ProductID string `query:"productId"`
	Type      string `query:"type" validate:"omitempty,oneof=PURCHASE TRANSFER_IN TRANSFER_OUT MANUAL_ADD MANUAL_REMOVE RETURN SALE"`
	PageRequest
}

// InventoryEntryResponse asiento del libro. Quantity lleva signo (+ entrada, − salida).
type InventoryEntryResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	BranchID    string    `json:"branchId"`
	Type        string    `json:"type"`
	Quantity    int64     `json:"quantity"`
	ReferenceID string    `json:"referenceId,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// InventoryListResponse lista paginada del libro.
type InventoryListResponse struct {
	Items []InventoryEntryResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}

// StockResponse existencias de un producto en una sucursal.
type StockResponse struct {
	ProductID string    `json:"productId"`
	BranchID  string    `json:"branchId"`
	Quantity  int64     `json:"quantity"`
	UpdatedAt time.Time `json:"updatedAt"`
}
