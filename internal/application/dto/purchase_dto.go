package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseItemRequest línea enviada por el formulario de compras.
// Los campos total_d/total del cliente se ignoran: se recalculan en el servidor.
type PurchaseItemRequest struct {
	ProductID    string          `json:"productId" validate:"required"`
	Quantity     int64           `json:"quantity" validate:"gte=0"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountType string          `json:"discountType" validate:"required,oneof=percentage fixed"`
}

// CreatePurchaseRequest entrada para crear una compra.
type CreatePurchaseRequest struct {
	SupplierID string                `json:"supplierId" validate:"required"`
	BranchID   string                `json:"branchId" validate:"required"`
	Items      []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

// QuotePurchaseRequest líneas a cotizar sin persistir.
type QuotePurchaseRequest struct {
	Items []PurchaseItemRequest `json:"items" validate:"dive"`
}

// UpdatePurchaseRequest solo el estado activo/inactivo es editable.
type UpdatePurchaseRequest struct {
	Status *bool `json:"status"`
}

// PurchaseItemResponse línea con totales calculados.
type PurchaseItemResponse struct {
	ProductID    string          `json:"productId"`
	Quantity     int64           `json:"quantity"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountType string          `json:"discountType"`
	TotalD       decimal.Decimal `json:"total_d"`
	Total        decimal.Decimal `json:"total"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID          string                 `json:"id"`
	SupplierID  string                 `json:"supplierId"`
	BranchID    string                 `json:"branchId"`
	Status      bool                   `json:"status"`
	TotalAmount decimal.Decimal        `json:"totalAmount"`
	Items       []PurchaseItemResponse `json:"items"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

// PurchaseListResponse lista paginada de compras.
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// QuoteLineResponse desglose de una línea cotizada.
type QuoteLineResponse struct {
	ProductID      string          `json:"productId"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Total          decimal.Decimal `json:"total"`
}

// QuoteResponse totales de una cotización (redondeados a 2 decimales).
type QuoteResponse struct {
	Items       []QuoteLineResponse `json:"items"`
	TotalAmount decimal.Decimal     `json:"totalAmount"`
}
