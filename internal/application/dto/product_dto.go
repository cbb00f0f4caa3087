package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	BranchID   string          `json:"branchId" validate:"required"`
	Name       string          `json:"name" validate:"required,min=1,max=200"`
	SKU        string          `json:"sku" validate:"required,min=1,max=100"`
	Barcode    string          `json:"barcode" validate:"omitempty,max=64"`
	CategoryID string          `json:"categoryId"`
	Price      decimal.Decimal `json:"price"`
	Cost       decimal.Decimal `json:"cost"`
	Unit       string          `json:"unit" validate:"required"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Cost: lo recalculan las compras).
type UpdateProductRequest struct {
	Name       *string          `json:"name" validate:"omitempty,min=1,max=200"`
	SKU        *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	Barcode    *string          `json:"barcode" validate:"omitempty,max=64"`
	CategoryID *string          `json:"categoryId"`
	Price      *decimal.Decimal `json:"price"`
	Unit       *string          `json:"unit" validate:"omitempty,min=1"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID         string          `json:"id"`
	BranchID   string          `json:"branchId"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Barcode    string          `json:"barcode,omitempty"`
	CategoryID string          `json:"categoryId,omitempty"`
	Price      decimal.Decimal `json:"price"`
	Cost       decimal.Decimal `json:"cost"`
	Unit       string          `json:"unit"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
