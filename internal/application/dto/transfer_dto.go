package dto

import "time"

// TransferItemRequest línea de un traslado.
type TransferItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"gt=0"`
}

// CreateTransferRequest entrada para crear un traslado. El estado inicial lo asigna el servidor;
// un "status" enviado por el cliente se ignora.
type CreateTransferRequest struct {
	SourceBranchID      string                `json:"sourceBranchId" validate:"required"`
	DestinationBranchID string                `json:"destinationBranchId" validate:"required,nefield=SourceBranchID"`
	Notes               string                `json:"notes" validate:"max=1000"`
	Items               []TransferItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateTransferRequest edición de notas (no terminal) y líneas (solo PENDING).
type UpdateTransferRequest struct {
	Notes *string               `json:"notes" validate:"omitempty,max=1000"`
	Items []TransferItemRequest `json:"items" validate:"omitempty,dive"`
}

// UpdateTransferStatusRequest body de PATCH /transfer/:id/status.
type UpdateTransferStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING IN_TRANSIT COMPLETED CANCELLED"`
}

// TransferItemResponse línea de traslado.
type TransferItemResponse struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

// TransferResponse salida de un traslado. NextStatuses y Deletable permiten a la UI
// habilitar/deshabilitar acciones sin duplicar las reglas.
type TransferResponse struct {
	ID                  string                 `json:"id"`
	SourceBranchID      string                 `json:"sourceBranchId"`
	DestinationBranchID string                 `json:"destinationBranchId"`
	Status              string                 `json:"status"`
	Items               []TransferItemResponse `json:"items"`
	Notes               string                 `json:"notes,omitempty"`
	NextStatuses        []string               `json:"nextStatuses"`
	Deletable           bool                   `json:"deletable"`
	CreatedAt           time.Time              `json:"createdAt"`
	UpdatedAt           time.Time              `json:"updatedAt"`
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// TransferSummaryResponse conteo por estado para las tarjetas del dashboard.
type TransferSummaryResponse struct {
	Pending   int `json:"PENDING"`
	InTransit int `json:"IN_TRANSIT"`
	Completed int `json:"COMPLETED"`
	Cancelled int `json:"CANCELLED"`
}
