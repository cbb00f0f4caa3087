package dto

import "time"

// CreateBranchRequest entrada para crear una sucursal.
type CreateBranchRequest struct {
	OrganizationID string `json:"organizationId" validate:"required"`
	Name           string `json:"name" validate:"required,min=1,max=200"`
	Code           string `json:"code" validate:"required,min=1,max=50"`
	Address        string `json:"address" validate:"required"`
	ContactNumber  string `json:"contactNumber" validate:"required"`
}

// UpdateBranchRequest entrada para actualizar una sucursal (la organización no cambia).
type UpdateBranchRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=200"`
	Code          *string `json:"code" validate:"omitempty,min=1,max=50"`
	Address       *string `json:"address" validate:"omitempty,min=1"`
	ContactNumber *string `json:"contactNumber" validate:"omitempty,min=1"`
}

// BranchResponse salida de una sucursal.
type BranchResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	Name           string    `json:"name"`
	Code           string    `json:"code"`
	Address        string    `json:"address"`
	ContactNumber  string    `json:"contactNumber"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// BranchListResponse lista paginada de sucursales.
type BranchListResponse struct {
	Items []BranchResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
