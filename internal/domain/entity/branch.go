package entity

import "time"

// Branch representa una sucursal de la organización donde se almacena inventario (multi-sucursal).
type Branch struct {
	ID             string
	OrganizationID string
	Name           string
	Code           string // único por organización
	Address        string
	ContactNumber  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate verifica los campos obligatorios.
func (b *Branch) Validate() error {
	return requireFields(
		field{"organizationId", b.OrganizationID},
		field{"name", b.Name},
		field{"code", b.Code},
		field{"address", b.Address},
		field{"contactNumber", b.ContactNumber},
	)
}
