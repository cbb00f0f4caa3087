package entity

import "time"

// Supplier representa un proveedor asociado a una sucursal.
type Supplier struct {
	ID        string
	BranchID  string
	Name      string
	Email     string // opcional
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate verifica los campos obligatorios.
func (s *Supplier) Validate() error {
	return requireFields(
		field{"branchId", s.BranchID},
		field{"name", s.Name},
		field{"phone", s.Phone},
		field{"address", s.Address},
	)
}
