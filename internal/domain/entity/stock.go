package entity

import "time"

// Stock existencias actuales de un producto en una sucursal (materializado desde el libro).
type Stock struct {
	ProductID string
	BranchID  string
	Quantity  int64
	UpdatedAt time.Time
}
