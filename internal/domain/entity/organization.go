package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/sucursales-api/internal/domain"
)

// Organization representa la empresa/tenant dueña de las sucursales.
type Organization struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	Timezone  string // opcional, ej. America/Bogota
	Currency  string // opcional, ISO 4217
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate verifica los campos obligatorios.
func (o *Organization) Validate() error {
	return requireFields(
		field{"name", o.Name},
		field{"email", o.Email},
		field{"phone", o.Phone},
		field{"address", o.Address},
	)
}

type field struct {
	name  string
	value string
}

// requireFields devuelve InvalidInputError con el primer campo vacío.
func requireFields(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return domain.NewInvalidInput(f.name, "es requerido")
		}
	}
	return nil
}
