// Package transfer define el ciclo de vida de un traslado entre sucursales.
//
//	PENDING ──► IN_TRANSIT ──► COMPLETED
//	   │             │
//	   └──► CANCELLED ◄┘
//
// COMPLETED y CANCELLED son terminales. El paquete solo decide qué transición es legal;
// el ajuste de inventario asociado lo hace quien persiste el cambio.
package transfer

import (
	"github.com/jhoicas/sucursales-api/internal/domain"
)

// Status estado de un traslado.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusInTransit Status = "IN_TRANSIT"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Initial estado asignado al crear un traslado; nunca lo elige el cliente.
const Initial = StatusPending

// AllStatuses en orden de ciclo de vida (útil para resúmenes).
var AllStatuses = []Status{StatusPending, StatusInTransit, StatusCompleted, StatusCancelled}

var transitions = map[Status][]Status{
	StatusPending:   {StatusInTransit, StatusCancelled},
	StatusInTransit: {StatusCompleted, StatusCancelled},
}

// ParseStatus valida un estado recibido del cliente.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusInTransit, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", domain.NewInvalidInput("status", "estado desconocido: "+s)
}

func (s Status) String() string { return string(s) }

// IsTerminal true para COMPLETED y CANCELLED.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition indica si from -> to está en la tabla de transiciones.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Next devuelve los destinos permitidos desde s (vacío si es terminal).
func Next(s Status) []Status {
	out := make([]Status, len(transitions[s]))
	copy(out, transitions[s])
	return out
}

// ApplyTransition devuelve el nuevo estado o *domain.TransitionError.
// Es consultivo sobre datos locales: quien persiste debe repetir la verificación contra el valor
// almacenado en el momento del commit (compare-and-set).
func ApplyTransition(current, target Status) (Status, error) {
	if !CanTransition(current, target) {
		return current, &domain.TransitionError{From: current.String(), To: target.String()}
	}
	return target, nil
}

// CanDelete un traslado se puede eliminar salvo que esté COMPLETED.
func CanDelete(s Status) bool {
	return s != StatusCompleted
}
