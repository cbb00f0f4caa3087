package ports

// TransferMetrics métricas de negocio de traslados (implementación Prometheus en infrastructure).
type TransferMetrics interface {
	// TransitionObserved result: "applied", "rejected" o "conflict" (perdió el compare-and-set).
	TransitionObserved(from, to, result string)
}

// PurchaseMetrics métricas de negocio de compras.
type PurchaseMetrics interface {
	PurchaseCreated(branchID string, totalAmount float64)
}

// NoopMetrics implementación vacía para tests y herramientas.
type NoopMetrics struct{}

func (NoopMetrics) TransitionObserved(string, string, string) {}
func (NoopMetrics) PurchaseCreated(string, float64)            {}
