package ports

import (
	"context"

	"github.com/jhoicas/sucursales-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Products  repository.ProductRepository
	Purchases repository.PurchaseRepository
	Transfers repository.TransferRepository
	Ledger    repository.InventoryEntryRepository
	Stock     repository.StockRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn retorna nil, Rollback en otro caso.
// Garantiza atomicidad entre cabeceras, libro de inventario y stock.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
