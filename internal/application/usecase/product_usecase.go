package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/sucursales-api/internal/application/dto"
	"github.com/jhoicas/sucursales-api/internal/application/ports"
	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Cost lo recalculan las compras.
// El listado usa cache-aside (Redis cuando está configurado).
type ProductUseCase struct {
	repo       repository.ProductRepository
	branchRepo repository.BranchRepository
	cache      ports.CatalogCache
	ttl        time.Duration
}

// NewProductUseCase construye el caso de uso. cache nil deshabilita el cache.
func NewProductUseCase(
	repo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	cache ports.CatalogCache,
	ttl time.Duration,
) *ProductUseCase {
	if cache == nil {
		cache = ports.NoopCatalogCache{}
	}
	return &ProductUseCase{repo: repo, branchRepo: branchRepo, cache: cache, ttl: ttl}
}

// Create crea un producto. SKU duplicado en la sucursal devuelve domain.ErrDuplicate.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now().UTC()
	product := &entity.Product{
		ID:         uuid.New().String(),
		BranchID:   in.BranchID,
		Name:       in.Name,
		SKU:        in.SKU,
		Barcode:    in.Barcode,
		CategoryID: in.CategoryID,
		Price:      in.Price,
		Cost:       in.Cost,
		Unit:       in.Unit,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	b, err := uc.branchRepo.GetByID(ctx, in.BranchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.NewInvalidInput("branchId", "la sucursal no existe")
	}
	existing, err := uc.repo.GetByBranchAndSKU(ctx, in.BranchID, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, product.BranchID)
	return toProductResponse(product), nil
}

// GetByID obtiene un producto.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// Update actualiza un producto. No permite modificar Cost (lo recalculan las compras).
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.SKU != nil && *in.SKU != p.SKU {
		existing, err := uc.repo.GetByBranchAndSKU(ctx, p.BranchID, *in.SKU)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	setIf(&p.Name, in.Name)
	setIf(&p.SKU, in.SKU)
	setIf(&p.Barcode, in.Barcode)
	setIf(&p.CategoryID, in.CategoryID)
	setIf(&p.Price, in.Price)
	setIf(&p.Unit, in.Unit)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, p.BranchID)
	return toProductResponse(p), nil
}

// List lista productos, opcionalmente de una sucursal. Consulta primero el cache.
func (uc *ProductUseCase) List(ctx context.Context, branchID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	key := ports.ProductListKey(branchID, page.Limit, page.Offset)
	if cached, ok, err := uc.cache.GetProducts(ctx, key); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache de productos no disponible")
	} else if ok {
		return cached, nil
	}

	list, err := uc.repo.List(ctx, branchID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	out := &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	if err := uc.cache.SetProducts(ctx, key, out, uc.ttl); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("no se pudo guardar en cache")
	}
	return out, nil
}

// Delete elimina un producto.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	p, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidate(ctx, p.BranchID)
	return nil
}

func (uc *ProductUseCase) invalidate(ctx context.Context, branchID string) {
	if err := uc.cache.InvalidateBranch(ctx, branchID); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("branch_id", branchID).Msg("no se pudo invalidar cache de productos")
	}
}

func (uc *ProductUseCase) load(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:         p.ID,
		BranchID:   p.BranchID,
		Name:       p.Name,
		SKU:        p.SKU,
		Barcode:    p.Barcode,
		CategoryID: p.CategoryID,
		Price:      p.Price,
		Cost:       p.Cost,
		Unit:       p.Unit,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
