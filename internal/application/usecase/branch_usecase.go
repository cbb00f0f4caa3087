package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/sucursales-api/internal/application/dto"
	"github.com/jhoicas/sucursales-api/internal/domain"
	"github.com/jhoicas/sucursales-api/internal/domain/entity"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
)

// BranchUseCase casos de uso CRUD para sucursales.
type BranchUseCase struct {
	repo    repository.BranchRepository
	orgRepo repository.OrganizationRepository
}

// NewBranchUseCase construye el caso de uso.
func NewBranchUseCase(repo repository.BranchRepository, orgRepo repository.OrganizationRepository) *BranchUseCase {
	return &BranchUseCase{repo: repo, orgRepo: orgRepo}
}

// Create crea una sucursal en una organización existente.
func (uc *BranchUseCase) Create(ctx context.Context, in dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	now := time.Now().UTC()
	branch := &entity.Branch{
		ID:             uuid.New().String(),
		OrganizationID: in.OrganizationID,
		Name:           in.Name,
		Code:           in.Code,
		Address:        in.Address,
		ContactNumber:  in.ContactNumber,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := branch.Validate(); err != nil {
		return nil, err
	}
	org, err := uc.orgRepo.GetByID(ctx, in.OrganizationID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.NewInvalidInput("organizationId", "la organización no existe")
	}
	if err := uc.repo.Create(ctx, branch); err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// GetByID obtiene una sucursal.
func (uc *BranchUseCase) GetByID(ctx context.Context, id string) (*dto.BranchResponse, error) {
	b, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBranchResponse(b), nil
}

// Update actualiza una sucursal.
func (uc *BranchUseCase) Update(ctx context.Context, id string, in dto.UpdateBranchRequest) (*dto.BranchResponse, error) {
	b, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	setIf(&b.Name, in.Name)
	setIf(&b.Code, in.Code)
	setIf(&b.Address, in.Address)
	setIf(&b.ContactNumber, in.ContactNumber)
	if err := b.Validate(); err != nil {
		return nil, err
	}
	b.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return toBranchResponse(b), nil
}

// List lista sucursales, opcionalmente de una organización.
func (uc *BranchUseCase) List(ctx context.Context, organizationID string, page dto.PageRequest) (*dto.BranchListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, organizationID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BranchResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBranchResponse(b))
	}
	return &dto.BranchListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina una sucursal. El store rechaza con domain.ErrConflict si tiene stock o movimientos.
func (uc *BranchUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.load(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *BranchUseCase) load(ctx context.Context, id string) (*entity.Branch, error) {
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func toBranchResponse(b *entity.Branch) *dto.BranchResponse {
	return &dto.BranchResponse{
		ID:             b.ID,
		OrganizationID: b.OrganizationID,
		Name:           b.Name,
		Code:           b.Code,
		Address:        b.Address,
		ContactNumber:  b.ContactNumber,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
