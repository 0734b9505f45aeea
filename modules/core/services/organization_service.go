package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/silvacore/patrimony/modules/core/domain/entities/organization"
	"github.com/silvacore/patrimony/pkg/composables"
	"github.com/silvacore/patrimony/pkg/serrors"
)

var errPrivilegedOnly = serrors.NewError("FORBIDDEN", "operation requires a privileged caller", "Core.Organizations.PrivilegedOnly")

type OrganizationService struct {
	repo organization.Repository
}

func NewOrganizationService(repo organization.Repository) *OrganizationService {
	return &OrganizationService{repo: repo}
}

func (s *OrganizationService) List(ctx context.Context, params *organization.FindParams) ([]organization.Organization, int64, error) {
	identity, err := composables.UseIdentity(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !identity.Privileged() {
		return nil, 0, errPrivilegedOnly
	}

	items, err := s.repo.GetPaginated(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *OrganizationService) GetByID(ctx context.Context, id uuid.UUID) (organization.Organization, error) {
	identity, err := composables.UseIdentity(ctx)
	if err != nil {
		return organization.Organization{}, err
	}
	if !identity.Privileged() {
		// Non-privileged callers may only look at their own tenant.
		own, ok := identity.OrganizationID()
		if !ok || own != id {
			return organization.Organization{}, organization.ErrNotFound
		}
	}
	return s.repo.GetByID(ctx, id)
}

type CreateOrganizationDTO struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
	Slug string `json:"slug" validate:"required,min=2,max=80"`
}

func (s *OrganizationService) Create(ctx context.Context, dto *CreateOrganizationDTO) (organization.Organization, error) {
	identity, err := composables.UseIdentity(ctx)
	if err != nil {
		return organization.Organization{}, err
	}
	if !identity.Privileged() {
		return organization.Organization{}, errPrivilegedOnly
	}

	name := strings.TrimSpace(dto.Name)
	slug := strings.ToLower(strings.TrimSpace(dto.Slug))
	if name == "" || slug == "" {
		return organization.Organization{}, serrors.NewError(serrors.ValidationCode, "name and slug are required", "Core.Organizations.MissingFields")
	}

	now := time.Now()
	return composables.InTxResult(ctx, func(txCtx context.Context) (organization.Organization, error) {
		return s.repo.Create(txCtx, organization.Organization{
			ID:        uuid.New(),
			Name:      name,
			Slug:      slug,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
}
