package controller

import (
	"context"
	"errors"
	"fmt"

	e "github.com/gartstein/warranty/internal/warranty/errors"
	"github.com/gartstein/warranty/internal/warranty/models"
	"go.uber.org/zap"
)

// CatalogService reads the contracts a claim refers to: warranties,
// policies, customers, inspections and the tenant branding.
type CatalogService struct {
	tenants   Tenants
	publisher models.Publisher
	logger    *zap.Logger
}

func NewCatalogService(tenants Tenants, publisher models.Publisher, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		tenants:   tenants,
		publisher: publisher,
		logger:    logger.Named("catalog_service"),
	}
}

// GetWarranty returns a warranty with its policy, coverages, customer,
// asset and inspection.
func (s *CatalogService) GetWarranty(ctx context.Context, warrantyID, tenantID string) (models.Warranty, error) {
	repo, err := s.lookup(ctx, "warranty", warrantyID, tenantID)
	if err != nil {
		return nil, err
	}
	entity, err := repo.GetWarranty(ctx, warrantyID)
	if err != nil {
		return nil, wrapLookup("warranty", err)
	}
	warranty, err := entity.ToAggregate(s.publisher)
	if err != nil {
		return nil, fmt.Errorf("failed to convert warranty %s: %w", warrantyID, err)
	}
	return warranty, nil
}

// GetPolicy returns a policy with its coverages and their exclusions.
func (s *CatalogService) GetPolicy(ctx context.Context, policyID, tenantID string) (*models.Policy, error) {
	repo, err := s.lookup(ctx, "policy", policyID, tenantID)
	if err != nil {
		return nil, err
	}
	entity, err := repo.GetPolicy(ctx, policyID)
	if err != nil {
		return nil, wrapLookup("policy", err)
	}
	return entity.ToAggregate(s.publisher), nil
}

func (s *CatalogService) GetCustomer(ctx context.Context, customerID, tenantID string) (*models.Customer, error) {
	repo, err := s.lookup(ctx, "customer", customerID, tenantID)
	if err != nil {
		return nil, err
	}
	entity, err := repo.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, wrapLookup("customer", err)
	}
	return entity.ToAggregate(s.publisher), nil
}

// GetInspection returns an inspection with its inspector, customer and asset.
func (s *CatalogService) GetInspection(ctx context.Context, inspectionID, tenantID string) (models.Inspection, error) {
	repo, err := s.lookup(ctx, "inspection", inspectionID, tenantID)
	if err != nil {
		return nil, err
	}
	entity, err := repo.GetInspection(ctx, inspectionID)
	if err != nil {
		return nil, wrapLookup("inspection", err)
	}
	inspection, err := entity.ToAggregate(s.publisher)
	if err != nil {
		return nil, fmt.Errorf("failed to convert inspection %s: %w", inspectionID, err)
	}
	return inspection, nil
}

// GetConfig returns the branding of a tenant from the platform database.
func (s *CatalogService) GetConfig(ctx context.Context, tenantID string) (*models.PlatformConfig, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant id is required", e.ErrInvalidInput)
	}
	repo, err := s.tenants.Platform(ctx)
	if err != nil {
		s.logger.Error("Failed to resolve platform database", zap.Error(err))
		if errors.Is(err, e.ErrConnection) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", e.ErrConnection, err)
	}
	entity, err := repo.GetConfig(ctx, tenantID)
	if err != nil {
		return nil, wrapLookup("config", err)
	}
	return entity.ToModel(), nil
}

func (s *CatalogService) lookup(ctx context.Context, kind, id, tenantID string) (Repository, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: %s id is required", e.ErrInvalidInput, kind)
	}
	return tenantRepository(ctx, s.tenants, tenantID, s.logger)
}

func wrapLookup(kind string, err error) error {
	if errors.Is(err, e.ErrNotFound) {
		return err
	}
	return fmt.Errorf("failed to get %s: %w", kind, err)
}
