// Package controller implements the service layer of the warranty
// platform: it resolves the tenant database, loads persisted rows and
// turns them into aggregates bound to the event publisher.
package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gartstein/warranty/internal/warranty/db"
	dbmodels "github.com/gartstein/warranty/internal/warranty/db/models"
	e "github.com/gartstein/warranty/internal/warranty/errors"
	"github.com/gartstein/warranty/internal/warranty/models"
	"go.uber.org/zap"
)

// Repository defines the storage interface of one tenant.
type Repository interface {
	GetClaims(ctx context.Context, warrantyID string) ([]dbmodels.ClaimEntity, error)
	GetClaim(ctx context.Context, id string) (*dbmodels.ClaimEntity, error)
	GetWarranty(ctx context.Context, id string) (*dbmodels.WarrantyEntity, error)
	GetPolicy(ctx context.Context, id string) (*dbmodels.PolicyEntity, error)
	GetCustomer(ctx context.Context, id string) (*dbmodels.CustomerEntity, error)
	GetInspection(ctx context.Context, id string) (*dbmodels.InspectionEntity, error)
	UpdateClaimStatus(ctx context.Context, id string, from, to models.ClaimStatus, modified time.Time) error
	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
}

// ConfigRepository reads tenant branding.
type ConfigRepository interface {
	GetConfig(ctx context.Context, tenantID string) (*dbmodels.ConfigEntity, error)
}

// Tenants resolves tenant and platform repositories.
type Tenants interface {
	Repository(ctx context.Context, tenantID string) (Repository, error)
	Platform(ctx context.Context) (ConfigRepository, error)
}

type managerTenants struct {
	manager *db.Manager
}

// NewTenants exposes a db.Manager as Tenants.
func NewTenants(manager *db.Manager) Tenants {
	return &managerTenants{manager: manager}
}

func (t *managerTenants) Repository(ctx context.Context, tenantID string) (Repository, error) {
	repo, err := t.manager.Repository(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func (t *managerTenants) Platform(ctx context.Context) (ConfigRepository, error) {
	repo, err := t.manager.Platform(ctx)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// ClaimService reads claims and moves them through their statuses.
type ClaimService struct {
	tenants   Tenants
	publisher models.Publisher
	logger    *zap.Logger
}

// NewClaimService constructs a ClaimService. Aggregates it returns carry
// publisher; it may be nil.
func NewClaimService(tenants Tenants, publisher models.Publisher, logger *zap.Logger) *ClaimService {
	return &ClaimService{
		tenants:   tenants,
		publisher: publisher,
		logger:    logger.Named("claim_service"),
	}
}

// GetClaims returns the claims of a warranty without their relations.
func (s *ClaimService) GetClaims(ctx context.Context, warrantyID, tenantID string) ([]*models.Claim, error) {
	repo, err := s.repository(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	entities, err := repo.GetClaims(ctx, warrantyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get claims: %w", err)
	}

	claims := make([]*models.Claim, 0, len(entities))
	for i := range entities {
		claim, err := entities[i].ToAggregate(s.publisher)
		if err != nil {
			return nil, fmt.Errorf("failed to convert claim %s: %w", entities[i].ID, err)
		}
		claims = append(claims, claim)
	}
	return claims, nil
}

// GetClaim returns a claim with its affected coverage and remediation.
func (s *ClaimService) GetClaim(ctx context.Context, claimID, tenantID string) (*models.Claim, error) {
	if claimID == "" {
		return nil, fmt.Errorf("%w: claim id is required", e.ErrInvalidInput)
	}
	repo, err := s.repository(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return s.loadClaim(ctx, repo, claimID)
}

// UpdateClaimStatus moves a claim to status, stores it and commits the
// resulting events. A publish failure is logged; the stored status stands.
func (s *ClaimService) UpdateClaimStatus(ctx context.Context, claimID, tenantID string, status models.ClaimStatus) (*models.Claim, error) {
	if claimID == "" {
		return nil, fmt.Errorf("%w: claim id is required", e.ErrInvalidInput)
	}
	repo, err := s.repository(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	claim, err := s.loadClaim(ctx, repo, claimID)
	if err != nil {
		return nil, err
	}
	from := claim.Status
	if err := claim.ChangeStatus(tenantID, status); err != nil {
		return nil, err
	}
	if len(claim.Uncommitted()) == 0 {
		return claim, nil
	}

	if err := repo.UpdateClaimStatus(ctx, claim.ID, from, claim.Status, claim.Modified); err != nil {
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update claim status: %w", err)
	}

	if err := claim.Commit(ctx); err != nil {
		s.logger.Error("Failed to commit claim events",
			zap.Error(err),
			zap.String("claim_id", claim.ID),
			zap.String("tenant_id", tenantID),
		)
	}
	return claim, nil
}

func (s *ClaimService) loadClaim(ctx context.Context, repo Repository, claimID string) (*models.Claim, error) {
	entity, err := repo.GetClaim(ctx, claimID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}
	claim, err := entity.ToAggregate(s.publisher)
	if err != nil {
		return nil, fmt.Errorf("failed to convert claim %s: %w", claimID, err)
	}
	return claim, nil
}

func (s *ClaimService) repository(ctx context.Context, tenantID string) (Repository, error) {
	return tenantRepository(ctx, s.tenants, tenantID, s.logger)
}

// tenantRepository resolves the tenant repository. Every failure is
// reported as ErrConnection.
func tenantRepository(ctx context.Context, tenants Tenants, tenantID string, logger *zap.Logger) (Repository, error) {
	repo, err := tenants.Repository(ctx, tenantID)
	if err != nil {
		logger.Error("Failed to resolve tenant database",
			zap.Error(err),
			zap.String("tenant_id", tenantID),
		)
		if errors.Is(err, e.ErrConnection) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", e.ErrConnection, err)
	}
	return repo, nil
}
