package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbmodels "github.com/gartstein/warranty/internal/warranty/db/models"
	e "github.com/gartstein/warranty/internal/warranty/errors"
	"github.com/gartstein/warranty/internal/warranty/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository reads and writes the rows of one tenant database.
type Repository struct {
	db *gorm.DB
}

// NewRepository wraps a tenant connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetClaims returns the claims filed against a warranty, oldest first.
// Relations are not loaded.
func (r *Repository) GetClaims(ctx context.Context, warrantyID string) ([]dbmodels.ClaimEntity, error) {
	claims := make([]dbmodels.ClaimEntity, 0)
	result := r.db.WithContext(ctx).
		Where(map[string]any{"warrantyId": warrantyID}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created"}}).
		Find(&claims)
	if result.Error != nil {
		return nil, result.Error
	}
	return claims, nil
}

// GetClaim loads a claim with its affected coverage and remediation.
func (r *Repository) GetClaim(ctx context.Context, id string) (*dbmodels.ClaimEntity, error) {
	var claim dbmodels.ClaimEntity
	result := r.db.WithContext(ctx).
		Preload("AffectedCoverage").
		Preload("Remediation").
		Preload("Remediation.Reimbursement").
		First(&claim, "id = ?", id)
	if result.Error != nil {
		return nil, notFound(result.Error)
	}
	return &claim, nil
}

// GetWarranty loads a warranty with its policy, coverages, customer, asset
// and inspection.
func (r *Repository) GetWarranty(ctx context.Context, id string) (*dbmodels.WarrantyEntity, error) {
	var warranty dbmodels.WarrantyEntity
	result := r.db.WithContext(ctx).
		Preload("Policy").
		Preload("Policy.Coverages").
		Preload("Customer").
		Preload("Asset").
		Preload("Inspection").
		First(&warranty, "id = ?", id)
	if result.Error != nil {
		return nil, notFound(result.Error)
	}
	return &warranty, nil
}

func (r *Repository) GetPolicy(ctx context.Context, id string) (*dbmodels.PolicyEntity, error) {
	var policy dbmodels.PolicyEntity
	result := r.db.WithContext(ctx).
		Preload("Coverages").
		Preload("Coverages.Exclusions").
		First(&policy, "id = ?", id)
	if result.Error != nil {
		return nil, notFound(result.Error)
	}
	return &policy, nil
}

func (r *Repository) GetCustomer(ctx context.Context, id string) (*dbmodels.CustomerEntity, error) {
	var customer dbmodels.CustomerEntity
	result := r.db.WithContext(ctx).First(&customer, "id = ?", id)
	if result.Error != nil {
		return nil, notFound(result.Error)
	}
	return &customer, nil
}

func (r *Repository) GetInspection(ctx context.Context, id string) (*dbmodels.InspectionEntity, error) {
	var inspection dbmodels.InspectionEntity
	result := r.db.WithContext(ctx).
		Preload("Inspector").
		Preload("Customer").
		Preload("Asset").
		First(&inspection, "id = ?", id)
	if result.Error != nil {
		return nil, notFound(result.Error)
	}
	return &inspection, nil
}

// UpdateClaimStatus moves a claim from one status to another. The write only
// applies while the stored status is still from; if another writer changed it
// first, ErrInvalidTransition is returned and the row is left as it is.
func (r *Repository) UpdateClaimStatus(ctx context.Context, id string, from, to models.ClaimStatus, modified time.Time) error {
	result := r.db.WithContext(ctx).Model(&dbmodels.ClaimEntity{}).
		Where("id = ?", id).
		Where("status = ?", from).
		Updates(map[string]any{"status": to, "modified": modified})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	exists, err := r.ClaimExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return e.ErrNotFound
	}
	return fmt.Errorf("%w: claim %s is no longer %s", e.ErrInvalidTransition, id, from)
}

// CreateActivity appends an entry to a claim timeline.
func (r *Repository) CreateActivity(ctx context.Context, activity *dbmodels.ClaimActivityEntity) error {
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return fmt.Errorf("failed to create claim activity: %w", err)
	}
	return nil
}

// ClaimExists reports whether a claim row with id is present.
func (r *Repository) ClaimExists(ctx context.Context, id string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&dbmodels.ClaimEntity{}).
		Where("id = ?", id).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return e.ErrNotFound
	}
	return err
}
