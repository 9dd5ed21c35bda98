package db

import (
	"context"

	dbmodels "github.com/gartstein/warranty/internal/warranty/db/models"
	"gorm.io/gorm"
)

// ConfigRepository reads tenant branding from the platform database.
type ConfigRepository struct {
	db *gorm.DB
}

func NewConfigRepository(db *gorm.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// GetConfig returns the branding row of a tenant.
func (r *ConfigRepository) GetConfig(ctx context.Context, tenantID string) (*dbmodels.ConfigEntity, error) {
	var config dbmodels.ConfigEntity
	result := r.db.WithContext(ctx).
		Where(map[string]any{"tenantId": tenantID}).
		First(&config)
	if result.Error != nil {
		return nil, notFound(result.Error)
	}
	return &config, nil
}

// SaveConfig inserts or replaces the branding row of a tenant.
func (r *ConfigRepository) SaveConfig(ctx context.Context, config *dbmodels.ConfigEntity) error {
	return r.db.WithContext(ctx).Save(config).Error
}
