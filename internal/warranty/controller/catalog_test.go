package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/gartstein/warranty/internal/pkg/utils"
	dbmodels "github.com/gartstein/warranty/internal/warranty/db/models"
	e "github.com/gartstein/warranty/internal/warranty/errors"
	"github.com/gartstein/warranty/internal/warranty/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestCatalogService_GetWarranty(t *testing.T) {
	publisher := &MockPublisher{}
	repo := &MockRepository{
		getWarranty: func(_ context.Context, id string) (*dbmodels.WarrantyEntity, error) {
			return &dbmodels.WarrantyEntity{
				ID:           id,
				Type:         models.HomeInspectionGuaranteeType,
				Status:       models.WarrantyActivated,
				PolicyID:     "pol_1",
				Policy:       &dbmodels.PolicyEntity{ID: "pol_1", Coverages: []dbmodels.CoverageEntity{{ID: "cov_1"}}},
				AssetID:      "ast_1",
				Asset:        &dbmodels.AssetEntity{ID: "ast_1", Type: models.HomeAssetType, Size: utils.Ptr(120)},
				InspectionID: utils.Ptr("insp_1"),
			}, nil
		},
	}
	service := NewCatalogService(&MockTenants{repo: repo}, publisher, zaptest.NewLogger(t))

	warranty, err := service.GetWarranty(context.Background(), "wrt_1", "acme")
	require.NoError(t, err)

	guarantee, ok := warranty.(*models.HomeInspectionGuarantee)
	require.True(t, ok)
	assert.Equal(t, "insp_1", guarantee.InspectionID)
	require.NotNil(t, guarantee.Policy)
	assert.Len(t, guarantee.Policy.Coverages, 1)
	require.NotNil(t, guarantee.Asset)
	assert.Equal(t, 120, guarantee.Asset.Size)
	assert.Same(t, publisher, guarantee.Publisher())
}

func TestCatalogService_GetWarrantyUnknownType(t *testing.T) {
	repo := &MockRepository{
		getWarranty: func(_ context.Context, id string) (*dbmodels.WarrantyEntity, error) {
			return &dbmodels.WarrantyEntity{ID: id, Type: "extended-appliance"}, nil
		},
	}
	service := NewCatalogService(&MockTenants{repo: repo}, nil, zaptest.NewLogger(t))

	_, err := service.GetWarranty(context.Background(), "wrt_1", "acme")
	assert.ErrorIs(t, err, e.ErrUnknownType)
}

func TestCatalogService_Lookups(t *testing.T) {
	repo := &MockRepository{
		getPolicy: func(context.Context, string) (*dbmodels.PolicyEntity, error) {
			return nil, e.ErrNotFound
		},
		getCustomer: func(_ context.Context, id string) (*dbmodels.CustomerEntity, error) {
			return &dbmodels.CustomerEntity{ID: id, Name: "Ada", Email: "ada@example.com"}, nil
		},
		getInspection: func(_ context.Context, id string) (*dbmodels.InspectionEntity, error) {
			return nil, errors.New("driver: bad connection")
		},
	}
	service := NewCatalogService(&MockTenants{repo: repo}, nil, zaptest.NewLogger(t))
	ctx := context.Background()

	_, err := service.GetPolicy(ctx, "pol_missing", "acme")
	assert.ErrorIs(t, err, e.ErrNotFound)

	customer, err := service.GetCustomer(ctx, "cus_1", "acme")
	require.NoError(t, err)
	assert.Equal(t, "Ada", customer.Name)

	_, err = service.GetInspection(ctx, "insp_1", "acme")
	assert.ErrorContains(t, err, "failed to get inspection")

	_, err = service.GetCustomer(ctx, "", "acme")
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestCatalogService_GetConfig(t *testing.T) {
	platform := &MockConfigRepository{
		getConfig: func(_ context.Context, tenantID string) (*dbmodels.ConfigEntity, error) {
			if tenantID != "acme" {
				return nil, e.ErrNotFound
			}
			return &dbmodels.ConfigEntity{TenantID: tenantID, BrandName: "Acme", PrColor: "#003366"}, nil
		},
	}
	service := NewCatalogService(&MockTenants{platform: platform}, nil, zaptest.NewLogger(t))
	ctx := context.Background()

	config, err := service.GetConfig(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", config.BrandName)

	_, err = service.GetConfig(ctx, "globex")
	assert.ErrorIs(t, err, e.ErrNotFound)

	_, err = service.GetConfig(ctx, "")
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	down := NewCatalogService(&MockTenants{platformErr: errors.New("refused")}, nil, zaptest.NewLogger(t))
	_, err = down.GetConfig(ctx, "acme")
	assert.ErrorIs(t, err, e.ErrConnection)
}
