// Package testdb provides in-memory tenant databases seeded with a small,
// fully related set of rows for tests.
package testdb

import (
	"testing"
	"time"

	"github.com/gartstein/warranty/internal/pkg/utils"
	dbmodels "github.com/gartstein/warranty/internal/warranty/db/models"
	"github.com/gartstein/warranty/internal/warranty/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Fixture holds the ids of the seeded rows.
type Fixture struct {
	CustomerID      string
	InspectorID     string
	AssetID         string
	InspectionID    string
	PolicyID        string
	CoverageID      string
	ExclusionID     string
	WarrantyID      string
	ReimbursementID string
	RemediationID   string
	ClaimID         string
	OpenClaimID     string
	TermStart       time.Time
}

// Open returns an in-memory database with the tenant schema migrated.
// The pool is limited to one connection so every query sees the same
// in-memory database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(dbmodels.TenantEntities()...), "failed to migrate test database")
	return db
}

// Seed inserts a customer with a home asset, an inspection, a published
// policy with one coverage and exclusion, a home inspection guarantee and
// two claims against it. The first claim is approved and has a service
// reimbursement; the second is open with no remediation.
func Seed(t testing.TB, db *gorm.DB) Fixture {
	t.Helper()

	termStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	customer := &dbmodels.CustomerEntity{
		ReferenceID: utils.Ptr("crm-1001"),
		Name:        "Ada Lovelace",
		Email:       "ada@example.com",
	}
	inspector := &dbmodels.InspectorEntity{
		Name:  utils.Ptr("Charles Babbage"),
		Email: utils.Ptr("charles@example.com"),
	}
	asset := &dbmodels.AssetEntity{
		Type: models.HomeAssetType,
		Name: "12 Analytical Row",
		Size: utils.Ptr(140),
		Address: dbmodels.AddressEmbedded{
			Street1:    utils.Ptr("12 Analytical Row"),
			City:       utils.Ptr("London"),
			Region:     utils.Ptr("Greater London"),
			Country:    utils.Ptr("GB"),
			PostalCode: utils.Ptr("N1 9GU"),
		},
	}
	require.NoError(t, db.Create(customer).Error)
	require.NoError(t, db.Create(inspector).Error)
	require.NoError(t, db.Create(asset).Error)

	inspection := &dbmodels.InspectionEntity{
		Type:                   models.HomeInspectionType,
		Timestamp:              termStart.Add(-72 * time.Hour),
		InspectorID:            inspector.ID,
		CustomerID:             customer.ID,
		AssetID:                asset.ID,
		StructuralCondition:    utils.Ptr(true),
		NonStructuralCondition: utils.Ptr(false),
	}
	require.NoError(t, db.Create(inspection).Error)

	policy := &dbmodels.PolicyEntity{
		PolicyNumber:                  "POL-2024-01",
		Title:                         "Home inspection guarantee",
		TermDuration:                  12,
		Status:                        models.PolicyPublished,
		TermsAndConditionsDownloadURL: "https://example.com/terms.pdf",
		IpidDownloadURL:               "https://example.com/ipid.pdf",
	}
	require.NoError(t, db.Create(policy).Error)

	coverage := &dbmodels.CoverageEntity{
		Title:          "Roof",
		Deductible:     decimal.RequireFromString("150.00"),
		LiabilityLimit: decimal.RequireFromString("5000.00"),
		PolicyID:       policy.ID,
	}
	require.NoError(t, db.Create(coverage).Error)

	exclusion := &dbmodels.ExclusionEntity{
		Title:       "Storm damage",
		Description: "Damage caused by named storms",
		CoverageID:  coverage.ID,
	}
	require.NoError(t, db.Create(exclusion).Error)

	warranty := &dbmodels.WarrantyEntity{
		ReferenceID:    utils.Ptr("hig-1"),
		Status:         models.WarrantyActivated,
		Type:           models.HomeInspectionGuaranteeType,
		ContractNumber: "C-0001",
		TermStart:      termStart,
		TermDuration:   12,
		PolicyID:       policy.ID,
		CustomerID:     customer.ID,
		AssetID:        asset.ID,
		InspectionID:   utils.Ptr(inspection.ID),
	}
	require.NoError(t, db.Create(warranty).Error)

	reimbursement := &dbmodels.ReimbursementEntity{
		Amount: decimal.RequireFromString("420.50"),
		Status: models.ReimbursementPending,
	}
	require.NoError(t, db.Create(reimbursement).Error)

	remediation := &dbmodels.ClaimRemediationEntity{
		Type:            models.ServiceReimbursementType,
		Status:          models.RemediationInProgress,
		FileName:        utils.Ptr("invoice.pdf"),
		ReimbursementID: utils.Ptr(reimbursement.ID),
	}
	require.NoError(t, db.Create(remediation).Error)

	approved := &dbmodels.ClaimEntity{
		Details:            "Roof leak after inspection",
		Status:             models.ClaimApproved,
		WarrantyID:         warranty.ID,
		AffectedCoverageID: coverage.ID,
		LiabilityAmount:    decimal.NewNullDecimal(decimal.RequireFromString("420.50")),
		RemediationID:      utils.Ptr(remediation.ID),
	}
	require.NoError(t, db.Create(approved).Error)

	open := &dbmodels.ClaimEntity{
		Details:            "Cracked foundation",
		Status:             models.ClaimOpen,
		WarrantyID:         warranty.ID,
		AffectedCoverageID: coverage.ID,
		Created:            approved.Created.Add(time.Second),
	}
	require.NoError(t, db.Create(open).Error)

	require.NoError(t, db.Create(&dbmodels.ClaimEvidenceEntity{ClaimID: approved.ID}).Error)

	return Fixture{
		CustomerID:      customer.ID,
		InspectorID:     inspector.ID,
		AssetID:         asset.ID,
		InspectionID:    inspection.ID,
		PolicyID:        policy.ID,
		CoverageID:      coverage.ID,
		ExclusionID:     exclusion.ID,
		WarrantyID:      warranty.ID,
		ReimbursementID: reimbursement.ID,
		RemediationID:   remediation.ID,
		ClaimID:         approved.ID,
		OpenClaimID:     open.ID,
		TermStart:       termStart,
	}
}
