package db

import (
	"context"
	"testing"
	"time"

	dbmodels "github.com/gartstein/warranty/internal/warranty/db/models"
	"github.com/gartstein/warranty/internal/warranty/db/testdb"
	e "github.com/gartstein/warranty/internal/warranty/errors"
	"github.com/gartstein/warranty/internal/warranty/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SetupTestDB returns a repository over a seeded in-memory tenant database.
func SetupTestDB(t *testing.T) (*Repository, testdb.Fixture) {
	conn := testdb.Open(t)
	return NewRepository(conn), testdb.Seed(t, conn)
}

func TestGetClaims(t *testing.T) {
	repo, fx := SetupTestDB(t)
	ctx := context.Background()

	claims, err := repo.GetClaims(ctx, fx.WarrantyID)
	require.NoError(t, err, "GetClaims should not return an error")
	require.Len(t, claims, 2)

	assert.Equal(t, fx.ClaimID, claims[0].ID, "claims should be ordered by creation")
	assert.Equal(t, fx.OpenClaimID, claims[1].ID)
	for _, claim := range claims {
		assert.Equal(t, fx.WarrantyID, claim.WarrantyID)
		assert.Nil(t, claim.AffectedCoverage, "relations should not be loaded")
		assert.Nil(t, claim.Remediation, "relations should not be loaded")
	}
}

func TestGetClaimsUnknownWarranty(t *testing.T) {
	repo, _ := SetupTestDB(t)

	claims, err := repo.GetClaims(context.Background(), dbmodels.NewID(dbmodels.WarrantyPrefix))
	require.NoError(t, err)
	assert.NotNil(t, claims, "an empty result should be an empty slice")
	assert.Empty(t, claims)
}

func TestGetClaim(t *testing.T) {
	repo, fx := SetupTestDB(t)

	claim, err := repo.GetClaim(context.Background(), fx.ClaimID)
	require.NoError(t, err, "GetClaim should succeed")

	assert.Equal(t, models.ClaimApproved, claim.Status)
	require.True(t, claim.LiabilityAmount.Valid)
	assert.True(t, decimal.RequireFromString("420.50").Equal(claim.LiabilityAmount.Decimal))

	require.NotNil(t, claim.AffectedCoverage, "coverage should be preloaded")
	assert.Equal(t, fx.CoverageID, claim.AffectedCoverage.ID)
	assert.True(t, decimal.RequireFromString("150").Equal(claim.AffectedCoverage.Deductible))

	require.NotNil(t, claim.Remediation, "remediation should be preloaded")
	assert.Equal(t, fx.RemediationID, claim.Remediation.ID)
	require.NotNil(t, claim.Remediation.Reimbursement)
	assert.Equal(t, fx.ReimbursementID, claim.Remediation.Reimbursement.ID)

	assert.Nil(t, claim.Warranty, "warranty is not part of the claim lookup")
	assert.Nil(t, claim.Evidence)
	assert.Nil(t, claim.Activity)
}

func TestGetClaimWithoutRemediation(t *testing.T) {
	repo, fx := SetupTestDB(t)

	claim, err := repo.GetClaim(context.Background(), fx.OpenClaimID)
	require.NoError(t, err)
	assert.Nil(t, claim.RemediationID)
	assert.Nil(t, claim.Remediation)
	assert.False(t, claim.LiabilityAmount.Valid)
}

func TestGetClaimNotFound(t *testing.T) {
	repo, _ := SetupTestDB(t)

	_, err := repo.GetClaim(context.Background(), dbmodels.NewID(dbmodels.ClaimPrefix))
	assert.ErrorIs(t, err, e.ErrNotFound, "GetClaim should return ErrNotFound for a missing claim")
}

func TestGetWarranty(t *testing.T) {
	repo, fx := SetupTestDB(t)

	warranty, err := repo.GetWarranty(context.Background(), fx.WarrantyID)
	require.NoError(t, err)

	require.NotNil(t, warranty.Policy)
	require.Len(t, warranty.Policy.Coverages, 1)
	assert.Nil(t, warranty.Policy.Coverages[0].Exclusions, "exclusions are not preloaded")
	require.NotNil(t, warranty.Customer)
	assert.Equal(t, "Ada Lovelace", warranty.Customer.Name)
	require.NotNil(t, warranty.Asset)
	assert.True(t, warranty.Asset.IsHome())
	require.NotNil(t, warranty.Inspection)
	assert.Equal(t, fx.InspectionID, warranty.Inspection.ID)
	assert.True(t, fx.TermStart.Equal(warranty.TermStart))
}

func TestGetPolicy(t *testing.T) {
	repo, fx := SetupTestDB(t)

	policy, err := repo.GetPolicy(context.Background(), fx.PolicyID)
	require.NoError(t, err)
	require.Len(t, policy.Coverages, 1)
	require.Len(t, policy.Coverages[0].Exclusions, 1)
	assert.Equal(t, fx.ExclusionID, policy.Coverages[0].Exclusions[0].ID)
}

func TestGetCustomerNotFound(t *testing.T) {
	repo, _ := SetupTestDB(t)

	_, err := repo.GetCustomer(context.Background(), "cus_missing")
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestGetInspection(t *testing.T) {
	repo, fx := SetupTestDB(t)

	inspection, err := repo.GetInspection(context.Background(), fx.InspectionID)
	require.NoError(t, err)
	require.NotNil(t, inspection.Inspector)
	require.NotNil(t, inspection.Customer)
	require.NotNil(t, inspection.Asset)
	assert.Equal(t, fx.AssetID, inspection.Asset.ID)
	require.NotNil(t, inspection.StructuralCondition)
	assert.True(t, *inspection.StructuralCondition)
}

func TestUpdateClaimStatus(t *testing.T) {
	repo, fx := SetupTestDB(t)
	ctx := context.Background()
	modified := time.Now().UTC().Truncate(time.Second)

	err := repo.UpdateClaimStatus(ctx, fx.OpenClaimID, models.ClaimOpen, models.ClaimRejected, modified)
	require.NoError(t, err, "UpdateClaimStatus should not return an error")

	claim, err := repo.GetClaim(ctx, fx.OpenClaimID)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimRejected, claim.Status, "status should be updated")
}

func TestUpdateClaimStatusNotFound(t *testing.T) {
	repo, _ := SetupTestDB(t)

	err := repo.UpdateClaimStatus(context.Background(), "clm_missing", models.ClaimOpen, models.ClaimClosed, time.Now())
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestUpdateClaimStatusStale(t *testing.T) {
	repo, fx := SetupTestDB(t)
	ctx := context.Background()

	// Another writer cancels the claim after it was read as OPEN.
	require.NoError(t, repo.UpdateClaimStatus(ctx, fx.OpenClaimID, models.ClaimOpen, models.ClaimCancelled, time.Now()))

	err := repo.UpdateClaimStatus(ctx, fx.OpenClaimID, models.ClaimOpen, models.ClaimApproved, time.Now())
	assert.ErrorIs(t, err, e.ErrInvalidTransition)

	claim, err := repo.GetClaim(ctx, fx.OpenClaimID)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimCancelled, claim.Status, "stale write should not overwrite the newer status")
}

func TestCreateActivity(t *testing.T) {
	repo, fx := SetupTestDB(t)
	ctx := context.Background()

	activity := &dbmodels.ClaimActivityEntity{
		ClaimID: fx.ClaimID,
		Icon:    "status",
		Title:   "Claim approved",
		Message: "Status changed from OPEN to APPROVED",
	}
	require.NoError(t, repo.CreateActivity(ctx, activity))
	assert.True(t, dbmodels.HasPrefix(activity.ID, dbmodels.ActivityPrefix), "id should be generated")
	assert.False(t, activity.Created.IsZero())
}

func TestWithTransaction(t *testing.T) {
	repo, fx := SetupTestDB(t)
	ctx := context.Background()

	err := repo.WithTransaction(ctx, func(txRepo *Repository) error {
		if err := txRepo.UpdateClaimStatus(ctx, fx.OpenClaimID, models.ClaimOpen, models.ClaimApproved, time.Now()); err != nil {
			return err
		}
		return txRepo.UpdateClaimStatus(ctx, "clm_missing", models.ClaimOpen, models.ClaimApproved, time.Now())
	})
	assert.ErrorIs(t, err, e.ErrNotFound)

	claim, err := repo.GetClaim(ctx, fx.OpenClaimID)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimOpen, claim.Status, "transaction should be rolled back")

	exists, err := repo.ClaimExists(ctx, fx.OpenClaimID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDialector(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantName string
		wantErr  bool
	}{
		{name: "postgres", cfg: Config{Driver: DriverPostgres, Host: "localhost", Port: 5432}, wantName: "postgres"},
		{name: "default is postgres", cfg: Config{}, wantName: "postgres"},
		{name: "sqlite memory", cfg: Config{Driver: DriverSQLite, Path: MemoryPath}, wantName: "sqlite"},
		{name: "sqlite file", cfg: Config{Driver: DriverSQLite, Path: t.TempDir()}, wantName: "sqlite"},
		{name: "unsupported", cfg: Config{Driver: "oracle"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialector, err := tt.cfg.Dialector("tenant_acme")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, dialector.Name())
		})
	}
}
