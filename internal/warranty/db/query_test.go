package db

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	e "github.com/gartstein/warranty/internal/warranty/errors"
	"github.com/gartstein/warranty/internal/warranty/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB opens a postgres GORM connection over sqlmock.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

// camelCase columns must be quoted or postgres folds them to lower case.
func TestGetClaimsQuotesColumns(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	rows := sqlmock.NewRows([]string{"id", "status", "details", "warrantyId", "affectedCoverageId"}).
		AddRow("clm_1", "OPEN", "Leak", "wrt_1", "cov_1")
	mock.ExpectQuery(`SELECT \* FROM "claim" WHERE "warrantyId" = \$1 ORDER BY "created"`).
		WithArgs("wrt_1").
		WillReturnRows(rows)

	claims, err := NewRepository(gormDB).GetClaims(context.Background(), "wrt_1")
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, "cov_1", claims[0].AffectedCoverageID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetClaimPreloads(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "claim" WHERE id = \$1 ORDER BY "claim"."id" LIMIT \$2`).
		WithArgs("clm_1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "affectedCoverageId", "remediationId"}).
			AddRow("clm_1", "OPEN", "cov_1", nil))
	mock.ExpectQuery(`SELECT \* FROM "warranty_coverage" WHERE "warranty_coverage"."id" = \$1`).
		WithArgs("cov_1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow("cov_1", "Roof"))

	claim, err := NewRepository(gormDB).GetClaim(context.Background(), "clm_1")
	require.NoError(t, err)
	require.NotNil(t, claim.AffectedCoverage)
	assert.Equal(t, "Roof", claim.AffectedCoverage.Title)
	assert.Nil(t, claim.Remediation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetClaimRecordNotFound(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "claim" WHERE id = \$1`).
		WithArgs("clm_missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewRepository(gormDB).GetClaim(context.Background(), "clm_missing")
	assert.ErrorIs(t, err, e.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateClaimStatusQuery(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	modified := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec(`UPDATE "claim" SET "modified"=\$1,"status"=\$2 WHERE id = \$3 AND status = \$4`).
		WithArgs(modified, models.ClaimApproved, "clm_1", models.ClaimOpen).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewRepository(gormDB).UpdateClaimStatus(context.Background(), "clm_1", models.ClaimOpen, models.ClaimApproved, modified)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateClaimStatusQueryStale(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	mock.ExpectExec(`UPDATE "claim" SET .* WHERE id = \$3 AND status = \$4`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "claim" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := NewRepository(gormDB).UpdateClaimStatus(context.Background(), "clm_1", models.ClaimOpen, models.ClaimApproved, time.Now())
	assert.ErrorIs(t, err, e.ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetConfigQuotesColumns(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "config" WHERE "tenantId" = \$1`).
		WithArgs("acme", 1).
		WillReturnRows(sqlmock.NewRows([]string{"tenantId", "brandName"}).AddRow("acme", "Acme"))

	config, err := NewConfigRepository(gormDB).GetConfig(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", config.BrandName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
