package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/gartstein/warranty/internal/warranty/db"
	dbmodels "github.com/gartstein/warranty/internal/warranty/db/models"
	"github.com/gartstein/warranty/internal/warranty/models"
	"go.uber.org/zap"
)

const statusActivityIcon = "status"

// ActivityRecorder appends claim events to the claim timeline of the
// event's tenant.
type ActivityRecorder struct {
	tenants Tenants
	logger  *zap.Logger
}

func NewActivityRecorder(tenants Tenants, logger *zap.Logger) *ActivityRecorder {
	return &ActivityRecorder{
		tenants: tenants,
		logger:  logger.Named("activity_recorder"),
	}
}

// Handle records a ClaimStatusChanged event. Other events are ignored, as
// are events for claims that no longer exist.
func (r *ActivityRecorder) Handle(ctx context.Context, event models.Event) error {
	if event.Type != models.ClaimStatusChanged {
		return nil
	}

	var change models.ClaimStatusChange
	if err := event.Decode(&change); err != nil {
		return fmt.Errorf("failed to decode %s: %w", event.Type, err)
	}

	repo, err := tenantRepository(ctx, r.tenants, event.TenantID, r.logger)
	if err != nil {
		return err
	}

	return repo.WithTransaction(ctx, func(tx *db.Repository) error {
		exists, err := tx.ClaimExists(ctx, change.ClaimID)
		if err != nil {
			return fmt.Errorf("failed to check claim: %w", err)
		}
		if !exists {
			r.logger.Warn("Skipping activity for unknown claim",
				zap.String("claim_id", change.ClaimID),
				zap.String("tenant_id", event.TenantID),
			)
			return nil
		}
		return tx.CreateActivity(ctx, statusActivity(change, event))
	})
}

func statusActivity(change models.ClaimStatusChange, event models.Event) *dbmodels.ClaimActivityEntity {
	return &dbmodels.ClaimActivityEntity{
		ClaimID: change.ClaimID,
		Icon:    statusActivityIcon,
		Title:   "Claim " + strings.ToLower(strings.ReplaceAll(string(change.To), "_", " ")),
		Message: fmt.Sprintf("Status changed from %s to %s", change.From, change.To),
		Created: event.OccurredAt,
	}
}
