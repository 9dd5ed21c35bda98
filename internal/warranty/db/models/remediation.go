package models

import (
	"fmt"
	"time"

	e "github.com/gartstein/warranty/internal/warranty/errors"
	"github.com/gartstein/warranty/internal/warranty/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ClaimRemediationEntity represents a row of the claim_remediation table.
// The type column selects the concrete remediation; columns of subtypes
// are nullable.
type ClaimRemediationEntity struct {
	ID       string                   `gorm:"column:id;primaryKey;size:64"`
	Claim    *ClaimEntity             `gorm:"foreignKey:RemediationID;references:ID"`
	Created  time.Time                `gorm:"column:created;autoCreateTime"`
	Modified time.Time                `gorm:"column:modified;autoUpdateTime"`
	Type     string                   `gorm:"column:type;size:64;not null;index"`
	Status   models.RemediationStatus `gorm:"column:status;size:32;not null"`

	// service-reimbursement
	FileName        *string              `gorm:"column:fileName"`
	ReimbursementID *string              `gorm:"column:reimbursementId;size:64;index"`
	Reimbursement   *ReimbursementEntity `gorm:"foreignKey:ReimbursementID;references:ID"`
}

func (ClaimRemediationEntity) TableName() string { return "claim_remediation" }

func (r *ClaimRemediationEntity) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = NewID(RemediationPrefix)
	}
	return nil
}

// ToAggregate converts the row into the remediation type named by its discriminator.
func (r *ClaimRemediationEntity) ToAggregate(publisher models.Publisher) (models.ClaimRemediation, error) {
	switch r.Type {
	case models.ServiceReimbursementType:
		return r.ToServiceReimbursement(publisher), nil
	default:
		return nil, fmt.Errorf("%w: remediation %s has type %q", e.ErrUnknownType, r.ID, r.Type)
	}
}

// ToServiceReimbursement converts the row into a ServiceReimbursement.
func (r *ClaimRemediationEntity) ToServiceReimbursement(publisher models.Publisher) *models.ServiceReimbursement {
	agg := &models.ServiceReimbursement{
		RemediationBase: models.RemediationBase{
			ID:       r.ID,
			Created:  r.Created,
			Modified: r.Modified,
			Type:     r.Type,
			Status:   r.Status,
		},
		FileName:        r.FileName,
		ReimbursementID: r.ReimbursementID,
	}
	if r.Reimbursement != nil {
		agg.Reimbursement = r.Reimbursement.ToAggregate(publisher)
	}
	agg.MergeContext(publisher)
	return agg
}

// ReimbursementEntity represents a payout row.
type ReimbursementEntity struct {
	ID          string                     `gorm:"column:id;primaryKey;size:64"`
	ReferenceID *string                    `gorm:"column:referenceId;size:255"`
	Created     time.Time                  `gorm:"column:created;autoCreateTime"`
	Modified    time.Time                  `gorm:"column:modified;autoUpdateTime"`
	Amount      decimal.Decimal            `gorm:"column:amount;type:decimal(12,2);not null"`
	Status      models.ReimbursementStatus `gorm:"column:status;size:32;not null"`
}

func (ReimbursementEntity) TableName() string { return "reimbursement" }

func (r *ReimbursementEntity) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = NewID(ReimbursementPrefix)
	}
	return nil
}

// ToAggregate converts the row into a Reimbursement.
func (r *ReimbursementEntity) ToAggregate(publisher models.Publisher) *models.Reimbursement {
	agg := &models.Reimbursement{
		ID:          r.ID,
		ReferenceID: r.ReferenceID,
		Created:     r.Created,
		Modified:    r.Modified,
		Amount:      r.Amount,
		Status:      r.Status,
	}
	agg.MergeContext(publisher)
	return agg
}
