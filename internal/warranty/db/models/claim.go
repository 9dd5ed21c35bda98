package models

import (
	"time"

	"github.com/gartstein/warranty/internal/warranty/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ClaimEntity represents a claim row.
type ClaimEntity struct {
	ID                 string                  `gorm:"column:id;primaryKey;size:64"`
	ReferenceID        *string                 `gorm:"column:referenceId;size:255"`
	Created            time.Time               `gorm:"column:created;autoCreateTime"`
	Modified           time.Time               `gorm:"column:modified;autoUpdateTime"`
	Details            string                  `gorm:"column:details;not null"`
	Status             models.ClaimStatus      `gorm:"column:status;size:32;not null"`
	WarrantyID         string                  `gorm:"column:warrantyId;size:64;not null;index"`
	Warranty           *WarrantyEntity         `gorm:"foreignKey:WarrantyID;references:ID"`
	AffectedCoverageID string                  `gorm:"column:affectedCoverageId;size:64;not null;index"`
	AffectedCoverage   *CoverageEntity         `gorm:"foreignKey:AffectedCoverageID;references:ID"`
	Evidence           []ClaimEvidenceEntity   `gorm:"foreignKey:ClaimID;references:ID"`
	LiabilityAmount    decimal.NullDecimal     `gorm:"column:liabilityAmount;type:decimal(12,2)"`
	RemediationID      *string                 `gorm:"column:remediationId;size:64;uniqueIndex"`
	Remediation        *ClaimRemediationEntity `gorm:"foreignKey:RemediationID;references:ID"`
	Activity           []ClaimActivityEntity   `gorm:"foreignKey:ClaimID;references:ID"`
}

func (ClaimEntity) TableName() string { return "claim" }

func (c *ClaimEntity) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID(ClaimPrefix)
	}
	return nil
}

// ToAggregate converts the row into a Claim. Relations are converted only
// when loaded; a loaded warranty or remediation with an unknown
// discriminator fails the conversion.
func (c *ClaimEntity) ToAggregate(publisher models.Publisher) (*models.Claim, error) {
	agg := &models.Claim{
		ID:                 c.ID,
		ReferenceID:        c.ReferenceID,
		Created:            c.Created,
		Modified:           c.Modified,
		Status:             c.Status,
		Details:            c.Details,
		WarrantyID:         c.WarrantyID,
		AffectedCoverageID: c.AffectedCoverageID,
		RemediationID:      c.RemediationID,
	}
	if c.LiabilityAmount.Valid {
		amount := c.LiabilityAmount.Decimal
		agg.LiabilityAmount = &amount
	}
	if c.Warranty != nil {
		warranty, err := c.Warranty.ToAggregate(publisher)
		if err != nil {
			return nil, err
		}
		agg.Warranty = warranty
	}
	if c.AffectedCoverage != nil {
		agg.AffectedCoverage = c.AffectedCoverage.ToAggregate(publisher)
	}
	if c.Evidence != nil {
		agg.Evidence = make([]*models.ClaimEvidence, 0, len(c.Evidence))
		for i := range c.Evidence {
			agg.Evidence = append(agg.Evidence, c.Evidence[i].ToAggregate(publisher))
		}
	}
	if c.Remediation != nil {
		remediation, err := c.Remediation.ToAggregate(publisher)
		if err != nil {
			return nil, err
		}
		agg.Remediation = remediation
	}
	if c.Activity != nil {
		agg.Activity = make([]*models.ClaimActivity, 0, len(c.Activity))
		for i := range c.Activity {
			agg.Activity = append(agg.Activity, c.Activity[i].ToAggregate(publisher))
		}
	}
	agg.MergeContext(publisher)
	return agg, nil
}

// ClaimActivityEntity represents one entry of a claim timeline.
type ClaimActivityEntity struct {
	ID      string       `gorm:"column:id;primaryKey;size:64"`
	Claim   *ClaimEntity `gorm:"foreignKey:ClaimID;references:ID"`
	ClaimID string       `gorm:"column:claimId;size:64;not null;index"`
	Icon    string       `gorm:"column:icon;not null"`
	Title   string       `gorm:"column:title;not null"`
	Message string       `gorm:"column:message;not null"`
	Created time.Time    `gorm:"column:created;autoCreateTime"`
}

func (ClaimActivityEntity) TableName() string { return "claim_activity" }

func (a *ClaimActivityEntity) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = NewID(ActivityPrefix)
	}
	return nil
}

// ToAggregate converts the row into a ClaimActivity.
func (a *ClaimActivityEntity) ToAggregate(publisher models.Publisher) *models.ClaimActivity {
	agg := &models.ClaimActivity{
		ID:      a.ID,
		ClaimID: a.ClaimID,
		Message: a.Message,
		Created: a.Created,
		Title:   a.Title,
		Icon:    a.Icon,
	}
	agg.MergeContext(publisher)
	return agg
}

// ClaimEvidenceEntity represents a document attached to a claim.
type ClaimEvidenceEntity struct {
	ID          string       `gorm:"column:id;primaryKey;size:64"`
	ReferenceID *string      `gorm:"column:referenceId;size:255"`
	Created     time.Time    `gorm:"column:created;autoCreateTime"`
	Modified    time.Time    `gorm:"column:modified;autoUpdateTime"`
	ClaimID     string       `gorm:"column:claimId;size:64;not null;index"`
	Claim       *ClaimEntity `gorm:"foreignKey:ClaimID;references:ID"`
}

func (ClaimEvidenceEntity) TableName() string { return "claim_evidence" }

func (v *ClaimEvidenceEntity) BeforeCreate(_ *gorm.DB) error {
	if v.ID == "" {
		v.ID = NewID(EvidencePrefix)
	}
	return nil
}

// ToAggregate converts the row into a ClaimEvidence.
func (v *ClaimEvidenceEntity) ToAggregate(publisher models.Publisher) *models.ClaimEvidence {
	agg := &models.ClaimEvidence{
		ID:          v.ID,
		ReferenceID: v.ReferenceID,
		Created:     v.Created,
		Modified:    v.Modified,
	}
	agg.MergeContext(publisher)
	return agg
}
