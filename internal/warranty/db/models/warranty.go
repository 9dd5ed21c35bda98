package models

import (
	"fmt"
	"time"

	"github.com/gartstein/warranty/internal/pkg/utils"
	e "github.com/gartstein/warranty/internal/warranty/errors"
	"github.com/gartstein/warranty/internal/warranty/models"
	"gorm.io/gorm"
)

// WarrantyEntity represents a row of the warranty table. The type column
// selects the concrete warranty; columns of subtypes are nullable.
type WarrantyEntity struct {
	ID             string                `gorm:"column:id;primaryKey;size:64"`
	ReferenceID    *string               `gorm:"column:referenceId;size:255;uniqueIndex"`
	Status         models.WarrantyStatus `gorm:"column:status;size:32;not null"`
	Type           string                `gorm:"column:type;size:64;not null;index"`
	Created        time.Time             `gorm:"column:created;autoCreateTime"`
	Modified       time.Time             `gorm:"column:modified;autoUpdateTime"`
	ContractNumber string                `gorm:"column:contractNumber;not null"`
	TermStart      time.Time             `gorm:"column:termStart;not null"`
	TermDuration   int                   `gorm:"column:termDuration;not null"`
	PolicyID       string                `gorm:"column:policyId;size:64;not null;index"`
	Policy         *PolicyEntity         `gorm:"foreignKey:PolicyID;references:ID"`
	CustomerID     string                `gorm:"column:customerId;size:64;not null;index"`
	Customer       *CustomerEntity       `gorm:"foreignKey:CustomerID;references:ID"`
	AssetID        string                `gorm:"column:assetId;size:64;not null;index"`
	Asset          *AssetEntity          `gorm:"foreignKey:AssetID;references:ID"`

	// home-inspection-guarantee
	InspectionID *string          `gorm:"column:inspectionId;size:64;index"`
	Inspection   *InspectionEntity `gorm:"foreignKey:InspectionID;references:ID"`
}

func (WarrantyEntity) TableName() string { return "warranty" }

func (w *WarrantyEntity) BeforeCreate(_ *gorm.DB) error {
	if w.ID == "" {
		w.ID = NewID(WarrantyPrefix)
	}
	return nil
}

// ToAggregate converts the row into the warranty type named by its discriminator.
func (w *WarrantyEntity) ToAggregate(publisher models.Publisher) (models.Warranty, error) {
	switch w.Type {
	case models.HomeInspectionGuaranteeType:
		return w.ToHomeInspectionGuarantee(publisher), nil
	default:
		return nil, fmt.Errorf("%w: warranty %s has type %q", e.ErrUnknownType, w.ID, w.Type)
	}
}

// ToHomeInspectionGuarantee converts the row into a HomeInspectionGuarantee.
// The asset is carried over only when the loaded asset is a home asset.
func (w *WarrantyEntity) ToHomeInspectionGuarantee(publisher models.Publisher) *models.HomeInspectionGuarantee {
	agg := &models.HomeInspectionGuarantee{
		WarrantyBase: models.WarrantyBase{
			ID:             w.ID,
			ReferenceID:    w.ReferenceID,
			Status:         w.Status,
			Type:           w.Type,
			Created:        w.Created,
			Modified:       w.Modified,
			ContractNumber: w.ContractNumber,
			TermStart:      w.TermStart,
			TermDuration:   w.TermDuration,
			AssetID:        w.AssetID,
			PolicyID:       w.PolicyID,
			CustomerID:     w.CustomerID,
		},
		Asset:        homeAsset(w.Asset, publisher),
		InspectionID: utils.Deref(w.InspectionID),
	}
	if w.Policy != nil {
		agg.Policy = w.Policy.ToAggregate(publisher)
	}
	if w.Customer != nil {
		agg.Customer = w.Customer.ToAggregate(publisher)
	}
	if w.Inspection != nil && w.Inspection.Type == models.HomeInspectionType {
		agg.Inspection = w.Inspection.ToHomeInspection(publisher)
	}
	agg.MergeContext(publisher)
	return agg
}
