package models

import (
	"fmt"
	"time"

	"github.com/gartstein/warranty/internal/pkg/utils"
	e "github.com/gartstein/warranty/internal/warranty/errors"
	"github.com/gartstein/warranty/internal/warranty/models"
	"gorm.io/gorm"
)

// InspectionEntity represents a row of the inspection table. The type
// column selects the concrete inspection; columns of subtypes are nullable.
type InspectionEntity struct {
	ID          string           `gorm:"column:id;primaryKey;size:64"`
	ReferenceID *string          `gorm:"column:referenceId;size:255;uniqueIndex"`
	Type        string           `gorm:"column:type;size:64;not null;index"`
	Timestamp   time.Time        `gorm:"column:timestamp;not null"`
	InspectorID string           `gorm:"column:inspectorId;size:64;not null;index"`
	Inspector   *InspectorEntity `gorm:"foreignKey:InspectorID;references:ID"`
	CustomerID  string           `gorm:"column:customerId;size:64;not null;index"`
	Customer    *CustomerEntity  `gorm:"foreignKey:CustomerID;references:ID"`
	AssetID     string           `gorm:"column:assetId;size:64;not null;index"`
	Asset       *AssetEntity     `gorm:"foreignKey:AssetID;references:ID"`

	// home
	StructuralCondition    *bool `gorm:"column:structuralCondition"`
	NonStructuralCondition *bool `gorm:"column:nonStructuralCondition"`
}

func (InspectionEntity) TableName() string { return "inspection" }

func (i *InspectionEntity) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = NewID(InspectionPrefix)
	}
	return nil
}

// ToAggregate converts the row into the inspection type named by its discriminator.
func (i *InspectionEntity) ToAggregate(publisher models.Publisher) (models.Inspection, error) {
	switch i.Type {
	case models.HomeInspectionType:
		return i.ToHomeInspection(publisher), nil
	default:
		return nil, fmt.Errorf("%w: inspection %s has type %q", e.ErrUnknownType, i.ID, i.Type)
	}
}

// ToHomeInspection converts the row into a HomeInspection. Relations are
// converted only when loaded.
func (i *InspectionEntity) ToHomeInspection(publisher models.Publisher) *models.HomeInspection {
	agg := &models.HomeInspection{
		InspectionBase: models.InspectionBase{
			ID:          i.ID,
			ReferenceID: i.ReferenceID,
			Timestamp:   i.Timestamp,
			Type:        i.Type,
			AssetID:     i.AssetID,
			CustomerID:  i.CustomerID,
			InspectorID: i.InspectorID,
		},
		Asset:                  homeAsset(i.Asset, publisher),
		StructuralCondition:    utils.Deref(i.StructuralCondition),
		NonStructuralCondition: utils.Deref(i.NonStructuralCondition),
	}
	if i.Customer != nil {
		agg.Customer = i.Customer.ToAggregate(publisher)
	}
	if i.Inspector != nil {
		agg.Inspector = i.Inspector.ToAggregate(publisher)
	}
	agg.MergeContext(publisher)
	return agg
}
