package models

import (
	"fmt"

	"github.com/gartstein/warranty/internal/pkg/utils"
	e "github.com/gartstein/warranty/internal/warranty/errors"
	"github.com/gartstein/warranty/internal/warranty/models"
	"gorm.io/gorm"
)

// AddressEmbedded is a postal address stored inline with its owner.
// All columns are nullable because the owning table is shared by types
// that have no address.
type AddressEmbedded struct {
	Street1    *string `gorm:"column:Street1"`
	Street2    *string `gorm:"column:Street2"`
	City       *string `gorm:"column:City"`
	Region     *string `gorm:"column:Region"`
	Country    *string `gorm:"column:Country"`
	PostalCode *string `gorm:"column:PostalCode"`
}

// ToAggregate converts the embedded columns into an Address.
func (a AddressEmbedded) ToAggregate() models.Address {
	return models.Address{
		Street1:    utils.Deref(a.Street1),
		Street2:    a.Street2,
		City:       utils.Deref(a.City),
		Region:     utils.Deref(a.Region),
		Country:    utils.Deref(a.Country),
		PostalCode: utils.Deref(a.PostalCode),
	}
}

// AssetEntity represents a row of the asset table. The type column selects
// the concrete asset; columns of subtypes are nullable.
type AssetEntity struct {
	ID          string  `gorm:"column:id;primaryKey;size:64"`
	ReferenceID *string `gorm:"column:referenceId;size:255;uniqueIndex"`
	Type        string  `gorm:"column:type;size:64;not null;index"`
	Name        string  `gorm:"column:name;not null"`
	Description *string `gorm:"column:description;type:text"`

	// home
	Size    *int            `gorm:"column:size"`
	Address AddressEmbedded `gorm:"embedded;embeddedPrefix:address"`
}

func (AssetEntity) TableName() string { return "asset" }

func (a *AssetEntity) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = NewID(AssetPrefix)
	}
	return nil
}

// IsHome reports whether the row is a home asset.
func (a *AssetEntity) IsHome() bool {
	return a != nil && a.Type == models.HomeAssetType
}

// ToAggregate converts the row into the asset type named by its discriminator.
func (a *AssetEntity) ToAggregate(publisher models.Publisher) (models.Asset, error) {
	switch a.Type {
	case models.HomeAssetType:
		return a.ToHomeAsset(publisher), nil
	default:
		return nil, fmt.Errorf("%w: asset %s has type %q", e.ErrUnknownType, a.ID, a.Type)
	}
}

// ToHomeAsset converts the row into a HomeAsset regardless of its discriminator.
func (a *AssetEntity) ToHomeAsset(publisher models.Publisher) *models.HomeAsset {
	agg := &models.HomeAsset{
		AssetBase: models.AssetBase{
			ID:          a.ID,
			ReferenceID: a.ReferenceID,
			Type:        a.Type,
			Name:        a.Name,
			Description: a.Description,
		},
		Size:    utils.Deref(a.Size),
		Address: a.Address.ToAggregate(),
	}
	agg.MergeContext(publisher)
	return agg
}

// homeAsset converts a loaded relation only when it holds a home asset.
func homeAsset(a *AssetEntity, publisher models.Publisher) *models.HomeAsset {
	if !a.IsHome() {
		return nil
	}
	return a.ToHomeAsset(publisher)
}
