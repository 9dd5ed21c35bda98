package models

import "time"

// HomeAssetType is the discriminator of home assets.
const HomeAssetType = "home"

// Asset is any insurable asset. Concrete types are selected by AssetType.
type Asset interface {
	AssetID() string
	AssetType() string
}

// AssetBase carries the fields shared by every asset type.
type AssetBase struct {
	AggregateRoot
	ID          string  `json:"id"`
	ReferenceID *string `json:"referenceId"`
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (a *AssetBase) AssetID() string   { return a.ID }
func (a *AssetBase) AssetType() string { return a.Type }

// Address is a postal address embedded in other aggregates.
type Address struct {
	Street1    string  `json:"street1"`
	Street2    *string `json:"street2"`
	City       string  `json:"city"`
	Region     string  `json:"region"`
	Country    string  `json:"country"`
	PostalCode string  `json:"postalCode"`
}

// HomeAsset is a residential property.
type HomeAsset struct {
	AssetBase
	Size    int     `json:"size"`
	Address Address `json:"address"`
}

// HomeInspectionType is the discriminator of home inspections.
const HomeInspectionType = "home"

// Inspection is any inspection of an asset.
type Inspection interface {
	InspectionID() string
	InspectionType() string
}

// InspectionBase carries the fields shared by every inspection type.
type InspectionBase struct {
	AggregateRoot
	ID          string     `json:"id"`
	ReferenceID *string    `json:"referenceId"`
	Type        string     `json:"type"`
	Timestamp   time.Time  `json:"timestamp"`
	InspectorID string     `json:"inspectorId"`
	Inspector   *Inspector `json:"inspector,omitempty"`
	CustomerID  string     `json:"customerId"`
	Customer    *Customer  `json:"customer,omitempty"`
	AssetID     string     `json:"assetId"`
}

func (i *InspectionBase) InspectionID() string   { return i.ID }
func (i *InspectionBase) InspectionType() string { return i.Type }

// HomeInspection is an inspection of a home asset.
type HomeInspection struct {
	InspectionBase
	Asset                  *HomeAsset `json:"asset,omitempty"`
	StructuralCondition    bool       `json:"structuralCondition"`
	NonStructuralCondition bool       `json:"nonStructuralCondition"`
}
