package models

import "time"

// WarrantyStatus is the lifecycle state of a warranty.
type WarrantyStatus string

const (
	WarrantyPending   WarrantyStatus = "PENDING"
	WarrantyActivated WarrantyStatus = "ACTIVATED"
	WarrantyExpired   WarrantyStatus = "EXPIRED"
	WarrantyCancelled WarrantyStatus = "CANCELLED"
)

// HomeInspectionGuaranteeType is the discriminator of home inspection guarantees.
const HomeInspectionGuaranteeType = "home-inspection-guarantee"

// Warranty is any warranty contract. Concrete types are selected by WarrantyType.
type Warranty interface {
	WarrantyID() string
	WarrantyType() string
}

// WarrantyBase carries the fields shared by every warranty type.
type WarrantyBase struct {
	AggregateRoot
	ID             string         `json:"id"`
	ReferenceID    *string        `json:"referenceId"`
	Status         WarrantyStatus `json:"status"`
	Type           string         `json:"type"`
	Created        time.Time      `json:"created"`
	Modified       time.Time      `json:"modified"`
	ContractNumber string         `json:"contractNumber"`
	TermStart      time.Time      `json:"termStart"`
	TermDuration   int            `json:"termDuration"`
	PolicyID       string         `json:"policyId"`
	Policy         *Policy        `json:"policy,omitempty"`
	CustomerID     string         `json:"customerId"`
	Customer       *Customer      `json:"customer,omitempty"`
	AssetID        string         `json:"assetId"`
}

func (w *WarrantyBase) WarrantyID() string   { return w.ID }
func (w *WarrantyBase) WarrantyType() string { return w.Type }

// HomeInspectionGuarantee guarantees the findings of a home inspection.
type HomeInspectionGuarantee struct {
	WarrantyBase
	Asset        *HomeAsset      `json:"asset,omitempty"`
	InspectionID string          `json:"inspectionId"`
	Inspection   *HomeInspection `json:"inspection,omitempty"`
}
