package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RemediationStatus is the progress of a claim remediation.
type RemediationStatus string

const (
	RemediationPending    RemediationStatus = "PENDING"
	RemediationInProgress RemediationStatus = "IN_PROGRESS"
	RemediationCompleted  RemediationStatus = "COMPLETED"
	RemediationCancelled  RemediationStatus = "CANCELLED"
)

// ServiceReimbursementType is the discriminator of service reimbursements.
const ServiceReimbursementType = "service-reimbursement"

// ClaimRemediation is any way of settling a claim.
type ClaimRemediation interface {
	RemediationID() string
	RemediationType() string
}

// RemediationBase carries the fields shared by every remediation type.
type RemediationBase struct {
	AggregateRoot
	ID       string            `json:"id"`
	Created  time.Time         `json:"created"`
	Modified time.Time         `json:"modified"`
	Type     string            `json:"type"`
	Status   RemediationStatus `json:"status"`
}

func (r *RemediationBase) RemediationID() string   { return r.ID }
func (r *RemediationBase) RemediationType() string { return r.Type }

// ServiceReimbursement settles a claim by paying back a service invoice.
type ServiceReimbursement struct {
	RemediationBase
	FileName        *string        `json:"fileName"`
	ReimbursementID *string        `json:"reimbursementId"`
	Reimbursement   *Reimbursement `json:"reimbursement,omitempty"`
}

// ReimbursementStatus is the payout state of a reimbursement.
type ReimbursementStatus string

const (
	ReimbursementPending ReimbursementStatus = "PENDING"
	ReimbursementPaid    ReimbursementStatus = "PAID"
	ReimbursementFailed  ReimbursementStatus = "FAILED"
)

// Reimbursement is a payout to the customer.
type Reimbursement struct {
	AggregateRoot
	ID          string              `json:"id"`
	ReferenceID *string             `json:"referenceId"`
	Created     time.Time           `json:"created"`
	Modified    time.Time           `json:"modified"`
	Amount      decimal.Decimal     `json:"amount"`
	Status      ReimbursementStatus `json:"status"`
}
