package models

import (
	"fmt"
	"time"

	e "github.com/gartstein/warranty/internal/warranty/errors"
	"github.com/shopspring/decimal"
)

// ClaimStatus is the processing state of a claim.
type ClaimStatus string

const (
	ClaimDraft     ClaimStatus = "DRAFT"
	ClaimOpen      ClaimStatus = "OPEN"
	ClaimApproved  ClaimStatus = "APPROVED"
	ClaimRejected  ClaimStatus = "REJECTED"
	ClaimCancelled ClaimStatus = "CANCELLED"
	ClaimClosed    ClaimStatus = "CLOSED"
)

// Valid reports whether s is a known claim status.
func (s ClaimStatus) Valid() bool {
	switch s {
	case ClaimDraft, ClaimOpen, ClaimApproved, ClaimRejected, ClaimCancelled, ClaimClosed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s ClaimStatus) Terminal() bool {
	return s == ClaimCancelled || s == ClaimClosed
}

// ClaimAggregateType names claims in events.
const ClaimAggregateType = "claim"

// Claim is a request for remediation under a warranty coverage.
type Claim struct {
	AggregateRoot
	ID                 string           `json:"id"`
	ReferenceID        *string          `json:"referenceId"`
	Created            time.Time        `json:"created"`
	Modified           time.Time        `json:"modified"`
	Status             ClaimStatus      `json:"status"`
	Details            string           `json:"details"`
	LiabilityAmount    *decimal.Decimal `json:"liabilityAmount"`
	WarrantyID         string           `json:"warrantyId"`
	Warranty           Warranty         `json:"warranty,omitempty"`
	AffectedCoverageID string           `json:"affectedCoverageId"`
	AffectedCoverage   *Coverage        `json:"affectedCoverage,omitempty"`
	Evidence           []*ClaimEvidence `json:"evidence,omitempty"`
	RemediationID      *string          `json:"remediationId"`
	Remediation        ClaimRemediation `json:"remediation,omitempty"`
	Activity           []*ClaimActivity `json:"activity,omitempty"`
}

// ClaimStatusChange is the payload of ClaimStatusChanged.
type ClaimStatusChange struct {
	ClaimID string      `json:"claimId"`
	From    ClaimStatus `json:"from"`
	To      ClaimStatus `json:"to"`
}

// ChangeStatus moves the claim to status and records ClaimStatusChanged.
// Setting the current status again is a no-op.
func (c *Claim) ChangeStatus(tenantID string, status ClaimStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown claim status %q", e.ErrInvalidInput, status)
	}
	if status == c.Status {
		return nil
	}
	if c.Status.Terminal() {
		return fmt.Errorf("%w: claim %s is %s", e.ErrInvalidTransition, c.ID, c.Status)
	}

	event, err := NewEvent(ClaimStatusChanged, ClaimAggregateType, c.ID, tenantID, ClaimStatusChange{
		ClaimID: c.ID,
		From:    c.Status,
		To:      status,
	})
	if err != nil {
		return err
	}
	c.Status = status
	c.Modified = event.OccurredAt
	c.Apply(event)
	return nil
}

// ClaimActivity is one entry of a claim timeline.
type ClaimActivity struct {
	AggregateRoot
	ID      string    `json:"id"`
	ClaimID string    `json:"claimId"`
	Icon    string    `json:"icon"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Created time.Time `json:"created"`
}

// ClaimEvidence is a document supporting a claim.
type ClaimEvidence struct {
	AggregateRoot
	ID          string    `json:"id"`
	ReferenceID *string   `json:"referenceId"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
}
