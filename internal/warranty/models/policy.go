package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PolicyStatus is the publication state of a policy.
type PolicyStatus string

const (
	PolicyDraft        PolicyStatus = "DRAFT"
	PolicyPublished    PolicyStatus = "PUBLISHED"
	PolicyDiscontinued PolicyStatus = "DISCONTINUED"
)

// Policy is a warranty product with its coverages.
type Policy struct {
	AggregateRoot
	ID                            string       `json:"id"`
	ReferenceID                   *string      `json:"referenceId"`
	Created                       time.Time    `json:"created"`
	Modified                      time.Time    `json:"modified"`
	PolicyNumber                  string       `json:"policyNumber"`
	Title                         string       `json:"title"`
	TermDuration                  int          `json:"termDuration"`
	Status                        PolicyStatus `json:"status"`
	Coverages                     []*Coverage  `json:"coverages,omitempty"`
	TermsAndConditionsDownloadURL string       `json:"termsAndConditionsDownloadUrl"`
	IpidDownloadURL               string       `json:"ipidDownloadUrl"`
}

// Coverage is one covered peril of a policy.
type Coverage struct {
	AggregateRoot
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	ReferenceID    *string         `json:"referenceId"`
	Created        time.Time       `json:"created"`
	Modified       time.Time       `json:"modified"`
	Deductible     decimal.Decimal `json:"deductible"`
	LiabilityLimit decimal.Decimal `json:"liabilityLimit"`
	Exclusions     []*Exclusion    `json:"exclusions,omitempty"`
}

// Exclusion narrows what a coverage pays for.
type Exclusion struct {
	AggregateRoot
	ID          string    `json:"id"`
	ReferenceID *string   `json:"referenceId"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}
