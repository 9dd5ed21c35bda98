package models

import (
	"time"

	"github.com/gartstein/warranty/internal/warranty/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PolicyEntity represents a warranty policy row.
type PolicyEntity struct {
	ID                            string              `gorm:"column:id;primaryKey;size:64"`
	ReferenceID                   *string             `gorm:"column:referenceId;size:255"`
	Created                       time.Time           `gorm:"column:created;autoCreateTime"`
	Modified                      time.Time           `gorm:"column:modified;autoUpdateTime"`
	PolicyNumber                  string              `gorm:"column:policyNumber;not null"`
	Title                         string              `gorm:"column:title;not null"`
	TermDuration                  int                 `gorm:"column:termDuration;not null"`
	Status                        models.PolicyStatus `gorm:"column:status;size:32;not null"`
	Coverages                     []CoverageEntity    `gorm:"foreignKey:PolicyID;references:ID"`
	TermsAndConditionsDownloadURL string              `gorm:"column:termsAndConditionsDownloadUrl;not null"`
	IpidDownloadURL               string              `gorm:"column:ipidDownloadUrl;not null"`
}

func (PolicyEntity) TableName() string { return "warranty_policy" }

func (p *PolicyEntity) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID(PolicyPrefix)
	}
	return nil
}

// ToAggregate converts the row and its loaded coverages into a Policy.
func (p *PolicyEntity) ToAggregate(publisher models.Publisher) *models.Policy {
	agg := &models.Policy{
		ID:                            p.ID,
		ReferenceID:                   p.ReferenceID,
		Created:                       p.Created,
		Modified:                      p.Modified,
		PolicyNumber:                  p.PolicyNumber,
		Title:                         p.Title,
		TermDuration:                  p.TermDuration,
		Status:                        p.Status,
		TermsAndConditionsDownloadURL: p.TermsAndConditionsDownloadURL,
		IpidDownloadURL:               p.IpidDownloadURL,
	}
	if p.Coverages != nil {
		agg.Coverages = make([]*models.Coverage, 0, len(p.Coverages))
		for i := range p.Coverages {
			agg.Coverages = append(agg.Coverages, p.Coverages[i].ToAggregate(publisher))
		}
	}
	agg.MergeContext(publisher)
	return agg
}

// CoverageEntity represents a warranty coverage row.
type CoverageEntity struct {
	ID             string            `gorm:"column:id;primaryKey;size:64"`
	Title          string            `gorm:"column:title;not null"`
	ReferenceID    *string           `gorm:"column:referenceId;size:255"`
	Created        time.Time         `gorm:"column:created;autoCreateTime"`
	Modified       time.Time         `gorm:"column:modified;autoUpdateTime"`
	Deductible     decimal.Decimal   `gorm:"column:deductible;type:decimal(12,2);not null"`
	LiabilityLimit decimal.Decimal   `gorm:"column:liabilityLimit;type:decimal(12,2);not null"`
	PolicyID       string            `gorm:"column:policyId;size:64;not null;index"`
	Policy         *PolicyEntity     `gorm:"foreignKey:PolicyID;references:ID"`
	Exclusions     []ExclusionEntity `gorm:"foreignKey:CoverageID;references:ID"`
}

func (CoverageEntity) TableName() string { return "warranty_coverage" }

func (c *CoverageEntity) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID(CoveragePrefix)
	}
	return nil
}

// ToAggregate converts the row and its loaded exclusions into a Coverage.
// The owning policy is not carried over.
func (c *CoverageEntity) ToAggregate(publisher models.Publisher) *models.Coverage {
	agg := &models.Coverage{
		ID:             c.ID,
		Title:          c.Title,
		ReferenceID:    c.ReferenceID,
		Created:        c.Created,
		Modified:       c.Modified,
		Deductible:     c.Deductible,
		LiabilityLimit: c.LiabilityLimit,
	}
	if c.Exclusions != nil {
		agg.Exclusions = make([]*models.Exclusion, 0, len(c.Exclusions))
		for i := range c.Exclusions {
			agg.Exclusions = append(agg.Exclusions, c.Exclusions[i].ToAggregate(publisher))
		}
	}
	agg.MergeContext(publisher)
	return agg
}

// ExclusionEntity represents a warranty exclusion row.
type ExclusionEntity struct {
	ID          string          `gorm:"column:id;primaryKey;size:64"`
	ReferenceID *string         `gorm:"column:referenceId;size:255"`
	Created     time.Time       `gorm:"column:created;autoCreateTime"`
	Modified    time.Time       `gorm:"column:modified;autoUpdateTime"`
	Title       string          `gorm:"column:title;not null"`
	Description string          `gorm:"column:description;not null"`
	CoverageID  string          `gorm:"column:coverageId;size:64;not null;index"`
	Coverage    *CoverageEntity `gorm:"foreignKey:CoverageID;references:ID"`
}

func (ExclusionEntity) TableName() string { return "warranty_exclusion" }

func (x *ExclusionEntity) BeforeCreate(_ *gorm.DB) error {
	if x.ID == "" {
		x.ID = NewID(ExclusionPrefix)
	}
	return nil
}

// ToAggregate converts the row into an Exclusion.
func (x *ExclusionEntity) ToAggregate(publisher models.Publisher) *models.Exclusion {
	agg := &models.Exclusion{
		ID:          x.ID,
		ReferenceID: x.ReferenceID,
		Created:     x.Created,
		Modified:    x.Modified,
		Title:       x.Title,
		Description: x.Description,
	}
	agg.MergeContext(publisher)
	return agg
}
