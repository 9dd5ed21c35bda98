package models

import (
	"github.com/gartstein/warranty/internal/warranty/models"
	"gorm.io/gorm"
)

// CustomerEntity represents a customer row.
type CustomerEntity struct {
	ID          string  `gorm:"column:id;primaryKey;size:64"`
	ReferenceID *string `gorm:"column:referenceId;size:255;uniqueIndex"`
	Name        string  `gorm:"column:name;not null"`
	Email       string  `gorm:"column:email;not null"`
	Phone       *string `gorm:"column:phone"`
}

func (CustomerEntity) TableName() string { return "customer" }

func (c *CustomerEntity) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID(CustomerPrefix)
	}
	return nil
}

// ToAggregate converts the row into a Customer aggregate.
func (c *CustomerEntity) ToAggregate(publisher models.Publisher) *models.Customer {
	agg := &models.Customer{
		ID:          c.ID,
		ReferenceID: c.ReferenceID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
	}
	agg.MergeContext(publisher)
	return agg
}

// InspectorEntity represents an inspector row.
type InspectorEntity struct {
	ID          string  `gorm:"column:id;primaryKey;size:64"`
	ReferenceID *string `gorm:"column:referenceId;size:255;uniqueIndex"`
	Name        *string `gorm:"column:name"`
	Email       *string `gorm:"column:email"`
	Phone       *string `gorm:"column:phone"`
}

func (InspectorEntity) TableName() string { return "inspector" }

func (i *InspectorEntity) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = NewID(InspectorPrefix)
	}
	return nil
}

// ToAggregate converts the row into an Inspector aggregate.
func (i *InspectorEntity) ToAggregate(publisher models.Publisher) *models.Inspector {
	agg := &models.Inspector{
		ID:          i.ID,
		ReferenceID: i.ReferenceID,
		Name:        i.Name,
		Email:       i.Email,
		Phone:       i.Phone,
	}
	agg.MergeContext(publisher)
	return agg
}

// ConfigEntity is the branding of a tenant, stored in the platform database.
type ConfigEntity struct {
	TenantID    string  `gorm:"column:tenantId;primaryKey;size:64"`
	ProductName string  `gorm:"column:productName;not null"`
	BrandName   string  `gorm:"column:brandName;not null"`
	TagLine     string  `gorm:"column:tagLine;not null"`
	Prefix      string  `gorm:"column:prefix;not null"`
	PrColor     string  `gorm:"column:prColor;not null"`
	AcColor     *string `gorm:"column:acColor"`
	Logo        string  `gorm:"column:logo;not null"`
	Avatar      string  `gorm:"column:avatar;not null"`
}

func (ConfigEntity) TableName() string { return "config" }

// ToModel converts the row into a PlatformConfig.
func (c *ConfigEntity) ToModel() *models.PlatformConfig {
	return &models.PlatformConfig{
		TenantID:    c.TenantID,
		ProductName: c.ProductName,
		BrandName:   c.BrandName,
		TagLine:     c.TagLine,
		Prefix:      c.Prefix,
		PrColor:     c.PrColor,
		AcColor:     c.AcColor,
		Logo:        c.Logo,
		Avatar:      c.Avatar,
	}
}
