package models

// Customer is the owner of assets and warranties.
type Customer struct {
	AggregateRoot
	ID          string  `json:"id"`
	ReferenceID *string `json:"referenceId"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone"`
}

// Inspector performs inspections on assets.
type Inspector struct {
	AggregateRoot
	ID          string  `json:"id"`
	ReferenceID *string `json:"referenceId"`
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
}

// PlatformConfig holds the branding of a tenant.
type PlatformConfig struct {
	TenantID    string  `json:"tenantId"`
	ProductName string  `json:"productName"`
	BrandName   string  `json:"brandName"`
	TagLine     string  `json:"tagLine"`
	Prefix      string  `json:"prefix"`
	PrColor     string  `json:"prColor"`
	AcColor     *string `json:"acColor"`
	Logo        string  `json:"logo"`
	Avatar      string  `json:"avatar"`
}
