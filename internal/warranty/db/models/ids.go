// Package models contains the persistence entities of the warranty platform,
// configured to work using GORM as the ORM. Each entity maps one table and
// converts itself into a domain aggregate with ToAggregate.
package models

import (
	"strings"

	"github.com/google/uuid"
)

// Id prefixes per entity type.
const (
	CustomerPrefix      = "cus"
	AssetPrefix         = "ast"
	InspectionPrefix    = "insp"
	InspectorPrefix     = "inspct"
	PolicyPrefix        = "pol"
	CoveragePrefix      = "cov"
	ExclusionPrefix     = "exc"
	WarrantyPrefix      = "wrt"
	ClaimPrefix         = "clm"
	ActivityPrefix      = "act"
	EvidencePrefix      = "evd"
	RemediationPrefix   = "rem"
	ReimbursementPrefix = "rmb"
)

// NewID returns a fresh identifier of the form <prefix>_<32 hex chars>.
func NewID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// HasPrefix reports whether id was generated for prefix.
func HasPrefix(id, prefix string) bool {
	return strings.HasPrefix(id, prefix+"_")
}

// TenantEntities lists the tables of a tenant database in migration order.
func TenantEntities() []any {
	return []any{
		&CustomerEntity{},
		&InspectorEntity{},
		&AssetEntity{},
		&InspectionEntity{},
		&PolicyEntity{},
		&CoverageEntity{},
		&ExclusionEntity{},
		&WarrantyEntity{},
		&ReimbursementEntity{},
		&ClaimRemediationEntity{},
		&ClaimEntity{},
		&ClaimEvidenceEntity{},
		&ClaimActivityEntity{},
	}
}

// PlatformEntities lists the tables of the platform database.
func PlatformEntities() []any {
	return []any{&ConfigEntity{}}
}
