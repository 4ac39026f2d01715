// Package access builds the identity-scoped predicates that restrict which
// contracts and jobs a resolved profile may see. Scopes are pure: they close
// over the identity and touch no state.
package access

import (
	"fmt"

	"github.com/skilldesk/marketplace/internal/errs"
	"github.com/skilldesk/marketplace/internal/models"
	"gorm.io/gorm"
)

// Party scopes a query to contracts the profile is a party to, on either side.
// Column names are qualified so the scope works both on contract queries and on
// job queries that join contracts.
func Party(profileID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("contracts.client_id = ? OR contracts.contractor_id = ?", profileID, profileID)
	}
}

// ByType scopes a query to the single contract side matching the profile's
// type. The type is validated before any predicate is built; an unrecognized
// type is an authorization failure, not a lookup miss.
func ByType(profileID uint, profileType models.ProfileType) (func(*gorm.DB) *gorm.DB, error) {
	var column string
	switch profileType {
	case models.TypeClient:
		column = "contracts.client_id"
	case models.TypeContractor:
		column = "contracts.contractor_id"
	default:
		return nil, fmt.Errorf("%w: unauthorized profile type %q", errs.ErrValidation, profileType)
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", profileID)
	}, nil
}

// ActiveContracts excludes terminated contracts.
func ActiveContracts(db *gorm.DB) *gorm.DB {
	return db.Where("contracts.status <> ?", models.StatusTerminated)
}
