// Package reporting answers read-only analytics over settled payments. No
// locking: snapshot consistency from the store is enough here.
package reporting

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/skilldesk/marketplace/internal/models"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

type ClientTotal struct {
	ID        uint            `json:"id"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Paid      decimal.Decimal `json:"paid"`
}

// BestProfession returns the contractor profession that earned the most from
// jobs paid within [start, end], or "" when nothing was paid in range. Equal
// sums tie-break on ascending profession name.
func (s *Service) BestProfession(ctx context.Context, start, end time.Time) (string, error) {
	var rows []struct {
		Profession string
		Total      decimal.Decimal
	}
	err := s.db.WithContext(ctx).Model(&models.Job{}).
		Select("profiles.profession AS profession, SUM(jobs.price) AS total").
		Joins("JOIN contracts ON contracts.id = jobs.contract_id").
		Joins("JOIN profiles ON profiles.id = contracts.contractor_id").
		Where("jobs.paid = ?", true).
		Where("jobs.payment_date BETWEEN ? AND ?", start, end).
		Group("profiles.profession").
		Order("total DESC").
		Order("profiles.profession ASC").
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].Profession, nil
}

// BestClients returns up to limit clients ordered by total paid within
// [start, end]. Equal sums tie-break on ascending client id.
func (s *Service) BestClients(ctx context.Context, start, end time.Time, limit int) ([]ClientTotal, error) {
	if limit <= 0 {
		limit = 1
	}
	var rows []ClientTotal
	err := s.db.WithContext(ctx).Model(&models.Job{}).
		Select("profiles.id AS id, profiles.first_name AS first_name, profiles.last_name AS last_name, SUM(jobs.price) AS paid").
		Joins("JOIN contracts ON contracts.id = jobs.contract_id").
		Joins("JOIN profiles ON profiles.id = contracts.client_id").
		Where("jobs.payment_date BETWEEN ? AND ?", start, end).
		Group("profiles.id, profiles.first_name, profiles.last_name").
		Order("paid DESC").
		Order("profiles.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
