// Package store is the data-access boundary over profiles, contracts and jobs.
// A Store is constructed once at startup and handed to whoever needs reads;
// transactional mutations live in the settlement package and receive the same
// *gorm.DB.
package store

import (
	"context"
	"errors"

	"github.com/skilldesk/marketplace/internal/access"
	"github.com/skilldesk/marketplace/internal/errs"
	"github.com/skilldesk/marketplace/internal/models"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) ProfileByID(ctx context.Context, id uint) (*models.Profile, error) {
	var p models.Profile
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) ProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var p models.Profile
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ContractForParty returns the contract only when the caller is its client or
// contractor. Missing and not-yours are the same outcome.
func (s *Store) ContractForParty(ctx context.Context, profileID, contractID uint) (*models.Contract, error) {
	var c models.Contract
	err := s.db.WithContext(ctx).
		Scopes(access.Party(profileID)).
		Where("contracts.id = ?", contractID).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ContractsForParty lists the caller's non-terminated contracts.
func (s *Store) ContractsForParty(ctx context.Context, profileID uint) ([]models.Contract, error) {
	var cs []models.Contract
	err := s.db.WithContext(ctx).
		Scopes(access.Party(profileID), access.ActiveContracts).
		Order("contracts.id").
		Find(&cs).Error
	if err != nil {
		return nil, err
	}
	return cs, nil
}

// UnpaidJobsForParty lists unpaid jobs on the caller's non-terminated contracts.
func (s *Store) UnpaidJobsForParty(ctx context.Context, profileID uint) ([]models.Job, error) {
	var jobs []models.Job
	err := s.db.WithContext(ctx).
		Select("jobs.*").
		Joins("JOIN contracts ON contracts.id = jobs.contract_id").
		Scopes(access.Party(profileID), access.ActiveContracts).
		Where("jobs.paid = ?", false).
		Order("jobs.id").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}
