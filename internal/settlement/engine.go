// Package settlement holds the transactional core: paying a job and admitting
// a deposit. Both operations re-read the affected profile row under a row lock
// inside one transaction, so concurrent balance-affecting work on the same
// profile cannot interleave its read-then-write steps.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/skilldesk/marketplace/internal/errs"
	"github.com/skilldesk/marketplace/internal/metrics"
	"github.com/skilldesk/marketplace/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Engine struct {
	db              *gorm.DB
	maxDepositRatio decimal.Decimal
}

func New(db *gorm.DB, maxDepositRatio float64) *Engine {
	return &Engine{
		db:              db,
		maxDepositRatio: decimal.NewFromFloat(maxDepositRatio),
	}
}

// lockForUpdate takes a row lock on the queried profile. Sqlite allows a
// single writer and rejects the FOR UPDATE syntax, so the clause only applies
// to dialects that need it.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// lockJobsForUpdate locks the job rows of a joined query. The deposit guard
// needs its unpaid-total read to conflict with the settlement engine's
// paid-flip UPDATE on those same rows.
func lockJobsForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "jobs"}})
}

// PayJob marks the job paid and debits the caller's balance, all-or-nothing.
// The contract lookup is scoped by the caller as contractor; see DESIGN.md,
// this mirrors the upstream service and is pending product clarification.
// An unpaid, affordable, in-scope job is the only thing that can be paid;
// everything else is reported as a single not-found outcome.
func (e *Engine) PayJob(ctx context.Context, caller *models.Profile, jobID uint) (*models.Job, error) {
	var paid models.Job

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-read the balance under lock; the resolved profile may be stale.
		var payer models.Profile
		if err := lockForUpdate(tx).First(&payer, caller.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrNotFound
			}
			return err
		}

		var job models.Job
		err := tx.
			Select("jobs.*").
			Joins("JOIN contracts ON contracts.id = jobs.contract_id").
			Where("jobs.id = ?", jobID).
			Where("jobs.paid = ?", false).
			Where("jobs.price <= ?", payer.Balance).
			Where("contracts.contractor_id = ?", payer.ID).
			First(&job).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrNotFound
			}
			return err
		}

		now := time.Now().UTC()
		res := tx.Model(&models.Job{}).
			Where("id = ? AND paid = ?", job.ID, false).
			Updates(map[string]any{"paid": true, "payment_date": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("%w: job already paid", errs.ErrBusinessRule)
		}

		newBalance := payer.Balance.Sub(job.Price)
		if err := tx.Model(&models.Profile{}).
			Where("id = ?", payer.ID).
			Update("balance", newBalance).Error; err != nil {
			return err
		}

		job.Paid = true
		job.PaymentDate = &now
		paid = job
		return nil
	})
	if err != nil {
		metrics.PaymentsDeclined.Inc()
		return nil, classify(err)
	}

	metrics.PaymentsSettled.Inc()
	return &paid, nil
}

// classify keeps taxonomy errors as-is and folds anything the store produced
// into a transaction failure.
func classify(err error) error {
	switch {
	case errors.Is(err, errs.ErrNotFound),
		errors.Is(err, errs.ErrValidation),
		errors.Is(err, errs.ErrBusinessRule):
		return err
	default:
		return fmt.Errorf("%w: %v", errs.ErrTransaction, err)
	}
}
