package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/skilldesk/marketplace/internal/errs"
	"github.com/skilldesk/marketplace/internal/metrics"
	"github.com/skilldesk/marketplace/internal/models"
	"gorm.io/gorm"
)

// Deposit credits a client's balance after checking the ceiling: the amount
// may not exceed maxDepositRatio of the client's unpaid job total across
// non-terminated contracts. The check and the credit happen in one
// transaction: the profile row and the unpaid job rows are both locked, so a
// concurrent settlement that would shrink the total blocks until the deposit
// commits, and vice versa.
func (e *Engine) Deposit(ctx context.Context, clientID uint, amount decimal.Decimal) (*models.Profile, error) {
	if !amount.IsPositive() {
		metrics.DepositsDeclined.Inc()
		return nil, fmt.Errorf("%w: amount must be positive", errs.ErrValidation)
	}

	var updated models.Profile

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client models.Profile
		err := lockForUpdate(tx).
			Where("id = ? AND type = ?", clientID, models.TypeClient).
			First(&client).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrNotFound
			}
			return err
		}

		// Lock the unpaid rows, then sum in-app. A SUM cannot take row
		// locks, and an unlocked read could admit a deposit against a
		// total that a concurrent payment already shrank.
		var unpaidJobs []models.Job
		err = lockJobsForUpdate(tx).
			Select("jobs.*").
			Joins("JOIN contracts ON contracts.id = jobs.contract_id").
			Where("contracts.client_id = ?", client.ID).
			Where("contracts.status <> ?", models.StatusTerminated).
			Where("jobs.paid = ?", false).
			Find(&unpaidJobs).Error
		if err != nil {
			return err
		}

		unpaidTotal := decimal.Zero
		for _, job := range unpaidJobs {
			unpaidTotal = unpaidTotal.Add(job.Price)
		}

		ceiling := unpaidTotal.Mul(e.maxDepositRatio)
		if amount.GreaterThan(ceiling) {
			return fmt.Errorf("%w: deposit exceeds %s of unpaid total %s",
				errs.ErrBusinessRule, e.maxDepositRatio, unpaidTotal)
		}

		client.Balance = client.Balance.Add(amount)
		if err := tx.Model(&models.Profile{}).
			Where("id = ?", client.ID).
			Update("balance", client.Balance).Error; err != nil {
			return err
		}

		updated = client
		return nil
	})
	if err != nil {
		metrics.DepositsDeclined.Inc()
		return nil, classify(err)
	}

	metrics.DepositsAdmitted.Inc()
	return &updated, nil
}
