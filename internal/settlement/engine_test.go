package settlement

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/skilldesk/marketplace/internal/errs"
	"github.com/skilldesk/marketplace/internal/models"
	"github.com/skilldesk/marketplace/internal/testutil"
)

func balanceOf(t *testing.T, e *Engine, id uint) decimal.Decimal {
	t.Helper()
	var p models.Profile
	if err := e.db.First(&p, id).Error; err != nil {
		t.Fatalf("load profile %d: %v", id, err)
	}
	return p.Balance
}

func jobByID(t *testing.T, e *Engine, id uint) models.Job {
	t.Helper()
	var j models.Job
	if err := e.db.First(&j, id).Error; err != nil {
		t.Fatalf("load job %d: %v", id, err)
	}
	return j
}

func TestPayJobSettlesExactly(t *testing.T) {
	db := testutil.DB(t)
	engine := New(db, 0.25)
	ctx := context.Background()

	client := testutil.SeedProfile(t, db, models.TypeClient, "manager", "500.00")
	payer := testutil.SeedProfile(t, db, models.TypeContractor, "programmer", "100.00")
	contract := testutil.SeedContract(t, db, client.ID, payer.ID, models.StatusInProgress)
	job := testutil.SeedJob(t, db, contract.ID, "100.00", nil)

	got, err := engine.PayJob(ctx, payer, job.ID)
	if err != nil {
		t.Fatalf("PayJob: %v", err)
	}
	if !got.Paid {
		t.Fatal("PayJob: returned job not marked paid")
	}
	if got.PaymentDate == nil {
		t.Fatal("PayJob: payment date not set")
	}

	stored := jobByID(t, engine, job.ID)
	if !stored.Paid || stored.PaymentDate == nil {
		t.Fatalf("job not persisted as paid: %+v", stored)
	}
	if got := balanceOf(t, engine, payer.ID); !got.Equal(decimal.Zero) {
		t.Fatalf("payer balance = %s, want 0", got)
	}
	if got := balanceOf(t, engine, client.ID); !got.Equal(decimal.RequireFromString("500.00")) {
		t.Fatalf("other party balance changed: %s", got)
	}
}

func TestPayJobRejectsSecondAttempt(t *testing.T) {
	db := testutil.DB(t)
	engine := New(db, 0.25)
	ctx := context.Background()

	client := testutil.SeedProfile(t, db, models.TypeClient, "manager", "500.00")
	payer := testutil.SeedProfile(t, db, models.TypeContractor, "programmer", "300.00")
	contract := testutil.SeedContract(t, db, client.ID, payer.ID, models.StatusInProgress)
	job := testutil.SeedJob(t, db, contract.ID, "100.00", nil)

	if _, err := engine.PayJob(ctx, payer, job.ID); err != nil {
		t.Fatalf("first PayJob: %v", err)
	}
	if _, err := engine.PayJob(ctx, payer, job.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("second PayJob err = %v, want not found", err)
	}
	if got := balanceOf(t, engine, payer.ID); !got.Equal(decimal.RequireFromString("200.00")) {
		t.Fatalf("balance debited twice: %s", got)
	}
}

func TestPayJobInsufficientBalance(t *testing.T) {
	db := testutil.DB(t)
	engine := New(db, 0.25)
	ctx := context.Background()

	client := testutil.SeedProfile(t, db, models.TypeClient, "manager", "500.00")
	payer := testutil.SeedProfile(t, db, models.TypeContractor, "programmer", "50.00")
	contract := testutil.SeedContract(t, db, client.ID, payer.ID, models.StatusInProgress)
	job := testutil.SeedJob(t, db, contract.ID, "100.00", nil)

	if _, err := engine.PayJob(ctx, payer, job.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("PayJob err = %v, want not found", err)
	}

	stored := jobByID(t, engine, job.ID)
	if stored.Paid || stored.PaymentDate != nil {
		t.Fatalf("job mutated on declined payment: %+v", stored)
	}
	if got := balanceOf(t, engine, payer.ID); !got.Equal(decimal.RequireFromString("50.00")) {
		t.Fatalf("balance mutated on declined payment: %s", got)
	}
}

// The contract lookup is scoped by the caller as contractor, so the contract's
// client cannot trigger settlement. Mirrors the upstream service; flagged in
// DESIGN.md as a likely party inversion.
func TestPayJobScopedToContractor(t *testing.T) {
	db := testutil.DB(t)
	engine := New(db, 0.25)
	ctx := context.Background()

	client := testutil.SeedProfile(t, db, models.TypeClient, "manager", "500.00")
	contractor := testutil.SeedProfile(t, db, models.TypeContractor, "programmer", "500.00")
	contract := testutil.SeedContract(t, db, client.ID, contractor.ID, models.StatusInProgress)
	job := testutil.SeedJob(t, db, contract.ID, "100.00", nil)

	if _, err := engine.PayJob(ctx, client, job.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("client-scoped PayJob err = %v, want not found", err)
	}
	if _, err := engine.PayJob(ctx, contractor, job.ID); err != nil {
		t.Fatalf("contractor-scoped PayJob: %v", err)
	}
}

func TestPayJobUnknownJob(t *testing.T) {
	db := testutil.DB(t)
	engine := New(db, 0.25)

	payer := testutil.SeedProfile(t, db, models.TypeContractor, "programmer", "500.00")

	if _, err := engine.PayJob(context.Background(), payer, 9999); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("PayJob err = %v, want not found", err)
	}
}

func TestConcurrentPaymentsCannotOverdraw(t *testing.T) {
	db := testutil.DB(t)
	engine := New(db, 0.25)
	ctx := context.Background()

	client := testutil.SeedProfile(t, db, models.TypeClient, "manager", "500.00")
	payer := testutil.SeedProfile(t, db, models.TypeContractor, "programmer", "150.00")
	contract := testutil.SeedContract(t, db, client.ID, payer.ID, models.StatusInProgress)
	jobA := testutil.SeedJob(t, db, contract.ID, "100.00", nil)
	jobB := testutil.SeedJob(t, db, contract.ID, "100.00", nil)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, id := range []uint{jobA.ID, jobB.ID} {
		wg.Add(1)
		go func(i int, id uint) {
			defer wg.Done()
			_, results[i] = engine.PayJob(ctx, payer, id)
		}(i, id)
	}
	wg.Wait()

	var succeeded int
	for _, err := range results {
		if err == nil {
			succeeded++
		}
	}
	if succeeded != 1 {
		t.Fatalf("succeeded = %d, want exactly 1 (results: %v)", succeeded, results)
	}
	if got := balanceOf(t, engine, payer.ID); !got.Equal(decimal.RequireFromString("50.00")) {
		t.Fatalf("balance = %s, want 50.00", got)
	}
}
