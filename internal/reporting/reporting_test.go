package reporting_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/skilldesk/marketplace/internal/models"
	"github.com/skilldesk/marketplace/internal/reporting"
	"github.com/skilldesk/marketplace/internal/testutil"
	"gorm.io/gorm"
)

var (
	rangeStart = time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd   = time.Date(2020, 8, 31, 0, 0, 0, 0, time.UTC)
	inRange    = time.Date(2020, 8, 15, 12, 0, 0, 0, time.UTC)
	outOfRange = time.Date(2020, 9, 15, 12, 0, 0, 0, time.UTC)
)

// Two contractors: the musician earns 500, the programmer 300 within the
// range, plus an out-of-range payment that must not count.
func seedEarnings(t *testing.T, db *gorm.DB) (client1, client2 *models.Profile) {
	t.Helper()

	client1 = testutil.SeedProfile(t, db, models.TypeClient, "manager", "0.00")
	client2 = testutil.SeedProfile(t, db, models.TypeClient, "editor", "0.00")
	programmer := testutil.SeedProfile(t, db, models.TypeContractor, "programmer", "0.00")
	musician := testutil.SeedProfile(t, db, models.TypeContractor, "musician", "0.00")

	c1 := testutil.SeedContract(t, db, client1.ID, programmer.ID, models.StatusInProgress)
	c2 := testutil.SeedContract(t, db, client2.ID, musician.ID, models.StatusInProgress)

	testutil.SeedJob(t, db, c1.ID, "300.00", testutil.PtrTime(inRange))
	testutil.SeedJob(t, db, c2.ID, "200.00", testutil.PtrTime(inRange))
	testutil.SeedJob(t, db, c2.ID, "300.00", testutil.PtrTime(inRange.Add(24*time.Hour)))
	testutil.SeedJob(t, db, c1.ID, "5000.00", testutil.PtrTime(outOfRange))
	testutil.SeedJob(t, db, c1.ID, "40.00", nil)
	return client1, client2
}

func TestBestProfession(t *testing.T) {
	db := testutil.DB(t)
	seedEarnings(t, db)
	svc := reporting.New(db)

	got, err := svc.BestProfession(context.Background(), rangeStart, rangeEnd)
	if err != nil {
		t.Fatalf("BestProfession: %v", err)
	}
	if got != "musician" {
		t.Fatalf("BestProfession = %q, want musician", got)
	}
}

func TestBestProfessionEmptyRange(t *testing.T) {
	db := testutil.DB(t)
	seedEarnings(t, db)
	svc := reporting.New(db)

	got, err := svc.BestProfession(context.Background(),
		time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2021, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("BestProfession: %v", err)
	}
	if got != "" {
		t.Fatalf("BestProfession = %q, want empty", got)
	}
}

func TestBestClientsOrderAndLimit(t *testing.T) {
	db := testutil.DB(t)
	client1, client2 := seedEarnings(t, db)
	svc := reporting.New(db)
	ctx := context.Background()

	got, err := svc.BestClients(ctx, rangeStart, rangeEnd, 10)
	if err != nil {
		t.Fatalf("BestClients: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != client2.ID || !got[0].Paid.Equal(decimal.RequireFromString("500")) {
		t.Fatalf("top client = %+v, want client %d with 500", got[0], client2.ID)
	}
	if got[1].ID != client1.ID || !got[1].Paid.Equal(decimal.RequireFromString("300")) {
		t.Fatalf("second client = %+v, want client %d with 300", got[1], client1.ID)
	}

	// Limit defaults to one and truncates.
	got, err = svc.BestClients(ctx, rangeStart, rangeEnd, 0)
	if err != nil {
		t.Fatalf("BestClients: %v", err)
	}
	if len(got) != 1 || got[0].ID != client2.ID {
		t.Fatalf("limited result = %+v", got)
	}
}

func TestBestProfessionTieBreaksAlphabetically(t *testing.T) {
	db := testutil.DB(t)
	svc := reporting.New(db)

	client := testutil.SeedProfile(t, db, models.TypeClient, "manager", "0.00")
	musician := testutil.SeedProfile(t, db, models.TypeContractor, "musician", "0.00")
	editor := testutil.SeedProfile(t, db, models.TypeContractor, "editor", "0.00")

	cm := testutil.SeedContract(t, db, client.ID, musician.ID, models.StatusInProgress)
	ce := testutil.SeedContract(t, db, client.ID, editor.ID, models.StatusInProgress)
	testutil.SeedJob(t, db, cm.ID, "100.00", testutil.PtrTime(inRange))
	testutil.SeedJob(t, db, ce.ID, "100.00", testutil.PtrTime(inRange))

	got, err := svc.BestProfession(context.Background(), rangeStart, rangeEnd)
	if err != nil {
		t.Fatalf("BestProfession: %v", err)
	}
	if got != "editor" {
		t.Fatalf("BestProfession = %q, want editor", got)
	}
}

func TestBestClientsTieBreaksOnLowestID(t *testing.T) {
	db := testutil.DB(t)
	svc := reporting.New(db)

	clientA := testutil.SeedProfile(t, db, models.TypeClient, "manager", "0.00")
	clientB := testutil.SeedProfile(t, db, models.TypeClient, "editor", "0.00")
	contractor := testutil.SeedProfile(t, db, models.TypeContractor, "programmer", "0.00")

	ca := testutil.SeedContract(t, db, clientA.ID, contractor.ID, models.StatusInProgress)
	cb := testutil.SeedContract(t, db, clientB.ID, contractor.ID, models.StatusInProgress)
	testutil.SeedJob(t, db, ca.ID, "100.00", testutil.PtrTime(inRange))
	testutil.SeedJob(t, db, cb.ID, "100.00", testutil.PtrTime(inRange))

	got, err := svc.BestClients(context.Background(), rangeStart, rangeEnd, 1)
	if err != nil {
		t.Fatalf("BestClients: %v", err)
	}
	if len(got) != 1 || got[0].ID != clientA.ID {
		t.Fatalf("tie-break result = %+v, want client %d", got, clientA.ID)
	}
}
