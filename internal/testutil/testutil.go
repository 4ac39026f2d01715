// Package testutil provides an in-memory database and seed helpers for
// package-level tests. Sqlite keeps the tests self-contained; the production
// store runs the same GORM models against postgres.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/skilldesk/marketplace/internal/models"
	"github.com/skilldesk/marketplace/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}

	// A single connection keeps every session on the same in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { sqlDB.Close() })

	if err := store.Migrate(db); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	return db
}

var emailSeq atomic.Uint64

func SeedProfile(tb testing.TB, db *gorm.DB, t models.ProfileType, profession, balance string) *models.Profile {
	tb.Helper()
	p := &models.Profile{
		FirstName:  "Test",
		LastName:   string(t),
		Email:      fmt.Sprintf("%s-%d@test.local", t, emailSeq.Add(1)),
		Profession: profession,
		Type:       t,
		Balance:    decimal.RequireFromString(balance),
	}
	if err := db.Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}

func SeedContract(tb testing.TB, db *gorm.DB, clientID, contractorID uint, status models.ContractStatus) *models.Contract {
	tb.Helper()
	c := &models.Contract{
		Terms:        "terms",
		Status:       status,
		ClientID:     clientID,
		ContractorID: contractorID,
	}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed contract: %v", err)
	}
	return c
}

func SeedJob(tb testing.TB, db *gorm.DB, contractID uint, price string, paidAt *time.Time) *models.Job {
	tb.Helper()
	j := &models.Job{
		Price:       decimal.RequireFromString(price),
		ContractID:  contractID,
		Paid:        paidAt != nil,
		PaymentDate: paidAt,
	}
	if err := db.Create(j).Error; err != nil {
		tb.Fatalf("seed job: %v", err)
	}
	return j
}

func PtrTime(v time.Time) *time.Time { return &v }
