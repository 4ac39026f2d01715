package seed

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/shopspring/decimal"
	"github.com/skilldesk/marketplace/internal/logger"
	"github.com/skilldesk/marketplace/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const seedPassword = "password123"

var clients = []struct {
	First, Last, Email, Profession, Balance string
}{
	{"Nora", "Fields", "nora@test.com", "product manager", "1150.00"},
	{"Tom", "Abashidze", "tom@test.com", "publisher", "231.11"},
	{"Lana", "Meridian", "lana@test.com", "editor", "451.30"},
}

var contractors = []struct {
	First, Last, Email, Profession, Balance string
}{
	{"Gio", "Kavtaradze", "gio@test.com", "programmer", "64.00"},
	{"Maya", "Brook", "maya@test.com", "musician", "1214.00"},
	{"Sandro", "Veli", "sandro@test.com", "fighter", "22.00"},
}

func Run(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.Profile{}).Count(&count).Error; err != nil {
		logger.Log.Fatal("seed check failed", zap.Error(err))
	}
	if count > 0 {
		logger.Log.Info("seed already applied, skipping")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Fatal("failed to hash seed password", zap.Error(err))
	}
	hashed := string(hash)

	err = db.Transaction(func(tx *gorm.DB) error {
		var clientRows, contractorRows []models.Profile

		for _, c := range clients {
			p := models.Profile{
				FirstName:  c.First,
				LastName:   c.Last,
				Email:      c.Email,
				Password:   hashed,
				Profession: c.Profession,
				Type:       models.TypeClient,
				Balance:    decimal.RequireFromString(c.Balance),
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			clientRows = append(clientRows, p)
		}
		for _, c := range contractors {
			p := models.Profile{
				FirstName:  c.First,
				LastName:   c.Last,
				Email:      c.Email,
				Password:   hashed,
				Profession: c.Profession,
				Type:       models.TypeContractor,
				Balance:    decimal.RequireFromString(c.Balance),
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			contractorRows = append(contractorRows, p)
		}

		type seedContract struct {
			client, contractor int
			status             models.ContractStatus
			prices             []string
			paidIdx            []int
		}
		plan := []seedContract{
			{0, 0, models.StatusInProgress, []string{"200.00", "201.00"}, []int{1}},
			{0, 1, models.StatusNew, []string{"202.00"}, nil},
			{1, 1, models.StatusInProgress, []string{"200.00", "121.00"}, []int{1}},
			{2, 2, models.StatusInProgress, []string{"2020.00"}, nil},
			{2, 0, models.StatusTerminated, []string{"21.00"}, []int{0}},
		}

		paidAt := time.Date(2020, 8, 15, 19, 11, 26, 0, time.UTC)
		for i, sc := range plan {
			contract := models.Contract{
				Terms:        "standard engagement terms",
				Status:       sc.status,
				ClientID:     clientRows[sc.client].ID,
				ContractorID: contractorRows[sc.contractor].ID,
			}
			if err := tx.Create(&contract).Error; err != nil {
				return err
			}
			for j, price := range sc.prices {
				job := models.Job{
					Price:      decimal.RequireFromString(price),
					ContractID: contract.ID,
				}
				for _, idx := range sc.paidIdx {
					if idx == j {
						job.Paid = true
						t := paidAt.AddDate(0, 0, i)
						job.PaymentDate = &t
					}
				}
				if err := tx.Create(&job).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		logger.Log.Fatal("seed failed", zap.Error(err))
	}
	logger.Log.Info("seeded demo profiles", zap.String("password", seedPassword))
}
