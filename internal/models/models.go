package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProfileType string

const (
	TypeClient     ProfileType = "client"
	TypeContractor ProfileType = "contractor"
)

type ContractStatus string

const (
	StatusNew        ContractStatus = "new"
	StatusInProgress ContractStatus = "in_progress"
	StatusTerminated ContractStatus = "terminated"
)

type Profile struct {
	gorm.Model
	FirstName  string          `gorm:"size:50;not null" json:"firstName"`
	LastName   string          `gorm:"size:50;not null" json:"lastName"`
	Email      string          `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password   string          `gorm:"size:255" json:"-"`
	Profession string          `gorm:"size:100;not null" json:"profession"`
	Type       ProfileType     `gorm:"size:10;index;not null" json:"type"`
	Balance    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"balance"`
}

type Contract struct {
	gorm.Model
	Terms        string         `gorm:"type:text;not null" json:"terms"`
	Status       ContractStatus `gorm:"size:15;index;not null" json:"status"`
	ClientID     uint           `gorm:"index;not null" json:"clientId"`
	ContractorID uint           `gorm:"index;not null" json:"contractorId"`
	Client       *Profile       `gorm:"foreignKey:ClientID" json:"-"`
	Contractor   *Profile       `gorm:"foreignKey:ContractorID" json:"-"`
	Jobs         []Job          `json:"-"`
}

type Job struct {
	gorm.Model
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Paid        bool            `gorm:"not null;default:false" json:"paid"`
	PaymentDate *time.Time      `json:"paymentDate"`
	ContractID  uint            `gorm:"index;not null" json:"contractId"`
	Contract    *Contract       `json:"-"`
}
