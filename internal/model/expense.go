package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense records a single spend by a user. Every read and write is
// scoped to the owning UserID.
type Expense struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	CategoryID  uint            `json:"category_id" gorm:"not null;index"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Date        time.Time       `json:"date" gorm:"type:date;not null;index"`
	Notes       string          `json:"notes,omitempty" gorm:"type:text"`
	UserID      uint            `json:"user_id" gorm:"not null;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	Category Category `json:"category,omitzero" gorm:"foreignKey:CategoryID"`
	User     User     `json:"-" gorm:"foreignKey:UserID"`
}
