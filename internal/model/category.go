package model

import "time"

// Category organizes expenses and is shared across all users.
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Description string    `json:"description,omitempty" gorm:"size:255"`
	Icon        string    `json:"icon,omitempty" gorm:"size:50"`
	Color       string    `json:"color,omitempty" gorm:"size:7"` // Hex color code
	Active      bool      `json:"active" gorm:"default:true;not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
