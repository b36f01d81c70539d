package models

import "time"

// Notification is an in-app message for a user.
type Notification struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	Type      string     `gorm:"size:50;not null" json:"type"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	Message   string     `gorm:"type:text" json:"message"`
	Link      string     `gorm:"size:500" json:"link,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}
