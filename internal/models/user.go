package models

import "time"

// User is a staff member: sales reps own quotes, managers approve them.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name      string    `gorm:"size:255" json:"name,omitempty"`
	Active    bool      `gorm:"not null" json:"active"`
	// ProfileID links the user to an authorization profile; nil means the
	// user holds no permissions beyond owning their own quotes.
	ProfileID *uint    `gorm:"index" json:"profile_id,omitempty"`
	Profile   *Profile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
}
