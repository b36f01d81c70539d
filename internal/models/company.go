package models

import "time"

// Company is the selling entity a quote is issued from. Its city is the
// default departure point for delivered quotes.
type Company struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name    string `gorm:"size:255;not null" json:"name"`
	Email   string `gorm:"size:255" json:"email,omitempty"`
	Phone   string `gorm:"size:50" json:"phone,omitempty"`
	Address string `gorm:"size:500" json:"address,omitempty"`
	City    string `gorm:"size:100;index" json:"city,omitempty"`
	Country string `gorm:"size:100" json:"country,omitempty"`
}

// Project groups the catalog (stock items) a company sells from, typically one
// quarry site.
type Project struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CompanyID uint     `gorm:"index;not null" json:"company_id"`
	Company   *Company `gorm:"foreignKey:CompanyID" json:"-"`
	Name      string   `gorm:"size:255;not null" json:"name"`
}

// Customer is the party a quote is addressed to.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name    string `gorm:"size:255;not null" json:"name"`
	Email   string `gorm:"size:255" json:"email,omitempty"`
	Phone   string `gorm:"size:50" json:"phone,omitempty"`
	Address string `gorm:"size:500" json:"address,omitempty"`
	City    string `gorm:"size:100" json:"city,omitempty"`

	Contacts []Contact `gorm:"foreignKey:CustomerID" json:"contacts,omitempty"`
}

// Contact is a person at a customer.
type Contact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CustomerID uint   `gorm:"index;not null" json:"customer_id"`
	Name       string `gorm:"size:255;not null" json:"name"`
	Email      string `gorm:"size:255" json:"email,omitempty"`
	Phone      string `gorm:"size:50" json:"phone,omitempty"`
}

// Warehouse is a stockpile or depot; when set on a quote its city overrides the
// company city as departure point.
type Warehouse struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CompanyID uint   `gorm:"index;not null" json:"company_id"`
	Name      string `gorm:"size:255;not null" json:"name"`
	City      string `gorm:"size:100" json:"city,omitempty"`
}
