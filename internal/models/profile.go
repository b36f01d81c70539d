package models

import "time"

// Profile groups permissions; a user inherits all permissions of its profile.
type Profile struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Name        string       `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string       `gorm:"size:500" json:"description,omitempty"`
	IsSystem    bool         `gorm:"default:false" json:"is_system"`
	Permissions []Permission `gorm:"many2many:profile_permissions;" json:"permissions,omitempty"`
}

// Codes returns the "resource:action" codes held by the profile.
func (p *Profile) Codes() []string {
	codes := make([]string, len(p.Permissions))
	for i, perm := range p.Permissions {
		codes[i] = perm.Code()
	}
	return codes
}

// Permission is a single action allowed on a resource type, e.g. quote:approve.
type Permission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	ResourceType string    `gorm:"size:50;not null;uniqueIndex:idx_perm_resource_action" json:"resource_type"`
	Action       string    `gorm:"size:50;not null;uniqueIndex:idx_perm_resource_action" json:"action"`
	Description  string    `gorm:"size:200" json:"description,omitempty"`
}

// Code returns the permission in "resource:action" format.
func (p Permission) Code() string {
	return p.ResourceType + ":" + p.Action
}
