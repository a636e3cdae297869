package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	BaseUUIDModel
	FirstName   string  `gorm:"type:text"               json:"firstName"`
	LastName    string  `gorm:"type:text"               json:"lastName"`
	FullName    string  `gorm:"type:text"               json:"fullName"`
	Email       *string `gorm:"type:text;uniqueIndex"   json:"email"`
	IsAdmin     bool    `gorm:"type:bool;default:false" json:"isAdmin"`
	IsActive    bool    `gorm:"type:bool;default:true"  json:"isActive"`

	// Subject claim of the identity provider that vouched for this user.
	// Token issuance and verification happen upstream; this is the link
	// between a verified caller and our row.
	AuthSubject string     `gorm:"column:auth_subject;type:text;uniqueIndex" json:"-"`
	DateOfBirth *time.Time `gorm:"type:date"                                 json:"dateOfBirth,omitempty"`
	LastLoginAt *time.Time `gorm:"type:timestamp"                            json:"lastLoginAt,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.FullName = strings.TrimSpace(u.FirstName + " " + u.LastName)
	return nil
}

// UserProfile is the public projection of a User.
type UserProfile struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	FullName    string     `json:"fullName"`
	Email       *string    `json:"email,omitempty"`
	IsActive    bool       `json:"isActive"`
	IsAdmin     bool       `json:"isAdmin"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:          u.ID.String(),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName,
		Email:       u.Email,
		IsActive:    u.IsActive,
		IsAdmin:     u.IsAdmin,
		LastLoginAt: u.LastLoginAt,
	}
}

func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" && u.Email != nil {
		return *u.Email
	}
	return name
}
