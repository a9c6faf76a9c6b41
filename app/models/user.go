package models

import "time"

// User roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID           string    `json:"id"       bson:"_id"      gorm:"primaryKey;size:36"`
	FullName     string    `json:"fullName" bson:"fullName" gorm:"size:255;not null"`
	Username     string    `json:"username" bson:"username" gorm:"size:60;not null;uniqueIndex"`
	Email        string    `json:"email"    bson:"email"    gorm:"size:255;not null;uniqueIndex"`
	Phone        string    `json:"phone"    bson:"phone"    gorm:"size:30"`
	Role         string    `json:"role"     bson:"role"     gorm:"size:20;not null;default:customer"`
	PasswordHash string    `json:"-"        bson:"passwordHash" gorm:"size:255;not null"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
