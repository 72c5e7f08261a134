package models

import "time"

// AdminID is the primary key of the only user allowed to manage the catalog.
const AdminID uint = 1

// User is a registered customer. The first row is the shop owner.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Email     string    `gorm:"size:200;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:200;not null" json:"-"` // hashed, never serialised
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// IsAdmin reports whether u may create, edit and delete products.
// A nil user is anonymous.
func (u *User) IsAdmin() bool {
	return u != nil && u.ID == AdminID
}
