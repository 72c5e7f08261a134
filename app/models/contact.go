package models

import "time"

// Contact mirrors a contact-form submission. The table is created by the
// migrations but the contact flow only emails; nothing writes here yet.
type Contact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Email     string    `gorm:"size:200;not null" json:"email"`
	Phone     string    `gorm:"size:50;not null" json:"phone"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (Contact) TableName() string { return "contacts" }

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{&User{}, &Product{}, &Contact{}}
}
