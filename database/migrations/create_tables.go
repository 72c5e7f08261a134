package migrations

import (
	"github.com/yeuxouverts/shop/app/models"
	"github.com/yeuxouverts/shop/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20240301000000_create_users_table", &CreateUsersTable{})
	migration.Register("20240301000001_create_products_table", &CreateProductsTable{})
	migration.Register("20240301000002_create_contacts_table", &CreateContactsTable{})
}

// -------- 0001: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0002: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// -------- 0003: contacts --------

type CreateContactsTable struct{}

func (m *CreateContactsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Contact{})
}

func (m *CreateContactsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("contacts")
}
