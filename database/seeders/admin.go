package seeders

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yeuxouverts/shop/app/models"
	"github.com/yeuxouverts/shop/app/repositories"
	"github.com/yeuxouverts/shop/config"
	"github.com/yeuxouverts/shop/pkg/auth"
	"gorm.io/gorm"
)

// ErrNoAdminCredentials is returned when the users table is empty and the
// ADMIN_* settings are missing.
var ErrNoAdminCredentials = errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set")

// ErrAdminNotFirst is returned when the users table was empty but its id
// sequence had already moved past 1 (rows inserted and deleted earlier).
var ErrAdminNotFirst = errors.New("admin did not receive the first user id")

func init() {
	Register("admin", SeedAdmin)
	Register("products", SeedProducts)
}

// SeedAdmin creates the shop owner as the first user, which makes it the
// admin. It does nothing once any user exists.
func SeedAdmin(ctx context.Context, db *gorm.DB, out io.Writer) error {
	users := repositories.NewUserRepository(db)
	n, err := users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	email, password := config.Get("ADMIN_EMAIL", ""), config.Get("ADMIN_PASSWORD", "")
	if email == "" || password == "" {
		return ErrNoAdminCredentials
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	// The id must come from the table's own sequence.
	admin := &models.User{
		Name:     config.Get("ADMIN_NAME", "Admin"),
		Email:    email,
		Password: hashed,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	if admin.ID != models.AdminID {
		return fmt.Errorf("%w: got id %d", ErrAdminNotFirst, admin.ID)
	}
	fmt.Fprintf(out, "admin %s created\n", admin.Email)
	return nil
}
