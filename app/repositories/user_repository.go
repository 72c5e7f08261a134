package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/yeuxouverts/shop/app/models"
	"github.com/yeuxouverts/shop/pkg/orm"
	"gorm.io/gorm"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail looks up a user by email address. A missing user is not an
// error: it returns nil, nil.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := orm.Use(r.db).WithContext(ctx).Model(&models.User{}).
		Where("email = ?", strings.TrimSpace(email)).
		First(&user)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := orm.Use(r.db).WithContext(ctx).First(&user, id); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Create persists a new user record.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(orm.Use(r.db).WithContext(ctx).Create(user))
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return orm.Use(r.db).WithContext(ctx).Model(&models.User{}).Count()
}
