package repositories

import (
	"context"

	"github.com/yeuxouverts/shop/app/models"
	"github.com/yeuxouverts/shop/pkg/orm"
	"gorm.io/gorm"
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// All returns every product in insertion order.
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := orm.Use(r.db).WithContext(ctx).Model(&models.Product{}).Order("id ASC").Get(&products)
	return products, err
}

// Find returns ErrNotFound when no product has the given id.
func (r *ProductRepository) Find(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := orm.Use(r.db).WithContext(ctx).First(&p, id); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// Create returns ErrDuplicate when the description or an image URL is
// already used by another product.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return translate(orm.Use(r.db).WithContext(ctx).Create(p))
}

// Update saves every column of p, including cleared optional fields.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	return translate(orm.Use(r.db).WithContext(ctx).Save(p))
}

// Delete removes p by primary key.
func (r *ProductRepository) Delete(ctx context.Context, p *models.Product) error {
	return translate(orm.Use(r.db).WithContext(ctx).Delete(p))
}
