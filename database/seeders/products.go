package seeders

import (
	"context"
	"io"

	"github.com/yeuxouverts/shop/app/models"
	"github.com/yeuxouverts/shop/app/repositories"
	"gorm.io/gorm"
)

func strptr(s string) *string { return &s }

// demoProducts is a small catalog for development databases.
var demoProducts = []models.Product{
	{
		Description: "Blusa bordada a mano",
		Price:       "$650",
		ImgURLOne:   "/static/img/blusa-1.jpg",
		ImgURLTwo:   strptr("/static/img/blusa-2.jpg"),
		Sizes:       "Ch, M, G",
		Materials:   "Manta de algodón",
		Colors:      "Blanco, Crudo",
		Other:       strptr("Bordado en punto de cruz."),
	},
	{
		Description: "Bolsa tejida de palma",
		Price:       "$480",
		ImgURLOne:   "/static/img/bolsa-1.jpg",
		Sizes:       "Única",
		Materials:   "Palma natural",
		Colors:      "Natural",
	},
	{
		Description: "Rebozo de seda",
		Price:       "$1200",
		ImgURLOne:   "/static/img/rebozo-1.jpg",
		ImgURLTwo:   strptr("/static/img/rebozo-2.jpg"),
		ImgURLThree: strptr("/static/img/rebozo-3.jpg"),
		Sizes:       "Única",
		Materials:   "Seda",
		Colors:      "Índigo, Grana",
	},
}

// SeedProducts inserts the demo catalog into an empty products table.
func SeedProducts(ctx context.Context, db *gorm.DB, _ io.Writer) error {
	products := repositories.NewProductRepository(db)
	existing, err := products.All(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for i := range demoProducts {
		p := demoProducts[i]
		if err := products.Create(ctx, &p); err != nil {
			return err
		}
	}
	return nil
}
