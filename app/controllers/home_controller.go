package controllers

import (
	"net/http"

	"github.com/yeuxouverts/shop/app/repositories"
)

type HomeController struct {
	Base
	products *repositories.ProductRepository
}

func NewHomeController(base Base, products *repositories.ProductRepository) *HomeController {
	return &HomeController{Base: base, products: products}
}

// Index lists the whole catalog.
func (c *HomeController) Index(w http.ResponseWriter, r *http.Request) {
	products, err := c.products.All(r.Context())
	if err != nil {
		c.fail(w, r, err)
		return
	}

	p := c.page(r)
	p.Title = p.T("home.title")
	p.Products = products
	c.render(w, r, http.StatusOK, "index.html", p)
}
