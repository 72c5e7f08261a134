package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/yeuxouverts/shop/app/forms"
	"github.com/yeuxouverts/shop/app/models"
	"github.com/yeuxouverts/shop/app/repositories"
	"github.com/yeuxouverts/shop/pkg/bind"
	"github.com/yeuxouverts/shop/pkg/logger"
	"github.com/yeuxouverts/shop/pkg/validate"
)

type ProductController struct {
	Base
	products *repositories.ProductRepository
}

func NewProductController(base Base, products *repositories.ProductRepository) *ProductController {
	return &ProductController{Base: base, products: products}
}

// Show renders /product?id=N. A missing or non-numeric id is a 404.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	product, ok := c.load(w, r, r.URL.Query().Get("id"))
	if !ok {
		return
	}

	p := c.page(r)
	p.Title = product.Description
	p.Product = product
	p.Images = product.Images()
	c.render(w, r, http.StatusOK, "product.html", p)
}

// Create serves and handles the add-product form.
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	form := &forms.ProductForm{}
	if r.Method != http.MethodPost {
		c.renderForm(w, r, form, nil, "", false)
		return
	}

	errs, err := bind.Form(r, form)
	if err != nil {
		c.badRequest(w, r, err)
		return
	}
	if errs != nil {
		c.renderForm(w, r, form, errs, "", false)
		return
	}

	product := form.Product()
	if err := c.products.Create(r.Context(), product); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			c.renderForm(w, r, form, nil, "validation.unique", false)
			return
		}
		c.fail(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info("product created", "product_id", product.ID)
	c.redirect(w, r, "home", nil)
}

// Edit pre-fills the form on GET and overwrites every field on a valid POST.
func (c *ProductController) Edit(w http.ResponseWriter, r *http.Request) {
	product, ok := c.load(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if r.Method != http.MethodPost {
		c.renderForm(w, r, forms.ProductFormFrom(product), nil, "", true)
		return
	}

	form := &forms.ProductForm{}
	errs, err := bind.Form(r, form)
	if err != nil {
		c.badRequest(w, r, err)
		return
	}
	if errs != nil {
		c.renderForm(w, r, form, errs, "", true)
		return
	}

	form.ApplyTo(product)
	if err := c.products.Update(r.Context(), product); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			c.renderForm(w, r, form, nil, "validation.unique", true)
			return
		}
		c.fail(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info("product updated", "product_id", product.ID)
	c.redirect(w, r, "home", nil)
}

// Delete removes the product and returns to the catalog.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	product, ok := c.load(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := c.products.Delete(r.Context(), product); err != nil {
		c.fail(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info("product deleted", "product_id", product.ID)
	c.redirect(w, r, "home", nil)
}

// load resolves a raw id to a product, answering 404 itself when it can't.
func (c *ProductController) load(w http.ResponseWriter, r *http.Request, raw string) (*models.Product, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.NotFound(w, r)
		return nil, false
	}

	product, err := c.products.Find(r.Context(), uint(id))
	if errors.Is(err, repositories.ErrNotFound) {
		c.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		c.fail(w, r, err)
		return nil, false
	}
	return product, true
}

// renderForm shows the product form. formErr is a message for the whole
// form, used when a unique column collides with another product.
func (c *ProductController) renderForm(w http.ResponseWriter, r *http.Request, form *forms.ProductForm, errs validate.Errors, formErr string, edit bool) {
	p := c.page(r)
	p.Title = p.T("product.form.title_add")
	if edit {
		p.Title = p.T("product.form.title_edit")
	}
	p.Form = form
	p.Errors = errs
	p.IsEdit = edit
	if formErr != "" {
		p.FormError = p.T(formErr)
	}
	c.render(w, r, http.StatusOK, "add-product.html", p)
}
