// Package forms declares the four input schemas the site accepts. Every
// field is required unless tagged nullable; lengths follow the columns.
package forms

import "github.com/yeuxouverts/shop/app/models"

type ContactForm struct {
	Name    string `form:"name" validate:"required,max=200"`
	Email   string `form:"email" validate:"required,max=200"`
	Phone   string `form:"phone" validate:"required,max=50"`
	Message string `form:"message" validate:"required"`
}

type RegisterForm struct {
	Name     string `form:"name" validate:"required,max=200"`
	Email    string `form:"email" validate:"required,max=200"`
	Password string `form:"password" validate:"required,max=200"`
}

type LoginForm struct {
	Email    string `form:"email" validate:"required,max=200"`
	Password string `form:"password" validate:"required"`
}

type ProductForm struct {
	Description string `form:"description" validate:"required,max=500"`
	Price       string `form:"price" validate:"required,max=50"`
	ImgURLOne   string `form:"img_url_one" validate:"required,max=500"`
	ImgURLTwo   string `form:"img_url_two" validate:"nullable,max=500"`
	ImgURLThree string `form:"img_url_three" validate:"nullable,max=500"`
	Sizes       string `form:"sizes" validate:"required,max=255"`
	Materials   string `form:"materials" validate:"required,max=255"`
	Colors      string `form:"colors" validate:"required,max=255"`
	Other       string `form:"other" validate:"nullable"`
}

// Product builds a new, unsaved product from the form.
func (f *ProductForm) Product() *models.Product {
	p := &models.Product{}
	f.ApplyTo(p)
	return p
}

// ApplyTo overwrites every mutable field of p. Blank optional fields
// become NULL.
func (f *ProductForm) ApplyTo(p *models.Product) {
	p.Description = f.Description
	p.Price = f.Price
	p.ImgURLOne = f.ImgURLOne
	p.ImgURLTwo = optional(f.ImgURLTwo)
	p.ImgURLThree = optional(f.ImgURLThree)
	p.Sizes = f.Sizes
	p.Materials = f.Materials
	p.Colors = f.Colors
	p.Other = optional(f.Other)
}

// ProductFormFrom pre-fills the edit form.
func ProductFormFrom(p *models.Product) *ProductForm {
	return &ProductForm{
		Description: p.Description,
		Price:       p.Price,
		ImgURLOne:   p.ImgURLOne,
		ImgURLTwo:   deref(p.ImgURLTwo),
		ImgURLThree: deref(p.ImgURLThree),
		Sizes:       p.Sizes,
		Materials:   p.Materials,
		Colors:      p.Colors,
		Other:       deref(p.Other),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
