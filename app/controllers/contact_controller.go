package controllers

import (
	"net/http"

	"github.com/yeuxouverts/shop/app/forms"
	"github.com/yeuxouverts/shop/app/services"
	"github.com/yeuxouverts/shop/pkg/bind"
)

type ContactController struct {
	Base
	contact *services.ContactService
}

func NewContactController(base Base, contact *services.ContactService) *ContactController {
	return &ContactController{Base: base, contact: contact}
}

// Contact shows the form and, on a valid POST, emails it in the same request.
func (c *ContactController) Contact(w http.ResponseWriter, r *http.Request) {
	form := &forms.ContactForm{}
	p := c.page(r)
	p.Title = p.T("contact.title")
	p.Form = form

	if r.Method == http.MethodPost {
		errs, err := bind.Form(r, form)
		if err != nil {
			c.badRequest(w, r, err)
			return
		}
		p.Errors = errs

		if errs == nil {
			if err := c.contact.Send(r.Context(), form); err != nil {
				c.fail(w, r, err)
				return
			}
			p.Confirmation = p.T("contact.sent")
		}
	}

	c.render(w, r, http.StatusOK, "contact.html", p)
}
