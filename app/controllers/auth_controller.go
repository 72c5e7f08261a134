package controllers

import (
	"errors"
	"net/http"

	"github.com/yeuxouverts/shop/app/forms"
	"github.com/yeuxouverts/shop/app/middleware"
	"github.com/yeuxouverts/shop/app/services"
	"github.com/yeuxouverts/shop/pkg/bind"
	"github.com/yeuxouverts/shop/pkg/i18n"
	"github.com/yeuxouverts/shop/pkg/logger"
	"github.com/yeuxouverts/shop/pkg/session"
	"github.com/yeuxouverts/shop/pkg/validate"
)

// FlashCategory is the category of every user-facing auth message.
const FlashCategory = "message"

type AuthController struct {
	Base
	auth *services.AuthService
}

func NewAuthController(base Base, auth *services.AuthService) *AuthController {
	return &AuthController{Base: base, auth: auth}
}

// Register creates an account and signs the visitor in. An email that is
// already registered is sent to the login page with a notice.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	form := &forms.RegisterForm{}
	if r.Method != http.MethodPost {
		c.renderAuth(w, r, "register.html", "auth.register_title", form, nil)
		return
	}

	errs, err := bind.Form(r, form)
	if err != nil {
		c.badRequest(w, r, err)
		return
	}
	if errs != nil {
		c.renderAuth(w, r, "register.html", "auth.register_title", form, errs)
		return
	}

	user, err := c.auth.Register(r.Context(), form.Name, form.Email, form.Password)
	if errors.Is(err, services.ErrEmailTaken) {
		c.flash(r, "flash.email_taken", form.Email)
		c.redirect(w, r, "login", nil)
		return
	}
	if err != nil {
		c.fail(w, r, err)
		return
	}

	sess := session.FromCtx(r)
	sess.Regenerate()
	sess.Set(middleware.SessionUserKey, user.ID)
	logger.WithCtx(r.Context()).Info("user registered", "user_id", user.ID)
	c.redirect(w, r, "home", nil)
}

// Login checks the credentials and signs the visitor in.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	form := &forms.LoginForm{}
	if r.Method != http.MethodPost {
		c.renderAuth(w, r, "login.html", "auth.login_title", form, nil)
		return
	}

	errs, err := bind.Form(r, form)
	if err != nil {
		c.badRequest(w, r, err)
		return
	}
	if errs != nil {
		c.renderAuth(w, r, "login.html", "auth.login_title", form, errs)
		return
	}

	user, err := c.auth.Login(r.Context(), form.Email, form.Password)
	switch {
	case errors.Is(err, services.ErrUnknownEmail):
		c.flash(r, "flash.unknown_email", form.Email)
		c.redirect(w, r, "login", nil)
		return
	case errors.Is(err, services.ErrBadPassword):
		c.flash(r, "flash.bad_password", form.Email)
		c.redirect(w, r, "login", nil)
		return
	case err != nil:
		c.fail(w, r, err)
		return
	}

	sess := session.FromCtx(r)
	sess.Regenerate()
	sess.Set(middleware.SessionUserKey, user.ID)
	c.redirect(w, r, "home", nil)
}

// Logout drops the session entirely.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	session.FromCtx(r).Invalidate()
	c.redirect(w, r, "home", nil)
}

func (c *AuthController) renderAuth(w http.ResponseWriter, r *http.Request, name, title string, form interface{}, errs validate.Errors) {
	p := c.page(r)
	p.Title = p.T(title)
	p.Form = form
	p.Errors = errs
	c.render(w, r, http.StatusOK, name, p)
}

// flash queues a localized notice about email for the next page.
func (c *AuthController) flash(r *http.Request, id, email string) {
	msg := i18n.FromCtx(r.Context()).T(id, map[string]interface{}{"Email": email})
	session.FromCtx(r).AddFlash(FlashCategory, msg)
}
