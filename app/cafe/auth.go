package cafe

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrymomot/cafe/core/apiclient"
	"github.com/dmitrymomot/cafe/core/auth"
	"github.com/dmitrymomot/cafe/core/binder"
	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/logger"
	"github.com/dmitrymomot/cafe/core/response"
	"github.com/dmitrymomot/cafe/core/sanitizer"
	"github.com/dmitrymomot/cafe/core/validator"
	"github.com/dmitrymomot/cafe/middleware"
	"github.com/dmitrymomot/cafe/pkg/cities"
	"github.com/dmitrymomot/cafe/pkg/phone"
)

type loginForm struct {
	Entity         string `form:"entity" sanitize:"phone" validate:"required"`
	Password       string `form:"password" validate:"required"`
	RememberMe     bool   `form:"rememberMe"`
	RecaptchaToken string `form:"g-recaptcha-response"`
	ReturnURL      string `form:"returnUrl,trim"`
}

type loginPage struct {
	Entity     string
	RememberMe bool
	ReturnURL  string
}

func (a *App) loginPage(ctx *Context) handler.Response {
	returnURL := middleware.SafeReturnURL(ctx.Query(middleware.ReturnURLParam), "")
	if ctx.Tokens().AccessToken() != "" {
		return response.Redirect(middleware.SafeReturnURL(returnURL, cafePath))
	}

	v := a.view(ctx, ctx.T("auth.login.title"))
	v.Data = loginPage{ReturnURL: returnURL}
	return a.render(pageLogin, http.StatusOK, v)
}

func (a *App) login(ctx *Context) handler.Response {
	var f loginForm
	if err := bindForm(ctx, &f); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}
	f.ReturnURL = middleware.SafeReturnURL(f.ReturnURL, "")

	page := func(status int, errs validator.ValidationErrors, n *Notice) handler.Response {
		v := a.view(ctx, ctx.T("auth.login.title"))
		v.Data = loginPage{Entity: f.Entity, RememberMe: f.RememberMe, ReturnURL: f.ReturnURL}
		v.Errors = errs
		if n != nil {
			v.Notice = n
		}
		return a.render(pageLogin, status, v)
	}

	if err := validator.ValidateStruct(&f); err != nil {
		return page(http.StatusUnprocessableEntity, validator.ExtractValidationErrors(err), nil)
	}

	_, err := a.auth(ctx).Login(ctx, auth.LoginData{
		Entity:         f.Entity,
		Password:       f.Password,
		RememberMe:     f.RememberMe,
		RecaptchaToken: f.RecaptchaToken,
	})
	if err != nil {
		a.logger.InfoContext(ctx, "login failed", logger.Error(err))
		key, values := auth.MessageKey(err, auth.OpLogin)
		return page(failureStatus(err), nil, failure(key, values))
	}

	a.updateSession(ctx, func(d *SessionData) { d.RememberMe = f.RememberMe })
	a.flash(ctx, success("auth.login.success"))
	return response.RedirectSeeOther(middleware.SafeReturnURL(f.ReturnURL, cafePath))
}

type signupForm struct {
	FullName        string `form:"fullName" sanitize:"strip_html,text" validate:"required;min:3;max:50"`
	Phone           string `form:"phone" sanitize:"phone" validate:"required;iranian_phone"`
	Province        int    `form:"province" validate:"required"`
	City            int    `form:"city" validate:"required"`
	Password        string `form:"password" validate:"required;min:8"`
	ConfirmPassword string `form:"confirmPassword" validate:"required"`
	AcceptTerms     bool   `form:"acceptTerms" validate:"accepted"`
}

type signupPage struct {
	Form      signupForm
	Provinces []provinceOption
	Cities    []cityOption
	Strength  []string
}

type provinceOption struct {
	ID       int
	Name     string
	Selected bool
}

type cityOption struct {
	ID       int
	Name     string
	Selected bool
}

func (a *App) signupPage(ctx *Context) handler.Response {
	v := a.view(ctx, ctx.T("auth.register.title"))
	v.Data = a.signupData(ctx, signupForm{})
	return a.render(pageSignup, http.StatusOK, v)
}

func (a *App) signup(ctx *Context) handler.Response {
	var f signupForm
	if err := bindForm(ctx, &f); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}

	page := func(status int, errs validator.ValidationErrors, n *Notice) handler.Response {
		v := a.view(ctx, ctx.T("auth.register.title"))
		v.Data = a.signupData(ctx, f)
		v.Errors = errs
		if n != nil {
			v.Notice = n
		}
		return a.render(pageSignup, status, v)
	}

	if errs := validateSignup(f); len(errs) > 0 {
		return page(http.StatusUnprocessableEntity, errs, nil)
	}

	err := a.auth(ctx).Register(ctx, auth.RegisterData{
		FullName: f.FullName,
		Phone:    f.Phone,
		City:     strconv.Itoa(f.City),
		Province: strconv.Itoa(f.Province),
		Password: f.Password,
	})
	if err != nil {
		a.logger.InfoContext(ctx, "registration failed", logger.Error(err))
		key, values := auth.MessageKey(err, auth.OpRegister)
		return page(failureStatus(err), nil, failure(key, values))
	}

	a.updateSession(ctx, func(d *SessionData) { d.PendingPhone = f.Phone })
	a.flash(ctx, success("auth.register.success"))
	return response.RedirectSeeOther(otpURL(f.Phone))
}

func validateSignup(f signupForm) validator.ValidationErrors {
	errs := validator.ExtractValidationErrors(validator.ValidateStruct(&f))
	if f.City != 0 && !errs.Has("city") {
		city, ok := cities.Find(f.City)
		if !ok || (f.Province != 0 && city.ProvinceID != f.Province) {
			errs.Add(validator.ValidationError{
				Field:             "city",
				Message:           "unknown city",
				TranslationKey:    validator.KeyIn,
				TranslationValues: map[string]any{"field": "city"},
			})
		}
	}
	if f.ConfirmPassword != "" {
		if err := validator.Apply(validator.Match("confirmPassword", f.Password, f.ConfirmPassword)); err != nil {
			errs = append(errs, validator.ExtractValidationErrors(err)...)
		}
	}
	return errs
}

func (a *App) signupData(ctx *Context, f signupForm) signupPage {
	lang := string(ctx.Settings().Language)

	data := signupPage{Form: f}
	for _, p := range cities.Provinces() {
		data.Provinces = append(data.Provinces, provinceOption{ID: p.ID, Name: p.Name.In(lang), Selected: p.ID == f.Province})
	}
	if f.Province != 0 {
		for _, c := range cities.ByProvince(f.Province) {
			data.Cities = append(data.Cities, cityOption{ID: c.ID, Name: c.Name.In(lang), Selected: c.ID == f.City})
		}
	}
	for score := range 5 {
		data.Strength = append(data.Strength, ctx.T(validator.PasswordStrengthKey(score)))
	}
	// Passwords are never echoed back.
	data.Form.Password, data.Form.ConfirmPassword = "", ""
	return data
}

type otpForm struct {
	Phone string `form:"phone" sanitize:"phone" validate:"required;iranian_phone"`
	OTP   string `form:"otp" sanitize:"digits" validate:"required;otp"`
}

type otpPage struct {
	Phone string
}

func (a *App) otpPage(ctx *Context) handler.Response {
	p := phone.Normalize(ctx.Query("phone"))
	if p == "" {
		return response.Redirect(signupPath)
	}

	v := a.view(ctx, ctx.T("auth.otp.title"))
	v.Data = otpPage{Phone: p}
	return a.render(pageOTP, http.StatusOK, v)
}

func (a *App) verifyOTP(ctx *Context) handler.Response {
	var f otpForm
	if err := bindForm(ctx, &f); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}

	if f.Phone == "" {
		return response.RedirectSeeOther(signupPath)
	}

	page := func(status int, errs validator.ValidationErrors, n *Notice) handler.Response {
		v := a.view(ctx, ctx.T("auth.otp.title"))
		v.Data = otpPage{Phone: f.Phone}
		v.Errors = errs
		if n != nil {
			v.Notice = n
		}
		return a.render(pageOTP, status, v)
	}

	if err := validator.ValidateStruct(&f); err != nil {
		return page(http.StatusUnprocessableEntity, validator.ExtractValidationErrors(err), nil)
	}

	_, err := a.auth(ctx).VerifyPhone(ctx, auth.VerifyData{Phone: f.Phone, OTP: f.OTP})
	if err != nil {
		a.logger.InfoContext(ctx, "phone verification failed", logger.Error(err))
		key, values := auth.MessageKey(err, auth.OpOTP)
		if auth.SessionExpired(err) {
			a.updateSession(ctx, func(d *SessionData) { d.PendingPhone = "" })
			a.flash(ctx, failure(key, values))
			return response.RedirectSeeOther(signupPath)
		}
		return page(failureStatus(err), nil, failure(key, values))
	}

	a.updateSession(ctx, func(d *SessionData) { d.PendingPhone = "" })
	a.flash(ctx, success("auth.otp.success"))
	return response.RedirectSeeOther(cafePath)
}

func (a *App) resendOTP(ctx *Context) handler.Response {
	p := phone.Normalize(ctx.FormValue("phone"))
	if !validator.IsIranianPhone(p) {
		return response.RedirectSeeOther(signupPath)
	}

	if err := a.auth(ctx).ResendOTP(ctx, auth.ResendData{Phone: p}); err != nil {
		a.logger.InfoContext(ctx, "otp resend failed", logger.Error(err))
		key, values := auth.MessageKey(err, auth.OpResend)
		a.flash(ctx, failure(key, values))
		if auth.SessionExpired(err) {
			return response.RedirectSeeOther(signupPath)
		}
		return response.RedirectSeeOther(otpURL(p))
	}

	a.flash(ctx, success("auth.otp.resendSuccess"))
	return response.RedirectSeeOther(otpURL(p))
}

func (a *App) logout(ctx *Context) handler.Response {
	if err := a.auth(ctx).Logout(ctx); err != nil {
		a.logger.WarnContext(ctx, "upstream logout failed", logger.Error(err))
	}
	a.updateSession(ctx, func(d *SessionData) {
		d.RememberMe = false
		d.PendingPhone = ""
	})
	a.flash(ctx, success("auth.logout.success"))
	return response.RedirectSeeOther(loginPath)
}

// bindForm decodes the posted form into dst and normalizes it.
func bindForm(ctx *Context, dst any) error {
	if err := binder.Form()(ctx.Request(), dst); err != nil {
		return err
	}
	return sanitizer.SanitizeStruct(dst)
}

// updateSession applies fn to a copy of the session data and stores it.
func (a *App) updateSession(ctx *Context, fn func(*SessionData)) {
	sess := ctx.Session()
	if sess == nil {
		return
	}
	data := sess.Data
	fn(&data)
	sess.SetData(data)
}

// failureStatus is the status of a page re-rendered after an upstream error:
// client errors keep the upstream status, the rest become 502.
func failureStatus(err error) int {
	if status := apiclient.StatusOf(err); status >= 400 && status < 500 {
		return status
	}
	return http.StatusBadGateway
}

func otpURL(p string) string {
	return otpPath + "?" + url.Values{"phone": {p}}.Encode()
}
