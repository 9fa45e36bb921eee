package cafe

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/i18n"
	"github.com/dmitrymomot/cafe/core/logger"
	"github.com/dmitrymomot/cafe/core/response"
	"github.com/dmitrymomot/cafe/core/settings"
	"github.com/dmitrymomot/cafe/core/validator"
	"github.com/dmitrymomot/cafe/pkg/phone"
)

//go:embed templates static locales
var assets embed.FS

// Page templates. Each is parsed together with the layout and the partials.
const (
	pageLogin  = "login.html"
	pageSignup = "signup.html"
	pageOTP    = "otp.html"
	pageCafe   = "page.html"
	pageError  = "error.html"
)

const noticeFlash = "notice"

// Notice is a one-line message shown above the page content.
type Notice struct {
	Kind   string `json:"kind"` // success or error
	Key    string `json:"key"`
	Values i18n.M `json:"values,omitempty"`
}

func success(key string) *Notice { return &Notice{Kind: "success", Key: key} }

func failure(key string, values i18n.M) *Notice {
	return &Notice{Kind: "error", Key: key, Values: values}
}

// View is the data every page template receives.
type View struct {
	ctx *Context

	Title    string
	Settings settings.Settings
	State    string
	StateJS  template.JS
	Path     string
	Version  string
	SignedIn bool

	RecaptchaSiteKey string

	Notice *Notice
	Errors validator.ValidationErrors
	Data   any
}

// T translates key. Extra arguments are placeholder name/value pairs.
func (v View) T(key string, pairs ...any) string {
	m := i18n.M{}
	for i := 0; i+1 < len(pairs); i += 2 {
		if name, ok := pairs[i].(string); ok {
			m[name] = pairs[i+1]
		}
	}
	return i18n.T(v.ctx, key, m)
}

func (v View) Lang() string { return string(v.Settings.Language) }
func (v View) Dir() string  { return v.Settings.Dir() }
func (v View) IsDark() bool { return v.Settings.IsDark() }

// NoticeText returns the translated notice, or "".
func (v View) NoticeText() string {
	if v.Notice == nil {
		return ""
	}
	return i18n.T(v.ctx, v.Notice.Key, v.Notice.Values)
}

// FieldError returns the translated first error of field, or "".
func (v View) FieldError(field string) string {
	e, ok := v.Errors.Get(field)
	if !ok {
		return ""
	}
	return i18n.T(v.ctx, e.TranslationKey, i18n.M(e.TranslationValues))
}

type views struct {
	pages map[string]*template.Template
}

func loadViews(fsys fs.FS) (*views, error) {
	v := &views{pages: make(map[string]*template.Template)}
	for _, page := range []string{pageLogin, pageSignup, pageOTP, pageCafe, pageError} {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(fsys,
			"templates/layout.html",
			"templates/partials/*.html",
			"templates/pages/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		v.pages[page] = t
	}
	return v, nil
}

var funcs = template.FuncMap{
	"phone": phone.Format,
}

func (a *App) view(ctx *Context, title string) View {
	v := View{
		ctx:              ctx,
		Title:            title,
		Settings:         ctx.Settings(),
		Path:             ctx.Request().URL.RequestURI(),
		Version:          a.config.Version,
		RecaptchaSiteKey: a.config.RecaptchaSiteKey,
	}
	if tokens := ctx.Tokens(); tokens != nil {
		v.SignedIn = tokens.AccessToken() != ""
	}

	if h, ok := ctx.Hydrator(); ok {
		if state, err := h.TransferState().Encode(); err == nil {
			v.State = state
			v.StateJS = template.JS(state)
		} else {
			a.logger.WarnContext(ctx, "transfer state encoding failed", logger.Error(err))
		}
	}

	var n Notice
	if err := a.cookies.GetFlash(ctx.ResponseWriter(), ctx.Request(), noticeFlash, &n); err == nil {
		v.Notice = &n
	}
	return v
}

func (a *App) render(page string, status int, v View) handler.Response {
	t, ok := a.views.pages[page]
	if !ok {
		return response.Error(fmt.Errorf("unknown page %q", page))
	}
	if status == 0 {
		status = http.StatusOK
	}
	return response.TemplWithStatus(templ.FromGoHTML(t, v), status)
}

// flash stores a notice for the next rendered page.
func (a *App) flash(ctx *Context, n *Notice) {
	if err := a.cookies.SetFlash(ctx.ResponseWriter(), noticeFlash, n); err != nil {
		a.logger.WarnContext(ctx, "flash write failed", logger.Error(err))
	}
}
