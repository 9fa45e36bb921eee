package cafe

import (
	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/logger"
	"github.com/dmitrymomot/cafe/core/response"
	"github.com/dmitrymomot/cafe/core/settings"
	"github.com/dmitrymomot/cafe/middleware"
)

// returnField names the form field holding the page a switcher was used on.
const returnField = "return"

func (a *App) toggleTheme(ctx *Context) handler.Response {
	return a.savePreferences(ctx, ctx.Settings().Toggle())
}

func (a *App) changeLanguage(ctx *Context) handler.Response {
	s := ctx.Settings()
	if l, ok := settings.ParseLanguage(ctx.FormValue("language")); ok {
		s = s.WithLanguage(l)
	}
	return a.savePreferences(ctx, s)
}

func (a *App) savePreferences(ctx *Context, s settings.Settings) handler.Response {
	if h, ok := ctx.Hydrator(); ok {
		if err := h.SaveSettings(s); err != nil {
			a.logger.WarnContext(ctx, "preferences not saved", logger.Error(err))
		}
	}
	return response.RedirectSeeOther(middleware.SafeReturnURL(ctx.FormValue(returnField), loginPath))
}
