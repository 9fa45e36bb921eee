package cafe

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/dmitrymomot/cafe/core/apiclient"
	"github.com/dmitrymomot/cafe/core/auth"
	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/logger"
	"github.com/dmitrymomot/cafe/core/response"
	"github.com/dmitrymomot/cafe/middleware"
	"github.com/dmitrymomot/cafe/pkg/cities"
)

var cafeTabs = []string{"menu", "orders", "profile"}

// menuItems are translation keys under page.menu.items.
var menuItems = []string{"espresso", "latte", "tea", "cake"}

const (
	defaultTab = "menu"
	profileTab = "profile"
)

type cafePage struct {
	Tab      string
	Tabs     []string
	Menu     []string
	Profile  *auth.Profile
	City     string
	Province string
}

func (a *App) cafePage(ctx *Context) handler.Response {
	tab := ctx.Query("tab")
	if !slices.Contains(cafeTabs, tab) {
		tab = defaultTab
	}
	data := cafePage{Tab: tab, Tabs: cafeTabs, Menu: menuItems}

	var notice *Notice
	// Only the profile tab needs upstream data.
	if tab == profileTab {
		profile, err := a.auth(ctx).Profile(ctx)
		switch {
		case apiclient.StatusOf(err) == http.StatusUnauthorized:
			a.logger.InfoContext(ctx, "profile rejected the access token", logger.Error(err))
			ctx.Tokens().Clear()
			return response.Redirect(middleware.LoginRedirectURL(loginPath, ctx.Request().URL.RequestURI()))
		case err != nil:
			a.logger.WarnContext(ctx, "profile load failed", logger.Error(err))
			notice = failure("page.profileError", nil)
		default:
			data.Profile = &profile
			lang := string(ctx.Settings().Language)
			data.City = cityName(profile.City, lang)
			data.Province = provinceName(profile.Province, lang)
		}
	}

	v := a.view(ctx, ctx.T("page.title"))
	v.Data = data
	if notice != nil {
		v.Notice = notice
	}
	return a.render(pageCafe, http.StatusOK, v)
}

// cityName resolves a city id to its name. Anything else is shown as is.
func cityName(raw, lang string) string {
	if id, err := strconv.Atoi(raw); err == nil {
		if c, ok := cities.Find(id); ok {
			return c.Name.In(lang)
		}
	}
	return raw
}

func provinceName(raw, lang string) string {
	if id, err := strconv.Atoi(raw); err == nil {
		if p, ok := cities.FindProvince(id); ok {
			return p.Name.In(lang)
		}
	}
	return raw
}
