package cafe

import (
	"strconv"

	"github.com/dmitrymomot/cafe/core/handler"
	"github.com/dmitrymomot/cafe/core/response"
	"github.com/dmitrymomot/cafe/core/settings"
	"github.com/dmitrymomot/cafe/pkg/cities"
)

type cityJSON struct {
	ID         int    `json:"id"`
	ProvinceID int    `json:"provinceId"`
	Name       string `json:"name"`
	Province   string `json:"province"`
}

// listCities lists cities matching ?q= in any language, optionally limited to
// ?province=. Names are given in ?lang= or the visitor's language.
func (a *App) listCities(ctx *Context) handler.Response {
	lang := string(ctx.Settings().Language)
	if l, ok := settings.ParseLanguage(ctx.Query("lang")); ok {
		lang = string(l)
	}
	province, _ := strconv.Atoi(ctx.Query("province"))

	provinces := make(map[int]string)
	for _, p := range cities.Provinces() {
		provinces[p.ID] = p.Name.In(lang)
	}

	out := make([]cityJSON, 0)
	for _, c := range cities.Search(ctx.Query("q"), "") {
		if province != 0 && c.ProvinceID != province {
			continue
		}
		out = append(out, cityJSON{
			ID:         c.ID,
			ProvinceID: c.ProvinceID,
			Name:       c.Name.In(lang),
			Province:   provinces[c.ProvinceID],
		})
	}
	return response.JSON(out)
}
