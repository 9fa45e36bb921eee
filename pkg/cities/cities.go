package cities

import (
	_ "embed"
	"encoding/json"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

//go:embed iran-cities.json
var dataset []byte

// Name is a place name in every supported language.
type Name struct {
	Fa string `json:"fa"`
	En string `json:"en"`
	Ar string `json:"ar"`
}

// In returns the name in lang, falling back to Persian.
func (n Name) In(lang string) string {
	switch lang {
	case "en":
		if n.En != "" {
			return n.En
		}
	case "ar":
		if n.Ar != "" {
			return n.Ar
		}
	}
	return n.Fa
}

// City is a selectable city.
type City struct {
	ID         int  `json:"id"`
	Name       Name `json:"name"`
	ProvinceID int  `json:"provinceId"`
}

// Province groups cities.
type Province struct {
	ID   int  `json:"id"`
	Name Name `json:"name"`
}

type rawProvince struct {
	Name Name `json:"name"`
	City map[string]struct {
		Name Name `json:"name"`
	} `json:"city"`
}

var (
	loadOnce  sync.Once
	loadErr   error
	provinces []Province
	all       []City
	byID      map[int]City
	index     map[int]string // city id -> folded names
)

func load() {
	var raw map[string]rawProvince
	if loadErr = json.Unmarshal(dataset, &raw); loadErr != nil {
		return
	}

	byID = make(map[int]City)
	index = make(map[int]string)
	for pid, p := range raw {
		provinceID, err := strconv.Atoi(pid)
		if err != nil {
			loadErr = err
			return
		}
		provinces = append(provinces, Province{ID: provinceID, Name: p.Name})

		for cid, c := range p.City {
			cityID, err := strconv.Atoi(cid)
			if err != nil {
				loadErr = err
				return
			}
			city := City{ID: cityID, Name: c.Name, ProvinceID: provinceID}
			all = append(all, city)
			byID[cityID] = city
			index[cityID] = fold(c.Name.Fa) + "\x00" + fold(c.Name.En) + "\x00" + fold(c.Name.Ar)
		}
	}

	slices.SortFunc(provinces, func(a, b Province) int { return a.ID - b.ID })
	slices.SortFunc(all, func(a, b City) int { return a.ID - b.ID })
}

func ensure() {
	loadOnce.Do(load)
	if loadErr != nil {
		panic("cities: corrupt embedded dataset: " + loadErr.Error())
	}
}

// All returns every city ordered by id.
func All() []City {
	ensure()
	return slices.Clone(all)
}

// Provinces returns every province ordered by id.
func Provinces() []Province {
	ensure()
	return slices.Clone(provinces)
}

// Find looks a city up by id.
func Find(id int) (City, bool) {
	ensure()
	c, ok := byID[id]
	return c, ok
}

// FindProvince looks a province up by id.
func FindProvince(id int) (Province, bool) {
	ensure()
	i := slices.IndexFunc(provinces, func(p Province) bool { return p.ID == id })
	if i < 0 {
		return Province{}, false
	}
	return provinces[i], true
}

// ByProvince returns the cities of a province ordered by id.
func ByProvince(provinceID int) []City {
	ensure()
	var out []City
	for _, c := range all {
		if c.ProvinceID == provinceID {
			out = append(out, c)
		}
	}
	return out
}

// Search returns the cities whose name contains term. A blank term returns
// every city. When lang is set only that language's name is matched,
// otherwise all names are.
func Search(term, lang string) []City {
	ensure()
	term = fold(strings.TrimSpace(term))
	if term == "" {
		return All()
	}

	var out []City
	for _, c := range all {
		var haystack string
		switch lang {
		case "fa", "en", "ar":
			haystack = fold(c.Name.In(lang))
		default:
			haystack = index[c.ID]
		}
		if strings.Contains(haystack, term) {
			out = append(out, c)
		}
	}
	return out
}

var letterForms = strings.NewReplacer(
	"ي", "ی", "ى", "ی", "ك", "ک", "ة", "ه", "أ", "ا", "إ", "ا", "آ", "ا",
	"‌", " ",
)

// fold lowercases s, strips diacritics and unifies Arabic and Persian letter
// forms.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}
	return letterForms.Replace(cases.Fold().String(s))
}
