// Package cities provides the embedded list of Iranian provinces and cities
// used by the sign-up form.
//
// Every entry carries Persian, English and Arabic names:
//
//	c, ok := cities.Find(1)           // Tabriz
//	matches := cities.Search("shir", "en")
//	for _, c := range cities.ByProvince(c.ProvinceID) { ... }
//
// Search is a case-insensitive substring match. Diacritics are ignored and
// Arabic letter forms (ي, ك) match their Persian counterparts.
package cities
