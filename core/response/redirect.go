package response

import (
	"net/http"

	"github.com/dmitrymomot/cafe/core/handler"
)

const (
	// HeaderHXRequest is sent by HTMX on every request it makes.
	HeaderHXRequest = "HX-Request"
	// HeaderHXLocation instructs HTMX to perform a client-side navigation.
	HeaderHXLocation = "HX-Location"
)

// Redirect creates a 302 Found (temporary redirect) response.
func Redirect(url string) handler.Response {
	return redirect(url, http.StatusFound)
}

// RedirectSeeOther creates a 303 See Other response.
// This is the redirect to use after a form POST.
func RedirectSeeOther(url string) handler.Response {
	return redirect(url, http.StatusSeeOther)
}

// RedirectPermanent creates a 301 Moved Permanently response.
func RedirectPermanent(url string) handler.Response {
	return redirect(url, http.StatusMovedPermanently)
}

func redirect(url string, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if r.Header.Get(HeaderHXRequest) == "true" {
			w.Header().Set(HeaderHXLocation, url)
			w.WriteHeader(http.StatusOK)
			return nil
		}
		http.Redirect(w, r, url, status)
		return nil
	}
}
