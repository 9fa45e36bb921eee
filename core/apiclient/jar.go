package apiclient

import (
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Jar is a minimal cookie jar that keeps upstream cookies by name for a
// single upstream host. Its state can be exported to and restored from a
// plain map so it fits in a browser session.
type Jar struct {
	mu      sync.Mutex
	cookies map[string]string
	dirty   bool
}

// NewJar creates a jar seeded with the given name/value pairs.
func NewJar(seed map[string]string) *Jar {
	j := &Jar{cookies: make(map[string]string, len(seed))}
	for k, v := range seed {
		j.cookies[k] = v
	}
	return j
}

// SetCookies implements http.CookieJar. Expired or empty cookies are removed.
func (j *Jar) SetCookies(_ *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now()
	for _, c := range cookies {
		expired := c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(now))
		if expired || c.Value == "" {
			if _, ok := j.cookies[c.Name]; ok {
				delete(j.cookies, c.Name)
				j.dirty = true
			}
			continue
		}
		if j.cookies[c.Name] != c.Value {
			j.cookies[c.Name] = c.Value
			j.dirty = true
		}
	}
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(_ *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]*http.Cookie, 0, len(j.cookies))
	for name, value := range j.cookies {
		out = append(out, &http.Cookie{Name: name, Value: value})
	}
	return out
}

// Get returns a cookie value by name.
func (j *Jar) Get(name string) (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	v, ok := j.cookies[name]
	return v, ok
}

// Remove expires a cookie locally.
func (j *Jar) Remove(name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, ok := j.cookies[name]; ok {
		delete(j.cookies, name)
		j.dirty = true
	}
}

// Snapshot copies the current cookies.
func (j *Jar) Snapshot() map[string]string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make(map[string]string, len(j.cookies))
	for k, v := range j.cookies {
		out[k] = v
	}
	return out
}

// Dirty reports whether the jar changed since creation.
func (j *Jar) Dirty() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.dirty
}
