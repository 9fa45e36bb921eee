package middleware

import (
	"maps"

	"github.com/dmitrymomot/cafe/core/handler"
)

// SecurityHeadersConfig lists the headers added to every response.
// Empty values are omitted.
type SecurityHeadersConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	ContentTypeOptions      string
	FrameOptions            string
	StrictTransportSecurity string
	ContentSecurityPolicy   string
	ReferrerPolicy          string
	PermissionsPolicy       string
	CrossOriginOpenerPolicy string

	// CustomHeaders are added last and win over the fields above
	CustomHeaders map[string]string

	// IsDevelopment drops HSTS so plain-HTTP local runs keep working
	IsDevelopment bool
}

// SitePolicy is the content security policy of the rendered pages: scripts and
// styles come from /static, forms post back to the site.
const SitePolicy = "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' data:; font-src 'self' data:; connect-src 'self'; " +
	"frame-ancestors 'none'; base-uri 'self'; form-action 'self'"

var (
	// BalancedSecurity is the production preset.
	BalancedSecurity = SecurityHeadersConfig{
		ContentTypeOptions:      "nosniff",
		FrameOptions:            "DENY",
		StrictTransportSecurity: "max-age=31536000; includeSubDomains",
		ContentSecurityPolicy:   SitePolicy,
		ReferrerPolicy:          "strict-origin-when-cross-origin",
		PermissionsPolicy:       "geolocation=(), microphone=(), camera=()",
		CrossOriginOpenerPolicy: "same-origin",
	}

	// DevelopmentSecurity keeps the policy but allows plain HTTP.
	DevelopmentSecurity = SecurityHeadersConfig{
		ContentTypeOptions:    "nosniff",
		FrameOptions:          "DENY",
		ContentSecurityPolicy: SitePolicy,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		IsDevelopment:         true,
	}
)

// SecurityHeaders applies BalancedSecurity.
func SecurityHeaders[C handler.Context]() handler.Middleware[C] {
	return SecurityHeadersWithConfig[C](BalancedSecurity)
}

// SecurityHeadersWithConfig applies cfg.
func SecurityHeadersWithConfig[C handler.Context](cfg SecurityHeadersConfig) handler.Middleware[C] {
	if cfg.IsDevelopment {
		cfg.StrictTransportSecurity = ""
	}

	headers := make(map[string]string)
	set := func(name, value string) {
		if value != "" {
			headers[name] = value
		}
	}
	set("X-Content-Type-Options", cfg.ContentTypeOptions)
	set("X-Frame-Options", cfg.FrameOptions)
	set("Strict-Transport-Security", cfg.StrictTransportSecurity)
	set("Content-Security-Policy", cfg.ContentSecurityPolicy)
	set("Referrer-Policy", cfg.ReferrerPolicy)
	set("Permissions-Policy", cfg.PermissionsPolicy)
	set("Cross-Origin-Opener-Policy", cfg.CrossOriginOpenerPolicy)
	maps.Copy(headers, cfg.CustomHeaders)

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			// Set before the handler runs so error pages carry them too.
			h := ctx.ResponseWriter().Header()
			for name, value := range headers {
				h.Set(name, value)
			}
			return next(ctx)
		}
	}
}
