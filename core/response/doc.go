// Package response provides constructors for handler.Response values: plain
// text, JSON, templ components, redirects, and structured HTTP errors with a
// default error handler.
//
//	func showPage(ctx *cafe.Context) handler.Response {
//		return response.Templ(views.Page(data))
//	}
//
//	func submit(ctx *cafe.Context) handler.Response {
//		if err := doWork(ctx); err != nil {
//			return response.Error(response.ErrBadRequest.WithError(err))
//		}
//		return response.RedirectSeeOther("/page")
//	}
//
// Redirects are HTMX aware: when the request carries "HX-Request: true" the
// target is sent in the HX-Location header with a 200 status instead.
package response
