// Package binder decodes submitted forms and query strings into structs.
//
//	var in loginForm
//	if err := binder.Form()(ctx.Request(), &in); err != nil {
//		return response.Error(response.ErrBadRequest.WithError(err))
//	}
//
// String values are stripped of control characters. Checkbox fields bind to
// bool and are true for "on", "1", "true" or "yes".
package binder
