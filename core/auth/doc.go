// Package auth talks to the upstream authentication API on behalf of one
// browser session.
//
// A Service is built per request around the session's token.Manager. Every
// call goes through Manager.WithCSRFToken, sends the X-Csrf-Token header and
// carries the session's upstream cookie jar:
//
//	svc := auth.NewService(client, tokens)
//	if _, err := svc.Login(ctx, auth.LoginData{Entity: phone, Password: pw}); err != nil {
//		key, args := auth.MessageKey(err, auth.OpLogin)
//		// render translator.T(key, args)
//	}
//
// MessageKey turns an upstream failure into a translation key for the form
// that triggered it.
package auth
