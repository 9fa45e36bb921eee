// Package sessiontransport carries core/session sessions over HTTP.
//
// Cookie stores Session.Token in a signed cookie. Load never fails on a bad
// or missing cookie: it starts a fresh session with the client IP (see
// pkg/clientip) and User-Agent instead. Save persists through the session
// manager and refreshes the cookie's Max-Age so it expires together with the
// server-side session.
//
//	transport := sessiontransport.NewCookieFromConfig(cfg, sessions, cookies)
//
//	sess, err := transport.Load(ctx)
//	sess.Data.AccessToken = token
//	sess.SetData(sess.Data)
//	err = transport.Save(ctx, &sess)
package sessiontransport
