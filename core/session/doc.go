// Package session provides generic server-side sessions.
//
// A Session[Data] carries an application-defined payload, a stable ID and a
// random token that the browser holds in a cookie. Sessions are persisted
// through a Store[Data]; MemoryStore is included and a Redis implementation
// lives in integration/database/redis.
//
//	type Data struct {
//		AccessToken string `json:"access_token"`
//	}
//
//	mgr := session.NewFromConfig[Data](session.NewMemoryStore[Data](), cfg)
//
//	sess, err := mgr.GetByToken(ctx, token)
//	if err != nil {
//		sess, err = mgr.New(ctx, session.NewSessionParams{IP: ip})
//	}
//	sess.Data.AccessToken = "..."
//	sess.SetData(sess.Data)
//	err = mgr.Store(ctx, &sess)
//
// # Lifecycle
//
// Manager.Store decides what to persist: deleted sessions (Logout) are
// removed, modified sessions are saved, and untouched sessions are saved only
// when TouchInterval has elapsed since the last update, which slides the
// expiry forward without writing on every request.
//
// Refresh rotates the token while keeping the ID. Rotate whenever the
// session's privilege changes.
//
// # Request Scope
//
// WithSession and FromContext attach the loaded session to a request context
// so that handlers and lower layers share one mutable copy.
package session
