// Package cookie manages HTTP cookies with optional HMAC signing and
// AES-256-GCM encryption.
//
// Signing and encryption keys are derived from each configured secret with
// HKDF-SHA256. Secrets are given as a comma-separated list in COOKIE_SECRETS;
// the first one protects new cookies and every one is tried on read, which
// allows rotating secrets without logging users out.
//
//	m, err := cookie.NewFromConfig(cfg)
//	if err != nil {
//		return err
//	}
//
//	// long-lived credential, readable only by the server
//	_ = m.SetEncrypted(w, "cafe_refresh", token, cookie.WithMaxAge(30*24*3600))
//	token, err := m.GetEncrypted(r, "cafe_refresh")
//
//	// tamper-evident identifier
//	_ = m.SetSigned(w, "cafe_session", id)
//
// Flash values are encrypted JSON cookies removed on first read:
//
//	_ = m.SetFlash(w, "notice", "auth.register.success")
//	var key string
//	_ = m.GetFlash(w, r, "notice", &key)
package cookie
