// Package settings resolves the visitor's theme and language across the
// server render and the browser interaction that follows it.
//
// A page request is the server pass: the Hydrator reads the preferences
// cookie (or the system color-scheme hint), and stores the result in a
// TransferState that the page embeds as JSON. Forms posted from that page
// carry the document back, so the browser pass reuses the server value
// without parsing the cookie again. Only the browser pass writes the
// app-settings cookie.
//
//	h := settings.NewHydrator(w, r, cookies,
//		settings.WithPlatform(settings.PlatformServer),
//		settings.WithTransferState(state),
//	)
//	s := h.GetSettings()
//
// Resolution order: transfer state, app-settings cookie (then the legacy
// settings cookie, with user-theme and user-language overrides on the
// server), the Sec-CH-Prefers-Color-Scheme hint, and finally light/fa.
package settings
