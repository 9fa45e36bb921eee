package server

import "time"

const (
	// DefaultPort matches the port the site has always been served on.
	DefaultPort = 4000

	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultReadTimeout       = 15 * time.Second
	// DefaultWriteTimeout covers the upstream API round trips made while rendering a page.
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 20 * time.Second

	DefaultMaxHeaderBytes = 1 << 20 // 1 MB
)
