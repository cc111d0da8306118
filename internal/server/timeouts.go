package server

import "time"

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 30 * time.Second
	idleTimeout  = 60 * time.Second

	// Startup calls against the Bot API (command menu, webhook registration)
	// get their own deadline so a slow API cannot hang boot.
	startupCallTimeout = 15 * time.Second
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second
