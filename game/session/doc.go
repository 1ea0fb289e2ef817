// Package session provides in-memory session management for the 2048 server.
//
// Manager stores one engine.GameEngine per session behind a read-write
// mutex. Session IDs are 4 hex characters from crypto/rand and are matched
// case-insensitively. Nothing is written to disk; a restart drops every game.
//
// Usage:
//
//	manager := session.NewManagerWithLogger(logger)
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
//	// Drop sessions idle for a day, checking hourly, until ctx is cancelled
//	go manager.RunCleanup(ctx, 24*time.Hour, time.Hour)
package session
