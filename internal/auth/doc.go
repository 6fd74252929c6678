// Package auth keeps per-user request state for the import screens.
//
// Sessions are stored in SQLite through scs and hold the contact selection,
// provider tokens, flash messages and the ID of an import still running on
// the task queue. Form posts are protected by gorilla/csrf when a session
// secret is configured.
//
// # Usage
//
//	sm, err := auth.NewSessionManager(sqlDB, cfg.Session)
//	router.Use(sm.SessionLoadSave())
//	router.Use(auth.Identity(sm))
//
// Extract the user in handlers:
//
//	userID := auth.GetUserID(c) // a per-session guest ID without a logged-in user
package auth
