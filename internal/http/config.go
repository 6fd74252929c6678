package http

import (
	"html/template"

	"github.com/mrlokans/contacts/internal/auth"
	"github.com/mrlokans/contacts/internal/database"
	"github.com/mrlokans/contacts/internal/oauth"
	"github.com/mrlokans/contacts/internal/runner"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database
	Executor runner.Executor
	Contacts ImportedContactStore

	// Session state and form protection
	Sessions      *auth.SessionManager
	CSRFSecret    []byte
	SecureCookies bool

	// Token acquisition for the Google and Yahoo importers
	OAuthProviders *oauth.Registry

	// SelectionHandler receives the contacts picked on the import screen.
	// Defaults to a flash message and a redirect back to the import page.
	SelectionHandler SelectionHandler
	ContactsPerPage  int

	// UI. Templates overrides TemplatesPath; without either the embedded
	// templates are used.
	TemplatesPath string
	StaticPath    string
	Templates     *template.Template

	// Application info
	Version    string
	RunnerMode string
}
