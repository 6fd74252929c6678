package http

import (
	"embed"
	"html/template"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/contacts/internal/auth"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templateFuncs = template.FuncMap{
	"add": func(a, b int) int {
		return a + b
	},
	"subtract": func(a, b int) int {
		return a - b
	},
}

// loadTemplates prefers templates on disk so they can be customised without
// a rebuild, and falls back to the embedded copies.
func loadTemplates(cfg RouterConfig) *template.Template {
	if cfg.Templates != nil {
		return cfg.Templates
	}
	if cfg.TemplatesPath != "" {
		pattern := filepath.Join(cfg.TemplatesPath, "*.html")
		if matches, _ := filepath.Glob(pattern); len(matches) > 0 {
			return template.Must(template.New("").Funcs(templateFuncs).ParseGlob(pattern))
		}
	}
	return template.Must(template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html"))
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	if cfg.Sessions != nil {
		router.Use(cfg.Sessions.SessionLoadSave())
	}
	router.Use(auth.Identity(cfg.Sessions))

	router.SetHTMLTemplate(loadTemplates(cfg))

	if cfg.StaticPath != "" {
		if info, err := os.Stat(cfg.StaticPath); err == nil && info.IsDir() {
			router.Static("/static", cfg.StaticPath)
		}
	}

	health := NewHealthController(cfg.Database, cfg.Version, cfg.RunnerMode)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	if cfg.Executor != nil && cfg.Contacts != nil && cfg.Sessions != nil {
		importContacts := NewImportContactsController(cfg.Executor, cfg.Contacts, cfg.Sessions, cfg.SelectionHandler, cfg.ContactsPerPage)
		router.GET(ImportContactsPath, importContacts.Page)
		router.POST(ImportContactsPath, importContacts.Submit)

		tasks := NewTasksController(cfg.Executor)
		router.GET(ImportContactsPath+"/tasks/:id", tasks.GetTaskStatus)

		NewOAuthController(cfg.OAuthProviders, cfg.Sessions).RegisterRoutes(router)
	}

	return router
}
