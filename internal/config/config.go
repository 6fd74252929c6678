package config

import (
	"time"

	"github.com/spf13/viper"
)

// RunnerMode selects where imports execute.
type RunnerMode string

const (
	RunnerModeSync  RunnerMode = "sync"  // Imports run inside the request (default)
	RunnerModeAsync RunnerMode = "async" // Imports run on the task queue
)

type (
	Config struct {
		HTTP
		Global
		Database
		UI
		Import
		Tasks
		Cleanup
		Session
		Google
		Yahoo
	}

	HTTP struct {
		Port      int32
		Host      string
		PublicURL string // Base URL used to build OAuth2 callback URLs
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	UI struct {
		TemplatesPath string
		StaticPath    string
	}
	Import struct {
		Runner          RunnerMode
		ContactsPerPage int
	}
	Tasks struct {
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Cleanup struct {
		Enabled   bool
		Schedule  string        // Cron format: "0 * * * *" = hourly
		Retention time.Duration // Age after which imported contacts and runs are removed
	}
	Session struct {
		Secret        string
		Lifetime      time.Duration
		SecureCookies bool // Set to false for local dev without HTTPS
	}
	Google struct {
		ClientID     string
		ClientSecret string
		ContactsURL  string
	}
	Yahoo struct {
		ClientID     string
		ClientSecret string
		APIURL       string
		RateLimit    float64 // Requests per second against the Yahoo API, 0 disables throttling
	}
)

// Async reports whether imports should go through the task queue.
func (i Import) Async() bool {
	return i.Runner == RunnerModeAsync
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("public_url", "http://localhost:8188")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("templates_path", "./templates")
	v.SetDefault("static_path", "./static")

	v.SetDefault("import_runner", string(RunnerModeSync))
	v.SetDefault("contacts_per_page", DefaultContactsPerPage)

	// Task queue defaults
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("cleanup_enabled", true)
	v.SetDefault("cleanup_schedule", "0 * * * *") // Hourly at :00
	v.SetDefault("cleanup_retention", "24h")

	v.SetDefault("session_secret", "") // Auto-generated if empty
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("secure_cookies", false)

	v.SetDefault("google_client_id", "")
	v.SetDefault("google_client_secret", "")
	v.SetDefault("google_contacts_url", DefaultGoogleContactsURL)
	v.SetDefault("yahoo_client_id", "")
	v.SetDefault("yahoo_client_secret", "")
	v.SetDefault("yahoo_api_url", DefaultYahooAPIURL)
	v.SetDefault("yahoo_rate_limit", 5)

	return &Config{
		HTTP: HTTP{
			Port:      v.GetInt32("PORT"),
			Host:      v.GetString("HOST"),
			PublicURL: v.GetString("PUBLIC_URL"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Import: Import{
			Runner:          RunnerMode(v.GetString("IMPORT_RUNNER")),
			ContactsPerPage: v.GetInt("CONTACTS_PER_PAGE"),
		},
		Tasks: Tasks{
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Cleanup: Cleanup{
			Enabled:   v.GetBool("CLEANUP_ENABLED"),
			Schedule:  v.GetString("CLEANUP_SCHEDULE"),
			Retention: v.GetDuration("CLEANUP_RETENTION"),
		},
		Session: Session{
			Secret:        v.GetString("SESSION_SECRET"),
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
		},
		Google: Google{
			ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
			ContactsURL:  v.GetString("GOOGLE_CONTACTS_URL"),
		},
		Yahoo: Yahoo{
			ClientID:     v.GetString("YAHOO_CLIENT_ID"),
			ClientSecret: v.GetString("YAHOO_CLIENT_SECRET"),
			APIURL:       v.GetString("YAHOO_API_URL"),
			RateLimit:    v.GetFloat64("YAHOO_RATE_LIMIT"),
		},
	}
}
