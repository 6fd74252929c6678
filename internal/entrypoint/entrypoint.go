package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/contacts/internal/auth"
	"github.com/mrlokans/contacts/internal/config"
	"github.com/mrlokans/contacts/internal/crypto"
	"github.com/mrlokans/contacts/internal/database"
	"github.com/mrlokans/contacts/internal/database/imported"
	"github.com/mrlokans/contacts/internal/database/runs"
	http_controllers "github.com/mrlokans/contacts/internal/http"
	"github.com/mrlokans/contacts/internal/importers"
	"github.com/mrlokans/contacts/internal/oauth"
	"github.com/mrlokans/contacts/internal/runner"
	"github.com/mrlokans/contacts/internal/scheduler"
	"github.com/mrlokans/contacts/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the server so in-flight imports can finish
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// NewImporterRegistry builds the source adapters from configuration.
func NewImporterRegistry(cfg *config.Config) *importers.Registry {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	return importers.NewRegistry(
		importers.NewVcardImporter(),
		importers.NewEmailListImporter(),
		importers.NewYahooImporter(importers.NewOAuthCaller(httpClient, cfg.Yahoo.RateLimit), cfg.Yahoo.APIURL),
		importers.NewGoogleImporter(httpClient, cfg.Google.ContactsURL),
	)
}

// CallbackURL is the redirect URL registered with a provider.
func CallbackURL(publicURL, provider string) string {
	return strings.TrimRight(publicURL, "/") + "/contacts/oauth/" + provider + "/callback"
}

// SecretKeys holds the per-purpose keys derived from the session secret.
type SecretKeys struct {
	CSRF        []byte
	Credentials []byte
}

// DeriveSecretKeys derives an independent key for CSRF tokens and for the
// credentials of queued imports.
func DeriveSecretKeys(secret string) (SecretKeys, error) {
	csrfKey, err := auth.DeriveKey(secret, auth.KeyPurposeCSRF)
	if err != nil {
		return SecretKeys{}, err
	}
	credentialsKey, err := auth.DeriveKey(secret, auth.KeyPurposeCredentials)
	if err != nil {
		return SecretKeys{}, err
	}
	return SecretKeys{CSRF: csrfKey, Credentials: credentialsKey}, nil
}

// NewOAuthRegistry registers the providers that have client credentials.
func NewOAuthRegistry(cfg *config.Config) *oauth.Registry {
	var providers []*oauth.Provider
	if cfg.Google.ClientID != "" {
		providers = append(providers, oauth.NewGoogleProvider(cfg.Google.ClientID, cfg.Google.ClientSecret,
			CallbackURL(cfg.HTTP.PublicURL, oauth.ProviderGoogle)))
	}
	if cfg.Yahoo.ClientID != "" {
		providers = append(providers, oauth.NewYahooProvider(cfg.Yahoo.ClientID, cfg.Yahoo.ClientSecret,
			CallbackURL(cfg.HTTP.PublicURL, oauth.ProviderYahoo)))
	}
	return oauth.NewRegistry(providers...)
}

// Cleaners lists the stores the periodic cleanup prunes.
func Cleaners(contacts *imported.Repository, importRuns *runs.Repository) []tasks.NamedCleaner {
	return []tasks.NamedCleaner{
		{Name: "imported contacts", Cleaner: contacts},
		{Name: "import runs", Cleaner: importRuns},
	}
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting contacts importer v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	sessionSecret := cfg.Session.Secret
	if sessionSecret == "" {
		sessionSecret, err = auth.GenerateSessionSecret()
		if err != nil {
			log.Fatalf("Failed to generate session secret: %v", err)
		}
		log.Printf("Generated session secret (set SESSION_SECRET to persist)")
	}
	keys, err := DeriveSecretKeys(sessionSecret)
	if err != nil {
		log.Fatalf("Failed to derive keys from session secret: %v", err)
	}

	contactStore := imported.NewRepository(db.DB)
	runStore := runs.NewRepository(db.DB)
	registry := NewImporterRegistry(cfg)
	cleaners := Cleaners(contactStore, runStore)

	var executor runner.Executor
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var cleanupJob scheduler.Job

	if cfg.Import.Async() {
		log.Printf("Import runner: async (%d workers)", cfg.Tasks.Workers)

		taskCfg := tasks.DefaultConfig()
		taskCfg.Workers = cfg.Tasks.Workers
		taskCfg.ReleaseAfter = cfg.Tasks.ReleaseAfter
		taskCfg.CleanupInterval = cfg.Tasks.CleanupInterval

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		async := runner.NewAsyncExecutor(registry, contactStore, runStore, taskClient)
		enc, err := crypto.NewEncryptor(keys.Credentials)
		if err != nil {
			log.Fatalf("Failed to initialize credential encryption: %v", err)
		}
		async.SetCredentialSealer(crypto.NewCredentialSealer(enc))
		if cfg.Session.Secret == "" {
			log.Printf("WARNING: queued imports cannot be resumed after a restart without SESSION_SECRET")
		}
		taskClient.Register(
			tasks.NewImportContactsQueue(async),
			tasks.NewCleanupQueue(cleaners...),
		)
		executor = async
		cleanupJob = scheduler.EnqueueCleanup(taskClient, cfg.Cleanup.Retention)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	} else {
		log.Printf("Import runner: sync")
		executor = runner.NewSyncExecutor(registry, contactStore)
		cleanupJob = scheduler.InlineCleanup(cfg.Cleanup.Retention, cleaners...)
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Session)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	providers := NewOAuthRegistry(cfg)
	if names := providers.Names(); len(names) > 0 {
		log.Printf("OAuth providers: %s", strings.Join(names, ", "))
	} else {
		log.Printf("WARNING: no OAuth client configured. Google and Yahoo imports need a token passed to /contacts/oauth/<provider>/login?token=")
	}

	var cleanupScheduler *scheduler.CleanupScheduler
	if cfg.Cleanup.Enabled {
		cleanupScheduler = scheduler.NewCleanupScheduler(cfg.Cleanup.Schedule, cleanupJob)
		if err := cleanupScheduler.Start(context.Background()); err != nil {
			log.Printf("WARNING: cleanup scheduler not started: %v", err)
			cleanupScheduler = nil
		}
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:        db,
		Executor:        executor,
		Contacts:        contactStore,
		Sessions:        sessionManager,
		CSRFSecret:      keys.CSRF,
		SecureCookies:   cfg.Session.SecureCookies,
		OAuthProviders:  providers,
		ContactsPerPage: cfg.Import.ContactsPerPage,
		TemplatesPath:   cfg.UI.TemplatesPath,
		StaticPath:      cfg.UI.StaticPath,
		Version:         version,
		RunnerMode:      string(cfg.Import.Runner),
	})

	onShutdown := func(ctx context.Context) {
		if cleanupScheduler != nil {
			cleanupScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
