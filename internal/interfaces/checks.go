package interfaces

// Compile-time checks that the concrete types wired together in the
// entrypoint satisfy the interfaces their consumers declare.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/contacts/internal/crypto"
	"github.com/mrlokans/contacts/internal/database/imported"
	"github.com/mrlokans/contacts/internal/database/runs"
	"github.com/mrlokans/contacts/internal/http"
	"github.com/mrlokans/contacts/internal/importers"
	"github.com/mrlokans/contacts/internal/runner"
	"github.com/mrlokans/contacts/internal/scheduler"
	"github.com/mrlokans/contacts/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Persistence sink and stores
var _ runner.Sink = (*imported.Repository)(nil)
var _ http.ImportedContactStore = (*imported.Repository)(nil)
var _ runner.RunStore = (*runs.Repository)(nil)

// Cleanup targets
var _ tasks.Cleaner = (*imported.Repository)(nil)
var _ tasks.Cleaner = (*runs.Repository)(nil)

// =============================================================================
// Source Adapters
// =============================================================================

var _ importers.Importer = (*importers.VcardImporter)(nil)
var _ importers.Importer = (*importers.EmailListImporter)(nil)
var _ importers.Importer = (*importers.YahooImporter)(nil)
var _ importers.Importer = (*importers.GoogleImporter)(nil)
var _ importers.APICaller = (*importers.OAuthCaller)(nil)

// =============================================================================
// Execution
// =============================================================================

var _ runner.Executor = (*runner.SyncExecutor)(nil)
var _ runner.Executor = (*runner.AsyncExecutor)(nil)
var _ tasks.ImportRunner = (*runner.AsyncExecutor)(nil)
var _ runner.CredentialSealer = (*crypto.CredentialSealer)(nil)

// Task queue
var _ runner.Enqueuer = (*tasks.Client)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
