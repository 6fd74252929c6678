package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/mrlokans/contacts/internal/contacts"
	"github.com/mrlokans/contacts/internal/database"
	"github.com/mrlokans/contacts/internal/database/imported"
	"github.com/mrlokans/contacts/internal/importers"
	"github.com/mrlokans/contacts/internal/runner"
)

// runImport runs one synchronous import into the database at dbPath and
// prints the outcome.
func runImport(ctx context.Context, out io.Writer, dbPath string, source contacts.Source, creds contacts.Credentials) (contacts.Status, error) {
	absDBPath, err := filepath.Abs(dbPath)
	if err != nil {
		return contacts.Status{}, fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	fmt.Fprintf(out, "Saving to database: %s\n", absDBPath)

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return contacts.Status{}, fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	registry := importers.NewRegistry(importers.NewVcardImporter(), importers.NewEmailListImporter())
	executor := runner.NewSyncExecutor(registry, imported.NewRepository(db.DB))

	handle, err := executor.Submit(ctx, source, creds)
	if err != nil {
		return contacts.Status{}, err
	}
	if !handle.Succeeded() {
		return handle.Result, fmt.Errorf("import failed: %w", handle.Err)
	}

	fmt.Fprintln(out, "\n=== Import Summary ===")
	fmt.Fprintf(out, "People with email found: %d\n", handle.Result.Total)
	fmt.Fprintf(out, "Contacts imported: %d\n", handle.Result.Imported)
	return handle.Result, nil
}
