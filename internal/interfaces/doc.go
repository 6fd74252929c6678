// Package interfaces documents the extension points of the contacts importer.
//
// # Interface Categories
//
// ## Source Adapters
//
//   - Importer: Lazy sequence of normalized contacts for one source (internal/importers/importer.go)
//   - APICaller: Authenticated JSON GET used by the Yahoo importer (internal/importers/apicaller.go)
//
// ## Execution
//
//   - Sink: Receives every imported contact and returns the updated tally (internal/runner/runner.go)
//   - Executor: Decides where an import runs, inline or on the task queue (internal/runner/handle.go)
//   - RunStore: Persists the state of queued imports (internal/runner/async.go)
//   - CredentialSealer: Protects queued credentials (internal/runner/async.go)
//
// ## HTTP
//
//   - ImportedContactStore: Paging and selection reads (internal/http/stores.go)
//   - SelectionHandler: Host hook receiving the selected contacts (internal/http/selection.go)
//
// # Adding a New Import Source
//
//  1. Add a Source constant in internal/contacts/contact.go and any credential
//     field the source needs.
//
//  2. Implement Importer in internal/importers/
//
//     type OutlookImporter struct {
//         caller APICaller
//     }
//
//     func (i *OutlookImporter) Source() contacts.Source
//     func (i *OutlookImporter) Contacts(ctx context.Context, creds contacts.Credentials) iter.Seq2[contacts.Contact, error]
//
//  3. Register it in entrypoint.NewImporterRegistry and add a form action in
//     internal/http/import_contacts.go.
//
//  4. Add a compile-time check to checks.go.
//
// # Replacing the Selection Handler
//
// Hosts pass their own handler in RouterConfig.SelectionHandler. It runs
// before the user's imported contacts are discarded:
//
//	http.SelectionHandlerFunc(func(c *gin.Context, selected []entities.ImportedContact) {
//	    // invite, copy to an address book, ...
//	})
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces
