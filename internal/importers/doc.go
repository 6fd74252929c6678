// Package importers turns contacts from external sources into the normalized
// contacts.Contact record.
//
// # Architecture
//
//	Credentials → Importer.Contacts → iter.Seq2[Contact, error] → runner.Run → Sink
//
// Each source implements the Importer interface and produces a lazy sequence.
// The sequence is pulled one record at a time; nothing is buffered beyond what
// the source format itself requires.
//
// # Error policy
//
// Adapters distinguish two situations:
//
//   - a single contact has insufficient data (no email address): the contact is
//     skipped silently, it is not an error;
//   - the remote data shape is wrong (a structure that is always present is
//     missing): the sequence yields an error and stops.
//
// GoogleImporter additionally treats a non-success HTTP status as "no contacts".
//
// # Existing importers
//
//   - VcardImporter: uploaded vCard files
//   - EmailListImporter: comma-separated address lists from a form
//   - YahooImporter: Yahoo social API (GUID lookup, then contact list)
//   - GoogleImporter: Google contacts JSON feed
//
// # Adding a new source
//
//  1. Add a contacts.Source constant.
//  2. Create a file (e.g. outlook.go) with a type implementing Importer.
//  3. Add a compile-time check: var _ Importer = (*OutlookImporter)(nil)
//  4. Register it in the Registry built by the entrypoint.
package importers
