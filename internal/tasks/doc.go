// Package tasks runs contact imports and periodic cleanup out of the request
// path on a SQLite-backed backlite queue.
//
// Queues are registered by the entrypoint:
//
//	client.Register(
//		tasks.NewImportContactsQueue(runner),
//		tasks.NewCleanupQueue(cleaners...),
//	)
package tasks
