// Package database provides the data access layer for the application.
//
// # Architecture
//
//	database/
//	├── database.go   # Connection setup and migrations
//	├── imported/     # Imported contacts: persistence sink, paging, selection
//	└── runs/         # Import run bookkeeping for queued imports
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./contacts.db")
//
//	contactsRepo := imported.NewRepository(db.DB)
//	runsRepo := runs.NewRepository(db.DB)
//
// # Interface Implementations
//
//   - imported.Repository: implements runner.Sink
//   - runs.Repository: implements runner.RunStore
package database
