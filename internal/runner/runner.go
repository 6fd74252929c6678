// Package runner drives an importer to completion, feeding every contact it
// yields through a persistence sink, and exposes the result behind a
// synchronous or queue-backed executor.
package runner

import (
	"context"
	"fmt"

	"github.com/mrlokans/contacts/internal/contacts"
	"github.com/mrlokans/contacts/internal/importers"
)

// Sink stores one contact and returns the updated status.
type Sink interface {
	Persist(ctx context.Context, c contacts.Contact, status contacts.Status, creds contacts.Credentials) (contacts.Status, error)
}

// Run pulls every contact from imp and passes it to sink in order, threading
// the status returned by each call into the next one. The first importer or
// sink error ends the run; the status accumulated so far is returned with it.
func Run(ctx context.Context, imp importers.Importer, creds contacts.Credentials, sink Sink) (contacts.Status, error) {
	status := contacts.Status{}

	for c, err := range imp.Contacts(ctx, creds) {
		if err != nil {
			return status, fmt.Errorf("read %s contacts: %w", imp.Source(), err)
		}
		status, err = sink.Persist(ctx, c, status, creds)
		if err != nil {
			return status, fmt.Errorf("persist contact: %w", err)
		}
	}

	return status, nil
}
