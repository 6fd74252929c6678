package importers

import (
	"context"
	"fmt"
	"iter"
	"sort"

	"github.com/mrlokans/contacts/internal/contacts"
)

// Importer produces normalized contacts for one source.
type Importer interface {
	// Source returns the source this importer handles.
	Source() contacts.Source

	// Contacts returns a lazy sequence of contacts read with the given
	// credentials. A non-nil error element is a hard failure and ends the
	// sequence.
	Contacts(ctx context.Context, creds contacts.Credentials) iter.Seq2[contacts.Contact, error]
}

// Registry resolves importers by source. It is built once at startup and is
// read-only afterwards.
type Registry struct {
	importers map[contacts.Source]Importer
}

// NewRegistry creates a registry holding the given importers. A later importer
// for the same source replaces an earlier one.
func NewRegistry(importers ...Importer) *Registry {
	r := &Registry{importers: make(map[contacts.Source]Importer, len(importers))}
	for _, imp := range importers {
		r.importers[imp.Source()] = imp
	}
	return r
}

// Get returns the importer for a source.
func (r *Registry) Get(source contacts.Source) (Importer, error) {
	imp, ok := r.importers[source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", contacts.ErrUnknownSource, source)
	}
	return imp, nil
}

// Sources lists the registered sources in a stable order.
func (r *Registry) Sources() []contacts.Source {
	sources := make([]contacts.Source, 0, len(r.importers))
	for s := range r.importers {
		sources = append(sources, s)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
	return sources
}

// Collect drains a contact sequence into a slice. It stops at the first error.
func Collect(seq iter.Seq2[contacts.Contact, error]) ([]contacts.Contact, error) {
	var out []contacts.Contact
	for c, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, c)
	}
	return out, nil
}
