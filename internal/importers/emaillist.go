package importers

import (
	"context"
	"iter"

	"github.com/mrlokans/contacts/internal/contacts"
)

// EmailListImporter turns a list of addresses into nameless contacts.
// Addresses are expected to be validated by the form that collected them.
type EmailListImporter struct{}

func NewEmailListImporter() *EmailListImporter {
	return &EmailListImporter{}
}

func (i *EmailListImporter) Source() contacts.Source {
	return contacts.SourceEmailList
}

// Contacts implements Importer.
func (i *EmailListImporter) Contacts(_ context.Context, creds contacts.Credentials) iter.Seq2[contacts.Contact, error] {
	return func(yield func(contacts.Contact, error) bool) {
		for _, email := range creds.Emails {
			if !yield(contacts.Contact{Email: email}, nil) {
				return
			}
		}
	}
}

var _ Importer = (*EmailListImporter)(nil)
