package crypto

import (
	"fmt"

	"github.com/mrlokans/contacts/internal/contacts"
)

// CredentialSealer encrypts the provider tokens and vCard data of import
// credentials so they are not stored in clear text in the task queue. Email
// lists are left readable.
type CredentialSealer struct {
	enc *Encryptor
}

func NewCredentialSealer(enc *Encryptor) *CredentialSealer {
	return &CredentialSealer{enc: enc}
}

// Seal returns a copy of creds with its secrets encrypted.
func (s *CredentialSealer) Seal(creds contacts.Credentials) (contacts.Credentials, error) {
	return s.apply(creds, s.enc.Encrypt)
}

// Open returns a copy of sealed creds with its secrets decrypted.
func (s *CredentialSealer) Open(creds contacts.Credentials) (contacts.Credentials, error) {
	return s.apply(creds, s.enc.Decrypt)
}

func (s *CredentialSealer) apply(creds contacts.Credentials, fn func(string) (string, error)) (contacts.Credentials, error) {
	out := creds

	var err error
	if out.YahooToken, err = fn(creds.YahooToken); err != nil {
		return contacts.Credentials{}, fmt.Errorf("yahoo token: %w", err)
	}
	if out.GoogleToken, err = fn(creds.GoogleToken); err != nil {
		return contacts.Credentials{}, fmt.Errorf("google token: %w", err)
	}
	if len(creds.VCard) > 0 {
		vcard, err := fn(string(creds.VCard))
		if err != nil {
			return contacts.Credentials{}, fmt.Errorf("vcard: %w", err)
		}
		out.VCard = []byte(vcard)
	}
	return out, nil
}
