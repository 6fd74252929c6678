package importers

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/url"
	"strings"

	"github.com/mrlokans/contacts/internal/contacts"
)

// DefaultYahooAPIURL is the base URL of the Yahoo social API.
const DefaultYahooAPIURL = "https://social.yahooapis.com"

// YahooImporter reads a user's Yahoo address book.
//
// It resolves the account GUID first and then fetches the contact list scoped
// by that GUID. Contacts without an email field are skipped; a contact without
// a field list at all means the API changed and fails the import.
type YahooImporter struct {
	caller  APICaller
	baseURL string
}

// NewYahooImporter creates a Yahoo importer. An empty baseURL uses
// DefaultYahooAPIURL.
func NewYahooImporter(caller APICaller, baseURL string) *YahooImporter {
	if baseURL == "" {
		baseURL = DefaultYahooAPIURL
	}
	return &YahooImporter{
		caller:  caller,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (i *YahooImporter) Source() contacts.Source {
	return contacts.SourceYahoo
}

type yahooGUIDResponse struct {
	GUID *struct {
		Value string `json:"value"`
	} `json:"guid"`
}

type yahooAddressBook struct {
	Contacts *struct {
		Contact *[]yahooContact `json:"contact"`
	} `json:"contacts"`
}

type yahooContact struct {
	Fields *[]yahooField `json:"fields"`
}

type yahooField struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type yahooName struct {
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
}

// Contacts implements Importer.
func (i *YahooImporter) Contacts(ctx context.Context, creds contacts.Credentials) iter.Seq2[contacts.Contact, error] {
	return func(yield func(contacts.Contact, error) bool) {
		if creds.YahooToken == "" {
			yield(contacts.Contact{}, fmt.Errorf("%w: yahoo token", contacts.ErrMissingCredentials))
			return
		}

		book, err := i.fetchAddressBook(ctx, creds.YahooToken)
		if err != nil {
			yield(contacts.Contact{}, err)
			return
		}

		for _, yc := range book {
			contact, ok, err := yahooToContact(yc)
			if err != nil {
				yield(contacts.Contact{}, err)
				return
			}
			if !ok {
				continue
			}
			if !yield(contact, nil) {
				return
			}
		}
	}
}

func (i *YahooImporter) fetchAddressBook(ctx context.Context, token string) ([]yahooContact, error) {
	var guidResp yahooGUIDResponse
	if err := i.caller.GetJSON(ctx, i.baseURL+"/v1/me/guid?format=json", token, &guidResp); err != nil {
		return nil, fmt.Errorf("yahoo guid lookup: %w", err)
	}
	if guidResp.GUID == nil || guidResp.GUID.Value == "" {
		return nil, fmt.Errorf("%w: guid missing", ErrYahooFormatChanged)
	}

	contactsURL := fmt.Sprintf("%s/v1/user/%s/contacts?format=json&count=max&view=tinyusercard",
		i.baseURL, url.PathEscape(guidResp.GUID.Value))

	var book yahooAddressBook
	if err := i.caller.GetJSON(ctx, contactsURL, token, &book); err != nil {
		return nil, fmt.Errorf("yahoo contact list: %w", err)
	}
	if book.Contacts == nil || book.Contacts.Contact == nil {
		return nil, fmt.Errorf("%w: contact list missing", ErrYahooFormatChanged)
	}
	return *book.Contacts.Contact, nil
}

// fieldLookup is the outcome of searching a Yahoo contact's field list.
type fieldLookup int

const (
	fieldFound fieldLookup = iota
	fieldAbsent
	fieldListMissing
)

// lookupField returns the value of the first field of the given type.
func lookupField(c yahooContact, kind string) (json.RawMessage, fieldLookup) {
	if c.Fields == nil {
		return nil, fieldListMissing
	}
	for _, f := range *c.Fields {
		if f.Type == kind {
			return f.Value, fieldFound
		}
	}
	return nil, fieldAbsent
}

// yahooToContact maps one remote contact. ok is false when the contact has no
// usable email address.
func yahooToContact(yc yahooContact) (contact contacts.Contact, ok bool, err error) {
	raw, res := lookupField(yc, "email")
	switch res {
	case fieldListMissing:
		return contacts.Contact{}, false, fmt.Errorf("%w: contact without field list", ErrYahooFormatChanged)
	case fieldAbsent:
		return contacts.Contact{}, false, nil
	}

	var email string
	if err := json.Unmarshal(raw, &email); err != nil {
		return contacts.Contact{}, false, fmt.Errorf("%w: email value: %v", ErrYahooFormatChanged, err)
	}
	if email == "" {
		return contacts.Contact{}, false, nil
	}

	contact = contacts.Contact{Email: email}

	raw, res = lookupField(yc, "name")
	if res != fieldFound {
		return contact, true, nil
	}

	var name yahooName
	if err := json.Unmarshal(raw, &name); err != nil {
		return contacts.Contact{}, false, fmt.Errorf("%w: name value: %v", ErrYahooFormatChanged, err)
	}
	contact.Name = composeName(name.GivenName, name.FamilyName)

	return contact, true, nil
}

// composeName joins whichever of first and last name are present.
func composeName(first, last string) string {
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	default:
		return last
	}
}

var _ Importer = (*YahooImporter)(nil)
