package importers

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log"
	"net/http"

	"github.com/mrlokans/contacts/internal/contacts"
)

// DefaultGoogleContactsURL is the Google contacts feed, JSON flavoured.
const DefaultGoogleContactsURL = "https://www.google.com/m8/feeds/contacts/default/full?alt=json&max-results=1000"

// GoogleImporter reads the Google contacts feed with a user's auth token.
//
// A non-success HTTP status yields no contacts and no error. Transport and
// decoding failures are returned as errors.
type GoogleImporter struct {
	httpClient *http.Client
	feedURL    string
}

// NewGoogleImporter creates a Google importer. An empty feedURL uses
// DefaultGoogleContactsURL; a nil client gets a 30s timeout.
func NewGoogleImporter(httpClient *http.Client, feedURL string) *GoogleImporter {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultAPITimeout}
	}
	if feedURL == "" {
		feedURL = DefaultGoogleContactsURL
	}
	return &GoogleImporter{httpClient: httpClient, feedURL: feedURL}
}

func (i *GoogleImporter) Source() contacts.Source {
	return contacts.SourceGoogle
}

type googleFeed struct {
	Feed struct {
		Entry []googleEntry `json:"entry"`
	} `json:"feed"`
}

type googleEntry struct {
	Title struct {
		Text string `json:"$t"`
	} `json:"title"`
	Emails []struct {
		Address string `json:"address"`
	} `json:"gd$email"`
}

// Contacts implements Importer.
func (i *GoogleImporter) Contacts(ctx context.Context, creds contacts.Credentials) iter.Seq2[contacts.Contact, error] {
	return func(yield func(contacts.Contact, error) bool) {
		if creds.GoogleToken == "" {
			yield(contacts.Contact{}, fmt.Errorf("%w: google token", contacts.ErrMissingCredentials))
			return
		}

		feed, ok, err := i.fetchFeed(ctx, creds.GoogleToken)
		if err != nil {
			yield(contacts.Contact{}, err)
			return
		}
		if !ok {
			return
		}

		for _, entry := range feed.Feed.Entry {
			for _, email := range entry.Emails {
				if email.Address == "" {
					continue
				}
				if !yield(contacts.Contact{Name: entry.Title.Text, Email: email.Address}, nil) {
					return
				}
			}
		}
	}
}

// fetchFeed returns ok=false when Google answered with a non-success status.
func (i *GoogleImporter) fetchFeed(ctx context.Context, token string) (*googleFeed, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.feedURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("google contacts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[IMPORT] Google contacts feed returned HTTP %d, treating as empty", resp.StatusCode)
		return nil, false, nil
	}

	var feed googleFeed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, false, fmt.Errorf("failed to decode google contacts feed: %w", err)
	}
	return &feed, true, nil
}

var _ Importer = (*GoogleImporter)(nil)
