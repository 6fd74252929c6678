// Package contacts defines the normalized contact record shared by every
// import source, together with the credentials and status values that flow
// through an import run.
package contacts

import "fmt"

// Contact is the normalized record every source adapter produces.
// Email is always non-empty; Name may be empty.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Source identifies where a batch of contacts comes from.
type Source string

const (
	SourceVcard     Source = "vcard"
	SourceEmailList Source = "email_list"
	SourceYahoo     Source = "yahoo"
	SourceGoogle    Source = "google"
)

// ParseSource validates a source name coming from a request or a task payload.
func ParseSource(name string) (Source, error) {
	switch s := Source(name); s {
	case SourceVcard, SourceEmailList, SourceYahoo, SourceGoogle:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, name)
}

// Credentials carries the source-specific inputs of one import run.
// Only the adapter matching the run's source looks at its fields; the runner
// and the persistence sink treat it as opaque apart from UserID.
//
// The struct is JSON-encoded when a run is handed to the task queue, so every
// field must stay serializable.
type Credentials struct {
	// UserID owns the contacts stored by the run.
	UserID uint `json:"user_id"`

	// VCard is the raw uploaded vCard stream.
	VCard []byte `json:"vcard,omitempty"`

	// Emails is an already validated, ordered list of addresses.
	Emails []string `json:"emails,omitempty"`

	// YahooToken is an OAuth access token for the Yahoo social API.
	YahooToken string `json:"yahoo_token,omitempty"`

	// GoogleToken is the auth token sent to the Google contacts feed.
	GoogleToken string `json:"google_token,omitempty"`
}

// Status is the running tally of one import run.
//
// Total counts every record the adapter produced; Imported counts the records
// the persistence sink actually stored.
type Status struct {
	Imported int `json:"imported"`
	Total    int `json:"total"`
}

func (s Status) String() string {
	return fmt.Sprintf("%d people with email found, %d contacts imported", s.Total, s.Imported)
}
