package importers

import (
	"errors"
	"fmt"
)

// ErrYahooFormatChanged indicates the Yahoo API response no longer has the
// structure the importer relies on.
var ErrYahooFormatChanged = errors.New("yahoo data format changed")

// APIError is returned by APICaller when the remote API answers with a
// non-success status.
type APIError struct {
	URL        string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("contacts API %s: HTTP %d", e.URL, e.StatusCode)
}

// ErrNoVcards indicates a non-empty upload that contains no vCard.
var ErrNoVcards = errors.New("no vcard found in upload")
