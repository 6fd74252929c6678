package http

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// maxVcardSize bounds an uploaded address book.
const maxVcardSize = 5 << 20

const fieldRequired = "This field is required."

var errVcardTooLarge = errors.New("the vCard file is too large")

// formErrors maps form field names to the message shown next to them.
type formErrors map[string]string

// readVcardUpload returns the contents of the vcard_file upload.
func readVcardUpload(c *gin.Context) ([]byte, formErrors) {
	header, err := c.FormFile("vcard_file")
	if err != nil {
		return nil, formErrors{"vcard_file": fieldRequired}
	}
	if header.Size > maxVcardSize {
		return nil, formErrors{"vcard_file": errVcardTooLarge.Error()}
	}

	f, err := header.Open()
	if err != nil {
		return nil, formErrors{"vcard_file": "The uploaded file could not be read."}
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxVcardSize+1))
	if err != nil {
		return nil, formErrors{"vcard_file": "The uploaded file could not be read."}
	}
	if len(data) > maxVcardSize {
		return nil, formErrors{"vcard_file": errVcardTooLarge.Error()}
	}
	if len(data) == 0 {
		return nil, formErrors{"vcard_file": "The submitted file is empty."}
	}
	return data, nil
}

// parseEmailList turns the comma separated emails field into an ordered list.
// All whitespace is dropped before splitting and every entry must be a valid
// address.
func parseEmailList(validate *validator.Validate, raw string) ([]string, formErrors) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if compact == "" {
		return nil, formErrors{"emails": fieldRequired}
	}

	emails := strings.Split(compact, ",")
	for _, email := range emails {
		if err := validate.Var(email, "required,email"); err != nil {
			return nil, formErrors{"emails": fmt.Sprintf("Enter a valid email address: %q.", email)}
		}
	}
	return emails, nil
}
