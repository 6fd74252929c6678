package importers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"mime/quotedprintable"
	"strings"

	"github.com/emersion/go-vcard"

	"github.com/mrlokans/contacts/internal/contacts"
)

var (
	utf8BOM     = []byte("\xEF\xBB\xBF")
	qpSoftBreak = []byte("=")
)

// vCard 2.1 allows encodings to appear as bare parameters.
var bareEncodings = map[string]bool{
	"QUOTED-PRINTABLE": true,
	"BASE64":           true,
	"8BIT":             true,
	"7BIT":             true,
}

// VcardImporter reads contacts from an uploaded vCard stream.
//
// Cards without an EMAIL or an FN property are skipped. A card that cannot be
// decoded at all ends the import with an error, as does a non-empty upload
// that contains no card.
type VcardImporter struct{}

// NewVcardImporter creates an importer for vCard uploads.
func NewVcardImporter() *VcardImporter {
	return &VcardImporter{}
}

func (i *VcardImporter) Source() contacts.Source {
	return contacts.SourceVcard
}

// Contacts implements Importer.
func (i *VcardImporter) Contacts(_ context.Context, creds contacts.Credentials) iter.Seq2[contacts.Contact, error] {
	return func(yield func(contacts.Contact, error) bool) {
		data := normalizeVcard(creds.VCard)
		dec := vcard.NewDecoder(bytes.NewReader(data))
		for n := 1; ; n++ {
			card, err := dec.Decode()
			if errors.Is(err, io.EOF) {
				if n == 1 && len(bytes.TrimSpace(data)) > 0 {
					yield(contacts.Contact{}, ErrNoVcards)
				}
				return
			}
			if err != nil {
				yield(contacts.Contact{}, fmt.Errorf("decode vcard #%d: %w", n, err))
				return
			}

			contact, ok := contactFromCard(card)
			if !ok {
				continue
			}
			if !yield(contact, nil) {
				return
			}
		}
	}
}

// contactFromCard picks the first non-empty email and the formatted name of a card.
func contactFromCard(card vcard.Card) (contacts.Contact, bool) {
	name := card.Get(vcard.FieldFormattedName)
	if name == nil {
		return contacts.Contact{}, false
	}

	var address string
	for _, email := range card[vcard.FieldEmail] {
		if address = strings.TrimSpace(fieldValue(email)); address != "" {
			break
		}
	}
	if address == "" {
		return contacts.Contact{}, false
	}

	return contacts.Contact{
		Name:  strings.TrimSpace(fieldValue(name)),
		Email: address,
	}, true
}

// fieldValue returns the field value, decoding quoted-printable text.
// Undecodable values are returned as they are.
func fieldValue(f *vcard.Field) string {
	if !strings.EqualFold(f.Params.Get("ENCODING"), "QUOTED-PRINTABLE") {
		return f.Value
	}
	decoded, err := io.ReadAll(quotedprintable.NewReader(strings.NewReader(f.Value)))
	if err != nil {
		return f.Value
	}
	return string(decoded)
}

// normalizeVcard prepares an upload for the decoder: it drops a leading byte
// order mark, rewrites bare vCard 2.1 parameters (EMAIL;INTERNET:...) as
// named ones and joins quoted-printable soft line breaks.
func normalizeVcard(data []byte) []byte {
	data = bytes.TrimPrefix(data, utf8BOM)

	var out bytes.Buffer
	out.Grow(len(data))
	joining := false
	for line := range bytes.Lines(data) {
		content := bytes.TrimRight(line, "\r\n")
		ending := line[len(content):]

		if joining {
			joining = bytes.HasSuffix(content, qpSoftBreak)
			if joining {
				out.Write(content[:len(content)-1])
			} else {
				out.Write(line)
			}
			continue
		}

		if len(content) > 0 && content[0] != ' ' && content[0] != '\t' {
			var qp bool
			content, qp = normalizeParams(content)
			if qp && bytes.HasSuffix(content, qpSoftBreak) {
				out.Write(content[:len(content)-1])
				joining = true
				continue
			}
		}
		out.Write(content)
		out.Write(ending)
	}
	return out.Bytes()
}

// normalizeParams rewrites the bare parameters of one content line and
// reports whether its value is quoted-printable.
func normalizeParams(line []byte) ([]byte, bool) {
	colon := bytes.IndexByte(line, ':')
	if colon < 0 {
		return line, false
	}
	head := line[:colon]
	if bytes.IndexByte(head, ';') < 0 || bytes.IndexByte(head, '"') >= 0 {
		return line, false
	}

	parts := bytes.Split(head, []byte(";"))
	qp := false
	for i := 1; i < len(parts); i++ {
		part := parts[i]
		if len(part) == 0 {
			continue
		}
		if eq := bytes.IndexByte(part, '='); eq >= 0 {
			if strings.EqualFold(string(part[:eq]), "ENCODING") &&
				strings.EqualFold(string(part[eq+1:]), "QUOTED-PRINTABLE") {
				qp = true
			}
			continue
		}
		upper := strings.ToUpper(string(part))
		if bareEncodings[upper] {
			qp = qp || upper == "QUOTED-PRINTABLE"
			parts[i] = []byte("ENCODING=" + upper)
		} else {
			parts[i] = []byte("TYPE=" + string(part))
		}
	}

	fixed := bytes.Join(parts, []byte(";"))
	return append(fixed, line[colon:]...), qp
}

var _ Importer = (*VcardImporter)(nil)
