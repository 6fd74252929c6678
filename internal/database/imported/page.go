package imported

import "github.com/mrlokans/contacts/internal/entities"

// DefaultPerPage is the page size of the selection screen.
const DefaultPerPage = 50

// Page is one page of imported contacts.
type Page struct {
	Contacts []entities.ImportedContact
	Number   int
	PerPage  int
	NumPages int
	Total    int64
}

func newPage(total int64, number, perPage int) *Page {
	numPages := int((total + int64(perPage) - 1) / int64(perPage))
	if numPages < 1 {
		numPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}
	return &Page{
		Number:   number,
		PerPage:  perPage,
		NumPages: numPages,
		Total:    total,
	}
}

// Offset is the index of the first contact on the page.
func (p *Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

func (p *Page) HasNext() bool {
	return p.Number < p.NumPages
}

func (p *Page) HasPrevious() bool {
	return p.Number > 1
}

func (p *Page) NextNumber() int {
	return p.Number + 1
}

func (p *Page) PreviousNumber() int {
	return p.Number - 1
}

// IDs returns the IDs of the contacts on the page.
func (p *Page) IDs() []uint {
	ids := make([]uint, len(p.Contacts))
	for i, c := range p.Contacts {
		ids[i] = c.ID
	}
	return ids
}
