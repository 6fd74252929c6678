package http

import (
	"fmt"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/contacts/internal/auth"
	"github.com/mrlokans/contacts/internal/entities"
)

// SelectionHandler receives the contacts a user picked on the import screen
// and writes the response. It runs before the user's imported contacts are
// discarded, so it must copy whatever it wants to keep.
type SelectionHandler interface {
	HandleSelection(c *gin.Context, selected []entities.ImportedContact)
}

// SelectionHandlerFunc adapts a function to SelectionHandler.
type SelectionHandlerFunc func(c *gin.Context, selected []entities.ImportedContact)

func (f SelectionHandlerFunc) HandleSelection(c *gin.Context, selected []entities.ImportedContact) {
	f(c, selected)
}

// FlashSelectionHandler confirms the selection with a flash message and sends
// the user back to the import page. Used when the host provides no handler.
func FlashSelectionHandler(sessions *auth.SessionManager, redirectTo string) SelectionHandler {
	return SelectionHandlerFunc(func(c *gin.Context, selected []entities.ImportedContact) {
		if sessions != nil {
			sessions.AddFlash(c.Request.Context(), auth.FlashSuccess,
				fmt.Sprintf("%d contacts selected.", len(selected)))
		}
		redirectSeeOther(c, redirectTo)
	})
}

// mergeSelection applies one page of checkbox state to the stored selection:
// IDs shown on the page but not posted are removed, posted IDs are added, and
// IDs from other pages are left alone.
func mergeSelection(stored, onPage, posted []string) []string {
	postedSet := make(map[string]bool, len(posted))
	for _, id := range posted {
		postedSet[id] = true
	}
	unticked := make(map[string]bool, len(onPage))
	for _, id := range onPage {
		if !postedSet[id] {
			unticked[id] = true
		}
	}

	merged := make(map[string]bool, len(stored)+len(posted))
	for _, id := range stored {
		if !unticked[id] {
			merged[id] = true
		}
	}
	for id := range postedSet {
		merged[id] = true
	}

	out := make([]string, 0, len(merged))
	for id := range merged {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
