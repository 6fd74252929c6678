package http

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/contacts/internal/auth"
	"github.com/mrlokans/contacts/internal/contacts"
	"github.com/mrlokans/contacts/internal/database/imported"
	"github.com/mrlokans/contacts/internal/oauth"
	"github.com/mrlokans/contacts/internal/runner"
)

// ImportContactsPath is where the import screen lives.
const ImportContactsPath = "/contacts/import"

const importContactsTemplate = "import_contacts.html"

// User-facing import outcome messages.
const (
	msgImportSucceeded = "%d people with email found, %d contacts imported."
	msgImportFailed    = "There was an error importing your contacts."
	msgImportPending   = "We're still importing your contacts. We'll let you know when they're ready, it shouldn't take too long."
)

// Form actions of the import screen.
const (
	actionUploadVcard    = "upload_vcard"
	actionImportEmails   = "import_emails"
	actionImportYahoo    = "import_yahoo"
	actionImportGoogle   = "import_google"
	actionSelectContacts = "import-contacts"
)

// ImportContactsController serves the import screen: the import forms, the
// paged list of imported contacts and the selection across pages.
type ImportContactsController struct {
	executor  runner.Executor
	contacts  ImportedContactStore
	sessions  *auth.SessionManager
	selection SelectionHandler
	perPage   int
	validate  *validator.Validate
}

// NewImportContactsController creates the controller. A nil selection handler
// falls back to FlashSelectionHandler.
func NewImportContactsController(executor runner.Executor, store ImportedContactStore, sessions *auth.SessionManager, selection SelectionHandler, perPage int) *ImportContactsController {
	if selection == nil {
		selection = FlashSelectionHandler(sessions, ImportContactsPath)
	}
	if perPage <= 0 {
		perPage = imported.DefaultPerPage
	}
	return &ImportContactsController{
		executor:  executor,
		contacts:  store,
		sessions:  sessions,
		selection: selection,
		perPage:   perPage,
		validate:  validator.New(),
	}
}

// importPageView is the data rendered by import_contacts.html.
type importPageView struct {
	Page           *imported.Page
	Selected       map[uint]bool
	SelectedCount  int
	HasYahooToken  bool
	HasGoogleToken bool
	Flashes        auth.Flashes
	TaskID         string
	FormErrors     formErrors
	Emails         string
	CSRFField      template.HTML
}

// Page handles GET /contacts/import
func (ic *ImportContactsController) Page(c *gin.Context) {
	ic.render(c, http.StatusOK, nil)
}

// Submit handles POST /contacts/import
func (ic *ImportContactsController) Submit(c *gin.Context) {
	userID := GetUserID(c)

	switch c.PostForm("action") {
	case actionUploadVcard:
		data, errs := readVcardUpload(c)
		if errs != nil {
			ic.render(c, http.StatusBadRequest, errs)
			return
		}
		ic.submit(c, contacts.SourceVcard, contacts.Credentials{UserID: userID, VCard: data})

	case actionImportEmails:
		emails, errs := parseEmailList(ic.validate, c.PostForm("emails"))
		if errs != nil {
			ic.render(c, http.StatusBadRequest, errs)
			return
		}
		ic.submit(c, contacts.SourceEmailList, contacts.Credentials{UserID: userID, Emails: emails})

	case actionImportYahoo:
		token := ic.sessions.PopToken(c.Request.Context(), oauth.ProviderYahoo)
		if token == "" {
			redirectSeeOther(c, c.Request.URL.Path)
			return
		}
		ic.submit(c, contacts.SourceYahoo, contacts.Credentials{UserID: userID, YahooToken: token})

	case actionImportGoogle:
		token := ic.sessions.PopToken(c.Request.Context(), oauth.ProviderGoogle)
		if token == "" {
			redirectSeeOther(c, c.Request.URL.Path)
			return
		}
		ic.submit(c, contacts.SourceGoogle, contacts.Credentials{UserID: userID, GoogleToken: token})

	case actionSelectContacts:
		ic.updateSelection(c)

	default:
		ic.render(c, http.StatusOK, nil)
	}
}

// submit hands an import to the executor and reports the outcome.
func (ic *ImportContactsController) submit(c *gin.Context, source contacts.Source, creds contacts.Credentials) {
	ctx := c.Request.Context()

	handle, err := ic.executor.Submit(ctx, source, creds)
	if err != nil {
		log.Printf("[IMPORT] Failed to submit %s import for user %d: %v", source, creds.UserID, err)
		ic.sessions.AddFlash(ctx, auth.FlashError, msgImportFailed)
		redirectSeeOther(c, c.Request.URL.Path)
		return
	}

	ic.reportImport(c, handle)
}

// reportImport turns a handle into a flash message and redirects back to the
// page the form was posted from.
func (ic *ImportContactsController) reportImport(c *gin.Context, handle *runner.Handle) {
	ctx := c.Request.Context()

	switch {
	case handle.Ready() && handle.Succeeded():
		ic.sessions.AddFlash(ctx, auth.FlashSuccess,
			fmt.Sprintf(msgImportSucceeded, handle.Result.Total, handle.Result.Imported))
	case handle.Ready():
		ic.sessions.AddFlash(ctx, auth.FlashError, msgImportFailed)
	default:
		ic.sessions.AddFlash(ctx, auth.FlashInfo, msgImportPending)
		ic.sessions.SetPendingTask(ctx, handle.TaskID)
	}

	redirectSeeOther(c, c.Request.URL.Path)
}

// updateSelection merges the checkboxes of the current page into the session
// selection, then moves between pages or finishes.
func (ic *ImportContactsController) updateSelection(c *gin.Context) {
	ctx := c.Request.Context()
	userID := GetUserID(c)
	path := c.Request.URL.Path

	page, err := ic.contacts.Page(ctx, userID, parsePageQuery(c), ic.perPage)
	if err != nil {
		respondInternalError(c, err, "list imported contacts")
		return
	}

	onPage := make([]string, 0, len(page.Contacts))
	for _, id := range page.IDs() {
		onPage = append(onPage, strconv.FormatUint(uint64(id), 10))
	}
	selected := mergeSelection(ic.sessions.SelectedIDs(ctx), onPage, c.PostFormArray("selected-contacts"))
	ic.sessions.SetSelectedIDs(ctx, selected)

	if _, ok := c.GetPostForm("next"); ok {
		redirectSeeOther(c, fmt.Sprintf("%s?page=%d", path, page.Number+1))
		return
	}
	if _, ok := c.GetPostForm("prev"); ok {
		redirectSeeOther(c, fmt.Sprintf("%s?page=%d", path, page.Number-1))
		return
	}
	if _, ok := c.GetPostForm("finish"); ok {
		ic.finish(c, selected)
		return
	}

	redirectSeeOther(c, fmt.Sprintf("%s?page=%d", path, page.Number))
}

// finish passes the selected contacts to the selection handler, then forgets
// the selection and discards the user's imported contacts.
func (ic *ImportContactsController) finish(c *gin.Context, selected []string) {
	ctx := c.Request.Context()
	userID := GetUserID(c)

	if len(selected) == 0 {
		ic.sessions.ClearSelection(ctx)
		if _, err := ic.contacts.DeleteForOwner(ctx, userID); err != nil {
			respondInternalError(c, err, "discard imported contacts")
			return
		}
		redirectSeeOther(c, ImportContactsPath)
		return
	}

	chosen, err := ic.contacts.GetByIDs(ctx, userID, parseContactIDs(selected))
	if err != nil {
		respondInternalError(c, err, "load selected contacts")
		return
	}

	ic.selection.HandleSelection(c, chosen)

	ic.sessions.ClearSelection(ctx)
	if _, err := ic.contacts.DeleteForOwner(ctx, userID); err != nil {
		log.Printf("[IMPORT] Failed to discard imported contacts of user %d: %v", userID, err)
	}
}

func (ic *ImportContactsController) render(c *gin.Context, status int, errs formErrors) {
	ctx := c.Request.Context()
	userID := GetUserID(c)

	page, err := ic.contacts.Page(ctx, userID, parsePageQuery(c), ic.perPage)
	if err != nil {
		respondInternalError(c, err, "list imported contacts")
		return
	}

	selectedIDs := ic.sessions.SelectedIDs(ctx)
	selected := make(map[uint]bool, len(selectedIDs))
	for _, id := range parseContactIDs(selectedIDs) {
		selected[id] = true
	}

	if errs == nil {
		errs = formErrors{}
	}

	flashes := ic.sessions.PopFlashes(ctx)
	if msg := c.Query("error"); msg != "" {
		flashes.Error = append(flashes.Error, msg)
	}

	c.HTML(status, importContactsTemplate, importPageView{
		Page:           page,
		Selected:       selected,
		SelectedCount:  len(selected),
		HasYahooToken:  ic.sessions.HasToken(ctx, oauth.ProviderYahoo),
		HasGoogleToken: ic.sessions.HasToken(ctx, oauth.ProviderGoogle),
		Flashes:        flashes,
		TaskID:         ic.sessions.PopPendingTask(ctx),
		FormErrors:     errs,
		Emails:         c.PostForm("emails"),
		CSRFField:      template.HTML(auth.CSRFTokenField(c)),
	})
}
