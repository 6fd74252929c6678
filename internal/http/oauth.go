package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/contacts/internal/auth"
	"github.com/mrlokans/contacts/internal/oauth"
)

// OAuthController acquires the access tokens the Google and Yahoo importers
// need and keeps them in the session until an import consumes them.
type OAuthController struct {
	providers *oauth.Registry
	sessions  *auth.SessionManager
}

// NewOAuthController creates a new OAuthController.
func NewOAuthController(providers *oauth.Registry, sessions *auth.SessionManager) *OAuthController {
	if providers == nil {
		providers = oauth.NewRegistry()
	}
	return &OAuthController{providers: providers, sessions: sessions}
}

// RegisterRoutes registers the login and callback routes.
func (oc *OAuthController) RegisterRoutes(router gin.IRouter) {
	router.GET("/contacts/oauth/:provider/login", oc.Login)
	router.GET("/contacts/oauth/:provider/callback", oc.Callback)
}

func knownProvider(name string) bool {
	return name == oauth.ProviderGoogle || name == oauth.ProviderYahoo
}

// Login handles GET /contacts/oauth/:provider/login
// With ?token= the supplied token is stored as is and the user is sent to
// ?next=. Otherwise the user is redirected to the provider's consent page.
func (oc *OAuthController) Login(c *gin.Context) {
	name := c.Param("provider")
	if !knownProvider(name) {
		respondNotFound(c, "provider")
		return
	}
	ctx := c.Request.Context()

	if token := c.Query("token"); token != "" {
		oc.sessions.PutToken(ctx, name, token)
		c.Redirect(http.StatusFound, auth.SanitizeRedirectPath(c.Query("next"), ImportContactsPath))
		return
	}

	provider, err := oc.providers.Get(name)
	if err != nil {
		// Known provider without client credentials configured
		respondNotFound(c, "provider")
		return
	}

	req := provider.Begin()
	oc.sessions.PutOAuthState(ctx, name, req.State, req.Verifier)
	c.Redirect(http.StatusFound, req.URL)
}

// Callback handles GET /contacts/oauth/:provider/callback
func (oc *OAuthController) Callback(c *gin.Context) {
	name := c.Param("provider")
	provider, err := oc.providers.Get(name)
	if err != nil {
		respondNotFound(c, "provider")
		return
	}
	ctx := c.Request.Context()

	state, verifier := oc.sessions.PopOAuthState(ctx, name)

	if reason := c.Query("error"); reason != "" {
		log.Printf("[OAUTH] %s authorization denied: %s", name, reason)
		oc.sessions.AddFlash(ctx, auth.FlashError, "Access to your "+providerTitle(name)+" contacts was not granted.")
		c.Redirect(http.StatusFound, ImportContactsPath)
		return
	}

	if state == "" || c.Query("state") != state {
		respondBadRequest(c, "invalid oauth state")
		return
	}

	code := c.Query("code")
	if code == "" {
		respondBadRequest(c, "missing authorization code")
		return
	}

	token, err := provider.Exchange(ctx, code, verifier)
	if err != nil {
		log.Printf("[OAUTH] %v", err)
		oc.sessions.AddFlash(ctx, auth.FlashError, "Could not connect to "+providerTitle(name)+". Please try again.")
		c.Redirect(http.StatusFound, ImportContactsPath)
		return
	}

	oc.sessions.PutToken(ctx, name, token.AccessToken)
	oc.sessions.AddFlash(ctx, auth.FlashInfo, providerTitle(name)+" connected. You can import your contacts now.")
	c.Redirect(http.StatusFound, ImportContactsPath)
}

func providerTitle(name string) string {
	switch name {
	case oauth.ProviderGoogle:
		return "Google"
	case oauth.ProviderYahoo:
		return "Yahoo"
	default:
		return name
	}
}
