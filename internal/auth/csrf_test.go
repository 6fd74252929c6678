package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

var testCSRFSecret = []byte("test-secret-key-32-bytes-long!!!")

func TestCSRFMiddleware_AllowsGET(t *testing.T) {
	router := gin.New()
	router.Use(CSRFMiddleware(testCSRFSecret, false))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200 for GET request, got %d", rr.Code)
	}
}

func TestCSRFMiddleware_BlocksPOSTWithoutToken(t *testing.T) {
	router := gin.New()
	router.Use(CSRFMiddleware(testCSRFSecret, false))
	router.POST("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for POST without CSRF token, got %d", rr.Code)
	}
}

func TestCSRFMiddleware_AcceptsPOSTWithToken(t *testing.T) {
	router := gin.New()
	router.Use(CSRFMiddleware(testCSRFSecret, false))
	router.GET("/form", func(c *gin.Context) {
		c.String(http.StatusOK, GetCSRFToken(c))
	})
	router.POST("/form", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/form", nil))
	token := rr.Body.String()
	if token == "" {
		t.Fatal("Expected a CSRF token on GET")
	}

	form := url.Values{"gorilla.csrf.Token": {token}}
	req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range rr.Result().Cookies() {
		req.AddCookie(cookie)
	}
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("Expected 204 for POST with CSRF token, got %d", rr.Code)
	}
}

func TestCSRFTokenField(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if field := CSRFTokenField(c); field != "" {
		t.Errorf("Expected empty field, got '%s'", field)
	}

	c.Set("csrf_token", "abc123")
	expected := `<input type="hidden" name="gorilla.csrf.Token" value="abc123">`
	if field := CSRFTokenField(c); field != expected {
		t.Errorf("Expected '%s', got '%s'", expected, field)
	}
}

func TestCSRFErrorHandler(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Accept", "application/json")

		csrfErrorHandler(rr, req)

		if rr.Code != http.StatusForbidden {
			t.Errorf("Expected 403, got %d", rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", ct)
		}
	})

	t.Run("form with referer redirects back", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/contacts/import", nil)
		req.Header.Set("Referer", "http://localhost/contacts/import?page=2")

		csrfErrorHandler(rr, req)

		if rr.Code != http.StatusSeeOther {
			t.Errorf("Expected 303, got %d", rr.Code)
		}
		loc, err := url.Parse(rr.Header().Get("Location"))
		if err != nil {
			t.Fatalf("Unparseable redirect location: %v", err)
		}
		if loc.Path != "/contacts/import" || loc.Query().Get("page") != "2" {
			t.Errorf("Unexpected redirect location %q", loc)
		}
		if loc.Query().Get("error") != csrfExpiredMessage {
			t.Errorf("Expected the expired message, got %q", loc.Query().Get("error"))
		}
	})
}
