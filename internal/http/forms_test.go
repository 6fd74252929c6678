package http

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmailList(t *testing.T) {
	validate := validator.New()

	t.Run("strips whitespace and keeps order", func(t *testing.T) {
		emails, errs := parseEmailList(validate, " b@example.com,\n a@example.com ,\tc@example.org ")
		require.Nil(t, errs)
		assert.Equal(t, []string{"b@example.com", "a@example.com", "c@example.org"}, emails)
	})

	t.Run("keeps duplicates", func(t *testing.T) {
		emails, errs := parseEmailList(validate, "a@example.com,a@example.com")
		require.Nil(t, errs)
		assert.Len(t, emails, 2)
	})

	t.Run("rejects invalid address", func(t *testing.T) {
		_, errs := parseEmailList(validate, "a@example.com,not-an-email")
		require.NotNil(t, errs)
		assert.Contains(t, errs["emails"], "not-an-email")
	})

	t.Run("rejects empty entry", func(t *testing.T) {
		_, errs := parseEmailList(validate, "a@example.com,,b@example.com")
		require.NotNil(t, errs)
		assert.Contains(t, errs, "emails")
	})

	t.Run("rejects blank field", func(t *testing.T) {
		_, errs := parseEmailList(validate, "  \n ")
		assert.Equal(t, formErrors{"emails": fieldRequired}, errs)
	})
}

func newUploadContext(t *testing.T, field string, content []byte) *gin.Context {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		part, err := mw.CreateFormFile(field, "contacts.vcf")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField("action", "upload_vcard"))
	require.NoError(t, mw.Close())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/contacts/import", &body)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	return c
}

func TestReadVcardUpload(t *testing.T) {
	t.Run("reads file", func(t *testing.T) {
		c := newUploadContext(t, "vcard_file", []byte("BEGIN:VCARD\r\nEND:VCARD\r\n"))
		data, errs := readVcardUpload(c)
		require.Nil(t, errs)
		assert.Equal(t, "BEGIN:VCARD\r\nEND:VCARD\r\n", string(data))
	})

	t.Run("missing file", func(t *testing.T) {
		c := newUploadContext(t, "", nil)
		_, errs := readVcardUpload(c)
		assert.Equal(t, formErrors{"vcard_file": fieldRequired}, errs)
	})

	t.Run("empty file", func(t *testing.T) {
		c := newUploadContext(t, "vcard_file", nil)
		_, errs := readVcardUpload(c)
		assert.Contains(t, errs["vcard_file"], "empty")
	})
}
