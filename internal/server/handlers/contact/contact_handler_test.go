package contact

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborline/harborline/internal/db"
	"github.com/harborline/harborline/internal/server/content"
	"github.com/harborline/harborline/internal/server/email"
)

func newTestRouter(t *testing.T) (*gin.Engine, *content.Store) {
	t.Helper()
	database, err := db.Open("", 1)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	docs, err := content.NewStore(database)
	require.NoError(t, err)

	emailSvc := email.NewEmailService(&email.Config{Enabled: false})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/contact", New(docs, emailSvc).Submit)
	return r, docs
}

func submit(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSubmit(t *testing.T) {
	r, docs := newTestRouter(t)

	w := submit(t, r, `{
		"name": "Jan de Vries",
		"email": "jan@example.com",
		"subject": "Freight quote",
		"body": "Looking for a weekly container slot to Hamburg."
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	msgs, err := docs.ListMessages(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Jan de Vries", msgs[0].Name)
	assert.Equal(t, "Freight quote", msgs[0].Subject)
}

func TestSubmitStripsMarkup(t *testing.T) {
	r, docs := newTestRouter(t)

	w := submit(t, r, `{
		"name": "<b>Mallory</b>",
		"email": "mallory@example.com",
		"body": "<script>alert(1)</script>Hello there"
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	msgs, err := docs.ListMessages(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Mallory", msgs[0].Name)
	assert.NotContains(t, msgs[0].Body, "<script>")
	assert.Contains(t, msgs[0].Body, "Hello there")
}

func TestSubmitInvalidEmail(t *testing.T) {
	r, docs := newTestRouter(t)

	w := submit(t, r, `{
		"name": "No Address",
		"email": "not-an-email",
		"body": "Hi"
	}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "E_VALIDATION_FAILED")

	msgs, err := docs.ListMessages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSubmitMissingFields(t *testing.T) {
	r, _ := newTestRouter(t)

	w := submit(t, r, `{"email": "jan@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "E_INVALID_REQUEST")
}
