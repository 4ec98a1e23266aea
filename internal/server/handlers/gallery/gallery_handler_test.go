package gallery

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborline/harborline/internal/db"
	"github.com/harborline/harborline/internal/server/blob"
	"github.com/harborline/harborline/internal/server/content"
	"github.com/harborline/harborline/internal/server/media"
)

type fixture struct {
	router  *gin.Engine
	docs    *content.Store
	uploads *blob.Bucket
	svc     *media.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database, err := db.Open("", 1)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	blobs, err := blob.NewStore(database)
	require.NoError(t, err)
	docs, err := content.NewStore(database)
	require.NoError(t, err)

	cfg := &media.Config{CleanupPolicy: media.PolicyStrict}
	require.NoError(t, cfg.Validate())
	svc := media.NewService(cfg)
	require.NoError(t, svc.Start(context.Background()))
	t.Cleanup(func() { svc.Shutdown(context.Background()) })

	uploads := blobs.Bucket(blob.BucketUploads)
	h := New(svc, docs, uploads, 10<<20)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/gallery", h.List)
	r.POST("/gallery", h.Create)
	r.PUT("/gallery/:id", h.Rename)
	r.PUT("/gallery/:id/image", h.ReplaceImage)
	r.DELETE("/gallery/:id", h.Delete)

	return &fixture{router: r, docs: docs, uploads: uploads, svc: svc}
}

func multipartImage(t *testing.T, title, filename, body string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if title != "" {
		require.NoError(t, mw.WriteField("title", title))
	}
	fw, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (f *fixture) createEntry(t *testing.T, title string) *content.GalleryEntry {
	t.Helper()
	buf, contentType := multipartImage(t, title, "photo.jpg", "jpeg-bytes")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/gallery", buf)
	req.Header.Set("Content-Type", contentType)
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var entry content.GalleryEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	return &entry
}

func TestCreateAndList(t *testing.T) {
	f := newFixture(t)
	entry := f.createEntry(t, "Port of Rotterdam")

	assert.Equal(t, "Port of Rotterdam", entry.Title)
	assert.NotEqual(t, uuid.Nil, entry.ImageID)

	// the image is resolvable
	_, err := f.uploads.Stat(context.Background(), entry.ImageID)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gallery", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Port of Rotterdam")
}

func TestCreateWithoutTitleLeavesNoOrphan(t *testing.T) {
	f := newFixture(t)

	buf, contentType := multipartImage(t, "", "photo.jpg", "jpeg-bytes")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/gallery", buf)
	req.Header.Set("Content-Type", contentType)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "E_VALIDATION_FAILED")

	entries, err := f.docs.ListGallery(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReplaceImageRetiresOldBlob(t *testing.T) {
	f := newFixture(t)
	entry := f.createEntry(t, "Container terminal")
	oldImage := entry.ImageID

	buf, contentType := multipartImage(t, "", "newer.jpg", "newer-jpeg-bytes")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/gallery/"+entry.ID.String()+"/image", buf)
	req.Header.Set("Content-Type", contentType)
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// strict policy deletes the displaced blob before responding
	_, err := f.uploads.Stat(context.Background(), oldImage)
	assert.ErrorIs(t, err, blob.ErrNotFound)

	updated, err := f.docs.GetGalleryEntry(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.NotEqual(t, oldImage, updated.ImageID)
	_, err = f.uploads.Stat(context.Background(), updated.ImageID)
	require.NoError(t, err)
}

func TestReplaceImageUnknownEntry(t *testing.T) {
	f := newFixture(t)

	buf, contentType := multipartImage(t, "", "newer.jpg", "newer-jpeg-bytes")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/gallery/"+uuid.NewString()+"/image", buf)
	req.Header.Set("Content-Type", contentType)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "E_DOCUMENT_NOT_FOUND")
}

func TestRename(t *testing.T) {
	f := newFixture(t)
	entry := f.createEntry(t, "Old title")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/gallery/"+entry.ID.String(),
		strings.NewReader(`{"title":"New title"}`))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	updated, err := f.docs.GetGalleryEntry(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
}

func TestDeleteRemovesEntryAndImage(t *testing.T) {
	f := newFixture(t)
	entry := f.createEntry(t, "To be removed")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/gallery/"+entry.ID.String(), nil))
	require.Equal(t, http.StatusOK, w.Code)

	_, err := f.docs.GetGalleryEntry(context.Background(), entry.ID)
	assert.ErrorIs(t, err, content.ErrNotFound)
	_, err = f.uploads.Stat(context.Background(), entry.ImageID)
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func TestDeleteMalformedID(t *testing.T) {
	f := newFixture(t)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/gallery/nope", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "E_INVALID_REQUEST")
}
