package media

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimal JPEG magic prefix
var jpegHeader = string([]byte{0xFF, 0xD8, 0xFF, 0xE0})

func TestNewUploadTrustsDeclaredType(t *testing.T) {
	up, err := NewUpload("a.bin", "application/pdf", strings.NewReader("%PDF-"))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", up.ContentType)
}

func TestNewUploadSniffsMagicBytes(t *testing.T) {
	body := jpegHeader + strings.Repeat("x", 512)
	up, err := NewUpload("camera-upload", "", strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", up.ContentType)

	// the sniffed bytes are stitched back onto the stream
	got, err := io.ReadAll(up.Body)
	require.NoError(t, err)
	assert.Equal(t, body, string(got))
}

func TestNewUploadSniffsGenericDeclaredType(t *testing.T) {
	up, err := NewUpload("x", "application/octet-stream", strings.NewReader(jpegHeader+"data"))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", up.ContentType)
}

func TestNewUploadFallsBackToExtension(t *testing.T) {
	up, err := NewUpload("notes.txt", "", strings.NewReader("plain text, no magic"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(up.ContentType, "text/plain"))
}

func TestNewUploadDefaultsToOctetStream(t *testing.T) {
	up, err := NewUpload("mystery", "", strings.NewReader("???"))
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", up.ContentType)

	got, err := io.ReadAll(up.Body)
	require.NoError(t, err)
	assert.Equal(t, "???", string(got))
}

func TestNewUploadShortBody(t *testing.T) {
	up, err := NewUpload("tiny.bin", "", strings.NewReader("ab"))
	require.NoError(t, err)

	got, err := io.ReadAll(up.Body)
	require.NoError(t, err)
	assert.Equal(t, "ab", string(got))
}
