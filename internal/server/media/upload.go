package media

import (
	"bytes"
	"io"
	"mime"
	"path/filepath"

	"github.com/h2non/filetype"
)

// Upload is one incoming file: its original name, effective content type and
// a single-pass byte stream.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// sniffLen covers every magic-number signature filetype knows about.
const sniffLen = 261

// NewUpload builds an Upload, resolving the effective content type. A
// declared type is trusted; a missing or generic one is sniffed from the
// stream's leading bytes, falling back to the filename extension. The
// consumed bytes are stitched back onto the body.
func NewUpload(filename, declared string, body io.Reader) (Upload, error) {
	if declared != "" && declared != "application/octet-stream" {
		return Upload{Filename: filename, ContentType: declared, Body: body}, nil
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return Upload{}, err
	}
	head = head[:n]

	contentType := declared
	if kind, _ := filetype.Match(head); kind != filetype.Unknown {
		contentType = kind.MIME.Value
	} else if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		contentType = byExt
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return Upload{
		Filename:    filename,
		ContentType: contentType,
		Body:        io.MultiReader(bytes.NewReader(head), body),
	}, nil
}
