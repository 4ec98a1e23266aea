package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborline/harborline/internal/server/media"
)

var (
	ErrNoFile       = errors.New("request carries no file")
	ErrEmptyFile    = errors.New("file is empty")
	ErrFileTooLarge = errors.New("file exceeds the configured size limit")
)

// FormUpload extracts the binary file field from a multipart submission and
// wraps it as a media.Upload. Size violations are rejected here, before any
// store write begins. The returned closer must be closed by the handler.
func FormUpload(ctx *gin.Context, field string, maxSize int64) (media.Upload, io.Closer, error) {
	file, err := ctx.FormFile(field)
	if err != nil {
		return media.Upload{}, nil, fmt.Errorf("%w: %w", ErrNoFile, err)
	}

	if file.Size <= 0 {
		return media.Upload{}, nil, ErrEmptyFile
	}
	if maxSize > 0 && file.Size > maxSize {
		return media.Upload{}, nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, file.Size)
	}

	fd, err := file.Open()
	if err != nil {
		return media.Upload{}, nil, fmt.Errorf("open form file: %w", err)
	}

	up, err := media.NewUpload(file.Filename, file.Header.Get("Content-Type"), fd)
	if err != nil {
		fd.Close()
		return media.Upload{}, nil, fmt.Errorf("read form file: %w", err)
	}
	return up, fd, nil
}

// AbortWithUploadError maps FormUpload failures onto client-error responses.
func AbortWithUploadError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		AbortWithError(ctx, http.StatusRequestEntityTooLarge, CodeFileTooLarge, err)
	default:
		AbortWithError(ctx, http.StatusBadRequest, CodeInvalidRequest, err)
	}
}
