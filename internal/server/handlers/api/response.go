package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborline/harborline/internal/server/blob"
	"github.com/harborline/harborline/internal/server/content"
	"github.com/harborline/harborline/internal/server/media"
)

// CleanupWarning marks a success response whose superseded file could not
// be removed under the strict cleanup policy.
const CleanupWarning = "stored file not yet removed"

func AbortWithError(ctx *gin.Context, status int, code string, err error) {
	ctx.Abort()
	ctx.Error(err)
	ctx.PureJSON(status, APIError{
		Code:    code,
		Message: err.Error(),
	})
}

// AbortWithStoreError maps the error taxonomy onto HTTP statuses: validation
// failures and not-found are client errors, everything else is a server
// error. The caller sees exactly one error per failed operation.
func AbortWithStoreError(ctx *gin.Context, err error) {
	var verr *content.ValidationError
	switch {
	case errors.As(err, &verr):
		AbortWithError(ctx, http.StatusBadRequest, CodeValidationFailed, err)
	case errors.Is(err, content.ErrNotFound):
		AbortWithError(ctx, http.StatusNotFound, CodeDocumentNotFound, err)
	case errors.Is(err, blob.ErrNotFound):
		AbortWithError(ctx, http.StatusNotFound, CodeFileNotFound, err)
	default:
		AbortWithError(ctx, http.StatusInternalServerError, CodeInternalError, err)
	}
}

// HandleAttachmentError maps errors from attach/replace/detach operations.
// A strict-policy cleanup failure arrives after the document mutation has
// committed, so it is answered with the committed payload plus a warning
// rather than an error status; everything else aborts via the store-error
// mapping.
func HandleAttachmentError(ctx *gin.Context, err error, committed gin.H) {
	if errors.Is(err, media.ErrCleanupFailed) {
		ctx.Error(err)
		committed["warning"] = CleanupWarning
		ctx.PureJSON(http.StatusOK, committed)
		return
	}
	AbortWithStoreError(ctx, err)
}
