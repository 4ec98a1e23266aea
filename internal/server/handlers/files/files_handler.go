package files

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harborline/harborline/internal/server/blob"
	"github.com/harborline/harborline/internal/server/handlers/api"
)

// FilesHandler is the read side of the blob store: given an identifier
// recorded in a document, it streams the object back. It is independent of
// every write-path concern.
type FilesHandler struct {
	bucket *blob.Bucket
}

func New(bucket *blob.Bucket) *FilesHandler {
	return &FilesHandler{bucket: bucket}
}

func (h *FilesHandler) Download(ctx *gin.Context) {
	// reject malformed ids before touching the store
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeFileInvalidID,
			fmt.Errorf("invalid file id %q: %w", ctx.Param("id"), err))
		return
	}

	stream, err := h.bucket.Open(ctx.Request.Context(), id)
	if err != nil {
		api.AbortWithStoreError(ctx, err)
		return
	}
	defer stream.Close()

	info := stream.Info()
	ctx.Header("Content-Type", info.ContentType)
	ctx.Header("Content-Length", fmt.Sprintf("%d", info.Length))
	ctx.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", info.Filename))
	ctx.Status(http.StatusOK)

	// stream chunk-by-chunk; the object is never buffered whole
	if _, err := io.Copy(ctx.Writer, stream); err != nil {
		// headers are sent; nothing to do but log via gin's error sink
		ctx.Error(fmt.Errorf("stream file %s: %w", id, err))
	}
}
