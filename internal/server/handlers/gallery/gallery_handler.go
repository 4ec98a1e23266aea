package gallery

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harborline/harborline/internal/server/blob"
	"github.com/harborline/harborline/internal/server/content"
	"github.com/harborline/harborline/internal/server/handlers/api"
	"github.com/harborline/harborline/internal/server/media"
)

type GalleryHandler struct {
	media     *media.Service
	docs      *content.Store
	uploads   *blob.Bucket
	maxUpload int64
}

func New(mediaSvc *media.Service, docs *content.Store, uploads *blob.Bucket, maxUpload int64) *GalleryHandler {
	return &GalleryHandler{
		media:     mediaSvc,
		docs:      docs,
		uploads:   uploads,
		maxUpload: maxUpload,
	}
}

func (h *GalleryHandler) List(ctx *gin.Context) {
	entries, err := h.docs.ListGallery(ctx.Request.Context())
	if err != nil {
		api.AbortWithStoreError(ctx, err)
		return
	}
	ctx.PureJSON(http.StatusOK, gin.H{"entries": entries})
}

// Create handles a multipart submission carrying one image plus a title.
// The image is uploaded first; if creating the entry fails the blob is
// removed again, so no orphan survives a validation error.
func (h *GalleryHandler) Create(ctx *gin.Context) {
	up, closer, err := api.FormUpload(ctx, "image", h.maxUpload)
	if err != nil {
		api.AbortWithUploadError(ctx, err)
		return
	}
	defer closer.Close()

	var entry content.GalleryEntry
	_, err = h.media.CreateWithAttachment(ctx.Request.Context(), h.uploads, up,
		func(c context.Context, imageID uuid.UUID) error {
			entry = content.GalleryEntry{Title: ctx.PostForm("title"), ImageID: imageID}
			return h.docs.CreateGalleryEntry(c, &entry)
		})
	if err != nil {
		api.AbortWithStoreError(ctx, err)
		return
	}

	ctx.PureJSON(http.StatusCreated, &entry)
}

// ReplaceImage swaps the entry's image for a newly uploaded one. The old
// blob is retired only after the new reference is committed.
func (h *GalleryHandler) ReplaceImage(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest,
			fmt.Errorf("invalid gallery id %q: %w", ctx.Param("id"), err))
		return
	}

	up, closer, err := api.FormUpload(ctx, "image", h.maxUpload)
	if err != nil {
		api.AbortWithUploadError(ctx, err)
		return
	}
	defer closer.Close()

	newID, err := h.media.ReplaceAttachment(ctx.Request.Context(), h.uploads, up,
		func(c context.Context, imageID uuid.UUID) (*uuid.UUID, error) {
			return h.docs.SwapGalleryImage(c, id, imageID)
		})
	if err != nil {
		api.HandleAttachmentError(ctx, err, gin.H{"imageId": newID})
		return
	}

	ctx.PureJSON(http.StatusOK, gin.H{"imageId": newID})
}

func (h *GalleryHandler) Rename(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest,
			fmt.Errorf("invalid gallery id %q: %w", ctx.Param("id"), err))
		return
	}

	var req RenameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, err)
		return
	}

	if err := h.docs.UpdateGalleryTitle(ctx.Request.Context(), id, req.Title); err != nil {
		api.AbortWithStoreError(ctx, err)
		return
	}
	ctx.PureJSON(http.StatusOK, gin.H{"success": true})
}

// Delete removes the entry and then its image. The document goes first, so
// a failed blob deletion can only leave an orphan, never a dangling
// reference.
func (h *GalleryHandler) Delete(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest,
			fmt.Errorf("invalid gallery id %q: %w", ctx.Param("id"), err))
		return
	}

	err = h.media.DeleteAttachment(ctx.Request.Context(), h.uploads,
		func(c context.Context) (*uuid.UUID, error) {
			return h.docs.DeleteGalleryEntry(c, id)
		})
	if err != nil {
		api.HandleAttachmentError(ctx, err, gin.H{"success": true})
		return
	}

	ctx.PureJSON(http.StatusOK, gin.H{"success": true})
}
