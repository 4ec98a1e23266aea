package services

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

// ServicesHandler exposes the shipping-service catalogue. Images attached to
// services live in their own bucket, separate from general uploads.
type ServicesHandler struct {
	media     *media.Service
	docs      *content.Store
	images    *blob.Bucket
	maxUpload int64
}

func New(mediaSvc *media.Service, docs *content.Store, images *blob.Bucket, maxUpload int64) *ServicesHandler {
	return &ServicesHandler{
		media:     mediaSvc,
		docs:      docs,
		images:    images,
		maxUpload: maxUpload,
	}
}

func (h *ServicesHandler) List(ctx *gin.Context) {
	listing, err := h.docs.ListServices(ctx.Request.Context())
	if err != nil {
		api.AbortWithStoreError(ctx, err)
		return
	}
	ctx.PureJSON(http.StatusOK, listing)
}

func (h *ServicesHandler) Get(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, fmt.Errorf("invalid service id %q", ctx.Param("id")))
		return
	}

	svc, err := h.docs.GetService(ctx.Request.Context(), id)
	if err != nil {
		api.AbortWithStoreError(ctx, err)
		return
	}
	ctx.PureJSON(http.StatusOK, svc)
}

func (h *ServicesHandler) Create(ctx *gin.Context) {
	var req UpsertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, err)
		return
	}

	svc := &content.Service{
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := h.docs.CreateService(ctx.Request.Context(), svc); err != nil {
		api.AbortWithStoreError(ctx, err)
		return
	}
	ctx.PureJSON(http.StatusCreated, svc)
}

func (h *ServicesHandler) Update(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, fmt.Errorf("invalid service id %q", ctx.Param("id")))
		return
	}

	var req UpsertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, err)
		return
	}

	svc := &content.Service{
		ID:          id,
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := h.docs.UpdateService(ctx.Request.Context(), svc); err != nil {
		api.AbortWithStoreError(ctx, err)
		return
	}

	updated, err := h.docs.GetService(ctx.Request.Context(), id)
	if err != nil {
		api.AbortWithStoreError(ctx, err)
		return
	}
	ctx.PureJSON(http.StatusOK, updated)
}

// ReplaceImage uploads a new image into the services bucket and swaps it into
// the record. The displaced image, if any, is retired afterwards.
func (h *ServicesHandler) ReplaceImage(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, fmt.Errorf("invalid service id %q", ctx.Param("id")))
		return
	}

	up, closer, err := api.FormUpload(ctx, "image", h.maxUpload)
	if err != nil {
		api.AbortWithUploadError(ctx, err)
		return
	}
	defer closer.Close()

	imageID, err := h.media.ReplaceAttachment(ctx.Request.Context(), h.images, up,
		func(c context.Context, newID uuid.UUID) (*uuid.UUID, error) {
			return h.docs.SwapServiceImage(c, id, newID)
		})
	if err != nil {
		api.HandleAttachmentError(ctx, err, gin.H{"imageId": imageID})
		return
	}

	ctx.PureJSON(http.StatusOK, gin.H{"imageId": imageID})
}

func (h *ServicesHandler) Delete(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, fmt.Errorf("invalid service id %q", ctx.Param("id")))
		return
	}

	err = h.media.DeleteAttachment(ctx.Request.Context(), h.images,
		func(c context.Context) (*uuid.UUID, error) {
			return h.docs.DeleteService(c, id)
		})
	if err != nil {
		api.HandleAttachmentError(ctx, err, gin.H{"success": true})
		return
	}
	ctx.PureJSON(http.StatusOK, gin.H{"success": true})
}
