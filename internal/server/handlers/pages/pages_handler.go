package pages

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harborline/harborline/internal/server/blob"
	"github.com/harborline/harborline/internal/server/content"
	"github.com/harborline/harborline/internal/server/handlers/api"
	"github.com/harborline/harborline/internal/server/media"
)

type PagesHandler struct {
	media     *media.Service
	docs      *content.Store
	uploads   *blob.Bucket
	maxUpload int64
}

func New(mediaSvc *media.Service, docs *content.Store, uploads *blob.Bucket, maxUpload int64) *PagesHandler {
	return &PagesHandler{
		media:     mediaSvc,
		docs:      docs,
		uploads:   uploads,
		maxUpload: maxUpload,
	}
}

func (h *PagesHandler) List(ctx *gin.Context) {
	pages, err := h.docs.ListPages(ctx.Request.Context())
	if err != nil {
		api.AbortWithStoreError(ctx, err)
		return
	}
	ctx.PureJSON(http.StatusOK, gin.H{"pages": pages})
}

func (h *PagesHandler) Get(ctx *gin.Context) {
	page, err := h.docs.GetPage(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		api.AbortWithStoreError(ctx, err)
		return
	}
	ctx.PureJSON(http.StatusOK, page)
}

func (h *PagesHandler) Create(ctx *gin.Context) {
	var req UpsertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, err)
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = req.Title
	}
	page := &content.Page{Slug: slug, Title: req.Title, Sections: req.Sections}
	if err := h.docs.CreatePage(ctx.Request.Context(), page); err != nil {
		api.AbortWithStoreError(ctx, err)
		return
	}
	ctx.PureJSON(http.StatusCreated, page)
}

// Update replaces a page's title and section list. Image references inside
// sections are carried through untouched; swapping an image goes through
// ReplaceSectionImage so the superseded blob is retired properly.
func (h *PagesHandler) Update(ctx *gin.Context) {
	var req UpsertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, err)
		return
	}

	page := &content.Page{Slug: ctx.Param("slug"), Title: req.Title, Sections: req.Sections}
	if err := h.docs.UpdatePage(ctx.Request.Context(), page); err != nil {
		api.AbortWithStoreError(ctx, err)
		return
	}
	ctx.PureJSON(http.StatusOK, page)
}

// ReplaceSectionImage uploads a new image into the indexed section of a
// page. The target is located after the upload; a missing page or an
// imageless section type discards the fresh blob before the error returns.
func (h *PagesHandler) ReplaceSectionImage(ctx *gin.Context) {
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest,
			fmt.Errorf("invalid section index %q: %w", ctx.Param("index"), err))
		return
	}

	up, closer, err := api.FormUpload(ctx, "image", h.maxUpload)
	if err != nil {
		api.AbortWithUploadError(ctx, err)
		return
	}
	defer closer.Close()

	slug := ctx.Param("slug")
	newID, err := h.media.ReplaceAttachment(ctx.Request.Context(), h.uploads, up,
		func(c context.Context, imageID uuid.UUID) (*uuid.UUID, error) {
			return h.docs.SwapSectionImage(c, slug, index, imageID)
		})
	if err != nil {
		api.HandleAttachmentError(ctx, err, gin.H{"imageId": newID})
		return
	}

	ctx.PureJSON(http.StatusOK, gin.H{"imageId": newID})
}
