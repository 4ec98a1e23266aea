package schedule

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harborline/harborline/internal/server/blob"
	"github.com/harborline/harborline/internal/server/content"
	"github.com/harborline/harborline/internal/server/handlers/api"
	"github.com/harborline/harborline/internal/server/media"
)

// ScheduleHandler manages the singleton sailing-schedule PDF. Replacement
// rides the same attach protocol as every other upload; the singleton is
// enforced by an upsert against a fixed key, so the collection never holds
// zero entries mid-replacement.
type ScheduleHandler struct {
	media     *media.Service
	docs      *content.Store
	uploads   *blob.Bucket
	maxUpload int64
}

func New(mediaSvc *media.Service, docs *content.Store, uploads *blob.Bucket, maxUpload int64) *ScheduleHandler {
	return &ScheduleHandler{
		media:     mediaSvc,
		docs:      docs,
		uploads:   uploads,
		maxUpload: maxUpload,
	}
}

func (h *ScheduleHandler) Get(ctx *gin.Context) {
	sched, err := h.docs.GetSchedule(ctx.Request.Context())
	if err != nil {
		api.AbortWithStoreError(ctx, err)
		return
	}
	ctx.PureJSON(http.StatusOK, sched)
}

func (h *ScheduleHandler) Replace(ctx *gin.Context) {
	up, closer, err := api.FormUpload(ctx, "file", h.maxUpload)
	if err != nil {
		api.AbortWithUploadError(ctx, err)
		return
	}
	defer closer.Close()

	var sched *content.Schedule
	fileID, err := h.media.ReplaceAttachment(ctx.Request.Context(), h.uploads, up,
		func(c context.Context, id uuid.UUID) (*uuid.UUID, error) {
			sched = &content.Schedule{FileID: id, Filename: up.Filename, ContentType: up.ContentType}
			return h.docs.UpsertSchedule(c, sched)
		})
	if err != nil {
		api.HandleAttachmentError(ctx, err, gin.H{"fileId": fileID, "schedule": sched})
		return
	}

	ctx.PureJSON(http.StatusOK, gin.H{"fileId": fileID, "schedule": sched})
}

func (h *ScheduleHandler) Delete(ctx *gin.Context) {
	err := h.media.DeleteAttachment(ctx.Request.Context(), h.uploads,
		func(c context.Context) (*uuid.UUID, error) {
			return h.docs.DeleteSchedule(c)
		})
	if err != nil {
		api.HandleAttachmentError(ctx, err, gin.H{"success": true})
		return
	}
	ctx.PureJSON(http.StatusOK, gin.H{"success": true})
}
