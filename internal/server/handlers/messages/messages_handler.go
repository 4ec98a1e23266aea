package messages

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harborline/harborline/internal/server/content"
	"github.com/harborline/harborline/internal/server/handlers/api"
)

// MessagesHandler lets the admin review and clear contact-form inquiries.
type MessagesHandler struct {
	docs *content.Store
}

func New(docs *content.Store) *MessagesHandler {
	return &MessagesHandler{docs: docs}
}

func (h *MessagesHandler) List(ctx *gin.Context) {
	msgs, err := h.docs.ListMessages(ctx.Request.Context())
	if err != nil {
		api.AbortWithStoreError(ctx, err)
		return
	}
	ctx.PureJSON(http.StatusOK, msgs)
}

func (h *MessagesHandler) Delete(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest,
			fmt.Errorf("invalid message id %q", ctx.Param("id")))
		return
	}

	if err := h.docs.DeleteMessage(ctx.Request.Context(), id); err != nil {
		api.AbortWithStoreError(ctx, err)
		return
	}
	ctx.PureJSON(http.StatusOK, gin.H{"success": true})
}
