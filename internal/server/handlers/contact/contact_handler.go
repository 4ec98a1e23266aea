package contact

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/harborline/harborline/internal/server/content"
	"github.com/harborline/harborline/internal/server/email"
	"github.com/harborline/harborline/internal/server/handlers/api"
)

const notifyTimeout = 30 * time.Second

// ContactHandler receives contact-form inquiries from the public site. Input
// is stripped of any markup before it is stored, and the owner notification
// is sent off the request path so a mail outage never fails a submission.
type ContactHandler struct {
	docs      *content.Store
	emailSvc  *email.EmailService
	sanitizer *bluemonday.Policy
}

func New(docs *content.Store, emailSvc *email.EmailService) *ContactHandler {
	return &ContactHandler{
		docs:      docs,
		emailSvc:  emailSvc,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (h *ContactHandler) Submit(ctx *gin.Context) {
	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, err)
		return
	}

	msg := &content.Message{
		Name:    h.clean(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: h.clean(req.Subject),
		Body:    h.clean(req.Body),
	}
	if err := h.docs.CreateMessage(ctx.Request.Context(), msg); err != nil {
		api.AbortWithStoreError(ctx, err)
		return
	}

	if h.emailSvc != nil && h.emailSvc.IsEnabled() {
		go h.notify(msg)
	}

	ctx.PureJSON(http.StatusCreated, gin.H{"id": msg.ID})
}

func (h *ContactHandler) notify(msg *content.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := h.emailSvc.NotifyInquiry(ctx, msg); err != nil {
		slog.Error("inquiry notification failed", "messageId", msg.ID, "error", err)
	}
}

func (h *ContactHandler) clean(s string) string {
	return strings.TrimSpace(h.sanitizer.Sanitize(s))
}
