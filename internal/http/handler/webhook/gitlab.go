package webhook

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	gitlab "gitlab.com/gitlab-org/api/client-go"

	"herald.app/relay/common/logger"
	"herald.app/relay/internal/mapper"
	"herald.app/relay/internal/model"
	"herald.app/relay/internal/obs"
	"herald.app/relay/internal/service"
)

const gitlabTokenHeader = "X-Gitlab-Token"

type GitLabWebhookHandler struct {
	token   []byte
	relay   service.PushRelay
	maxBody int64
}

func NewGitLabWebhookHandler(token string, relay service.PushRelay, maxBody int64) *GitLabWebhookHandler {
	return &GitLabWebhookHandler{
		token:   []byte(token),
		relay:   relay,
		maxBody: maxBody,
	}
}

func (h *GitLabWebhookHandler) HandleEvent(c *gin.Context) {
	eventType := gitlab.HookEventType(c.Request)

	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{
		EventType: logger.Ptr(string(eventType)),
		Component: "relay.webhook.gitlab",
	})
	c.Request = c.Request.WithContext(ctx)

	token := c.GetHeader(gitlabTokenHeader)
	if token == "" {
		obs.WebhookDelivery(string(model.SourceGitLab), string(eventType), "unsigned")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing webhook token"})
		return
	}
	if subtle.ConstantTimeCompare([]byte(token), h.token) != 1 {
		obs.WebhookDelivery(string(model.SourceGitLab), string(eventType), "bad_signature")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook token"})
		return
	}

	body, ok := readBody(c, h.maxBody)
	if !ok {
		obs.WebhookDelivery(string(model.SourceGitLab), string(eventType), "unreadable")
		return
	}

	if eventType != gitlab.EventTypePush {
		slog.InfoContext(ctx, "unhandled gitlab event")
		obs.WebhookDelivery(string(model.SourceGitLab), string(eventType), "ignored")
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	parsed, err := gitlab.ParseWebhook(eventType, body)
	if err != nil {
		obs.WebhookDelivery(string(model.SourceGitLab), string(eventType), "invalid_payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	push, ok := parsed.(*gitlab.PushEvent)
	if !ok {
		obs.WebhookDelivery(string(model.SourceGitLab), string(eventType), "invalid_payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	result, err := h.relay.Relay(ctx, mapper.FromGitLabPush(push))
	if err != nil {
		slog.ErrorContext(ctx, "failed to relay gitlab push", "error", err)
		obs.WebhookDelivery(string(model.SourceGitLab), string(eventType), "relay_failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to relay event"})
		return
	}

	obs.WebhookDelivery(string(model.SourceGitLab), string(eventType), "relayed")
	c.JSON(http.StatusOK, gin.H{"status": "ok", "relayed": result.Posted, "commits": result.Commits})
}
