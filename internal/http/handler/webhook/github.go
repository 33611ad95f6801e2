package webhook

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v71/github"

	"herald.app/relay/common/logger"
	"herald.app/relay/internal/mapper"
	"herald.app/relay/internal/model"
	"herald.app/relay/internal/obs"
	"herald.app/relay/internal/service"
	"herald.app/relay/internal/store"
)

const sha256SignaturePrefix = "sha256="

var errUnsupportedSignature = errors.New("only sha256 signatures are accepted")

type GitHubWebhookHandler struct {
	secret     []byte
	relay      service.PushRelay
	deliveries store.DeliveryStore
	maxBody    int64
}

func NewGitHubWebhookHandler(secret string, relay service.PushRelay, deliveries store.DeliveryStore, maxBody int64) *GitHubWebhookHandler {
	return &GitHubWebhookHandler{
		secret:     []byte(secret),
		relay:      relay,
		deliveries: deliveries,
		maxBody:    maxBody,
	}
}

func (h *GitHubWebhookHandler) HandleEvent(c *gin.Context) {
	eventType := github.WebHookType(c.Request)
	deliveryID := github.DeliveryID(c.Request)

	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{
		DeliveryID: logger.Ptr(deliveryID),
		EventType:  logger.Ptr(eventType),
		Component:  "relay.webhook.github",
	})
	c.Request = c.Request.WithContext(ctx)

	body, ok := readBody(c, h.maxBody)
	if !ok {
		obs.WebhookDelivery(string(model.SourceGitHub), eventType, "unreadable")
		return
	}

	signature := c.GetHeader(github.SHA256SignatureHeader)
	if signature == "" {
		obs.WebhookDelivery(string(model.SourceGitHub), eventType, "unsigned")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing signature"})
		return
	}
	if err := VerifySignature(signature, body, h.secret); err != nil {
		slog.WarnContext(ctx, "github webhook signature rejected", "error", err)
		obs.WebhookDelivery(string(model.SourceGitHub), eventType, "bad_signature")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	if !json.Valid(body) {
		obs.WebhookDelivery(string(model.SourceGitHub), eventType, "invalid_payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	switch eventType {
	case "ping":
		slog.InfoContext(ctx, "github webhook ping received")
		obs.WebhookDelivery(string(model.SourceGitHub), eventType, "ok")
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	case "push":
		h.handlePush(c, body, deliveryID)
	default:
		slog.InfoContext(ctx, "unhandled github event")
		obs.WebhookDelivery(string(model.SourceGitHub), eventType, "ignored")
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	}
}

func (h *GitHubWebhookHandler) handlePush(c *gin.Context, body []byte, deliveryID string) {
	ctx := c.Request.Context()

	parsed, err := github.ParseWebHook("push", body)
	if err != nil {
		obs.WebhookDelivery(string(model.SourceGitHub), "push", "invalid_payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	push, ok := parsed.(*github.PushEvent)
	if !ok {
		obs.WebhookDelivery(string(model.SourceGitHub), "push", "invalid_payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	first, err := h.deliveries.Claim(ctx, deliveryID)
	if err != nil {
		// Dedupe is best effort: relay anyway when the store is unreachable.
		slog.WarnContext(ctx, "delivery dedupe unavailable", "error", err)
		first = true
	}
	if !first {
		slog.InfoContext(ctx, "duplicate github delivery ignored")
		obs.WebhookDelivery(string(model.SourceGitHub), "push", "duplicate")
		c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
		return
	}

	result, err := h.relay.Relay(ctx, mapper.FromGitHubPush(push, deliveryID))
	if err != nil {
		slog.ErrorContext(ctx, "failed to relay github push", "error", err)
		if releaseErr := h.deliveries.Release(ctx, deliveryID); releaseErr != nil {
			slog.WarnContext(ctx, "failed to release delivery claim", "error", releaseErr)
		}
		obs.WebhookDelivery(string(model.SourceGitHub), "push", "relay_failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to relay event"})
		return
	}

	obs.WebhookDelivery(string(model.SourceGitHub), "push", "relayed")
	c.JSON(http.StatusOK, gin.H{"status": "ok", "relayed": result.Posted, "commits": result.Commits})
}

// VerifySignature checks an X-Hub-Signature-256 value against the body.
func VerifySignature(signature string, body, secret []byte) error {
	if !strings.HasPrefix(signature, sha256SignaturePrefix) {
		return errUnsupportedSignature
	}
	return github.ValidateSignature(signature, body, secret)
}
