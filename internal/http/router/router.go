package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"herald.app/relay/core/config"
	"herald.app/relay/internal/http/handler/webhook"
	"herald.app/relay/internal/obs"
	"herald.app/relay/internal/service"
)

type RouterConfig struct {
	Webhook config.WebhookConfig
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(obs.Handler()))

	// Without a relay channel there is nowhere to post, so the webhooks stay unmounted.
	if !cfg.Webhook.Enabled() {
		return
	}

	relay := services.Relay()
	hooks := router.Group("/webhook")

	githubHandler := webhook.NewGitHubWebhookHandler(cfg.Webhook.GitHubSecret, relay, services.Deliveries(), cfg.Webhook.MaxBodyBytes)
	GitHubWebhookRouter(hooks, githubHandler)

	if cfg.Webhook.GitLabEnabled() {
		gitlabHandler := webhook.NewGitLabWebhookHandler(cfg.Webhook.GitLabToken, relay, cfg.Webhook.MaxBodyBytes)
		GitLabWebhookRouter(hooks, gitlabHandler)
	}
}
