package router

import (
	"github.com/gin-gonic/gin"

	"herald.app/relay/internal/http/handler/webhook"
)

func GitHubWebhookRouter(router *gin.RouterGroup, handler *webhook.GitHubWebhookHandler) {
	router.POST("/github", handler.HandleEvent)
}

func GitLabWebhookRouter(router *gin.RouterGroup, handler *webhook.GitLabWebhookHandler) {
	router.POST("/gitlab", handler.HandleEvent)
}
