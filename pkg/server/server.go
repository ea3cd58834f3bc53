package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v60/github"
	"github.com/ksysoev/todo-action/pkg/logging"
	"github.com/ksysoev/todo-action/pkg/runner"
)

// RepositoryFactory builds a repository client for "owner/repo"
type RepositoryFactory func(repoFullName string) (runner.Repository, error)

// WebhookHandler receives GitHub push deliveries
type WebhookHandler struct {
	secret  []byte
	newRepo RepositoryFactory
	opts    runner.Options
	logger  *slog.Logger
}

// NewWebhookHandler creates a handler. An empty secret disables signature checks.
func NewWebhookHandler(secret string, newRepo RepositoryFactory, opts runner.Options, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		secret:  []byte(secret),
		newRepo: newRepo,
		opts:    opts,
		logger:  logger,
	}
}

// NewRouter wires the webhook and health endpoints
func NewRouter(h *WebhookHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/webhook", h.HandleEvent)

	return router
}

func (h *WebhookHandler) HandleEvent(c *gin.Context) {
	ctx := c.Request.Context()

	payload, err := github.ValidatePayload(c.Request, h.secret)
	if err != nil {
		h.logger.WarnContext(ctx, "rejected webhook delivery", "error", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	deliveryID := github.DeliveryID(c.Request)
	eventType := github.WebHookType(c.Request)

	switch eventType {
	case "ping":
		c.JSON(http.StatusOK, gin.H{"status": "pong"})
		return
	case "push":
	default:
		c.JSON(http.StatusAccepted, gin.H{"status": "ignored", "event": eventType})
		return
	}

	parsed, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	event, ok := parsed.(*github.PushEvent)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	repoName := event.GetRepo().GetFullName()
	repo, err := h.newRepo(repoName)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create repository client", "error", err, "repository", repoName)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process event"})
		return
	}

	log := logging.NewPrintf(ctx, h.logger, "delivery_id", deliveryID, "repository", repoName)
	summary, err := runner.Run(ctx, repo, event, h.opts, log)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to process push event",
			"error", err,
			"delivery_id", deliveryID,
			"repository", repoName,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process event"})
		return
	}

	h.logger.InfoContext(ctx, "push event processed",
		"delivery_id", deliveryID,
		"repository", repoName,
		"ref", event.GetRef(),
		"created", summary.Created,
		"reopened", summary.Reopened,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)

	c.JSON(http.StatusOK, gin.H{
		"created":  summary.Created,
		"reopened": summary.Reopened,
		"skipped":  summary.Skipped,
		"failed":   summary.Failed,
	})
}
