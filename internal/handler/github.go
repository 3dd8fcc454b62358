package handler

import (
	"errors"

	"stationbot/internal/model"
	"stationbot/internal/service"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type GitHubHandler struct {
	changelogs *service.ChangelogService
	log        *zap.SugaredLogger
}

func NewGitHubHandler(changelogs *service.ChangelogService, log *zap.SugaredLogger) *GitHubHandler {
	return &GitHubHandler{changelogs: changelogs, log: log}
}

// Webhook receives GitHub deliveries. (Signature protected)
func (h *GitHubHandler) Webhook(c *fiber.Ctx) error {
	switch event := c.Get("X-GitHub-Event"); event {
	case "ping":
		return c.JSON(fiber.Map{"status": "pong"})
	case "pull_request":
		return h.pullRequest(c)
	default:
		return c.Status(202).JSON(fiber.Map{"status": "ignored", "event": event})
	}
}

func (h *GitHubHandler) pullRequest(c *fiber.Ctx) error {
	var ev model.PullRequestEvent
	if err := json.Unmarshal(c.Body(), &ev); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
	}
	if ev.PullRequest.Number == 0 {
		ev.PullRequest.Number = ev.Number
	}

	report, err := h.changelogs.ProcessPullRequest(c.Context(), &ev)
	if errors.Is(err, service.ErrIgnoredAction) {
		return c.Status(202).JSON(fiber.Map{"status": "ignored", "action": ev.Action})
	}
	if err != nil {
		h.log.Errorw("processing pull request failed", "pr", ev.PullRequest.Number, "action", ev.Action, "error", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to process pull request"})
	}

	return c.JSON(report)
}
