package handler

import (
	"errors"
	"strconv"
	"strings"

	"stationbot/internal/model"
	"stationbot/internal/repository"
	"stationbot/internal/service"

	"github.com/gofiber/fiber/v2"
)

const maxCompileBody = 65536

type ChangelogHandler struct {
	changelogs   *service.ChangelogService
	repo         string
	defaultLimit int
}

// NewChangelogHandler serves recorded changelogs. repo is the owner/name of
// the game repository the game server asks about.
func NewChangelogHandler(changelogs *service.ChangelogService, repo string, defaultLimit int) *ChangelogHandler {
	return &ChangelogHandler{changelogs: changelogs, repo: repo, defaultLimit: defaultLimit}
}

// List returns recently merged changelogs. (Public)
func (h *ChangelogHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(h.defaultLimit)))
	records, err := h.changelogs.Recent(c.Context(), repository.ClampLimit(limit))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to list changelogs"})
	}
	if records == nil {
		records = []model.ChangelogRecord{}
	}
	return c.JSON(records)
}

// Compile previews a changelog without recording it. (Admin-key protected)
func (h *ChangelogHandler) Compile(c *fiber.Ctx) error {
	var req model.CompileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Body) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "body required"})
	}
	if len(req.Body) > maxCompileBody {
		return c.Status(400).JSON(fiber.Map{"error": "body too long (max 65536 bytes)"})
	}

	return c.JSON(h.changelogs.Preview(req.Body, req.Author))
}

// ForPullRequest returns the recorded changelog of one PR. (Server-key protected)
func (h *ChangelogHandler) ForPullRequest(c *fiber.Ctx) error {
	number, err := strconv.Atoi(c.Params("pr"))
	if err != nil || number <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid pull request number"})
	}

	rec, err := h.changelogs.ForPullRequest(c.Context(), h.repo, number)
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "changelog not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to load changelog"})
	}
	return c.JSON(rec)
}
