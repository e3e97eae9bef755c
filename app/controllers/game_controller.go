package controllers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/DedS3t/monopoly-server/app/engine"
	"github.com/DedS3t/monopoly-server/app/models"
	"github.com/DedS3t/monopoly-server/pkg"
	"github.com/DedS3t/monopoly-server/platform/cache"
	"github.com/DedS3t/monopoly-server/platform/queries"
	"github.com/DedS3t/monopoly-server/platform/rooms"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const (
	defaultResultsLimit = 20
	maxResultsLimit     = 100
)

type SnapshotLoader interface {
	Load(roomId string) (models.Snapshot, error)
}

type ResultLister interface {
	RecentResults(ctx context.Context, limit int) ([]models.GameResult, error)
}

// GameController serves the HTTP side of rooms. Snapshots and Results may be nil
// when Redis or Postgres are not configured.
type GameController struct {
	Rooms     *rooms.Manager
	Snapshots SnapshotLoader
	Results   ResultLister
	Secret    string
	TokenTTL  time.Duration
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameCreateDto := new(models.GameCreateDto)
	if err := c.BodyParser(gameCreateDto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request"})
	}

	room, host, err := gc.Rooms.Create(gameCreateDto.Name, gameCreateDto.Settings)
	if err != nil {
		log.WithError(err).Error("failed to create room")
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	token, err := pkg.IssuePlayerToken(gc.Secret, gc.TokenTTL, room.Id(), host.Id)
	if err != nil {
		log.WithError(err).Error("failed to sign player token")
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"room_id":   room.Id(),
		"player_id": host.Id,
		"token":     token,
	})
}

// VerifyGame reports whether code names a room that can still be joined.
func (gc *GameController) VerifyGame(c *fiber.Ctx) error {
	verifyGameDto := new(models.VerifyGameDto)
	if err := c.QueryParser(verifyGameDto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request"})
	}

	room, err := gc.Rooms.Get(verifyGameDto.Code)
	if err != nil {
		return c.JSON(fiber.Map{"status": false})
	}
	joinable := false
	room.View(func(g *engine.Game) {
		joinable = g.Status() == models.StatusLobby && len(g.Players()) < g.Settings().MaxPlayers
	})
	return c.JSON(fiber.Map{"status": joinable})
}

func (gc *GameController) GetAllAvailGames(c *fiber.Ctx) error {
	games := gc.Rooms.List()
	if games == nil {
		games = []models.RoomSummary{}
	}
	return c.JSON(games)
}

func (gc *GameController) GetBoards(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"boards": gc.Rooms.Boards(), "default": models.DefaultBoardName})
}

// GetState serves the live state of a room. Rooms no longer held in memory are
// answered from the snapshot cache.
func (gc *GameController) GetState(c *fiber.Ctx) error {
	verifyGameDto := new(models.VerifyGameDto)
	if err := c.QueryParser(verifyGameDto); err != nil || verifyGameDto.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "code is required"})
	}

	if room, err := gc.Rooms.Get(verifyGameDto.Code); err == nil {
		var snap models.Snapshot
		room.View(func(g *engine.Game) { snap = g.Snapshot() })
		return c.JSON(snap)
	}

	if gc.Snapshots != nil {
		snap, err := gc.Snapshots.Load(verifyGameDto.Code)
		if err == nil {
			return c.JSON(snap)
		}
		if !errors.Is(err, cache.ErrNotFound) {
			log.WithError(err).WithField("room", verifyGameDto.Code).Warn("failed to load snapshot")
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": rooms.ErrRoomNotFound.Error()})
}

func (gc *GameController) GetResults(c *fiber.Ctx) error {
	if gc.Results == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "results are not stored"})
	}
	requested, _ := strconv.Atoi(c.Query("limit"))
	limit := queries.ClampLimit(requested, defaultResultsLimit, maxResultsLimit)

	results, err := gc.Results.RecentResults(c.Context(), limit)
	if err != nil {
		log.WithError(err).Error("failed to load results")
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	if results == nil {
		results = []models.GameResult{}
	}
	return c.JSON(results)
}
