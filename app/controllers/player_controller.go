package controllers

import (
	"github.com/DedS3t/monopoly-server/app/engine"
	"github.com/DedS3t/monopoly-server/app/models"
	"github.com/DedS3t/monopoly-server/pkg"
	"github.com/DedS3t/monopoly-server/platform/rooms"
	jwt "github.com/form3tech-oss/jwt-go"
	"github.com/gofiber/fiber/v2"
)

type PlayerController struct {
	Rooms *rooms.Manager
}

// Cur resolves the bearer token to the seat it was issued for.
func (pc *PlayerController) Cur(c *fiber.Ctx) error {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	claims, err := pkg.ClaimsFromToken(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	room, err := pc.Rooms.Get(claims.RoomId)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	var (
		player models.Player
		found  bool
	)
	room.View(func(g *engine.Game) { player, found = g.Player(claims.PlayerId) })
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player not found"})
	}

	return c.JSON(fiber.Map{
		"room_id": claims.RoomId,
		"player": models.PlayerDto{
			Id:        player.Id,
			Name:      player.Name,
			Money:     player.Money,
			Bankrupt:  player.Bankrupt,
			Connected: !player.Disconnected,
		},
	})
}
