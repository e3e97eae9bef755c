package routes

import (
	"github.com/DedS3t/monopoly-server/app/controllers"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
)

// PlayerRoutes are only reachable with a player token from /game/create or the joined event.
func PlayerRoutes(a *fiber.App, pc *controllers.PlayerController, secret string) {
	route := a.Group("/player", jwtware.New(jwtware.Config{
		SigningKey: []byte(secret),
	}))
	route.Get("/cur", pc.Cur)
}
