package routes

import (
	"github.com/DedS3t/monopoly-server/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func GameRoutes(a *fiber.App, gc *controllers.GameController) {
	route := a.Group("/game")
	route.Post("/create", gc.CreateGame)
	route.Get("/verify", gc.VerifyGame)
	route.Get("/all", gc.GetAllAvailGames)
	route.Get("/boards", gc.GetBoards)
	route.Get("/state", gc.GetState)
	route.Get("/results", gc.GetResults)
}
