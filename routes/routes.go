package routes

import (
	"github.com/bellapacxx/bingo-hall/controllers"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// ----------------------
	// User routes
	// ----------------------
	api.POST("/users", controllers.RegisterUser)
	api.GET("/users/:id", controllers.GetUser)
	api.GET("/users/:id/transactions", controllers.ListTransactions)

	// ----------------------
	// Game routes
	// ----------------------
	api.POST("/games", controllers.CreateGame)
	api.GET("/games", controllers.ListGames)
	api.GET("/games/:id", controllers.GetGame)
	api.GET("/games/:id/status", controllers.GameStatus)
	api.POST("/games/:id/join", controllers.JoinGame)
	api.POST("/games/:id/cards", controllers.BuyCard)
	api.POST("/games/:id/start", controllers.StartGame)
	api.POST("/games/:id/autocall", controllers.ToggleAutoCall)
	api.POST("/games/:id/call", controllers.CallNumber)

	// ----------------------
	// Credit routes
	// ----------------------
	api.POST("/credits", controllers.AddCredit)
	api.POST("/credit-requests", controllers.CreateCreditRequest)
	api.POST("/credit-requests/:id/process", controllers.ProcessCreditRequest)
	api.POST("/withdrawals", controllers.CreateWithdrawal)
	api.POST("/withdrawals/:id/process", controllers.ProcessWithdrawal)

	// ----------------------
	// Policy routes
	// ----------------------
	api.GET("/policy", controllers.GetPolicy)
	api.PUT("/policy", controllers.UpdatePolicy)

	// ----------------------
	// Raffle routes
	// ----------------------
	api.POST("/raffles", controllers.CreateRaffle)
	api.GET("/raffles", controllers.ListRaffles)
	api.GET("/raffles/:id", controllers.GetRaffle)
	api.POST("/raffles/:id/tickets", controllers.BuyTicket)
	api.POST("/raffles/:id/draw", controllers.DrawRaffle)
}
