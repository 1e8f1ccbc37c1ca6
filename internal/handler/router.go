package handler

import (
	"bancoapi/internal/config"
	"bancoapi/internal/infrastructure/cache"
	"bancoapi/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// SetupRouter wires middleware and routes.
func SetupRouter(db *gorm.DB, cfg *config.Config, accountCache *cache.AccountCache) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())
	r.Use(metrics.Middleware())

	h := NewHandler(db, cfg, accountCache)

	api := r.Group("/api/v1")
	{
		clients := api.Group("/clients")
		{
			clients.POST("", h.CreateClient)
			clients.GET("", h.ListClients)
			clients.GET("/:cpf", h.GetClient)
			clients.PUT("/:cpf", h.UpdateClient)
			clients.DELETE("/:cpf", h.DeleteClient)
		}

		accounts := api.Group("/accounts")
		{
			accounts.GET("", h.ListAccounts)
			accounts.GET("/:cpf", h.GetAccount)
		}

		transfers := api.Group("/transfers")
		{
			transfers.POST("", h.CreateTransfer)
			transfers.GET("", h.ListTransfers)
			transfers.GET("/sent/:cpf", h.TransfersSent)
			transfers.GET("/received/:cpf", h.TransfersReceived)
		}
	}

	// Route index, kept from the original API's front page.
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"Create Client":      "POST /api/v1/clients",
			"All Clients":        "GET /api/v1/clients",
			"Client Detail":      "GET /api/v1/clients/:cpf",
			"Bank Transfer":      "POST /api/v1/transfers",
			"All Transfers":      "GET /api/v1/transfers",
			"Transfers Sent":     "GET /api/v1/transfers/sent/:cpf",
			"Transfers Received": "GET /api/v1/transfers/received/:cpf",
			"Bank Account":       "GET /api/v1/accounts/:cpf",
			"All Bank Accounts":  "GET /api/v1/accounts",
		})
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
