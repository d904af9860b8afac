// Package server exposes the till over HTTP for the counter device and the
// administrative viewer. The till itself stays transport-agnostic; every
// handler is a thin translation between JSON and till operations.
package server

import (
	"github.com/gin-gonic/gin"

	"tillpos/config"
	"tillpos/internal/mirror"
	"tillpos/internal/till"
)

type Server struct {
	till   *till.Till
	engine *mirror.Engine
	cfg    config.Config
}

func New(t *till.Till, engine *mirror.Engine, cfg config.Config) *Server {
	return &Server{till: t, engine: engine, cfg: cfg}
}

// Router wires the full surface. The counter surface is open on the local
// network; catalog and bank operations sit behind scoped tokens.
func (s *Server) Router() *gin.Engine {
	r := gin.New()

	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(CORS())

	r.GET("/health", s.Health)

	auth := r.Group("/api/v1/auth")
	auth.Use(RateLimit("10-M"))
	{
		auth.POST("/editor", s.EditorLogin)
		auth.POST("/admin", s.AdminLogin)
	}

	api := r.Group("/api/v1")
	{
		shift := api.Group("/shift")
		{
			shift.GET("", s.GetShift)
			shift.POST("/start", s.StartShift)
			shift.POST("/change", s.ChangeShift)
			shift.POST("/end", s.EndDay)
			shift.GET("/report", s.ShiftReport)
		}

		cart := api.Group("/cart")
		{
			cart.GET("", s.GetCart)
			cart.POST("/lines", s.AddCartLine)
			cart.DELETE("/lines/:index", s.RemoveCartLine)
			cart.DELETE("", s.ClearCart)
		}

		api.POST("/checkout", s.Checkout)

		orders := api.Group("/orders")
		{
			orders.GET("", s.ListOrders)
			orders.GET("/totals", s.OrderTotals)
			orders.GET("/frequency", s.SalesFrequency)
			orders.POST("/:no/done", s.MarkDone)
			orders.POST("/:no/void", s.VoidOrder)
			orders.GET("/:no/receipt", s.Receipt)
		}

		inventory := api.Group("/inventory")
		{
			inventory.GET("", s.ListInventory)
			inventory.POST("", s.AddInventoryItem)
			inventory.DELETE("/:id", s.DeleteInventoryItem)
			inventory.PUT("/:id/qty", s.SetInventoryQty)
			inventory.POST("/lock", s.LockInventory)
			inventory.POST("/unlock", s.UnlockInventory)
			inventory.GET("/usage", s.InventoryUsage)
		}

		expenses := api.Group("/expenses")
		{
			expenses.GET("", s.ListExpenses)
			expenses.POST("", s.AddExpense)
			expenses.DELETE("/:id", s.DeleteExpense)
		}

		pins := api.Group("/pins")
		pins.Use(RateLimit("10-M"))
		{
			pins.PUT("/:no", s.ChangePin)
		}

		sync := api.Group("/sync")
		{
			sync.GET("/status", s.SyncStatus)
			sync.POST("/push", s.SyncPush)
			sync.POST("/pull", s.SyncPull)
			sync.POST("/autosync", s.SetAutosync)
			sync.POST("/realtime", s.SetRealtime)
		}
	}

	editor := r.Group("/api/v1")
	editor.Use(JWTAuth([]byte(s.cfg.JWTSecret), "editor"))
	{
		catalog := editor.Group("/catalog")
		{
			catalog.GET("", s.GetCatalog)
			catalog.POST("/menu", s.AddMenuItem)
			catalog.POST("/extras", s.AddExtra)
			catalog.PUT("/items/:id", s.UpdateCatalogItem)
			catalog.PUT("/items/:id/recipe", s.SetRecipeEntry)
			catalog.DELETE("/items/:id", s.DeleteCatalogItem)
		}

		settings := editor.Group("/settings")
		{
			settings.GET("", s.GetSettings)
			settings.PUT("", s.UpdateSettings)
		}
	}

	admin := r.Group("/api/v1")
	admin.Use(JWTAuth([]byte(s.cfg.JWTSecret), "admin"))
	{
		bank := admin.Group("/bank")
		{
			bank.GET("", s.GetBank)
			bank.POST("/tx", s.PostBankTx)
		}
		admin.GET("/overview", s.Overview)
	}

	return r
}
