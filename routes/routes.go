package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"stockk_backend/config"
	"stockk_backend/controllers"
	"stockk_backend/middleware"
	"stockk_backend/repository"
	"stockk_backend/services"
)

// Deps are the shared services the route table wires into controllers
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Logger  *zap.Logger
	OIDC    *services.OIDCService
	SSI     *services.SSIService
	TCBS    *services.TCBSService
	Board   *services.PriceBoardService
	Archive *services.PriceArchive
}

// SetupRoutes sets up all API routes
func SetupRoutes(router *gin.Engine, deps Deps) {
	// Repositories
	chartRepo := repository.NewChartRepository(deps.DB)
	drawingRepo := repository.NewDrawingTemplateRepository(deps.DB)
	studyRepo := repository.NewStudyTemplateRepository(deps.DB)
	tickerRepo := repository.NewTickerRepository(deps.DB)
	industryRepo := repository.NewIndustryRepository(deps.DB)
	userRepo := repository.NewUserRepository(deps.DB)
	itemRepo := repository.NewItemRepository(deps.DB)

	// Controllers
	chartController := controllers.NewChartController(chartRepo, deps.Logger)
	drawingController := controllers.NewDrawingTemplateController(drawingRepo, deps.Logger)
	studyController := controllers.NewStudyTemplateController(studyRepo, deps.Logger)
	tvController := controllers.NewTradingViewController(tickerRepo, deps.SSI, deps.Logger)
	tcbsController := controllers.NewTCBSController(deps.TCBS, deps.Logger)
	priceController := controllers.NewPriceController(deps.Board, deps.Archive, deps.Logger)
	loginController := controllers.NewLoginController(deps.Config, deps.Logger)
	userController := controllers.NewUserController(userRepo, deps.Logger)
	tickerController := controllers.NewTickerController(tickerRepo, deps.Logger)
	industryController := controllers.NewIndustryController(industryRepo, deps.Logger)
	itemController := controllers.NewItemController(itemRepo, deps.Logger)

	auth := middleware.OIDCAuth(deps.OIDC, userRepo, deps.Logger)
	active := middleware.ActiveUserRequired()
	proxyLimiter := middleware.NewRateLimiter(120, time.Minute)

	api := router.Group("/api/v0")
	{
		// Chart storage (TradingView save/load protocol)
		charts := api.Group("/charts", auth, active)
		{
			charts.POST("", chartController.SaveChart)
			charts.GET("", chartController.GetCharts)
			charts.DELETE("", chartController.DeleteChart)
		}

		drawings := api.Group("/drawing_templates", auth, active)
		{
			drawings.POST("", drawingController.SaveTemplate)
			drawings.GET("", drawingController.GetTemplates)
			drawings.DELETE("", drawingController.DeleteTemplate)
		}

		studies := api.Group("/study_templates", auth, active)
		{
			studies.POST("", studyController.SaveTemplate)
			studies.GET("", studyController.GetTemplates)
			studies.DELETE("", studyController.DeleteTemplate)
		}

		// TradingView datafeed (read-only, unauthenticated)
		tradingview := api.Group("/tradingview")
		{
			tradingview.GET("/time", tvController.GetTime)
			tradingview.GET("/config", tvController.GetConfig)
			tradingview.GET("/symbols", tvController.GetSymbols)
			tradingview.GET("/search", tvController.GetSearch)
			tradingview.GET("/history", proxyLimiter.Handler(), tvController.GetHistory)
			tradingview.GET("/symbol_info", tvController.GetStub)
			tradingview.GET("/marks", tvController.GetStub)
			tradingview.GET("/timescale_marks", tvController.GetStub)
			tradingview.GET("/quotes", tvController.GetStub)
		}

		// Market data proxies
		api.GET("/tcbs/search", proxyLimiter.Handler(), tcbsController.Search)
		api.GET("/prices", priceController.GetPrices)
		api.GET("/ws/prices", priceController.StreamPrices)

		// Auth
		login := api.Group("/login")
		{
			login.POST("/exchange-oidc-token", auth, active, loginController.ExchangeOIDCToken)
			login.POST("/test-token", auth, active, loginController.TestToken)
		}

		// Account management
		users := api.Group("/users", auth, active)
		{
			users.GET("", userController.ListUsers)
			users.GET("/me", userController.GetMe)
			users.PUT("/me", userController.UpdateMe)
			users.GET("/oidc_me", userController.GetOIDCMe)
			users.GET("/:id", userController.GetUser)
			users.PUT("/:id", userController.UpdateUser)
			users.DELETE("/:id", userController.DeleteUser)
		}

		// Reference catalog
		tickers := api.Group("/tickers", auth, active)
		{
			tickers.POST("", tickerController.CreateTicker)
			tickers.GET("", tickerController.ListTickers)
			tickers.GET("/:id", tickerController.GetTicker)
			tickers.PUT("/:id", tickerController.UpdateTicker)
			tickers.DELETE("/:id", tickerController.DeleteTicker)
		}

		industries := api.Group("/industries", auth, active)
		{
			industries.POST("", industryController.CreateIndustry)
			industries.GET("", industryController.ListIndustries)
			industries.GET("/:id", industryController.GetIndustry)
			industries.PUT("/:id", industryController.UpdateIndustry)
			industries.DELETE("/:id", industryController.DeleteIndustry)
		}

		items := api.Group("/items", auth, active)
		{
			items.POST("", itemController.CreateItem)
			items.GET("", itemController.ListItems)
			items.GET("/:id", itemController.GetItem)
			items.PUT("/:id", itemController.UpdateItem)
			items.DELETE("/:id", itemController.DeleteItem)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Stockk backend is running",
		})
	})

	// Readiness: health plus a live DB round trip
	router.GET("/ready", func(c *gin.Context) {
		sqlDB, err := deps.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
