package app

import (
	"testbot_backend/docs"
	"testbot_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	router.GET("/", c.health.Root)

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		// Справочники
		api.GET("/specializations", c.catalog.GetSpecializations)
		api.GET("/difficulties", c.catalog.GetDifficulties)

		// Жизненный цикл теста
		test := api.Group("/test")
		{
			test.POST("/start", c.test.StartTest)
			test.POST("/answer", c.test.SubmitAnswer)
			test.POST("/finish", c.test.FinishTest)
		}

		// История и разбор
		api.GET("/stats/:telegram_id", c.stats.GetUserStats)
		api.GET("/result/:session_id", c.test.GetResultDetail)
	}
}
