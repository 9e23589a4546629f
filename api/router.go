package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sentiment-dashboard/api/handler"
	"sentiment-dashboard/services"
	"sentiment-dashboard/utils"
)

type Router struct {
	engine *gin.Engine
}

func NewRouter(dash *services.Dashboard, logger *utils.Logger) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	overviewHandler := handler.NewOverviewHandler(dash)
	metricsHandler := handler.NewMetricsHandler(dash)
	evolutionHandler := handler.NewEvolutionHandler(dash)
	exportHandler := handler.NewExportHandler(dash, logger)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	engine.GET("/report", exportHandler.Report)

	api := engine.Group("/api")
	{
		api.GET("/overview", overviewHandler.Get)

		metrics := api.Group("/metrics")
		{
			metrics.GET("", metricsHandler.List)
			metrics.GET("/long", metricsHandler.Long)
		}
		api.GET("/summary", metricsHandler.Summary)
		api.GET("/confusion", metricsHandler.Confusion)
		api.GET("/roc", metricsHandler.ROC)

		evolution := api.Group("/evolution")
		{
			evolution.GET("", evolutionHandler.Volume)
			evolution.GET("/sentiment", evolutionHandler.Sentiment)
		}
		api.GET("/trend", evolutionHandler.Trend)

		api.GET("/export/metrics.csv", exportHandler.MetricsCSV)
	}

	return &Router{engine: engine}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
