package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/linetrack/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted by the router.
type Handlers struct {
	Production *handlers.ProductionHandler
	Stops      *handlers.StopHandler
	Reports    *handlers.ReportHandler
	Stream     *handlers.StreamHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(handlers.Locale())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/products", h.Production.ListProducts)
		api.POST("/products", h.Production.CreateProduct)
		api.PATCH("/products/:id", h.Production.UpdateProduct)

		api.GET("/team-members", h.Production.ListTeamMembers)
		api.POST("/team-members", h.Production.CreateTeamMember)

		api.GET("/production", h.Production.ListProduction)
		api.POST("/production", h.Production.CreateProduction)
		api.DELETE("/production/:id", h.Production.DeleteProduction)
		api.GET("/production/daily", h.Production.Daily)
		api.GET("/production/hourly", h.Production.Hourly)

		api.GET("/packaging", h.Production.ListPackaging)
		api.POST("/packaging", h.Production.CreatePackaging)
		api.DELETE("/packaging/:id", h.Production.DeletePackaging)

		api.GET("/stops", h.Stops.List)
		api.POST("/stops", h.Stops.Start)
		api.GET("/stops/active", h.Stops.Active)
		api.POST("/stops/:id/end", h.Stops.End)
		api.DELETE("/stops/:id", h.Stops.Delete)

		api.GET("/dashboard", h.Production.Dashboard)

		api.GET("/reports", h.Reports.Summary)
		api.GET("/reports/document", h.Reports.Document)
		api.POST("/reports/spreadsheet", h.Reports.Spreadsheet)
		api.GET("/reports/spreadsheet.xlsx", h.Reports.SpreadsheetFile)

		api.GET("/stream", h.Stream.Stream)
	}

	if logger != nil {
		logger.Info("router initialized", zap.Int("routes", len(r.Routes())))
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn("request completed", fields...)
			return
		}
		logger.Info("request completed", fields...)
	}
}
