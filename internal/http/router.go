package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, healthCheck func(c *gin.Context) error, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		if healthCheck != nil {
			if err := healthCheck(c); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	protected := router.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		protected.POST("/grievances", handler.submitGrievance)
		protected.GET("/grievances/:ref", handler.getGrievance)
		protected.GET("/grievances/:ref/history", handler.getGrievanceHistory)
		protected.PUT("/grievances/:ref/status", handler.updateGrievanceStatus)
		protected.GET("/grievances/user/:userID", handler.listGrievancesByUser)
		protected.GET("/grievances/department/:dept", handler.listGrievancesByDepartment)

		protected.GET("/status-stages", handler.listStatusStages)
		protected.GET("/departments", handler.listDepartments)
		protected.GET("/dashboard/stats/:scope", handler.dashboardStats)
	}

	return router
}
