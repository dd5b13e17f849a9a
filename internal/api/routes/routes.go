package routes

import (
	"github.com/clintmariano/careerlog/internal/api/handlers"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	// Auth must set user_id on the context; every route but /ping sits behind it.
	Auth gin.HandlerFunc

	Applications *handlers.ApplicationHandler
	Activities   *handlers.ActivityHandler
	Attachments  *handlers.AttachmentHandler
	Dashboard    *handlers.DashboardHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	auth := r.Group("/")
	auth.Use(d.Auth)

	apps := auth.Group("/applications")
	apps.GET("", d.Applications.List)
	apps.POST("", d.Applications.Create)
	apps.GET("/:id", d.Applications.Get)
	apps.PUT("/:id", d.Applications.Update)
	apps.DELETE("/:id", d.Applications.Delete)
	apps.GET("/status/:status", d.Applications.ListByStatus)
	apps.GET("/analytics/status-breakdown", d.Applications.StatusBreakdown)
	apps.GET("/analytics/weekly-count", d.Applications.WeeklyCount)
	apps.GET("/analytics/total-count", d.Applications.TotalCount)

	acts := auth.Group("/activities")
	acts.POST("", d.Activities.Create)
	acts.GET("/user", d.Activities.ListByUser)
	acts.GET("/application/:application_id", d.Activities.ListByApplication)
	acts.GET("/application/:application_id/type/:type", d.Activities.ListByApplicationAndType)
	acts.GET("/:id", d.Activities.Get)
	acts.PUT("/:id", d.Activities.Update)
	acts.DELETE("/:id", d.Activities.Delete)
	acts.GET("/analytics/recent", d.Activities.Recent)
	acts.GET("/analytics/type-breakdown", d.Activities.TypeBreakdown)
	acts.GET("/analytics/count/:type", d.Activities.CountByType)

	atts := auth.Group("/attachments")
	atts.POST("", d.Attachments.Create)
	atts.POST("/upload", d.Attachments.Upload)
	atts.GET("/user", d.Attachments.ListByUser)
	atts.GET("/application/:application_id", d.Attachments.ListByApplication)
	atts.GET("/application/:application_id/type/:type", d.Attachments.ListByApplicationAndType)
	atts.GET("/application/:application_id/count", d.Attachments.Count)
	atts.GET("/application/:application_id/exists", d.Attachments.Exists)
	atts.GET("/:id", d.Attachments.Get)
	atts.DELETE("/:id", d.Attachments.Delete)
	atts.GET("/analytics/type-breakdown", d.Attachments.TypeBreakdown)

	dash := auth.Group("/dashboard")
	dash.GET("/overview", d.Dashboard.Overview)
	dash.GET("/applications-per-week", d.Dashboard.ApplicationsPerWeek)
	dash.GET("/recent-activities", d.Dashboard.RecentActivities)
	dash.GET("/analytics/status-summary", d.Dashboard.StatusSummary)
	dash.GET("/analytics/activity-trends", d.Dashboard.ActivityTrends)
}
