package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-events/event-service/internal/models"
	"github.com/campus-events/event-service/internal/services"
	"github.com/campus-events/event-service/internal/utils"
)

type HandlerManager struct {
	authHandler         *AuthHandler
	userHandler         *UserHandler
	eventHandler        *EventHandler
	registrationHandler *RegistrationHandler
	certificateHandler  *CertificateHandler
	forumHandler        *ForumHandler
	notificationHandler *NotificationHandler
	authMiddleware      *AuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	jwtSecret string,
) *HandlerManager {
	return &HandlerManager{
		authHandler:         NewAuthHandler(serviceManager.User(), logger),
		userHandler:         NewUserHandler(serviceManager.User(), logger),
		eventHandler:        NewEventHandler(serviceManager.Event(), serviceManager.Export(), logger),
		registrationHandler: NewRegistrationHandler(serviceManager.Registration(), logger),
		certificateHandler:  NewCertificateHandler(serviceManager.Certificate(), logger),
		forumHandler:        NewForumHandler(serviceManager.Forum(), logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), logger),
		authMiddleware:      NewAuthMiddleware(jwtSecret),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	{
		auth.POST("/register", hm.authHandler.Register)
		auth.POST("/login", hm.authHandler.Login)
	}

	// Public certificate verification; no token required by design
	v1.GET("/certificates/verify/:code", hm.certificateHandler.VerifyCertificate)

	// Authenticated routes
	authed := v1.Group("")
	authed.Use(hm.authMiddleware.RequireAuth())
	{
		authed.GET("/auth/me", hm.authHandler.Me)

		users := authed.Group("/users")
		{
			users.GET("", hm.authMiddleware.RequireRole(models.RoleAdmin), hm.userHandler.ListUsers)
			users.GET("/:id", hm.userHandler.GetUser)
			users.PUT("/:id", hm.userHandler.UpdateUser)
			users.DELETE("/:id", hm.authMiddleware.RequireRole(models.RoleAdmin), hm.userHandler.DeactivateUser)
		}

		events := authed.Group("/events")
		{
			events.GET("", hm.eventHandler.ListEvents)
			events.GET("/search", hm.eventHandler.SearchEvents)
			events.GET("/:id", hm.eventHandler.GetEvent)
			events.GET("/:id/details", hm.eventHandler.GetEventWithDetails)

			events.POST("", hm.authMiddleware.RequireRole(models.RoleOrganizer), hm.eventHandler.CreateEvent)
			events.PUT("/:id", hm.authMiddleware.RequireRole(models.RoleOrganizer), hm.eventHandler.UpdateEvent)
			events.DELETE("/:id", hm.authMiddleware.RequireRole(models.RoleOrganizer), hm.eventHandler.CancelEvent)
			events.POST("/:id/submit", hm.authMiddleware.RequireRole(models.RoleOrganizer), hm.eventHandler.SubmitEvent)
			events.POST("/:id/review", hm.authMiddleware.RequireRole(models.RoleAdmin), hm.eventHandler.ReviewEvent)
			events.POST("/:id/complete", hm.authMiddleware.RequireRole(models.RoleOrganizer), hm.eventHandler.CompleteEvent)
			events.POST("/:id/organizers/:user_id", hm.authMiddleware.RequireRole(models.RoleOrganizer), hm.eventHandler.AddCoOrganizer)

			events.GET("/:id/stats", hm.authMiddleware.RequireRole(models.RoleOrganizer), hm.eventHandler.GetEventStats)
			events.GET("/organizer/:organizer_id/stats", hm.authMiddleware.RequireRole(models.RoleOrganizer), hm.eventHandler.GetOrganizerStats)
			events.GET("/:id/registrations/export", hm.authMiddleware.RequireRole(models.RoleOrganizer), hm.eventHandler.ExportRegistrations)
		}

		registrations := authed.Group("/registrations")
		{
			registrations.POST("", hm.registrationHandler.CreateRegistration)
			registrations.GET("/my", hm.registrationHandler.GetMyRegistrations)
			registrations.GET("/:id", hm.registrationHandler.GetRegistration)
			registrations.DELETE("/:id", hm.registrationHandler.CancelRegistration)

			registrations.POST("/join-team", hm.registrationHandler.JoinTeam)
			registrations.GET("/event/:event_id", hm.authMiddleware.RequireRole(models.RoleOrganizer), hm.registrationHandler.GetEventRegistrations)
			registrations.GET("/event/:event_id/teams/:team_code", hm.registrationHandler.GetTeam)

			registrations.POST("/:id/checkin", hm.registrationHandler.CheckIn)
			registrations.POST("/:id/sessions", hm.authMiddleware.RequireRole(models.RoleOrganizer), hm.registrationHandler.RecordSessionAttendance)
			registrations.POST("/:id/feedback", hm.registrationHandler.SubmitFeedback)
		}

		certificates := authed.Group("/certificates")
		{
			certificates.POST("/generate", hm.authMiddleware.RequireRole(models.RoleOrganizer), hm.certificateHandler.GenerateCertificate)
			certificates.GET("/my", hm.certificateHandler.GetMyCertificates)
			certificates.GET("/:id", hm.certificateHandler.GetCertificate)
			certificates.GET("/:id/download", hm.certificateHandler.DownloadCertificate)
			certificates.POST("/:id/share", hm.certificateHandler.ShareCertificate)
			certificates.POST("/:id/revoke", hm.authMiddleware.RequireRole(models.RoleAdmin), hm.certificateHandler.RevokeCertificate)
		}

		forum := authed.Group("/forum")
		{
			forum.GET("/posts", hm.forumHandler.ListPosts)
			forum.POST("/posts", hm.forumHandler.CreatePost)
			forum.GET("/posts/:id", hm.forumHandler.GetPost)
			forum.DELETE("/posts/:id", hm.forumHandler.DeletePost)
			forum.POST("/posts/:id/replies", hm.forumHandler.CreateReply)
			forum.POST("/posts/:id/like", hm.forumHandler.ToggleLike)
			forum.POST("/posts/:id/apply", hm.forumHandler.ApplyToTeam)
			forum.POST("/applications/:id/decide", hm.forumHandler.DecideApplication)
		}

		notifications := authed.Group("/notifications")
		{
			notifications.GET("", hm.notificationHandler.GetMyNotifications)
			notifications.POST("/:id/read", hm.notificationHandler.MarkRead)
			notifications.POST("/read-all", hm.notificationHandler.MarkAllRead)
			notifications.POST("/broadcast", hm.authMiddleware.RequireRole(models.RoleAdmin), hm.notificationHandler.Broadcast)
		}
	}
}

// HealthCheck endpoint
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "event-service",
	})
}
