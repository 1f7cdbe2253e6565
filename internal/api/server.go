package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/eventease/eventease-api/docs"
	v1 "github.com/eventease/eventease-api/internal/api/handler/v1"
	"github.com/eventease/eventease-api/internal/api/middleware"
	"github.com/eventease/eventease-api/internal/config"
	"github.com/eventease/eventease-api/internal/domain"
	"github.com/eventease/eventease-api/internal/pkg/mailer"
	"github.com/eventease/eventease-api/internal/repository"
	"github.com/eventease/eventease-api/internal/repository/dao"
	"github.com/eventease/eventease-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	users        *repository.UserRepository
	events       *repository.EventRepository
	attendees    *repository.AttendeeRepository
	sponsorships *repository.SponsorshipRepository
	feedback     *repository.FeedbackRepository
	notifier     *service.NotificationService
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config:       conf,
		Router:       engine,
		users:        repository.NewUserRepository(dao.NewUserDAO(db)),
		events:       repository.NewEventRepository(dao.NewEventDAO(db)),
		attendees:    repository.NewAttendeeRepository(dao.NewAttendeeDAO(db)),
		sponsorships: repository.NewSponsorshipRepository(dao.NewSponsorshipDAO(db)),
		feedback:     repository.NewFeedbackRepository(dao.NewFeedbackDAO(db)),
		notifier:     service.NewNotificationService(repository.NewNotificationRepository(dao.NewNotificationDAO(db))),
	}

	s.MountMiddlewares()
	s.MountHandlers(
		s.initAuthHandler(),
		s.initUserHandler(),
		s.initEventHandler(),
		s.initAttendeeHandler(),
		s.initFeedbackHandler(),
		s.initSponsorshipHandler(),
		s.initNotificationHandler(),
	)

	return s
}

// Notifier exposes the notification service for components outside the
// HTTP stack, such as the reminder scheduler.
func (s *Server) Notifier() *service.NotificationService {
	return s.notifier
}

func (s *Server) Events() *repository.EventRepository {
	return s.events
}

func (s *Server) Attendees() *repository.AttendeeRepository {
	return s.attendees
}

func (s *Server) initAuthHandler() *v1.AuthHandler {
	var resetMailer service.PasswordResetMailer
	if s.Config.SMTP.Enabled {
		resetMailer = mailer.NewSMTPMailer(s.Config.SMTP, s.Config.API.BaseURL)
	}

	svc := service.NewAuthService(s.users, resetMailer)

	return v1.NewAuthHandler(s.Config.API, s.Config.SMTP.Enabled, svc)
}

func (s *Server) initUserHandler() *v1.UserHandler {
	svc := service.NewUserService(s.users, s.events, s.attendees, s.sponsorships, s.notifier)

	return v1.NewUserHandler(svc)
}

func (s *Server) initEventHandler() *v1.EventHandler {
	svc := service.NewEventService(s.events, s.users, s.attendees, s.sponsorships, s.notifier)

	return v1.NewEventHandler(svc)
}

func (s *Server) initAttendeeHandler() *v1.AttendeeHandler {
	svc := service.NewAttendeeService(s.attendees, s.events, s.notifier)

	return v1.NewAttendeeHandler(svc)
}

func (s *Server) initFeedbackHandler() *v1.FeedbackHandler {
	svc := service.NewFeedbackService(s.feedback, s.events, s.attendees)

	return v1.NewFeedbackHandler(svc)
}

func (s *Server) initSponsorshipHandler() *v1.SponsorshipHandler {
	svc := service.NewSponsorshipService(s.sponsorships, s.events, s.notifier)

	return v1.NewSponsorshipHandler(svc)
}

func (s *Server) initNotificationHandler() *v1.NotificationHandler {
	return v1.NewNotificationHandler(s.notifier)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	eventHandler *v1.EventHandler,
	attendeeHandler *v1.AttendeeHandler,
	feedbackHandler *v1.FeedbackHandler,
	sponsorshipHandler *v1.SponsorshipHandler,
	notificationHandler *v1.NotificationHandler,
) {
	const basePath = "/api/v1"

	verifyJWT := middleware.NewAuthenticator(s.Config.API.JWTSigningKey, s.users).VerifyJWT()
	guardBanned := middleware.GuardBanned()
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)
	managers := middleware.RequireRoles(domain.RoleAdmin, domain.RoleOrganiser)

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/register", authHandler.HandleRegister)
		auth.POST("/auth/login", authHandler.HandleLogin)
		auth.POST("/auth/logout", authHandler.HandleLogout)
		auth.POST("/auth/forgot-password", authHandler.HandleForgotPassword)
		auth.POST("/auth/reset-password", authHandler.HandleResetPassword)
	}

	public := s.Router.Group(basePath)
	{
		public.GET("/events", eventHandler.HandleListEvents)
		public.GET("/events/:eventID", eventHandler.HandleGetEvent)
		public.GET("/feedback/public/:eventID", feedbackHandler.HandleListPublicEventFeedback)
	}

	users := s.Router.Group(basePath, verifyJWT, guardBanned)
	{
		users.GET("/users", adminOnly, userHandler.HandleListUsers)
		users.GET("/users/showMe", userHandler.HandleShowMe)
		users.GET("/users/dashboard", userHandler.HandleGetDashboard)
		users.PATCH("/users/updateUser", userHandler.HandleUpdateProfile)
		users.PATCH("/users/updateUserPassword", userHandler.HandleUpdatePassword)
		users.PATCH("/users/:userID/ban", managers, userHandler.HandleBanUser)
		users.PATCH("/users/:userID/unban", managers, userHandler.HandleUnbanUser)
		users.PATCH("/users/:userID/change-role", adminOnly, userHandler.HandleChangeRole)
		users.GET("/users/:userID", userHandler.HandleGetUser)
	}

	events := s.Router.Group(basePath, verifyJWT, guardBanned)
	{
		events.GET("/events/my/events", eventHandler.HandleListMyEvents)
		events.GET("/events/stats/:eventID", eventHandler.HandleGetEventStats)
		events.POST("/events", managers, eventHandler.HandleCreateEvent)
		events.PATCH("/events/:eventID", managers, eventHandler.HandleUpdateEvent)
		events.DELETE("/events/:eventID", adminOnly, eventHandler.HandleDeleteEvent)
		events.POST("/events/:eventID/assign-organiser", adminOnly, eventHandler.HandleAssignOrganiser)
		events.DELETE("/events/:eventID/remove-organiser", adminOnly, eventHandler.HandleRemoveOrganiser)
	}

	attendees := s.Router.Group(basePath, verifyJWT, guardBanned)
	{
		attendees.POST("/attendees/rsvp/:eventID", attendeeHandler.HandleRSVP)
		attendees.DELETE("/attendees/cancel/:eventID", attendeeHandler.HandleCancelRSVP)
		attendees.GET("/attendees/my-rsvps", attendeeHandler.HandleListMyRSVPs)
		attendees.GET("/attendees/event/:eventID", managers, attendeeHandler.HandleListEventAttendees)
		attendees.PATCH("/attendees/:attendeeID/status", managers, attendeeHandler.HandleUpdateAttendeeStatus)
		attendees.PATCH("/attendees/:attendeeID/ban", managers, attendeeHandler.HandleBanAttendee)
		attendees.PATCH("/attendees/:attendeeID/unban", managers, attendeeHandler.HandleUnbanAttendee)
	}

	feedback := s.Router.Group(basePath, verifyJWT, guardBanned)
	{
		feedback.POST("/feedback/submit/:eventID", feedbackHandler.HandleSubmitFeedback)
		feedback.GET("/feedback/my-feedback", feedbackHandler.HandleListMyFeedback)
		feedback.PATCH("/feedback/:feedbackID", feedbackHandler.HandleUpdateFeedback)
		feedback.DELETE("/feedback/:feedbackID", feedbackHandler.HandleDeleteFeedback)
		feedback.GET("/feedback/event/:eventID", managers, feedbackHandler.HandleListEventFeedback)
	}

	sponsorships := s.Router.Group(basePath, verifyJWT, guardBanned)
	{
		sponsorships.POST("/sponsorships/sponsor/:eventID", sponsorshipHandler.HandleCreateSponsorship)
		sponsorships.GET("/sponsorships/my-sponsorships", sponsorshipHandler.HandleListMySponsorships)
		sponsorships.GET("/sponsorships/event/:eventID", managers, sponsorshipHandler.HandleListEventSponsorships)
		sponsorships.PATCH("/sponsorships/:sponsorshipID/status", managers, sponsorshipHandler.HandleUpdateSponsorshipStatus)
	}

	notifications := s.Router.Group(basePath, verifyJWT, guardBanned)
	{
		notifications.GET("/notifications", notificationHandler.HandleListMyNotifications)
		notifications.GET("/notifications/stats", notificationHandler.HandleGetNotificationStats)
		notifications.PATCH("/notifications/mark-all-read", notificationHandler.HandleMarkAllNotificationsRead)
		notifications.PATCH("/notifications/:notificationID/read", notificationHandler.HandleMarkNotificationRead)
		notifications.DELETE("/notifications/:notificationID", notificationHandler.HandleDeleteNotification)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "EventEase API"
	docs.SwaggerInfo.Description = "Campus event management API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
