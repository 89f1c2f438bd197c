package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/config"
	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/handlers"
	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/middleware"
	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/repository"
	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/services"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) error {
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	chargeRepo := repository.NewChargeRepository(db)
	instructorRepo := repository.NewInstructorRepository(db)
	studentRepo := repository.NewStudentRepository(db)

	emailService := services.NewSendGridEmailService(cfg.SendGridAPIKey)
	pixClient := services.NewMercadoPagoClient(cfg.MercadoPagoAccessToken)
	chargeService := services.NewChargeService(chargeRepo)
	paymentService := services.NewPaymentService(
		cfg.StripeSecretKey,
		cfg.AppBaseURL,
		chargeRepo,
		userRepo,
		pixClient,
		emailService,
	)
	reconcileService := services.NewReconcileService(instructorRepo, studentRepo)

	authHandler := handlers.NewAuthHandler(db, userRepo, profileRepo, cfg.JWTSecret)
	chargeHandler := handlers.NewChargeHandler(chargeService, paymentService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, emailService)
	instructorHandler := handlers.NewInstructorHandler(instructorRepo)
	studentHandler := handlers.NewStudentHandler(studentRepo, instructorRepo)
	dashboardHandler := handlers.NewDashboardHandler(reconcileService, profileRepo, userRepo)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	authProtected.Put("/profile", authHandler.UpdateProfile)

	charges := authProtected.Group("/charges")
	charges.Get("", chargeHandler.ListCharges)
	charges.Post("", chargeHandler.CreateCharge)
	charges.Put("/:id", chargeHandler.UpdateCharge)
	charges.Delete("/:id", chargeHandler.DeleteCharge)
	charges.Post("/:id/payment-link", chargeHandler.IssueCardLink)
	charges.Post("/:id/pix", chargeHandler.IssuePix)

	payments := authProtected.Group("/payments")
	payments.Post("/checkout", paymentHandler.CreateCheckout)
	payments.Post("/pix", paymentHandler.CreatePix)
	payments.Post("/test-email", paymentHandler.SendTestEmail)

	instructors := authProtected.Group("/instructors")
	instructors.Get("", instructorHandler.ListInstructors)
	instructors.Post("", instructorHandler.CreateInstructor)
	instructors.Put("/:id", instructorHandler.UpdateInstructor)
	instructors.Delete("/:id", instructorHandler.DeleteInstructor)

	students := authProtected.Group("/students")
	students.Get("", studentHandler.ListStudents)
	students.Post("", studentHandler.CreateStudent)
	students.Put("/:id", studentHandler.UpdateStudent)
	students.Delete("/:id", studentHandler.DeleteStudent)

	authProtected.Get("/dashboard", dashboardHandler.GetDashboard)

	return registerDocsRoutes(app, cfg)
}
