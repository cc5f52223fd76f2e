package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/linkedbud/linkedbud/configs"
	"github.com/linkedbud/linkedbud/internal/api/handlers"
	"github.com/linkedbud/linkedbud/internal/api/middleware"
	job "github.com/linkedbud/linkedbud/internal/jobs"
	"github.com/linkedbud/linkedbud/internal/queue"
	"github.com/linkedbud/linkedbud/internal/repository"
	"github.com/linkedbud/linkedbud/internal/service"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	postRepo := repository.NewPostRepository(db)
	attachmentRepo := repository.NewPostAttachmentRepository(db)
	publishedPostRepo := repository.NewPublishedPostRepository(db)
	metricsRepo := repository.NewMetricsRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	storageService := service.NewStorageService(*cfg)
	linkedinService := service.NewLinkedinService(*cfg)
	tokenService := service.NewTokenService(*cfg, tokenRepo, orgRepo, linkedinService)
	postService := service.NewPostService(db, postRepo, attachmentRepo, orgRepo, storageService)
	publishService := service.NewPublishService(postRepo, attachmentRepo, publishedPostRepo, orgRepo, tokenService, linkedinService, storageService)
	metricsService := service.NewMetricsService(metricsRepo, linkedinService)
	analyticsService := service.NewAnalyticsService(publishedPostRepo, metricsRepo)
	billingService := service.NewBillingService(*cfg, userRepo, subscriptionRepo)
	feedbackService := service.NewFeedbackService(*cfg, feedbackRepo, storageService)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)

	linkedin := handlers.NewLinkedinHandler(tokenService, linkedinService, *cfg)
	app.Get("/auth/linkedin/:type", linkedin.Connect)
	app.Get("/auth/linkedin/:type/callback", linkedin.CallbackHandler)

	billing := handlers.NewBillingHandler(billingService, userService)
	app.Post("/webhooks/billing", billing.BillingWebhook)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(*cfg, userService)
	api.Get("/user/info", user.GetUserInfo)
	api.Post("/user/remove", user.RemoveUser)

	api.Get("/linkedin/status", linkedin.Status)
	api.Get("/linkedin/organizations", linkedin.ListOrganizations)
	api.Post("/linkedin/disconnect", linkedin.Disconnect)

	post := handlers.NewPostHandler(postService, client)
	api.Post("/posts/create", post.CreatePost)
	api.Post("/posts/update", post.UpdatePost)
	api.Get("/posts", post.ListPosts)
	api.Get("/posts/attachments", post.ListAttachments)
	api.Get("/posts/attachments/url", post.AttachmentURL)
	api.Post("/posts/remove", post.RemovePost)

	publish := handlers.NewPublishHandler(publishService)
	api.Post("/posts/publish", publish.PublishNow)

	analytics := handlers.NewAnalyticsHandler(analyticsService)
	api.Get("/analytics", analytics.GetAnalytics)

	api.Post("/billing/checkout", billing.CreateCheckout)
	api.Post("/billing/cancel", billing.CancelSubscription)

	feedback := handlers.NewFeedbackHandler(feedbackService)
	api.Post("/feedback", feedback.SubmitFeedback)

	// cron jobs
	metricsJob := job.NewMetricsJob(publishedPostRepo, tokenService, metricsService)

	//queue
	queueW := queue.NewQueue(postRepo, publishService)

	c := cron.New()
	c.AddFunc("@daily", metricsJob.CollectMetrics)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishPost, queueW.HandlePublishPostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
