package server

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"leximind.com/api/internal/config"
	"leximind.com/api/internal/entity"
	"leximind.com/api/internal/jobs"
	"leximind.com/api/internal/middleware"
	"leximind.com/api/pkg/auth"
	"leximind.com/api/pkg/logger"
	"leximind.com/api/pkg/metrics"
	"leximind.com/api/pkg/ratelimit"
	"leximind.com/api/pkg/response"
	"leximind.com/api/pkg/storage"

	achievementHttp "leximind.com/api/internal/modules/achievement/delivery/http"
	achievementRepo "leximind.com/api/internal/modules/achievement/repository"
	achievementService "leximind.com/api/internal/modules/achievement/service"

	adminHttp "leximind.com/api/internal/modules/admin/delivery/http"
	adminService "leximind.com/api/internal/modules/admin/service"

	categoryHttp "leximind.com/api/internal/modules/category/delivery/http"
	categoryRepo "leximind.com/api/internal/modules/category/repository"
	categoryService "leximind.com/api/internal/modules/category/service"

	contentHttp "leximind.com/api/internal/modules/content/delivery/http"
	contentProvider "leximind.com/api/internal/modules/content/provider"
	contentRepo "leximind.com/api/internal/modules/content/repository"
	contentService "leximind.com/api/internal/modules/content/service"

	gameHttp "leximind.com/api/internal/modules/game/delivery/http"
	gameRepo "leximind.com/api/internal/modules/game/repository"
	gameService "leximind.com/api/internal/modules/game/service"

	leagueHttp "leximind.com/api/internal/modules/league/delivery/http"
	leagueRepo "leximind.com/api/internal/modules/league/repository"
	leagueService "leximind.com/api/internal/modules/league/service"

	learningHttp "leximind.com/api/internal/modules/learning/delivery/http"
	learningRepo "leximind.com/api/internal/modules/learning/repository"
	learningService "leximind.com/api/internal/modules/learning/service"

	notiHttp "leximind.com/api/internal/modules/notification/delivery/http"
	notifRepo "leximind.com/api/internal/modules/notification/repository"
	notifService "leximind.com/api/internal/modules/notification/service"

	profileHttp "leximind.com/api/internal/modules/profile/delivery/http"
	profileService "leximind.com/api/internal/modules/profile/service"

	reportHttp "leximind.com/api/internal/modules/report/delivery/http"
	reportRepo "leximind.com/api/internal/modules/report/repository"
	reportService "leximind.com/api/internal/modules/report/service"

	reviewHttp "leximind.com/api/internal/modules/review/delivery/http"
	reviewRepo "leximind.com/api/internal/modules/review/repository"
	reviewService "leximind.com/api/internal/modules/review/service"

	seasonHttp "leximind.com/api/internal/modules/season/delivery/http"
	seasonRepo "leximind.com/api/internal/modules/season/repository"
	seasonService "leximind.com/api/internal/modules/season/service"

	userHttp "leximind.com/api/internal/modules/user/delivery/http"
	userRepo "leximind.com/api/internal/modules/user/repository"
	userService "leximind.com/api/internal/modules/user/service"

	wordHttp "leximind.com/api/internal/modules/word/delivery/http"
	wordRepo "leximind.com/api/internal/modules/word/repository"
	wordService "leximind.com/api/internal/modules/word/service"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	scheduler   *jobs.Scheduler
	llm         contentProvider.LLMProvider
	log         *logger.Logger
}

// NewServer wires every module. redisClient may be nil.
func NewServer(ctx context.Context, cfg *config.Config, db *gorm.DB, redisClient *redis.Client, log *logger.Logger) (*Server, error) {
	response.SetLogger(log)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	limiter := ratelimit.New(redisClient)

	imageStorage, err := storage.NewCloudinaryStorage(cfg.CloudinaryURL, cfg.CloudinaryUploadFolder)
	if err != nil {
		return nil, err
	}

	llm, err := contentProvider.New(ctx, contentProvider.Options{
		Provider:     cfg.LLMProvider,
		GeminiAPIKey: cfg.GeminiAPIKey,
		GeminiModel:  cfg.GeminiModel,
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		OpenAIModel:  cfg.OpenAIModel,
	})
	if err != nil {
		return nil, err
	}
	if llm == nil {
		log.Warn("no language model configured, content endpoints use fallbacks")
	} else {
		log.Info("language model configured", "provider", llm.Name())
	}

	// Initialize Meilisearch
	var searchIndex wordService.SearchIndex
	if cfg.MeiliSearchHost != "" {
		meiliHost := cfg.MeiliSearchHost
		if !strings.HasPrefix(meiliHost, "http") {
			meiliHost = "http://" + meiliHost + ":7700"
		}
		meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		searchIndex = wordService.NewMeiliSearchIndex(meiliClient, log)
	}

	userRepository := userRepo.NewUserRepository(db)
	wordRepository := wordRepo.NewWordRepository(db)
	leagueRepository := leagueRepo.NewLeagueRepository(db)
	seasonRepository := seasonRepo.NewSeasonRepository(db)
	learningRepository := learningRepo.NewLearningRepository(db)

	// Notification Module
	notificationSvc := notifService.NewNotificationService(notifRepo.NewNotificationRepository(db), redisClient, log)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, redisClient, allowOrigin(cfg.AllowedOrigins), log)

	achievementSvc := achievementService.NewAchievementService(achievementRepo.NewAchievementRepository(db), notificationSvc, log)
	achievementHandler := achievementHttp.NewAchievementHandler(achievementSvc)

	authSvc := userService.NewAuthService(userRepository, tokens, log)
	authHandler := userHttp.NewAuthHandler(authSvc)

	adminSvc := adminService.NewAdminService(userRepository, log)
	adminHandler := adminHttp.NewAdminHandler(adminSvc)

	categorySvc := categoryService.NewCategoryService(categoryRepo.NewCategoryRepository(db), log)
	categoryHandler := categoryHttp.NewCategoryHandler(categorySvc)

	contentSvc := contentService.NewContentService(llm, contentRepo.NewContentRepository(db), wordRepository, userRepository, limiter, contentService.Options{
		Timeout:  cfg.LLMTimeout,
		Cooldown: cfg.RateLimitAI,
	}, log)
	contentHandler := contentHttp.NewContentHandler(contentSvc)

	wordSvc := wordService.NewWordService(wordRepository, searchIndex, imageStorage, contentSvc, log)
	packSvc := wordService.NewPackService(wordRepo.NewPackRepository(db), wordRepository, log)
	wordHandler := wordHttp.NewWordHandler(wordSvc, packSvc)

	gameSvc := gameService.NewGameService(userRepository, gameRepo.NewGameRepository(db), wordRepository, achievementSvc, notificationSvc, log)
	gameHandler := gameHttp.NewGameHandler(gameSvc)

	reviewSvc := reviewService.NewReviewService(reviewRepo.NewReviewRepository(db), wordRepository, log)
	reviewHandler := reviewHttp.NewReviewHandler(reviewSvc)

	learningSvc := learningService.NewLearningService(learningRepository, wordRepository, log)
	learningHandler := learningHttp.NewLearningHandler(learningSvc)

	leagueSvc := leagueService.NewLeagueService(leagueRepository, userRepository, achievementSvc, notificationSvc, log)
	leagueHandler := leagueHttp.NewLeagueHandler(leagueSvc)

	seasonSvc := seasonService.NewSeasonService(seasonRepository, leagueRepository, userRepository, notificationSvc, log)
	seasonHandler := seasonHttp.NewSeasonHandler(seasonSvc)

	reportSvc := reportService.NewReportService(reportRepo.NewReportRepository(db), userRepository, wordRepository, learningRepository, seasonSvc, log)
	reportHandler := reportHttp.NewReportHandler(reportSvc)

	profileSvc := profileService.NewProfileService(userRepository, achievementSvc, seasonRepository)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	scheduler := jobs.NewScheduler(log)
	if err := scheduler.Register(cfg.LeagueRefreshCron, jobs.SeasonRollover(seasonSvc)); err != nil {
		return nil, err
	}
	if err := scheduler.Register(cfg.LeagueRefreshCron, jobs.LeagueRefresh(leagueSvc)); err != nil {
		return nil, err
	}

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metrics.Handler())

	authMiddleware := middleware.NewAuthMiddleware(userRepository, tokens)
	staff := authMiddleware.RequireRole(entity.RoleTeacher, entity.RoleAdmin)
	admin := authMiddleware.RequireAdmin()

	api := router.Group("/api")

	// Public routes (no auth required)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		// User management
		protected.POST("/users", admin, adminHandler.CreateUser)
		protected.GET("/users", staff, adminHandler.GetAllUsers)
		protected.DELETE("/users/:id", admin, adminHandler.DeleteUser)

		// Catalog
		protected.POST("/words", staff, wordHandler.CreateWord)
		protected.GET("/words", wordHandler.GetWords)
		protected.GET("/words/search", wordHandler.SearchWords)
		protected.DELETE("/words/:id", staff, wordHandler.DeleteWord)
		protected.POST("/words/:id/approve", admin, wordHandler.ApproveWord)
		protected.POST("/words/:id/reject", admin, wordHandler.RejectWord)
		protected.POST("/words/:id/image", staff, wordHandler.UploadImage)
		protected.POST("/words/bulk-upload", staff, wordHandler.BulkUpload)
		protected.POST("/words/import", staff, wordHandler.ImportWords)

		protected.GET("/categories", categoryHandler.GetAllCategories)
		protected.POST("/categories", admin, categoryHandler.CreateCategory)
		protected.DELETE("/categories/:id", admin, categoryHandler.DeleteCategory)

		protected.GET("/packs", wordHandler.GetPacks)
		protected.GET("/packs/:id", wordHandler.GetPack)
		protected.POST("/packs", staff, wordHandler.CreatePack)
		protected.DELETE("/packs/:id", admin, wordHandler.DeletePack)

		// Games
		protected.POST("/games/scores", gameHandler.SubmitScore)
		protected.GET("/games/scores", gameHandler.GetScores)
		protected.POST("/games/word-match/start", gameHandler.StartWordMatch)
		protected.POST("/games/word-match/complete", gameHandler.CompleteWordMatch)
		protected.POST("/games/track-error", learningHandler.TrackError)

		protected.GET("/achievements", achievementHandler.GetAll)
		protected.GET("/achievements/user", achievementHandler.GetUserAchievements)

		// Spaced repetition
		protected.GET("/reviews/due", reviewHandler.GetDue)
		protected.POST("/reviews", reviewHandler.Review)
		protected.GET("/reviews/stats", reviewHandler.GetStats)

		protected.GET("/learning/personalized-plan", learningHandler.GetPersonalizedPlan)
		protected.POST("/pronunciation/test", learningHandler.TestPronunciation)
		protected.GET("/pronunciation/history", learningHandler.GetPronunciationHistory)

		// Competition
		protected.GET("/league/current", leagueHandler.GetCurrent)
		protected.POST("/league/update", admin, leagueHandler.Update)
		protected.GET("/leaderboard", leagueHandler.GetLeaderboard)

		protected.GET("/season/current", seasonHandler.GetCurrent)
		protected.GET("/season/standings", seasonHandler.GetStandings)
		protected.GET("/season/history", seasonHandler.GetHistory)
		protected.POST("/season/finalize", admin, seasonHandler.Finalize)

		// Generated content
		protected.POST("/ai/generate-examples", contentHandler.GenerateExamples)
		protected.POST("/ai/generate-story", contentHandler.GenerateStory)
		protected.POST("/ai/generate-questions", contentHandler.GenerateQuestions)
		protected.GET("/story/unlock", contentHandler.StoryUnlock)
		protected.POST("/story/generate", contentHandler.GenerateMilestoneStory)
		protected.GET("/story/history", contentHandler.StoryHistory)

		// Teacher dashboard
		teacher := protected.Group("/teacher")
		teacher.Use(staff)
		{
			teacher.POST("/text-to-words", contentHandler.TextToWords)
			teacher.GET("/students", reportHandler.GetStudents)
			teacher.GET("/statistics", reportHandler.GetStatistics)
			teacher.GET("/reports/students", reportHandler.GetStudentReports)
			teacher.GET("/reports/class-winners", reportHandler.GetClassWinners)
			teacher.POST("/reports/:student_id", reportHandler.GenerateReport)
		}

		// Profile routes
		protected.GET("/user/profile", profileHandler.GetCurrentProfile)
		protected.GET("/profile/:username", profileHandler.GetProfileByUsername)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
		scheduler:   scheduler,
		llm:         llm,
		log:         log,
	}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// StartJobs runs the league and season checks once, then on schedule.
func (s *Server) StartJobs(ctx context.Context) {
	s.scheduler.RunAll(ctx)
	s.scheduler.Start()
}

// Shutdown stops background work and releases clients.
func (s *Server) Shutdown() {
	s.scheduler.Stop()
	if s.llm != nil {
		s.llm.Close()
	}
}

func allowOrigin(origins []string) func(string) bool {
	return func(origin string) bool {
		return slices.Contains(origins, "*") || slices.Contains(origins, origin)
	}
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
