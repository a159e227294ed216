package main

import (
	"context"
	"net/http"
	"time"

	"expertmatch/config"
	"expertmatch/database"
	adminctrl "expertmatch/internal/controller/admin"
	userctrl "expertmatch/internal/controller/user"
	"expertmatch/internal/logger"
	"expertmatch/internal/model"
	"expertmatch/internal/repository"
	"expertmatch/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Expert Matching API
// @version 1.0
// @description Expert qualification grading and company-demand matching platform.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewCategoryRepository,
			repository.NewQuestionRepository,
			repository.NewAnswerRepository,
			repository.NewExpertRepository,
			repository.NewDemandRepository,
			repository.NewMatchingRepository,
			repository.NewExpertScoreRepository,
		),

		fx.Provide(
			service.NewSimilarityProvider,
			service.NewCatalogService,
			service.NewGradingService,
			service.NewAIGradingService,
			service.NewScoreService,
			service.NewMatchingService,
		),

		fx.Provide(
			adminctrl.NewCatalogController,
			adminctrl.NewGradingController,
			adminctrl.NewMatchingController,
			userctrl.NewExpertController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages the HTTP
// server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	catalogCtrl *adminctrl.CatalogController,
	gradingCtrl *adminctrl.GradingController,
	matchingCtrl *adminctrl.MatchingController,
	expertCtrl *userctrl.ExpertController,
) {
	adminGroup := router.Group("/api/v1/admin")
	{
		adminGroup.POST("/categories", catalogCtrl.CreateCategory)
		adminGroup.GET("/categories", catalogCtrl.GetAllCategories)
		adminGroup.POST("/questions", catalogCtrl.CreateQuestion)
		adminGroup.GET("/questions", catalogCtrl.GetAllQuestions)
		adminGroup.GET("/questions/:id", catalogCtrl.GetQuestion)
		adminGroup.POST("/experts", catalogCtrl.CreateExpert)
		adminGroup.GET("/experts/:expert_id", catalogCtrl.GetExpert)
		adminGroup.PUT("/experts/:expert_id/qualification", catalogCtrl.UpdateExpertQualification)
		adminGroup.POST("/demands", catalogCtrl.CreateDemand)
		adminGroup.GET("/demands", catalogCtrl.GetAllDemands)

		adminGroup.POST("/grades/auto", gradingCtrl.AutoGrade)
		adminGroup.POST("/grades/manual", gradingCtrl.ManualGrade)
		adminGroup.POST("/grades/suggest", gradingCtrl.SuggestGrade)
		adminGroup.POST("/experts/:expert_id/grades/batch", gradingCtrl.BatchAutoGrade)
		adminGroup.POST("/experts/:expert_id/score/recalculate", gradingCtrl.RecalculateExpertScore)
		adminGroup.GET("/grading/statistics", gradingCtrl.GetGradingStatistics)

		adminGroup.GET("/demands/:demand_id/matches", matchingCtrl.FindBestMatches)
		adminGroup.GET("/compatibility/:expert_id/:demand_id", matchingCtrl.CheckCompatibility)
		adminGroup.POST("/matchings", matchingCtrl.CreateMatching)
		adminGroup.POST("/matchings/:id/complete", matchingCtrl.CompleteMatching)
		adminGroup.GET("/matchings/analytics", matchingCtrl.GetMatchingAnalytics)
		adminGroup.GET("/profile-match/:expert_id/:demand_id", matchingCtrl.ProfileMatch)
	}

	userGroup := router.Group("/api/v1")
	{
		userGroup.POST("/answers", expertCtrl.SubmitAnswer)
		userGroup.POST("/experts/:expert_id/answers/finalize", expertCtrl.FinalizeAnswers)
		userGroup.GET("/experts/:expert_id/answers", expertCtrl.GetAnswers)
		userGroup.GET("/experts/:expert_id/answers/summary", expertCtrl.GetAnswersSummary)
		userGroup.GET("/experts/:expert_id/score", expertCtrl.GetScore)
		userGroup.GET("/experts/:expert_id/progress", expertCtrl.GetGradingProgress)
		userGroup.POST("/matchings/:id/respond", expertCtrl.RespondToMatching)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Expert matching API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.QuestionCategory{},
		&model.Question{},
		&model.Answer{},
		&model.Expert{},
		&model.Demand{},
		&model.Matching{},
		&model.ExpertScore{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed")
	return nil
}
