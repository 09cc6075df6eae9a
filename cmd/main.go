package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pathwise-app/backend/config"
	"github.com/pathwise-app/backend/database"
	_ "github.com/pathwise-app/backend/docs" // Swagger docs - auto-generated
	"github.com/pathwise-app/backend/internal/controller"
	"github.com/pathwise-app/backend/internal/llm"
	"github.com/pathwise-app/backend/internal/logger"
	"github.com/pathwise-app/backend/internal/model"
	"github.com/pathwise-app/backend/internal/render"
	"github.com/pathwise-app/backend/internal/repository"
	"github.com/pathwise-app/backend/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// LLMClients groups the two logical generation clients. They share transport,
// retry and timeout policy but target different models: a fast one for
// assessment/judging and a stronger one for long-form plan synthesis.
type LLMClients struct {
	Assessment llm.Client
	Plan       llm.Client
}

// @title Pathwise Placement API
// @version 1.0
// @description Adaptive placement assessment and personalized study-plan synthesis.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			NewLLMClients,
			func() render.Renderer { return render.NewHTMLRenderer() },
		),

		// Repositories layer
		fx.Provide(
			repository.NewTestRepository,
			repository.NewQuestionRepository,
			repository.NewAttemptRepository,
			repository.NewAnswerRepository,
			repository.NewUsageRepository,
		),

		// Services layer
		fx.Provide(
			func(clients *LLMClients, testRepo repository.TestRepository, usageRepo repository.UsageRepository) service.TestGeneratorService {
				return service.NewTestGeneratorService(clients.Assessment, testRepo, usageRepo)
			},
			func(clients *LLMClients, questionRepo repository.QuestionRepository, usageRepo repository.UsageRepository) service.EvaluatorService {
				return service.NewEvaluatorService(clients.Assessment, questionRepo, usageRepo)
			},
			func(clients *LLMClients, renderer render.Renderer, usageRepo repository.UsageRepository) service.PlanService {
				return service.NewPlanService(clients.Plan, renderer, usageRepo)
			},
			service.NewAttemptService,
		),

		// API controllers layer
		fx.Provide(
			controller.NewPlacementController,
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

// NewLLMClients builds both generation clients behind shared retry and
// per-call timeout decorators.
func NewLLMClients(cfg *config.Config) (*LLMClients, error) {
	retryCfg := llm.DefaultRetryConfig(cfg.LLM.MaxRetries)

	wrap := func(c llm.Client) llm.Client {
		return llm.WithTimeout(llm.WithRetry(c, retryCfg), cfg.LLM.RequestTimeout)
	}

	assessment, err := llm.NewOpenAIClient(llm.OpenAIConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.AssessmentModel,
	})
	if err != nil {
		return nil, err
	}

	plan, err := llm.NewOpenAIClient(llm.OpenAIConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.PlanModel,
	})
	if err != nil {
		return nil, err
	}

	planClient := wrap(plan)
	if cfg.LLM.PlanWebSearch {
		planClient = llm.WithWebSearch(planClient)
	}

	return &LLMClients{
		Assessment: wrap(assessment),
		Plan:       planClient,
	}, nil
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Bridge gin's access log through zerolog.
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
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	placementCtrl *controller.PlacementController,
) {
	api := router.Group("/api/v1")
	{
		placement := api.Group("/placement")
		placement.POST("/tests", placementCtrl.GenerateTest)
		placement.POST("/attempts", placementCtrl.StartAttempt)
		placement.POST("/attempts/:attempt_id/answers", placementCtrl.SubmitAnswer)
		placement.GET("/attempts/:attempt_id", placementCtrl.GetAttempt)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Pathwise placement API starting on port %s", cfg.Server.Port)
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

// AutoMigrateDB creates/updates the schema. The unique index on
// (attempt_id, question_id) in answer_records must exist before any answer
// traffic; AutoMigrate creates it from the model tags.
func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Test{},
		&model.Question{},
		&model.Attempt{},
		&model.AnswerRecord{},
		&model.UsageRecord{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
