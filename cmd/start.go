package cmd

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/openlearn/learnportal-be/config"
	"github.com/openlearn/learnportal-be/database"
	"github.com/openlearn/learnportal-be/handler"
	"github.com/openlearn/learnportal-be/middleware"
	"github.com/openlearn/learnportal-be/repository"
	"github.com/openlearn/learnportal-be/service"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the API server",
	Long:  `Starts the question-answering and answer-grading HTTP API.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load config")
		}

		bank, err := config.LoadQuestionBank(cfg.QuestionBankPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load question bank")
		}
		log.Info().Strs("modules", bank.Modules()).Msg("question bank loaded")

		vectorStore, err := database.NewQdrantStore(cfg.Qdrant)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to qdrant")
		}

		aiProvider, err := newAIProvider(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize AI provider")
		}
		ragService := service.NewRAGService(aiProvider, aiProvider, vectorStore, cfg.CollectionPrefix, cfg.TopK)
		wsService := service.NewWebSocketService(ragService, cfg.DefaultModule)

		mongoClient, err := database.NewMongoClient(context.Background(), cfg.MongoURI)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongodb")
		}
		userRepo := repository.NewUserRepo(mongoClient.Database("learnportal").Collection("users"))
		userService := service.NewUserService(userRepo)

		corsHandler := handler.NewCorsHandler()
		healthHandler := handler.NewHealthHandler()
		loginHandler := handler.NewLoginHandler(userService)
		ragHandler := handler.NewRAGHandler(ragService, cfg.DefaultModule)
		questionHandler := handler.NewQuestionHandler(bank)

		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		router.GET("/", healthHandler.HandleHealth)
		router.POST("/login", loginHandler.HandleLogin)

		authed := router.Group("/")
		authed.Use(middleware.AuthMiddleware)
		{
			authed.POST("/ask_bot", ragHandler.HandleAskBot)
			authed.POST("/analyze_answer", ragHandler.HandleAnalyzeAnswer)
			authed.GET("/questions", questionHandler.HandleListQuestions)
			authed.GET("/ws/chat", func(c *gin.Context) {
				wsService.HandleChat(c.Writer, c.Request)
			})
		}

		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
