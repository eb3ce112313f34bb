package cmd

import (
	"context"
	"time"

	"github.com/openlearn/learnportal-be/config"
	"github.com/openlearn/learnportal-be/database"
	"github.com/openlearn/learnportal-be/repository"
	"github.com/openlearn/learnportal-be/service"
	"github.com/openlearn/learnportal-be/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// createUserCmd represents the create-user command
var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a user account",
	Long:  `Inserts a user with a bcrypt-hashed password into the user store.`,
	Run: func(cmd *cobra.Command, args []string) {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		fullName, _ := cmd.Flags().GetString("full-name")
		role, _ := cmd.Flags().GetString("role")

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load config")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		mongoClient, err := database.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongodb")
		}
		defer mongoClient.Disconnect(ctx)

		userRepo := repository.NewUserRepo(mongoClient.Database("learnportal").Collection("users"))
		userService := service.NewUserService(userRepo)

		user := &types.User{
			Username: username,
			FullName: fullName,
			Role:     role,
		}
		if err := userService.CreateUser(ctx, user, password); err != nil {
			log.Fatal().Err(err).Msg("failed to create user")
		}
		log.Info().Str("username", username).Str("role", user.Role).Msg("user created")
	},
}

func init() {
	rootCmd.AddCommand(createUserCmd)

	createUserCmd.Flags().StringP("username", "u", "", "Username")
	createUserCmd.Flags().StringP("password", "p", "", "Password")
	createUserCmd.Flags().String("full-name", "", "Full name")
	createUserCmd.Flags().String("role", types.UserRoleUser, "Role (user or admin)")
	createUserCmd.MarkFlagRequired("username")
	createUserCmd.MarkFlagRequired("password")
}
