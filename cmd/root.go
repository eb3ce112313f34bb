package cmd

import (
	"os"

	"github.com/openlearn/learnportal-be/config"
	"github.com/openlearn/learnportal-be/service"
	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "learnportal-be",
	Short: "Learning portal question-answering and grading backend",
	Long: `learnportal-be serves a retrieval-augmented question-answering and
answer-grading API backed by a per-module Qdrant document index.

Documents are ingested offline with the load-documents command; the start
command runs the HTTP API.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config/config.yaml", "config file")
}

// newAIProvider picks the generation+embedding backend from config.
func newAIProvider(cfg *config.Config) (service.AIProvider, error) {
	switch cfg.AIProvider {
	case "gemini":
		return service.NewGeminiService(cfg.GeminiAPIKeys, cfg.Model, cfg.EmbeddingModel)
	default:
		return service.NewOpenAIService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.Model, cfg.EmbeddingModel), nil
	}
}
