package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string       `mapstructure:"port"`
	AIProvider       string       `mapstructure:"ai_provider"` // "openai" or "gemini"
	AIEndpoint       string       `mapstructure:"ai_endpoint"`
	Model            string       `mapstructure:"model"`
	EmbeddingModel   string       `mapstructure:"embedding_model"`
	OpenAIAPIKey     string       `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKeys    []string     `mapstructure:"gemini_api_keys"`
	MongoURI         string       `mapstructure:"MONGO_URI"`
	CollectionPrefix string       `mapstructure:"collection_prefix"`
	DefaultModule    string       `mapstructure:"default_module"`
	TopK             int          `mapstructure:"top_k"`
	QuestionBankPath string       `mapstructure:"question_bank_path"`
	Qdrant           QdrantConfig `mapstructure:"qdrant"`
	Loader           LoaderConfig `mapstructure:"loader"`
}

type QdrantConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	APIKey     string `mapstructure:"QDRANT_API_KEY"`
	UseTLS     bool   `mapstructure:"use_tls"`
	VectorSize uint64 `mapstructure:"vector_size"`
}

type LoaderConfig struct {
	ChunkSize      int    `mapstructure:"chunk_size"`
	ChunkOverlap   int    `mapstructure:"chunk_overlap"`
	MinTextLength  int    `mapstructure:"min_text_length"`
	BatchSize      int    `mapstructure:"batch_size"`
	MaxRetries     int    `mapstructure:"max_retries"`
	RetryDelaySecs int    `mapstructure:"retry_delay_secs"`
	PdftoppmPath   string `mapstructure:"pdftoppm_path"`
	TesseractPath  string `mapstructure:"tesseract_path"`
}

func (c LoaderConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySecs) * time.Second
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("port", "8000")
	v.SetDefault("ai_provider", "openai")
	v.SetDefault("model", "gpt-4")
	v.SetDefault("embedding_model", "text-embedding-ada-002")
	v.SetDefault("collection_prefix", "learnportal")
	v.SetDefault("default_module", "module1")
	v.SetDefault("top_k", 10)
	v.SetDefault("question_bank_path", "config/questions.yaml")
	v.SetDefault("qdrant.host", "localhost")
	v.SetDefault("qdrant.port", 6334)
	v.SetDefault("qdrant.vector_size", 1536)
	v.SetDefault("loader.chunk_size", 500)
	v.SetDefault("loader.chunk_overlap", 50)
	v.SetDefault("loader.min_text_length", 64)
	v.SetDefault("loader.batch_size", 100)
	v.SetDefault("loader.max_retries", 3)
	v.SetDefault("loader.retry_delay_secs", 5)
	v.SetDefault("loader.pdftoppm_path", "pdftoppm")
	v.SetDefault("loader.tesseract_path", "tesseract")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("MONGO_URI")
	v.BindEnv("qdrant.QDRANT_API_KEY", "QDRANT_API_KEY")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
