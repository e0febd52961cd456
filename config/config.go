package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port       string          `mapstructure:"port"`
	UploadDir  string          `mapstructure:"upload_dir"`
	AIProvider string          `mapstructure:"ai_provider"` // "gemini" or "openai"
	Gemini     GeminiConfig    `mapstructure:"gemini"`
	OpenAI     OpenAIConfig    `mapstructure:"openai"`
	Retrieval  RetrievalConfig `mapstructure:"retrieval"`
}

type GeminiConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
}

type OpenAIConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
}

type RetrievalConfig struct {
	TopK            int           `mapstructure:"top_k"`
	MaxChunkSize    int           `mapstructure:"max_chunk_size"`
	OverlapSize     int           `mapstructure:"overlap_size"`
	UpstreamTimeout time.Duration `mapstructure:"upstream_timeout"`
	BuildTimeout    time.Duration `mapstructure:"build_timeout"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set up Viper to read from config file
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()

	v.SetDefault("port", "8000")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("ai_provider", "gemini")
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("gemini.embedding_model", "text-embedding-004")
	v.SetDefault("openai.base_url", "http://localhost:1234/v1")
	v.SetDefault("openai.embedding_model", "text-embedding-3-small")
	v.SetDefault("retrieval.top_k", 7)
	v.SetDefault("retrieval.max_chunk_size", 1000)
	v.SetDefault("retrieval.overlap_size", 100)
	v.SetDefault("retrieval.upstream_timeout", 30*time.Second)
	v.SetDefault("retrieval.build_timeout", 2*time.Minute)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Bind environment variables
	v.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	v.BindEnv("openai.api_key", "OPENAI_API_KEY")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
