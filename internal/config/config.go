package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderMock   = "mock"
)

const (
	defaultAddr           = ":8000"
	defaultMaxUploadBytes = 20 << 20 // 20MB
	defaultChunkSize      = 300
	defaultChunkOverlap   = 50
	defaultTopK           = 5
	defaultRequestTimeout = 60 * time.Second
	defaultEmbeddingModel = "text-embedding-3-small"
	defaultInferenceModel = "gpt-3.5-turbo"
	defaultLogLevel       = "info"
)

type Config struct {
	Server       ServerConfig `yaml:"server"`
	EmbedLLM     LLMConfig    `yaml:"embed_llm"`
	InferenceLLM LLMConfig    `yaml:"inference_llm"`
	RAG          RAGConfig    `yaml:"rag"`
	Log          LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Addr           string `yaml:"addr"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	// TempDir is where uploads are staged; empty means os.TempDir().
	TempDir string `yaml:"temp_dir"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url"`
	Key      string `yaml:"key"`
	Model    string `yaml:"model"`
}

type RAGConfig struct {
	ChunkSize      int           `yaml:"chunk_size"`
	ChunkOverlap   int           `yaml:"chunk_overlap"`
	TopK           int           `yaml:"top_k"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type LogConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

// LoadConfig reads the yaml file at path (a missing file is allowed), fills
// defaults and applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration built only from defaults.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = defaultMaxUploadBytes
	}
	if c.EmbedLLM.Provider == "" {
		c.EmbedLLM.Provider = ProviderOpenAI
	}
	if c.EmbedLLM.Model == "" && c.EmbedLLM.Provider == ProviderOpenAI {
		c.EmbedLLM.Model = defaultEmbeddingModel
	}
	if c.InferenceLLM.Provider == "" {
		c.InferenceLLM.Provider = ProviderOpenAI
	}
	if c.InferenceLLM.Model == "" && c.InferenceLLM.Provider == ProviderOpenAI {
		c.InferenceLLM.Model = defaultInferenceModel
	}
	if c.RAG.ChunkSize == 0 {
		c.RAG.ChunkSize = defaultChunkSize
	}
	if c.RAG.ChunkOverlap == 0 {
		c.RAG.ChunkOverlap = defaultChunkOverlap
	}
	if c.RAG.TopK == 0 {
		c.RAG.TopK = defaultTopK
	}
	if c.RAG.RequestTimeout == 0 {
		c.RAG.RequestTimeout = defaultRequestTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
}

func (c *Config) applyEnv() {
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		if c.EmbedLLM.Key == "" {
			c.EmbedLLM.Key = key
		}
		if c.InferenceLLM.Key == "" {
			c.InferenceLLM.Key = key
		}
	}
	if v := strings.TrimSpace(os.Getenv("DOCQA_ADDR")); v != "" {
		c.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("DOCQA_LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("DOCQA_TEMP_DIR")); v != "" {
		c.Server.TempDir = v
	}
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.RAG.ChunkSize <= 0 {
		return fmt.Errorf("rag.chunk_size must be positive, got %d", c.RAG.ChunkSize)
	}
	if c.RAG.ChunkOverlap < 0 || c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return fmt.Errorf("rag.chunk_overlap must be in [0, chunk_size), got %d", c.RAG.ChunkOverlap)
	}
	if c.RAG.TopK <= 0 {
		return fmt.Errorf("rag.top_k must be positive, got %d", c.RAG.TopK)
	}
	if c.RAG.RequestTimeout < 0 {
		return fmt.Errorf("rag.request_timeout must not be negative")
	}
	if c.Server.MaxUploadBytes < 0 {
		return fmt.Errorf("server.max_upload_bytes must not be negative")
	}
	for name, llm := range map[string]LLMConfig{"embed_llm": c.EmbedLLM, "inference_llm": c.InferenceLLM} {
		switch llm.Provider {
		case ProviderOpenAI, ProviderOllama, ProviderMock:
		default:
			return fmt.Errorf("%s.provider %q is not supported", name, llm.Provider)
		}
	}
	return nil
}
