package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"

	"github.com/karwash91/my-chatbot/internal/filestore"
	"github.com/karwash91/my-chatbot/internal/queue"
	"github.com/karwash91/my-chatbot/internal/store"
)

type AIConfig struct {
	Provider        string      `json:"provider"`
	Data            interface{} `json:"data"`
	EmbedModel      string      `json:"embed_model"`
	GenerateModel   string      `json:"generate_model"`
	MaxAnswerTokens int         `json:"max_answer_tokens"`
	EmbedCacheSize  int         `json:"embed_cache_size"`
	EmbedCacheTTL   int         `json:"embed_cache_ttl_minutes"`
}

type RetrievalConfig struct {
	TopK          int     `json:"top_k"`
	MinSimilarity float32 `json:"min_similarity"`
	ChunkSize     int     `json:"chunk_size"`
}

type GuardrailConfig struct {
	Enabled bool   `json:"enabled"`
	ID      string `json:"id"`
	Version string `json:"version"`
}

type WorkerConfig struct {
	BatchSize   int32 `json:"batch_size"`
	WaitSeconds int   `json:"wait_seconds"`
}

type Config struct {
	Port        int              `json:"port"`
	CORSOrigins []string         `json:"cors_origins"`
	LogConfig   logger.LogConfig `json:"log_config"`
	FileStore   filestore.Config `json:"file_store"`
	Store       store.Config     `json:"store"`
	Queue       queue.Config     `json:"queue"`
	AI          AIConfig         `json:"ai"`
	Retrieval   RetrievalConfig  `json:"retrieval"`
	Guardrail   GuardrailConfig  `json:"guardrail"`
	Worker      WorkerConfig     `json:"worker"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.FileStore.Type == "" {
		return nil, fmt.Errorf("file_store.type is required")
	}
	if cfg.Store.Type == "" {
		return nil, fmt.Errorf("store.type is required")
	}
	if cfg.Queue.Type == "" {
		return nil, fmt.Errorf("queue.type is required")
	}
	if cfg.AI.Provider == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	if cfg.AI.EmbedModel == "" {
		cfg.AI.EmbedModel = "amazon.titan-embed-text-v2:0"
	}
	if cfg.AI.GenerateModel == "" {
		return nil, fmt.Errorf("ai.generate_model is required")
	}
	if cfg.AI.MaxAnswerTokens == 0 {
		cfg.AI.MaxAnswerTokens = 300
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
	if cfg.Retrieval.ChunkSize == 0 {
		cfg.Retrieval.ChunkSize = 500
	}
	if cfg.Guardrail.Enabled {
		if cfg.Guardrail.ID == "" {
			return nil, fmt.Errorf("guardrail.id is required when guardrail is enabled")
		}
		if cfg.Guardrail.Version == "" {
			cfg.Guardrail.Version = "1"
		}
	}
	if cfg.Worker.BatchSize == 0 {
		cfg.Worker.BatchSize = 10
	}
	if cfg.Worker.WaitSeconds == 0 {
		cfg.Worker.WaitSeconds = 20
	}
	return &cfg, nil
}
