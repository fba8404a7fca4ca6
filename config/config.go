// Package config loads application configuration and initializes the
// global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Blob       BlobConfig       `yaml:"blob" mapstructure:"blob"`
	Embeddings EmbeddingsConfig `yaml:"embeddings" mapstructure:"embeddings"`
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Ingest     IngestConfig     `yaml:"ingest" mapstructure:"ingest"`
	Retrieval  RetrievalConfig  `yaml:"retrieval" mapstructure:"retrieval"`
	Graph      GraphConfig      `yaml:"graph" mapstructure:"graph"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// BlobConfig configures encrypted-at-rest document storage. Key is the
// hex-encoded 32-byte encryption key; without one, only seed-corpus
// sources can be acquired.
type BlobConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
	Key string `yaml:"key" mapstructure:"key"`
}

// EmbeddingsConfig selects and sizes the embedding provider.
type EmbeddingsConfig struct {
	Provider     string `yaml:"provider" mapstructure:"provider"`
	Model        string `yaml:"model" mapstructure:"model"`
	Dimension    int    `yaml:"dimension" mapstructure:"dimension"`
	OpenAIAPIKey string `yaml:"openai_api_key" mapstructure:"openai_api_key"`
}

// LLMConfig selects the external generator provider.
type LLMConfig struct {
	Provider        string `yaml:"provider" mapstructure:"provider"`
	Model           string `yaml:"model" mapstructure:"model"`
	OpenAIAPIKey    string `yaml:"openai_api_key" mapstructure:"openai_api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key" mapstructure:"anthropic_api_key"`
	OllamaHost      string `yaml:"ollama_host" mapstructure:"ollama_host"`
	TimeoutSecs     int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// IngestConfig configures chunking and acquisition behavior.
type IngestConfig struct {
	ChunkSize        int    `yaml:"chunk_size" mapstructure:"chunk_size"`
	ChunkOverlap     int    `yaml:"chunk_overlap" mapstructure:"chunk_overlap"`
	FetchTimeoutSecs int    `yaml:"fetch_timeout_secs" mapstructure:"fetch_timeout_secs"`
	FetchRetries     int    `yaml:"fetch_retries" mapstructure:"fetch_retries"`
	Concurrency      int    `yaml:"concurrency" mapstructure:"concurrency"`
	UserAgent        string `yaml:"user_agent" mapstructure:"user_agent"`
}

// RetrievalConfig configures evidence retrieval.
type RetrievalConfig struct {
	TopK int `yaml:"top_k" mapstructure:"top_k"`
}

// GraphConfig configures the optional neo4j provenance mirror.
type GraphConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	URI      string `yaml:"uri" mapstructure:"uri"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml (optional) and CARBONPEER_*
// environment variables, applying defaults for every knob.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CARBONPEER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.database_url", "postgres://localhost:5432/carbonpeer?sslmode=disable")
	v.SetDefault("store.sqlite_path", "carbonpeer.db")
	v.SetDefault("blob.dir", "blobs")
	v.SetDefault("embeddings.provider", "hash")
	v.SetDefault("embeddings.model", "text-embedding-3-small")
	v.SetDefault("embeddings.dimension", 128)
	v.SetDefault("llm.provider", "disabled")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.ollama_host", "http://localhost:11434")
	v.SetDefault("llm.timeout_secs", 45)
	v.SetDefault("ingest.chunk_size", 1000)
	v.SetDefault("ingest.chunk_overlap", 100)
	v.SetDefault("ingest.fetch_timeout_secs", 20)
	v.SetDefault("ingest.fetch_retries", 2)
	v.SetDefault("ingest.concurrency", 4)
	v.SetDefault("ingest.user_agent", "carbonpeer/1.0")
	v.SetDefault("retrieval.top_k", 6)
	v.SetDefault("graph.enabled", false)
	v.SetDefault("graph.uri", "neo4j://localhost:7687")
	v.SetDefault("graph.username", "neo4j")
	v.SetDefault("graph.password", "password")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
