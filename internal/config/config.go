// Package config loads the orchestration core's environment-driven
// configuration: the §6 feature flags, PDF/chunking knobs, and per-agent
// model/temperature defaults.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the single typed source of truth for every environment
// variable the orchestration core reads. envconfig binds it from the
// process environment; godotenv optionally loads a local .env first.
type Config struct {
	EnableToolAgent bool `envconfig:"ENABLE_TOOL_AGENT" default:"false"`
	EnableReranker  bool `envconfig:"ENABLE_RERANKER"   default:"false"`

	MaxPages      int `envconfig:"MAX_PAGES"      default:"20"`
	ChunkSize     int `envconfig:"CHUNK_SIZE"     default:"1000"`
	ChunkOverlap  int `envconfig:"CHUNK_OVERLAP"  default:"200"`
	MaxMemoryLoad int `envconfig:"MAX_MEMORY_TO_LOAD" default:"5"`

	SaveMemory bool `envconfig:"SAVE_MEMORY" default:"true"`
	Debug      bool `envconfig:"DEBUG"       default:"false"`

	MemoryDir     string `envconfig:"MEMORY_DIR"      default:"memories"`
	ToolConfigPath string `envconfig:"TOOL_CONFIG_PATH" default:"tool_config.json"`
	CredentialsPath string `envconfig:"TOOL_CREDENTIALS_PATH" default:".tool_credentials.json"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
	LLMModel     string `envconfig:"LLM_MODEL"       default:"gpt-4o-mini"`
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`

	SerpAPIKey string `envconfig:"SERPAPI_API_KEY"`

	TursoDatabaseURL string `envconfig:"TURSO_DATABASE_URL"`
	TursoAuthToken   string `envconfig:"TURSO_AUTH_TOKEN"`

	RetrieverTemperature  float32 `envconfig:"RETRIEVER_TEMPERATURE"  default:"0.0"`
	SynthesizerTemperature float32 `envconfig:"SYNTHESIZER_TEMPERATURE" default:"0.2"`
	RerankerTemperature   float32 `envconfig:"RERANKER_TEMPERATURE"   default:"0.4"`

	ClassifierThreshold float64 `envconfig:"CLASSIFIER_THRESHOLD" default:"0.70"`

	WorkflowTimeoutSec  int `envconfig:"WORKFLOW_TIMEOUT_SEC"  default:"30"`
	RetrieverTimeoutSec int `envconfig:"RETRIEVER_TIMEOUT_SEC" default:"45"`
	ToolCallTimeoutSec  int `envconfig:"TOOL_CALL_TIMEOUT_SEC" default:"10"`
	ToolAgentBudgetSec  int `envconfig:"TOOL_AGENT_BUDGET_SEC" default:"15"`

	RerankerCandidates int `envconfig:"RERANKER_CANDIDATES" default:"3"`

	Interactive bool `envconfig:"INTERACTIVE" default:"true"`
}

// Load loads a local .env (if present) and binds environment variables
// onto a Config. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

// HasOpenAI reports whether an OpenAI API key is configured.
func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

// HasTrace reports whether the optional trace-event sink is configured.
func (c *Config) HasTrace() bool {
	return c.TursoDatabaseURL != "" && c.TursoAuthToken != ""
}
