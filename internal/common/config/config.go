// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig      `mapstructure:"app"`
	Database  DatabaseConfig `mapstructure:"database"`
	Queue     QueueConfig    `mapstructure:"queue"`
	LLM       LLMConfig      `mapstructure:"llm"`
	Profiles  ProfilesConfig `mapstructure:"profiles"`
	Pipeline  PipelineConfig `mapstructure:"pipeline"`
	Feedback  FeedbackConfig `mapstructure:"feedback"`
	Logging   LoggingConfig  `mapstructure:"logging"`
	Uploads   UploadsConfig  `mapstructure:"uploads"`
}

type AppConfig struct {
	Name           string `mapstructure:"name"`
	Version        string `mapstructure:"version"`
	Environment    string `mapstructure:"environment"`
	MetricsAddress string `mapstructure:"metrics_address"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

type QueueConfig struct {
	URL       string `mapstructure:"url"`
	QueueName string `mapstructure:"queue_name"`
}

// LLMConfig configures the Ollama-compatible JSON extraction endpoint.
type LLMConfig struct {
	BaseURL        string  `mapstructure:"base_url"`
	Model          string  `mapstructure:"model"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	Temperature    float64 `mapstructure:"temperature"`
}

// ProfilesConfig holds timeouts for the external profile analyzers. Each
// network call gets its own deadline so one stalled fetch cannot hold the
// whole run.
type ProfilesConfig struct {
	GitHubBaseURL          string `mapstructure:"github_base_url"`
	LeetCodeURL            string `mapstructure:"leetcode_url"`
	UserTimeoutSeconds     int    `mapstructure:"user_timeout_seconds"`
	RepoTimeoutSeconds     int    `mapstructure:"repo_timeout_seconds"`
	LanguageTimeoutSeconds int    `mapstructure:"language_timeout_seconds"`
	CacheTTLSeconds        int    `mapstructure:"cache_ttl_seconds"`
}

type PipelineConfig struct {
	RunTimeoutSeconds  int `mapstructure:"run_timeout_seconds"`
	LockTTLSeconds     int `mapstructure:"lock_ttl_seconds"`
	MaxConcurrentRuns  int `mapstructure:"max_concurrent_runs"`
}

type FeedbackConfig struct {
	EmailEnabled bool   `mapstructure:"email_enabled"`
	FromEmail    string `mapstructure:"from_email"`
	AWSRegion    string `mapstructure:"aws_region"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type UploadsConfig struct {
	ResumeDir      string `mapstructure:"resume_dir"`
	LinkedInPDFDir string `mapstructure:"linkedin_pdf_dir"`
}
