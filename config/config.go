// Package config loads ontochat configuration from TOML files and
// environment variables via Viper.
package config

// Config represents the ontochat configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Ontology OntologyConfig `mapstructure:"ontology"`
	Server   ServerConfig   `mapstructure:"server"`
	Answer   AnswerConfig   `mapstructure:"answer"`
}

// DatabaseConfig configures the SQLite triple store
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// OntologyConfig configures the ontology source file
type OntologyConfig struct {
	// Path to the YAML concept dump ingested by `ontochat load`
	Path string `mapstructure:"path"`
}

// ServerConfig configures the chat web server
type ServerConfig struct {
	Port              int      `mapstructure:"port"`
	AllowedOrigins    []string `mapstructure:"allowed_origins"`
	MessagesPerMinute int      `mapstructure:"messages_per_minute"` // per-connection rate limit
}

// AnswerConfig configures answer composition
type AnswerConfig struct {
	// MaxConcepts caps how many extracted concepts are answered per question
	MaxConcepts int `mapstructure:"max_concepts"`
}

// Default server port (above the privileged range, easy to remember)
const DefaultServerPort = 8711
