package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// AIConfig holds settings for the language-model integration.
type AIConfig struct {
	// APIKey authenticates against the model API. Required: startup fails
	// without it. Usually sourced from MAILASSISTANT_AI_API_KEY or the
	// system keyring rather than the config file.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	Model     string `mapstructure:"model" yaml:"model"`
	MaxTokens int    `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// MailboxConfig holds the IMAP settings for the live mail source.
// Incomplete credentials disable the live source but are not fatal.
type MailboxConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     string `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	TLS      bool   `mapstructure:"tls" yaml:"tls"`
}

// Configured reports whether the mailbox has enough settings to connect.
func (c MailboxConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

// SMTPConfig holds the outbound mail settings. Incomplete credentials
// disable sending; approved responses fall back to local draft files.
type SMTPConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     string `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	TLS      bool   `mapstructure:"tls" yaml:"tls"`
}

// Configured reports whether the SMTP sink has enough settings to send.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	AI        AIConfig      `mapstructure:"ai" yaml:"ai"`
	Mailbox   MailboxConfig `mapstructure:"mailbox" yaml:"mailbox"`
	SMTP      SMTPConfig    `mapstructure:"smtp" yaml:"smtp"`
	DraftsDir string        `mapstructure:"drafts_dir" yaml:"drafts_dir"`
	InputFile string        `mapstructure:"input_file" yaml:"input_file"`
	DBPath    string        `mapstructure:"db_path" yaml:"db_path"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/mailassistant/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "mailassistant", "config.yaml")
}

// defaultDataPath returns a path inside the user config directory, falling
// back to the working directory when the home directory is unknown.
func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", name)
	}
	return filepath.Join(home, ".config", "mailassistant", name)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Every key can be overridden through the environment with the
// MAILASSISTANT_ prefix (e.g. MAILASSISTANT_AI_API_KEY,
// MAILASSISTANT_MAILBOX_PASSWORD). A missing config file is not an error;
// defaults and environment values still apply.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "claude-sonnet-4-20250514")
	v.SetDefault("ai.max_tokens", 1024)
	v.SetDefault("mailbox.host", "")
	v.SetDefault("mailbox.port", "993")
	v.SetDefault("mailbox.username", "")
	v.SetDefault("mailbox.password", "")
	v.SetDefault("mailbox.tls", true)
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", "587")
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.tls", false)
	v.SetDefault("drafts_dir", "drafts")
	v.SetDefault("input_file", "sample_emails.json")
	v.SetDefault("db_path", defaultDataPath("history.db"))

	v.SetEnvPrefix("MAILASSISTANT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
