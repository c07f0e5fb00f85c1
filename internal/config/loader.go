package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading with Viper.
type Loader struct {
	v          *viper.Viper
	configFile string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v: viper.New(),
	}
}

// SetConfigFile sets an explicit config file path.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
}

// Load loads configuration with proper precedence:
// defaults < config file < env vars < CLI flags
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	l.setupViper(cfg)

	if err := l.loadConfigFile(); err != nil {
		// Config file is optional, only error if explicitly specified
		if l.configFile != "" {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	expandPaths(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// expandTilde expands ~ to the user's home directory.
func expandTilde(path string) string {
	if path == "" {
		return path
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// expandPaths expands ~ in all path-related config fields.
func expandPaths(cfg *Config) {
	cfg.Database.Path = expandTilde(cfg.Database.Path)
	cfg.Attachments.Directory = expandTilde(cfg.Attachments.Directory)
}

// setupViper configures Viper with defaults and environment bindings.
func (l *Loader) setupViper(cfg *Config) {
	v := l.v

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		v.AddConfigPath(filepath.Join(xdgConfig, "chatlog"))
	}

	homeDir, _ := os.UserHomeDir()
	if homeDir != "" {
		v.AddConfigPath(filepath.Join(homeDir, ".config", "chatlog"))
	}

	v.AddConfigPath(".")

	v.SetEnvPrefix("CHATLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	l.setDefaults(cfg)

	// Explicitly bind environment variables (Viper's Unmarshal has
	// issues with nested structs without this)
	bindEnvVars(v)

	v.AutomaticEnv()
}

// setDefaults sets all default values in Viper.
func (l *Loader) setDefaults(cfg *Config) {
	v := l.v

	v.SetDefault("database.path", cfg.Database.Path)

	v.SetDefault("attachments.copy", cfg.Attachments.Copy)
	v.SetDefault("attachments.directory", cfg.Attachments.Directory)
	v.SetDefault("attachments.force", cfg.Attachments.Force)
	v.SetDefault("attachments.skip", cfg.Attachments.Skip)

	v.SetDefault("display.output_type", cfg.Display.OutputType)
	v.SetDefault("display.inline", cfg.Display.Inline)
	v.SetDefault("display.popup_location", cfg.Display.PopupLocation)
	v.SetDefault("display.use_text_color", cfg.Display.UseTextColor)
	v.SetDefault("display.text_colors", cfg.Display.TextColors)
	v.SetDefault("display.html_background_colors", cfg.Display.HTMLBackgroundColors)
	v.SetDefault("display.html_name_colors", cfg.Display.HTMLNameColors)
	v.SetDefault("display.thread_background", cfg.Display.ThreadBackground)
	v.SetDefault("display.split", cfg.Display.Split)
	v.SetDefault("display.additional_details", cfg.Display.AdditionalDetails)
	v.SetDefault("display.me", cfg.Display.Me)

	v.SetDefault("query.start", cfg.Query.Start)
	v.SetDefault("query.end", cfg.Query.End)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}

// loadConfigFile attempts to load the configuration file.
func (l *Loader) loadConfigFile() error {
	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	}

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}

// ConfigFileUsed returns the config file that was loaded.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Set sets a Viper value by key. Used by CLI flag overrides.
func (l *Loader) Set(key string, value interface{}) {
	l.v.Set(key, value)
}

// LoadFromFile loads configuration from a specific file.
func LoadFromFile(path string) (*Config, error) {
	loader := NewLoader()
	loader.SetConfigFile(path)
	return loader.Load()
}

// LoadDefault loads configuration with default search paths.
func LoadDefault() (*Config, error) {
	loader := NewLoader()
	return loader.Load()
}

// bindEnvVars binds environment variables for config keys.
// Viper's Unmarshal has issues with env vars on nested structs unless
// explicitly bound. This ensures CHATLOG_* env vars work correctly.
func bindEnvVars(v *viper.Viper) {
	envBindings := []string{
		"database.path",
		"attachments.copy",
		"attachments.directory",
		"attachments.force",
		"attachments.skip",
		"display.output_type",
		"display.inline",
		"display.popup_location",
		"display.use_text_color",
		"display.thread_background",
		"display.split",
		"display.additional_details",
		"display.me",
		"query.start",
		"query.end",
		"logging.level",
		"logging.format",
	}

	for _, key := range envBindings {
		envVar := "CHATLOG_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, envVar)
	}
}
