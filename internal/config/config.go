// Package config handles chatlog configuration loading and validation.
package config

import (
	"fmt"
	"time"
)

// TimeLayout is the format for query window boundaries.
const TimeLayout = "2006-01-02 15:04:05"

// Config is the root configuration structure for chatlog.
type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`

	// Attachment handling settings
	Attachments AttachmentsConfig `yaml:"attachments" mapstructure:"attachments"`

	// Output display settings
	Display DisplayConfig `yaml:"display" mapstructure:"display"`

	// Default query window
	Query QueryConfig `yaml:"query" mapstructure:"query"`

	// Contacts maps a contact name to the handle identifiers (phone
	// numbers, emails) that belong to them.
	Contacts map[string][]string `yaml:"contacts" mapstructure:"contacts"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// DatabaseConfig contains message store settings.
type DatabaseConfig struct {
	// Path is the chat.db file path. Opened read-only.
	Path string `yaml:"path" mapstructure:"path"`
}

// AttachmentsConfig contains attachment handling settings.
type AttachmentsConfig struct {
	// Copy enables copying (and converting) attachments into Directory.
	Copy bool `yaml:"copy" mapstructure:"copy"`

	// Directory is where copied and converted attachments go.
	Directory string `yaml:"directory" mapstructure:"directory"`

	// Force redoes copies and conversions even when the destination
	// already exists.
	Force bool `yaml:"force" mapstructure:"force"`

	// Skip leaves attachments out of the output entirely.
	Skip bool `yaml:"skip" mapstructure:"skip"`
}

// DisplayConfig contains output settings.
type DisplayConfig struct {
	// OutputType selects the renderer (text, html).
	OutputType string `yaml:"output_type" mapstructure:"output_type"`

	// Inline embeds pictures and videos in HTML output instead of
	// hover popups.
	Inline bool `yaml:"inline" mapstructure:"inline"`

	// PopupLocation is the media popup placement: a fixed corner
	// (upper right, upper left) or floating next to each attachment.
	PopupLocation string `yaml:"popup_location" mapstructure:"popup_location"`

	// UseTextColor enables ANSI colors in text output.
	UseTextColor bool `yaml:"use_text_color" mapstructure:"use_text_color"`

	// TextColors is the cyclic per-participant color list for text
	// output. Empty means the built-in palette.
	TextColors []string `yaml:"text_colors" mapstructure:"text_colors"`

	// HTMLBackgroundColors and HTMLNameColors are the cyclic
	// per-participant palettes for HTML output. Empty means the
	// built-in palettes.
	HTMLBackgroundColors []string `yaml:"html_background_colors" mapstructure:"html_background_colors"`
	HTMLNameColors       []string `yaml:"html_name_colors" mapstructure:"html_name_colors"`

	// ThreadBackground is the reply-thread bubble color in HTML output.
	ThreadBackground string `yaml:"thread_background" mapstructure:"thread_background"`

	// Split is the per-file row threshold for paginated HTML output.
	// Zero writes a single file.
	Split int `yaml:"split" mapstructure:"split"`

	// AdditionalDetails adds a per-message info toggle to HTML output.
	AdditionalDetails bool `yaml:"additional_details" mapstructure:"additional_details"`

	// Me is the display name for the local user.
	Me string `yaml:"me" mapstructure:"me"`
}

// QueryConfig contains the default query time window, both bounds
// optional, in "YYYY-MM-DD HH:MM:SS" local time.
type QueryConfig struct {
	Start string `yaml:"start" mapstructure:"start"`
	End   string `yaml:"end" mapstructure:"end"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" mapstructure:"level"`

	// Format is the output format (json, console).
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "~/Library/Messages/chat.db",
		},
		Attachments: AttachmentsConfig{
			Copy:      true,
			Directory: "~/.cache/chatlog/attachments",
		},
		Display: DisplayConfig{
			OutputType:    "text",
			PopupLocation: "upper right",
			UseTextColor:  true,
			Me:            "Me",
		},
		Contacts: map[string][]string{},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Window parses the configured query bounds. A nil pointer means the
// bound is open.
func (q QueryConfig) Window() (start, end *time.Time, err error) {
	if q.Start != "" {
		t, err := time.ParseInLocation(TimeLayout, q.Start, time.Local)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid query.start %q: %w", q.Start, err)
		}
		start = &t
	}
	if q.End != "" {
		t, err := time.ParseInLocation(TimeLayout, q.End, time.Local)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid query.end %q: %w", q.End, err)
		}
		end = &t
	}
	return start, end, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	switch c.Display.OutputType {
	case "text", "html":
	default:
		return fmt.Errorf("display.output_type must be text or html")
	}

	switch c.Display.PopupLocation {
	case "", "upper right", "upper left", "floating":
	default:
		return fmt.Errorf("display.popup_location must be 'upper right', 'upper left' or 'floating'")
	}

	if c.Display.Split < 0 {
		return fmt.Errorf("display.split must not be negative")
	}

	if _, _, err := c.Query.Window(); err != nil {
		return err
	}

	return nil
}
