package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfigYAML = `# chatlog configuration.
#
# Every value here can also be set with a CHATLOG_* environment
# variable (CHATLOG_DATABASE_PATH, CHATLOG_DISPLAY_OUTPUT_TYPE, ...)
# or the corresponding command-line flag.

database:
  # Path to the iMessage store. Opened read-only.
  path: ~/Library/Messages/chat.db

attachments:
  # Copy (and convert) referenced attachments into the directory
  # below. Without copying, HTML output cannot show attachments.
  copy: true
  directory: ~/.cache/chatlog/attachments
  # force: false   # redo copies/conversions even when present
  # skip: false    # leave attachments out entirely

display:
  output_type: text   # text or html
  me: Me
  use_text_color: true
  # inline: false              # embed media in HTML instead of popups
  # popup_location: upper right
  # thread_background: HoneyDew
  # split: 0                   # rows per HTML file, 0 = single file
  # additional_details: false
  # text_colors: [blue, magenta, green, yellow, cyan, red]
  # html_background_colors: [AliceBlue, Cyan, Gold, Lavender]
  # html_name_colors: [Blue, DarkCyan, DarkGoldenRod, Purple]

# query:
#   start: "2023-01-01 00:00:00"
#   end: "2023-12-31 23:59:59"

# Contact book: a display name to the phone numbers and emails that
# belong to them. Numbers match the handle table verbatim.
# contacts:
#   Samantha:
#     - "+15551234567"
#     - samantha@example.com

logging:
  level: info
  format: console
`

// EnsureDefault writes a commented default config file on first run
// and returns its path. An existing file is left alone.
func EnsureDefault() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to locate home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	dir = filepath.Join(dir, "chatlog")
	path := filepath.Join(dir, "config.yaml")

	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return "", fmt.Errorf("failed to write default config: %w", err)
	}
	return path, nil
}
