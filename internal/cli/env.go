package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/tOgg1/chatlog/internal/archive"
	"github.com/tOgg1/chatlog/internal/db"
	"github.com/tOgg1/chatlog/internal/directory"
)

func openDatabase() (*db.DB, error) {
	return db.Open(cfg.Database.Path)
}

func loadDirectory(ctx context.Context, database *db.DB) (*directory.Directory, error) {
	contacts := directory.NewContacts(cfg.Contacts)
	return directory.Load(ctx, database, contacts)
}

// buildScope turns the mutually exclusive selector flags into a query
// scope plus a human-readable title for output naming.
func buildScope(dir *directory.Directory, name string, handles []string, chatID int64) (archive.Scope, string, error) {
	selectors := 0
	if name != "" {
		selectors++
	}
	if len(handles) > 0 {
		selectors++
	}
	if chatID != 0 {
		selectors++
	}
	if selectors != 1 {
		return archive.Scope{}, "", fmt.Errorf("exactly one of --name, --handle or --chat is required")
	}

	switch {
	case name != "":
		identifiers := directory.NewContacts(cfg.Contacts).Identifiers(name)
		if len(identifiers) == 0 {
			return archive.Scope{}, "", fmt.Errorf("unknown contact %q: %w", name, directory.ErrHandleNotFound)
		}
		return archive.PersonScope(identifiers...), name, nil

	case len(handles) > 0:
		return archive.PersonScope(handles...), strings.Join(handles, "_"), nil

	default:
		chat, err := dir.Chat(chatID)
		if err != nil {
			return archive.Scope{}, "", err
		}
		title := chat.DisplayName
		if title == "" {
			title = chat.Identifier
		}
		if title == "" {
			title = fmt.Sprintf("chat_%d", chatID)
		}
		return archive.ChatScope(chatID), title, nil
	}
}

// fileBase sanitizes a conversation title into a filename stem.
func fileBase(title string) string {
	base := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', ':':
			return '_'
		}
		return r
	}, title)
	if base == "" {
		base = "messages"
	}
	return base
}
