package directory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/tOgg1/chatlog/internal/db"
	"github.com/tOgg1/chatlog/internal/logging"
	"github.com/tOgg1/chatlog/internal/models"
)

// Directory lookup errors.
var (
	ErrHandleNotFound = errors.New("handle not found")
	ErrChatNotFound   = errors.New("chat not found")
)

// Directory is the preloaded handle and chat index. Built once with a
// full scan of both tables and their joins; immutable afterwards.
//
// One raw number can map to several handle rows (one per service), and
// one display name to several chats; those lookups return slices so
// the ambiguity is the caller's to resolve, never silently collapsed.
type Directory struct {
	handlesByRowID  map[int64]*models.Handle
	handlesByNumber map[string][]*models.Handle

	chatsByRowID      map[int64]*models.Chat
	chatsByIdentifier map[string][]*models.Chat
	chatsByName       map[string][]*models.Chat
}

// Load scans the handle and chat tables and applies contact
// resolution to handle display names.
func Load(ctx context.Context, database *db.DB, contacts Contacts) (*Directory, error) {
	dir := &Directory{
		handlesByRowID:    make(map[int64]*models.Handle),
		handlesByNumber:   make(map[string][]*models.Handle),
		chatsByRowID:      make(map[int64]*models.Chat),
		chatsByIdentifier: make(map[string][]*models.Chat),
		chatsByName:       make(map[string][]*models.Chat),
	}

	handles, err := db.NewHandleRepository(database).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load handles: %w", err)
	}
	for _, handle := range handles {
		if name, ok := contacts.Resolve(handle.Number); ok {
			handle.Name = name
		}
		dir.handlesByRowID[handle.RowID] = handle
		dir.handlesByNumber[handle.Number] = append(dir.handlesByNumber[handle.Number], handle)
	}

	chatRepo := db.NewChatRepository(database)

	chats, err := chatRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load chats: %w", err)
	}
	participants, err := chatRepo.Participants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat participants: %w", err)
	}
	lastDates, err := chatRepo.LastMessageDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load last message dates: %w", err)
	}

	for _, chat := range chats {
		for _, handleID := range participants[chat.RowID] {
			chat.AddParticipant(handleID)
		}
		if raw, ok := lastDates[chat.RowID]; ok {
			chat.LastMessageAt = db.AppleTime(raw)
		}

		dir.chatsByRowID[chat.RowID] = chat
		dir.chatsByIdentifier[chat.Identifier] = append(dir.chatsByIdentifier[chat.Identifier], chat)
		if chat.DisplayName != "" {
			dir.chatsByName[chat.DisplayName] = append(dir.chatsByName[chat.DisplayName], chat)
		}
	}

	logger := logging.Component("directory")
	logger.Debug().
		Int("handles", len(dir.handlesByRowID)).
		Int("chats", len(dir.chatsByRowID)).
		Msg("directory loaded")

	return dir, nil
}

// Handle returns the handle with the given row id.
func (d *Directory) Handle(rowID int64) (*models.Handle, error) {
	handle, ok := d.handlesByRowID[rowID]
	if !ok {
		return nil, fmt.Errorf("handle %d: %w", rowID, ErrHandleNotFound)
	}
	return handle, nil
}

// HandlesByNumber returns every handle row recorded for a raw number.
func (d *Directory) HandlesByNumber(number string) ([]*models.Handle, error) {
	handles, ok := d.handlesByNumber[number]
	if !ok {
		return nil, fmt.Errorf("handle %q: %w", number, ErrHandleNotFound)
	}
	return handles, nil
}

// Chat returns the chat with the given row id.
func (d *Directory) Chat(rowID int64) (*models.Chat, error) {
	chat, ok := d.chatsByRowID[rowID]
	if !ok {
		return nil, fmt.Errorf("chat %d: %w", rowID, ErrChatNotFound)
	}
	return chat, nil
}

// ChatsByIdentifier returns every chat with the given chat_identifier.
func (d *Directory) ChatsByIdentifier(identifier string) ([]*models.Chat, error) {
	chats, ok := d.chatsByIdentifier[identifier]
	if !ok {
		return nil, fmt.Errorf("chat %q: %w", identifier, ErrChatNotFound)
	}
	return chats, nil
}

// ChatsByName returns every chat with the given display name. Names
// are not unique; the full set is returned.
func (d *Directory) ChatsByName(name string) ([]*models.Chat, error) {
	chats, ok := d.chatsByName[name]
	if !ok {
		return nil, fmt.Errorf("chat %q: %w", name, ErrChatNotFound)
	}
	return chats, nil
}

// Handles returns all handles ordered by row id.
func (d *Directory) Handles() []*models.Handle {
	handles := make([]*models.Handle, 0, len(d.handlesByRowID))
	for _, handle := range d.handlesByRowID {
		handles = append(handles, handle)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i].RowID < handles[j].RowID })
	return handles
}

// Chats returns all chats ordered by row id.
func (d *Directory) Chats() []*models.Chat {
	chats := make([]*models.Chat, 0, len(d.chatsByRowID))
	for _, chat := range d.chatsByRowID {
		chats = append(chats, chat)
	}
	sort.Slice(chats, func(i, j int) bool { return chats[i].RowID < chats[j].RowID })
	return chats
}

// HandleName resolves a sender for display: the handle's name when the
// row is known, the raw row id otherwise.
func (d *Directory) HandleName(rowID int64) string {
	if handle, ok := d.handlesByRowID[rowID]; ok {
		return handle.Name
	}
	return fmt.Sprintf("%d", rowID)
}
