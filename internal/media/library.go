package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/tOgg1/chatlog/internal/db"
	"github.com/tOgg1/chatlog/internal/logging"
	"github.com/tOgg1/chatlog/internal/models"
)

// ErrAttachmentNotFound is returned for lookups of unknown attachment ids.
var ErrAttachmentNotFound = errors.New("attachment not found")

// Library is the full-scan attachment index: every attachment row,
// classified, plus the message -> attachment join. Loaded once before
// any messages; read-only afterwards.
type Library struct {
	byRowID   map[int64]*models.Attachment
	byMessage map[int64][]int64
	opts      Options
}

// LoadLibrary scans the attachment table and its message join.
// When skip is set the library is empty but still usable.
func LoadLibrary(ctx context.Context, database *db.DB, opts Options, skip bool) (*Library, error) {
	lib := &Library{
		byRowID:   make(map[int64]*models.Attachment),
		byMessage: make(map[int64][]int64),
		opts:      opts,
	}
	if skip {
		return lib, nil
	}

	repo := db.NewAttachmentRepository(database)

	rows, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load attachments: %w", err)
	}
	for _, row := range rows {
		lib.byRowID[row.RowID] = NewAttachment(row, opts)
	}

	join, err := repo.MessageJoin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load attachment joins: %w", err)
	}
	lib.byMessage = join

	logger := logging.Component("media")
	logger.Debug().
		Int("attachments", len(lib.byRowID)).
		Int("messages_with_attachments", len(lib.byMessage)).
		Msg("attachment library loaded")

	return lib, nil
}

// Get returns the attachment with the given row id.
func (l *Library) Get(rowID int64) (*models.Attachment, bool) {
	att, ok := l.byRowID[rowID]
	return att, ok
}

// Lookup is Get with a NotFound error for unknown keys.
func (l *Library) Lookup(rowID int64) (*models.Attachment, error) {
	att, ok := l.byRowID[rowID]
	if !ok {
		return nil, fmt.Errorf("attachment %d: %w", rowID, ErrAttachmentNotFound)
	}
	return att, nil
}

// ForMessage returns the attachment row ids of a message, nil when it
// has none.
func (l *Library) ForMessage(messageID int64) []int64 {
	return l.byMessage[messageID]
}

// Len returns the number of indexed attachments.
func (l *Library) Len() int {
	return len(l.byRowID)
}
