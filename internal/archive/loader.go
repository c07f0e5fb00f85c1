package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tOgg1/chatlog/internal/db"
	"github.com/tOgg1/chatlog/internal/decode"
	"github.com/tOgg1/chatlog/internal/directory"
	"github.com/tOgg1/chatlog/internal/logging"
	"github.com/tOgg1/chatlog/internal/media"
	"github.com/tOgg1/chatlog/internal/models"
)

// LoadOptions narrows a load to an inclusive time window.
type LoadOptions struct {
	Start *time.Time
	End   *time.Time
}

// Loader streams matching messages into a MessageCollection, decoding
// each row and linking reply threads in the same single pass.
type Loader struct {
	db      *db.DB
	dir     *directory.Directory
	library *media.Library
	logger  zerolog.Logger
}

// NewLoader creates a Loader over a preloaded directory and
// attachment library.
func NewLoader(database *db.DB, dir *directory.Directory, library *media.Library) *Loader {
	return &Loader{
		db:      database,
		dir:     dir,
		library: library,
		logger:  logging.Component("archive"),
	}
}

// Load resolves the scope to a chat filter, streams the matching
// messages in timestamp order and returns the assembled collection.
// Structural problems (bad scope, unknown chat, inverted time range)
// fail before any row is read; per-row decode problems degrade to
// empty text and never fail the load. Zero matches is a valid result.
func (l *Loader) Load(ctx context.Context, scope Scope, opts LoadOptions) (*models.MessageCollection, error) {
	if opts.Start != nil && opts.End != nil && !opts.Start.Before(*opts.End) {
		return nil, fmt.Errorf("%w: start %s, end %s", ErrInvalidTimeRange, opts.Start, opts.End)
	}

	chatIDs, err := l.resolveScope(ctx, scope)
	if err != nil {
		return nil, err
	}

	collection := models.NewMessageCollection()
	filter := db.MessageFilter{ChatIDs: chatIDs, Start: opts.Start, End: opts.End}

	err = db.NewMessageRepository(l.db).Stream(ctx, filter, func(row db.MessageRow) error {
		collection.Add(&models.Message{
			RowID:                row.RowID,
			GUID:                 row.GUID,
			Date:                 row.Date,
			IsFromMe:             row.IsFromMe,
			HandleID:             row.HandleID,
			Text:                 decode.Text(row.Text, row.HasText, row.AttributedBody),
			AttachmentIDs:        l.library.ForMessage(row.RowID),
			ReplyToGUID:          row.ReplyToGUID,
			ThreadOriginatorGUID: row.ThreadOriginatorGUID,
			ChatID:               row.ChatID,
			Edits:                decode.EditHistory(row.SummaryInfo),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to stream messages: %w", err)
	}

	l.logger.Debug().
		Int("messages", collection.Len()).
		Int("chats", len(chatIDs)).
		Msg("message collection loaded")

	return collection, nil
}

func (l *Loader) resolveScope(ctx context.Context, scope Scope) ([]int64, error) {
	switch scope.kind {
	case scopeChat:
		if _, err := l.dir.Chat(scope.chatID); err != nil {
			return nil, err
		}
		return []int64{scope.chatID}, nil

	case scopePerson:
		var handleIDs []int64
		for _, identifier := range scope.identifiers {
			handles, err := l.dir.HandlesByNumber(identifier)
			if err != nil {
				// A contact can list identifiers that never texted.
				l.logger.Debug().Str("identifier", identifier).Msg("identifier has no handle rows")
				continue
			}
			for _, handle := range handles {
				handleIDs = append(handleIDs, handle.RowID)
			}
		}
		if len(handleIDs) == 0 {
			return nil, fmt.Errorf("no handles for %v: %w", scope.identifiers, directory.ErrHandleNotFound)
		}
		return db.NewChatRepository(l.db).ChatIDsForHandles(ctx, handleIDs)

	default:
		return nil, ErrInvalidScope
	}
}
