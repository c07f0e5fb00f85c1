package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tOgg1/chatlog/internal/models"
)

// ChatRepository reads the chat table and its join tables.
type ChatRepository struct {
	db *DB
}

// NewChatRepository creates a new ChatRepository.
func NewChatRepository(db *DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// List performs the full chat scan. Participants and last-message
// dates are filled in by the directory from the join-table scans.
func (r *ChatRepository) List(ctx context.Context) ([]*models.Chat, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT ROWID, chat_identifier, display_name FROM chat`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	var chats []*models.Chat
	for rows.Next() {
		var (
			chat        models.Chat
			displayName sql.NullString
		)
		if err := rows.Scan(&chat.RowID, &chat.Identifier, &displayName); err != nil {
			return nil, fmt.Errorf("failed to scan chat: %w", err)
		}
		chat.DisplayName = displayName.String
		chats = append(chats, &chat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chats: %w", err)
	}

	return chats, nil
}

// Participants returns the chat -> handle membership from
// chat_handle_join, in join-table order.
func (r *ChatRepository) Participants(ctx context.Context) (map[int64][]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT chat_id, handle_id FROM chat_handle_join`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat participants: %w", err)
	}
	defer rows.Close()

	participants := make(map[int64][]int64)
	for rows.Next() {
		var chatID, handleID int64
		if err := rows.Scan(&chatID, &handleID); err != nil {
			return nil, fmt.Errorf("failed to scan chat participant: %w", err)
		}
		participants[chatID] = append(participants[chatID], handleID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat participants: %w", err)
	}

	return participants, nil
}

// LastMessageDates returns the newest message date per chat, from the
// denormalized message_date column on chat_message_join. One grouped
// query instead of a query per chat.
func (r *ChatRepository) LastMessageDates(ctx context.Context) (map[int64]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT chat_id, MAX(message_date)
		FROM chat_message_join
		GROUP BY chat_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query last message dates: %w", err)
	}
	defer rows.Close()

	dates := make(map[int64]int64)
	for rows.Next() {
		var (
			chatID int64
			date   sql.NullInt64
		)
		if err := rows.Scan(&chatID, &date); err != nil {
			return nil, fmt.Errorf("failed to scan last message date: %w", err)
		}
		if date.Valid {
			dates[chatID] = date.Int64
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating last message dates: %w", err)
	}

	return dates, nil
}

// ChatIDsForHandles returns the ids of every chat any of the given
// handles participates in.
func (r *ChatRepository) ChatIDsForHandles(ctx context.Context, handleIDs []int64) ([]int64, error) {
	if len(handleIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(handleIDs))
	args := make([]any, len(handleIDs))
	for i, id := range handleIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT chat_id FROM chat_handle_join WHERE handle_id IN (%s)
	`, strings.Join(placeholders, ","))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats for handles: %w", err)
	}
	defer rows.Close()

	var chatIDs []int64
	for rows.Next() {
		var chatID int64
		if err := rows.Scan(&chatID); err != nil {
			return nil, fmt.Errorf("failed to scan chat id: %w", err)
		}
		chatIDs = append(chatIDs, chatID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat ids: %w", err)
	}

	return chatIDs, nil
}
