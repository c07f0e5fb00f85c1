package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// MessageRow is one raw message row joined against chat_message_join.
// Text decoding happens upstream; this layer hands the binary columns
// through untouched.
type MessageRow struct {
	RowID                int64
	GUID                 string
	Date                 time.Time
	IsFromMe             bool
	HandleID             int64
	Text                 string
	HasText              bool
	AttributedBody       []byte
	SummaryInfo          []byte
	ReplyToGUID          string
	ThreadOriginatorGUID string
	ChatID               int64
}

// MessageFilter narrows the message stream. ChatIDs is required; the
// time bounds are optional and inclusive on both ends.
type MessageFilter struct {
	ChatIDs []int64
	Start   *time.Time
	End     *time.Time
}

// MessageRepository streams message rows.
type MessageRepository struct {
	db *DB
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Stream reads every message matching the filter in ascending
// timestamp order (row id breaks ties) and calls fn for each row.
// Render order must equal conversation order, so the ordering here is
// the correctness contract for everything downstream.
func (r *MessageRepository) Stream(ctx context.Context, filter MessageFilter, fn func(MessageRow) error) error {
	if len(filter.ChatIDs) == 0 {
		return nil
	}

	placeholders := make([]string, len(filter.ChatIDs))
	args := make([]any, 0, len(filter.ChatIDs)+2)
	for i, id := range filter.ChatIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		SELECT m.ROWID, m.guid, m.date, m.is_from_me, m.handle_id,
		       m.text, m.attributedBody, m.message_summary_info,
		       m.reply_to_guid, m.thread_originator_guid, cmj.chat_id
		FROM message m
		JOIN chat_message_join cmj ON cmj.message_id = m.ROWID
		WHERE cmj.chat_id IN (%s)
	`, strings.Join(placeholders, ","))

	if filter.Start != nil {
		query += ` AND m.date >= ?`
		args = append(args, AppleNanoseconds(*filter.Start))
	}
	if filter.End != nil {
		query += ` AND m.date <= ?`
		args = append(args, AppleNanoseconds(*filter.End))
	}

	query += ` ORDER BY m.date ASC, m.ROWID ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			row            MessageRow
			date           int64
			isFromMe       int
			handleID       sql.NullInt64
			text           sql.NullString
			attributedBody []byte
			summaryInfo    []byte
			replyTo        sql.NullString
			originator     sql.NullString
		)
		if err := rows.Scan(&row.RowID, &row.GUID, &date, &isFromMe, &handleID,
			&text, &attributedBody, &summaryInfo, &replyTo, &originator, &row.ChatID); err != nil {
			return fmt.Errorf("failed to scan message: %w", err)
		}

		row.Date = AppleTime(date)
		row.IsFromMe = isFromMe == 1
		row.HandleID = handleID.Int64
		row.Text = text.String
		row.HasText = text.Valid
		row.AttributedBody = attributedBody
		row.SummaryInfo = summaryInfo
		row.ReplyToGUID = replyTo.String
		row.ThreadOriginatorGUID = originator.String

		if err := fn(row); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating messages: %w", err)
	}

	return nil
}
