package db

import (
	"context"
	"database/sql"
	"fmt"
)

// AttachmentRow is one raw row of the attachment table.
type AttachmentRow struct {
	RowID    int64
	Filename string
	MimeType string
}

// AttachmentRepository reads the attachment table and its message join.
type AttachmentRepository struct {
	db *DB
}

// NewAttachmentRepository creates a new AttachmentRepository.
func NewAttachmentRepository(db *DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// List performs the full attachment scan. Rows with a NULL filename
// point at nothing renderable and are dropped here.
func (r *AttachmentRepository) List(ctx context.Context) ([]AttachmentRow, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT ROWID, filename, mime_type FROM attachment`)
	if err != nil {
		return nil, fmt.Errorf("failed to query attachments: %w", err)
	}
	defer rows.Close()

	var attachments []AttachmentRow
	for rows.Next() {
		var (
			row      AttachmentRow
			filename sql.NullString
			mimeType sql.NullString
		)
		if err := rows.Scan(&row.RowID, &filename, &mimeType); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		if !filename.Valid {
			continue
		}
		row.Filename = filename.String
		row.MimeType = mimeType.String
		attachments = append(attachments, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attachments: %w", err)
	}

	return attachments, nil
}

// MessageJoin returns the message -> attachment index from
// message_attachment_join.
func (r *AttachmentRepository) MessageJoin(ctx context.Context) (map[int64][]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT message_id, attachment_id FROM message_attachment_join`)
	if err != nil {
		return nil, fmt.Errorf("failed to query attachment joins: %w", err)
	}
	defer rows.Close()

	join := make(map[int64][]int64)
	for rows.Next() {
		var messageID, attachmentID int64
		if err := rows.Scan(&messageID, &attachmentID); err != nil {
			return nil, fmt.Errorf("failed to scan attachment join: %w", err)
		}
		join[messageID] = append(join[messageID], attachmentID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attachment joins: %w", err)
	}

	return join, nil
}
