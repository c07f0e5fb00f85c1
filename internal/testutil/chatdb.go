// Package testutil builds throwaway iMessage stores for tests.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tOgg1/chatlog/internal/db"
)

const schema = `
CREATE TABLE handle (
	ROWID INTEGER PRIMARY KEY,
	id TEXT NOT NULL,
	service TEXT NOT NULL DEFAULT 'iMessage'
);
CREATE TABLE chat (
	ROWID INTEGER PRIMARY KEY,
	chat_identifier TEXT,
	display_name TEXT
);
CREATE TABLE chat_handle_join (
	chat_id INTEGER NOT NULL,
	handle_id INTEGER NOT NULL
);
CREATE TABLE message (
	ROWID INTEGER PRIMARY KEY,
	guid TEXT NOT NULL,
	date INTEGER NOT NULL,
	is_from_me INTEGER NOT NULL DEFAULT 0,
	handle_id INTEGER,
	text TEXT,
	attributedBody BLOB,
	message_summary_info BLOB,
	reply_to_guid TEXT,
	thread_originator_guid TEXT
);
CREATE TABLE chat_message_join (
	chat_id INTEGER NOT NULL,
	message_id INTEGER NOT NULL,
	message_date INTEGER NOT NULL
);
CREATE TABLE attachment (
	ROWID INTEGER PRIMARY KEY,
	filename TEXT,
	mime_type TEXT
);
CREATE TABLE message_attachment_join (
	message_id INTEGER NOT NULL,
	attachment_id INTEGER NOT NULL
);
`

// ChatDB is a writable scratch message store plus insert helpers. The
// production code only ever opens the file read-only, so the builder
// keeps its own connection.
type ChatDB struct {
	t    *testing.T
	conn *sql.DB

	// Path is the store location, for db.Open.
	Path string

	nextMessage int64
}

// NewChatDB creates an empty store in t.TempDir().
func NewChatDB(t *testing.T) *ChatDB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "chat.db")
	conn, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		t.Fatalf("failed to open fixture store: %v", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		t.Fatalf("failed to create fixture schema: %v", err)
	}

	c := &ChatDB{t: t, conn: conn, Path: path, nextMessage: 1}
	t.Cleanup(func() { conn.Close() })
	return c
}

func (c *ChatDB) exec(query string, args ...any) {
	c.t.Helper()
	if _, err := c.conn.Exec(query, args...); err != nil {
		c.t.Fatalf("fixture insert failed: %v", err)
	}
}

// AddHandle inserts a handle row.
func (c *ChatDB) AddHandle(rowID int64, identifier, service string) {
	c.t.Helper()
	c.exec(`INSERT INTO handle (ROWID, id, service) VALUES (?, ?, ?)`, rowID, identifier, service)
}

// AddChat inserts a chat row plus its participant joins.
func (c *ChatDB) AddChat(rowID int64, identifier, displayName string, participants ...int64) {
	c.t.Helper()
	c.exec(`INSERT INTO chat (ROWID, chat_identifier, display_name) VALUES (?, ?, ?)`,
		rowID, identifier, displayName)
	for _, handleID := range participants {
		c.exec(`INSERT INTO chat_handle_join (chat_id, handle_id) VALUES (?, ?)`, rowID, handleID)
	}
}

// MessageSpec describes one message row to insert. Zero RowID
// auto-assigns; zero GUID gets a random one.
type MessageSpec struct {
	RowID                int64
	GUID                 string
	ChatID               int64
	HandleID             int64
	IsFromMe             bool
	Date                 time.Time
	Text                 string
	NullText             bool
	AttributedBody       []byte
	SummaryInfo          []byte
	ReplyToGUID          string
	ThreadOriginatorGUID string
}

// AddMessage inserts a message row and its chat join, returning the
// row id.
func (c *ChatDB) AddMessage(spec MessageSpec) int64 {
	c.t.Helper()

	if spec.RowID == 0 {
		spec.RowID = c.nextMessage
	}
	if spec.RowID >= c.nextMessage {
		c.nextMessage = spec.RowID + 1
	}
	if spec.GUID == "" {
		spec.GUID = uuid.NewString()
	}

	var text any
	if !spec.NullText {
		text = spec.Text
	}
	isFromMe := 0
	if spec.IsFromMe {
		isFromMe = 1
	}
	date := db.AppleNanoseconds(spec.Date)

	c.exec(`INSERT INTO message
		(ROWID, guid, date, is_from_me, handle_id, text, attributedBody,
		 message_summary_info, reply_to_guid, thread_originator_guid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		spec.RowID, spec.GUID, date, isFromMe, spec.HandleID, text,
		spec.AttributedBody, spec.SummaryInfo,
		nullable(spec.ReplyToGUID), nullable(spec.ThreadOriginatorGUID))
	c.exec(`INSERT INTO chat_message_join (chat_id, message_id, message_date) VALUES (?, ?, ?)`,
		spec.ChatID, spec.RowID, date)

	return spec.RowID
}

// AddAttachment inserts an attachment row joined to a message.
func (c *ChatDB) AddAttachment(rowID, messageID int64, filename, mimeType string) {
	c.t.Helper()
	c.exec(`INSERT INTO attachment (ROWID, filename, mime_type) VALUES (?, ?, ?)`,
		rowID, nullable(filename), nullable(mimeType))
	c.exec(`INSERT INTO message_attachment_join (message_id, attachment_id) VALUES (?, ?)`,
		messageID, rowID)
}

// Open opens the fixture store through the production read-only path.
func (c *ChatDB) Open() *db.DB {
	c.t.Helper()
	database, err := db.Open(c.Path)
	if err != nil {
		c.t.Fatalf("failed to open fixture store read-only: %v", err)
	}
	c.t.Cleanup(func() { database.Close() })
	return database
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
