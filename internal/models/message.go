package models

import "time"

// Edit is one entry of a message's edit history.
type Edit struct {
	// Text is the message text as of this edit.
	Text string

	// Date is when the edit was made.
	Date time.Time
}

// Message is one message row, decoded. The thread map holds row ids
// only; the owning MessageCollection resolves them to messages, so a
// message is owned exactly once.
type Message struct {
	// RowID is the message table row identifier.
	RowID int64

	// GUID is the message's global unique id, the cross-reference key
	// for reply threads.
	GUID string

	// Date is the message timestamp.
	Date time.Time

	// IsFromMe reports whether the local user sent the message.
	IsFromMe bool

	// HandleID is the sender's handle row id, 0 for the local user.
	HandleID int64

	// Text is the resolved display text: the plain text column when
	// present, otherwise the best-effort typedstream decode.
	Text string

	// AttachmentIDs are attachment table row ids attached to this message.
	AttachmentIDs []int64

	// ReplyToGUID is the GUID of the message this one directly replies to.
	ReplyToGUID string

	// ThreadOriginatorGUID is the GUID of the root of the reply thread
	// this message belongs to, empty for top-level messages.
	ThreadOriginatorGUID string

	// ChatID is the owning chat row id.
	ChatID int64

	// Edits is the decoded edit history, oldest first. Empty for
	// unedited messages.
	Edits []Edit

	// Thread maps descendant row ids to membership in this message's
	// reply thread. Populated on the thread originator as replies are
	// discovered during the load pass.
	Thread map[int64]bool
}
