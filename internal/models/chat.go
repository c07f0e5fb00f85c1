package models

import "time"

// Chat is a conversation context (one-to-one or group). Participants
// and LastMessageAt are filled in once right after the full chat scan;
// the struct is read-only afterwards.
type Chat struct {
	// RowID is the chat table row identifier.
	RowID int64

	// Identifier is the chat_identifier column (a handle for one-to-one
	// chats, a chatNNN token for group chats).
	Identifier string

	// DisplayName is the human-assigned group name, often empty.
	DisplayName string

	// Participants holds handle row ids, in join-table order. The chat
	// references handles by id and does not own them.
	Participants []int64

	// LastMessageAt is the timestamp of the most recent message in the
	// chat, zero when the chat has no messages.
	LastMessageAt time.Time
}

// AddParticipant appends a handle row id, ignoring duplicates.
func (c *Chat) AddParticipant(handleID int64) {
	for _, existing := range c.Participants {
		if existing == handleID {
			return
		}
	}
	c.Participants = append(c.Participants, handleID)
}
