package models

import "sort"

// MessageCollection is the query-scoped aggregate of loaded messages.
// It is the single owning structure: the GUID index and the per-message
// thread maps store row ids, resolved back through the collection.
//
// Build it with Add during the load pass; read-only afterwards.
type MessageCollection struct {
	byRowID     map[int64]*Message
	rowIDByGUID map[string]int64

	// pendingThreads parks replies whose thread originator has not been
	// seen yet, keyed by the originator GUID. A reply may arrive before
	// its originator in load order; if the originator never shows up in
	// the filtered result set the link is simply never materialized.
	pendingThreads map[string][]int64

	order  []int64
	sorted []*Message
}

// NewMessageCollection returns an empty collection.
func NewMessageCollection() *MessageCollection {
	return &MessageCollection{
		byRowID:        make(map[int64]*Message),
		rowIDByGUID:    make(map[string]int64),
		pendingThreads: make(map[string][]int64),
	}
}

// Add inserts a message and progressively links reply threads.
func (c *MessageCollection) Add(m *Message) {
	if m.Thread == nil {
		m.Thread = make(map[int64]bool)
	}

	c.byRowID[m.RowID] = m
	c.rowIDByGUID[m.GUID] = m.RowID
	c.order = append(c.order, m.RowID)
	c.sorted = nil

	if m.ThreadOriginatorGUID != "" {
		if originator, ok := c.ByGUID(m.ThreadOriginatorGUID); ok {
			originator.Thread[m.RowID] = true
		} else {
			c.pendingThreads[m.ThreadOriginatorGUID] = append(c.pendingThreads[m.ThreadOriginatorGUID], m.RowID)
		}
	}

	// Replies already seen for this message's thread.
	if waiting, ok := c.pendingThreads[m.GUID]; ok {
		for _, rowID := range waiting {
			m.Thread[rowID] = true
		}
		delete(c.pendingThreads, m.GUID)
	}
}

// Get returns the message with the given row id.
func (c *MessageCollection) Get(rowID int64) (*Message, bool) {
	m, ok := c.byRowID[rowID]
	return m, ok
}

// ByGUID returns the message with the given GUID.
func (c *MessageCollection) ByGUID(guid string) (*Message, bool) {
	rowID, ok := c.rowIDByGUID[guid]
	if !ok {
		return nil, false
	}
	return c.Get(rowID)
}

// Len returns the number of messages in the collection.
func (c *MessageCollection) Len() int {
	return len(c.byRowID)
}

// Sorted returns the messages in ascending timestamp order. Ties keep
// the original load order. The slice is memoized; callers must not
// mutate it.
func (c *MessageCollection) Sorted() []*Message {
	if c.sorted != nil {
		return c.sorted
	}

	messages := make([]*Message, 0, len(c.order))
	for _, rowID := range c.order {
		messages = append(messages, c.byRowID[rowID])
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Date.Before(messages[j].Date)
	})

	c.sorted = messages
	return messages
}

// ThreadMessages resolves a thread originator's reply chain: the
// originator itself plus every linked reply, in ascending timestamp
// order. The originator is part of its own thread for display.
func (c *MessageCollection) ThreadMessages(originator *Message) []*Message {
	thread := make([]*Message, 0, len(originator.Thread)+1)
	thread = append(thread, originator)
	for rowID := range originator.Thread {
		if m, ok := c.Get(rowID); ok {
			thread = append(thread, m)
		}
	}
	sort.SliceStable(thread, func(i, j int) bool {
		if thread[i].Date.Equal(thread[j].Date) {
			return thread[i].RowID < thread[j].RowID
		}
		return thread[i].Date.Before(thread[j].Date)
	})
	return thread
}
