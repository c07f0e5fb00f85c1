// Package models defines the core data types for chatlog.
package models

import "fmt"

// Handle is a messaging identity (phone number or email) as recorded
// in the handle table. Immutable after load.
type Handle struct {
	// RowID is the handle table row identifier.
	RowID int64

	// Number is the raw identifier (phone number or email address).
	Number string

	// Name is the resolved display name. Either a contact-book name or,
	// when no contact matches, the raw identifier itself.
	Name string

	// Service is the messaging protocol name (iMessage, SMS, ...).
	Service string
}

func (h *Handle) String() string {
	return fmt.Sprintf("%d: Name => %s, ID => %s, Service => %s", h.RowID, h.Name, h.Number, h.Service)
}
