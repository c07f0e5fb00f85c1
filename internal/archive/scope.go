// Package archive assembles query-scoped message collections with
// reply threads resolved.
package archive

import "errors"

// Assembler errors.
var (
	ErrInvalidScope     = errors.New("invalid query scope")
	ErrInvalidTimeRange = errors.New("start time must be before end time")
)

type scopeKind int

const (
	scopeInvalid scopeKind = iota
	scopeChat
	scopePerson
)

// Scope selects which messages to load: a single chat by row id, or a
// person as the set of their handle identifiers. The zero Scope is
// invalid and rejected by Load.
type Scope struct {
	kind        scopeKind
	chatID      int64
	identifiers []string
}

// ChatScope selects one chat by row id.
func ChatScope(chatID int64) Scope {
	return Scope{kind: scopeChat, chatID: chatID}
}

// PersonScope selects every chat any of the given handle identifiers
// participates in.
func PersonScope(identifiers ...string) Scope {
	return Scope{kind: scopePerson, identifiers: identifiers}
}
