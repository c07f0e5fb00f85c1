// Package directory holds the preloaded handle and chat lookup
// structures and resolves raw identifiers to contact names.
package directory

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Contacts maps raw identifiers (phone numbers, emails) to display
// names. The configuration stores the inverse, name -> identifiers;
// it is inverted here once at load.
type Contacts struct {
	byIdentifier map[string]string
}

// NewContacts builds the identifier index from the configured
// name -> identifiers mapping. Config keys arrive lowercased, so names
// are title-cased for display.
func NewContacts(byName map[string][]string) Contacts {
	title := cases.Title(language.Und)

	contacts := Contacts{byIdentifier: make(map[string]string)}
	for name, identifiers := range byName {
		display := title.String(name)
		for _, id := range identifiers {
			if id != "" {
				contacts.byIdentifier[id] = display
			}
		}
	}
	return contacts
}

// Resolve returns the display name for a raw identifier.
func (c Contacts) Resolve(identifier string) (string, bool) {
	name, ok := c.byIdentifier[identifier]
	return name, ok
}

// Identifiers returns every raw identifier mapped to the given
// (case-insensitive, pre-titled) display name.
func (c Contacts) Identifiers(name string) []string {
	title := cases.Title(language.Und)
	want := title.String(name)

	var identifiers []string
	for id, display := range c.byIdentifier {
		if display == want {
			identifiers = append(identifiers, id)
		}
	}
	return identifiers
}
