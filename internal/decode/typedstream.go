// Package decode extracts display text from the binary message fields
// of chat.db.
//
// The attributedBody column holds an NSArchiver typedstream whose
// grammar is undocumented. The decoder here is deliberately
// best-effort: it locates the NSString payload by structural markers
// and degrades to an empty string on anything unexpected. Some exotic
// messages may mis-decode; that is a known accuracy boundary of the
// format, not something this package tries to fully solve.
package decode

import (
	"bytes"
	"encoding/binary"
	"strings"
)

var nsStringMarker = []byte("NSString")

// AttributedBody extracts the text payload from a typedstream-encoded
// rich-text field. The second return value reports whether a payload
// was found at all; malformed input yields ("", false).
func AttributedBody(raw []byte) (string, bool) {
	idx := bytes.Index(raw, nsStringMarker)
	if idx < 0 {
		return "", false
	}

	// Between the class name and the string bytes sits a fixed 5-byte
	// type header (version tag, class terminator and the '+' type code).
	seg := raw[idx+len(nsStringMarker):]
	if len(seg) <= 5 {
		return "", false
	}
	seg = seg[5:]

	// The string is length-prefixed: one byte for short strings, the
	// 0x81 escape followed by a little-endian uint16 for longer ones.
	var length int
	if seg[0] == 0x81 {
		if len(seg) < 3 {
			return "", false
		}
		length = int(binary.LittleEndian.Uint16(seg[1:3]))
		seg = seg[3:]
	} else {
		length = int(seg[0])
		seg = seg[1:]
	}

	if length > len(seg) {
		length = len(seg)
	}

	return strings.ToValidUTF8(string(seg[:length]), "�"), true
}
