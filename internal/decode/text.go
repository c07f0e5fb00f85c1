package decode

import "strings"

// Text resolves the display text for a message row. A non-blank plain
// text column wins verbatim; otherwise the rich-text field is decoded
// best-effort, degrading to "" rather than failing the load.
func Text(plain string, hasPlain bool, attributedBody []byte) string {
	if hasPlain && strings.TrimSpace(plain) != "" {
		return plain
	}
	if len(attributedBody) == 0 {
		return ""
	}

	text, ok := AttributedBody(attributedBody)
	if !ok {
		return ""
	}
	return text
}
