package decode

import (
	"bytes"
	"strings"
	"testing"
)

// body builds a minimal typedstream fragment: leading junk, the
// NSString class name, the 5-byte type header, then the length prefix
// and payload.
func body(prefix []byte, text string) []byte {
	var b bytes.Buffer
	b.WriteString("\x04\x0bstreamtyped")
	b.WriteString("NSString")
	b.Write([]byte{0x01, 0x94, 0x84, 0x01, 0x2b})
	b.Write(prefix)
	b.WriteString(text)
	return b.Bytes()
}

func TestAttributedBody_ShortForm(t *testing.T) {
	raw := body([]byte{5}, "hello trailing garbage")

	text, ok := AttributedBody(raw)
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if text != "hello" {
		t.Fatalf("expected %q, got %q", "hello", text)
	}
}

func TestAttributedBody_LongForm(t *testing.T) {
	payload := strings.Repeat("x", 300)
	raw := body([]byte{0x81, 0x2c, 0x01}, payload) // 0x012c = 300 LE

	text, ok := AttributedBody(raw)
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if text != payload {
		t.Fatalf("expected 300 x's, got %d bytes", len(text))
	}
}

func TestAttributedBody_LengthBeyondBuffer(t *testing.T) {
	raw := body([]byte{200}, "short")

	text, ok := AttributedBody(raw)
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if text != "short" {
		t.Fatalf("expected clamped %q, got %q", "short", text)
	}
}

func TestAttributedBody_Malformed(t *testing.T) {
	cases := map[string][]byte{
		"empty":            nil,
		"no marker":        []byte("just some bytes"),
		"truncated header": append([]byte("NSString"), 0x01, 0x94),
	}
	for name, raw := range cases {
		if _, ok := AttributedBody(raw); ok {
			t.Fatalf("%s: expected decode to fail", name)
		}
	}
}

func TestAttributedBody_InvalidUTF8(t *testing.T) {
	raw := body([]byte{3}, "a\xffb")

	text, ok := AttributedBody(raw)
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if text != "a�b" {
		t.Fatalf("expected replacement rune, got %q", text)
	}
}

func TestText_PlainWins(t *testing.T) {
	if got := Text("plain", true, body([]byte{4}, "rich")); got != "plain" {
		t.Fatalf("expected plain text to win, got %q", got)
	}
}

func TestText_FallsBackToTypedstream(t *testing.T) {
	if got := Text("", false, body([]byte{4}, "rich")); got != "rich" {
		t.Fatalf("expected typedstream fallback, got %q", got)
	}
	if got := Text("   ", true, body([]byte{4}, "rich")); got != "rich" {
		t.Fatalf("expected blank plain text to fall back, got %q", got)
	}
}

func TestText_NothingDecodable(t *testing.T) {
	if got := Text("", false, []byte("garbage")); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}
