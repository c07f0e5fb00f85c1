package decode

import (
	"testing"
	"time"

	"howett.net/plist"
)

func summaryPlist(t *testing.T, parts map[string][]map[string]any) []byte {
	t.Helper()
	raw, err := plist.Marshal(map[string]any{"ec": parts}, plist.BinaryFormat)
	if err != nil {
		t.Fatalf("failed to build summary plist: %v", err)
	}
	return raw
}

func TestEditHistory(t *testing.T) {
	const editSeconds = 700000000
	raw := summaryPlist(t, map[string][]map[string]any{
		"0": {
			{"t": body([]byte{5}, "first"), "d": float64(editSeconds)},
			{"t": body([]byte{6}, "second"), "d": float64(editSeconds + 60)},
		},
	})

	edits := EditHistory(raw)
	if len(edits) != 2 {
		t.Fatalf("expected 2 edits, got %d", len(edits))
	}
	if edits[0].Text != "first" || edits[1].Text != "second" {
		t.Fatalf("wrong edit texts: %q, %q", edits[0].Text, edits[1].Text)
	}

	want := time.Unix(978307200+editSeconds, 0)
	if !edits[0].Date.Equal(want) {
		t.Fatalf("expected edit date %v, got %v", want, edits[0].Date)
	}
}

func TestEditHistory_PartOrder(t *testing.T) {
	raw := summaryPlist(t, map[string][]map[string]any{
		"1": {{"t": body([]byte{4}, "late"), "d": float64(2)}},
		"0": {{"t": body([]byte{5}, "early"), "d": float64(1)}},
	})

	edits := EditHistory(raw)
	if len(edits) != 2 {
		t.Fatalf("expected 2 edits, got %d", len(edits))
	}
	if edits[0].Text != "early" || edits[1].Text != "late" {
		t.Fatalf("parts out of order: %q, %q", edits[0].Text, edits[1].Text)
	}
}

func TestEditHistory_PartOrderNumeric(t *testing.T) {
	// Ten or more parts must not fall into lexicographic order,
	// which would put "10" before "2".
	raw := summaryPlist(t, map[string][]map[string]any{
		"2":  {{"t": body([]byte{6}, "middle"), "d": float64(2)}},
		"10": {{"t": body([]byte{4}, "last"), "d": float64(3)}},
		"0":  {{"t": body([]byte{5}, "first"), "d": float64(1)}},
	})

	edits := EditHistory(raw)
	if len(edits) != 3 {
		t.Fatalf("expected 3 edits, got %d", len(edits))
	}
	if edits[0].Text != "first" || edits[1].Text != "middle" || edits[2].Text != "last" {
		t.Fatalf("parts out of order: %q, %q, %q", edits[0].Text, edits[1].Text, edits[2].Text)
	}
}

func TestEditHistory_UndecodableRecordSkipped(t *testing.T) {
	raw := summaryPlist(t, map[string][]map[string]any{
		"0": {
			{"t": []byte("not a typedstream"), "d": float64(1)},
			{"t": body([]byte{2}, "ok"), "d": float64(2)},
		},
	})

	edits := EditHistory(raw)
	if len(edits) != 1 || edits[0].Text != "ok" {
		t.Fatalf("expected the one decodable edit, got %v", edits)
	}
}

func TestEditHistory_Degraded(t *testing.T) {
	if got := EditHistory(nil); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
	if got := EditHistory([]byte("not a plist")); got != nil {
		t.Fatalf("expected nil for garbage input, got %v", got)
	}

	noEC, err := plist.Marshal(map[string]any{"other": 1}, plist.BinaryFormat)
	if err != nil {
		t.Fatalf("failed to build plist: %v", err)
	}
	if got := EditHistory(noEC); got != nil {
		t.Fatalf("expected nil when ec key is absent, got %v", got)
	}
}
