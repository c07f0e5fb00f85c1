package archive_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tOgg1/chatlog/internal/archive"
	"github.com/tOgg1/chatlog/internal/db"
	"github.com/tOgg1/chatlog/internal/directory"
	"github.com/tOgg1/chatlog/internal/media"
	"github.com/tOgg1/chatlog/internal/testutil"
)

type env struct {
	fixture *testutil.ChatDB
	db      *db.DB
	dir     *directory.Directory
	loader  *archive.Loader
}

func newEnv(t *testing.T, seed func(*testutil.ChatDB)) *env {
	t.Helper()

	fixture := testutil.NewChatDB(t)
	fixture.AddHandle(1, "+15551234567", "iMessage")
	fixture.AddHandle(2, "sam@example.com", "iMessage")
	fixture.AddChat(10, "+15551234567", "", 1)
	fixture.AddChat(11, "chat900", "Book Club", 1, 2)
	if seed != nil {
		seed(fixture)
	}

	database := fixture.Open()
	contacts := directory.NewContacts(map[string][]string{
		"samantha": {"+15551234567", "sam@example.com"},
	})
	dir, err := directory.Load(context.Background(), database, contacts)
	if err != nil {
		t.Fatalf("directory load failed: %v", err)
	}
	library, err := media.LoadLibrary(context.Background(), database, media.Options{}, true)
	if err != nil {
		t.Fatalf("library load failed: %v", err)
	}

	return &env{
		fixture: fixture,
		db:      database,
		dir:     dir,
		loader:  archive.NewLoader(database, dir, library),
	}
}

func TestLoader_ChatScopeOrdering(t *testing.T) {
	base := time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)
	e := newEnv(t, func(f *testutil.ChatDB) {
		f.AddMessage(testutil.MessageSpec{ChatID: 10, HandleID: 1, Date: base.Add(time.Minute), Text: "second"})
		f.AddMessage(testutil.MessageSpec{ChatID: 10, IsFromMe: true, Date: base, Text: "first"})
		f.AddMessage(testutil.MessageSpec{ChatID: 11, HandleID: 2, Date: base, Text: "other chat"})
	})

	collection, err := e.loader.Load(context.Background(), archive.ChatScope(10), archive.LoadOptions{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if collection.Len() != 2 {
		t.Fatalf("expected 2 messages, got %d", collection.Len())
	}

	sorted := collection.Sorted()
	if sorted[0].Text != "first" || sorted[1].Text != "second" {
		t.Fatalf("wrong order: %q, %q", sorted[0].Text, sorted[1].Text)
	}
	if !sorted[0].IsFromMe || sorted[1].HandleID != 1 {
		t.Fatalf("sender fields lost: %+v", sorted[0])
	}
}

func TestLoader_PersonScopeSpansChats(t *testing.T) {
	base := time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)
	e := newEnv(t, func(f *testutil.ChatDB) {
		f.AddMessage(testutil.MessageSpec{ChatID: 10, HandleID: 1, Date: base, Text: "direct"})
		f.AddMessage(testutil.MessageSpec{ChatID: 11, HandleID: 2, Date: base.Add(time.Hour), Text: "group"})
	})

	// Both identifiers belong to the same person; the scope covers
	// every chat either handle participates in.
	collection, err := e.loader.Load(context.Background(),
		archive.PersonScope("+15551234567", "sam@example.com"), archive.LoadOptions{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if collection.Len() != 2 {
		t.Fatalf("expected messages from both chats, got %d", collection.Len())
	}
}

func TestLoader_PersonScopeSkipsUnknownIdentifiers(t *testing.T) {
	base := time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)
	e := newEnv(t, func(f *testutil.ChatDB) {
		f.AddMessage(testutil.MessageSpec{ChatID: 10, HandleID: 1, Date: base, Text: "hi"})
	})

	// A contact can list identifiers that never texted; those are
	// skipped as long as at least one resolves.
	collection, err := e.loader.Load(context.Background(),
		archive.PersonScope("+15551234567", "+19990000000"), archive.LoadOptions{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if collection.Len() != 1 {
		t.Fatalf("expected 1 message, got %d", collection.Len())
	}
}

func TestLoader_StructuralErrors(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()

	if _, err := e.loader.Load(ctx, archive.ChatScope(99), archive.LoadOptions{}); !errors.Is(err, directory.ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound, got %v", err)
	}
	if _, err := e.loader.Load(ctx, archive.PersonScope("+19990000000"), archive.LoadOptions{}); !errors.Is(err, directory.ErrHandleNotFound) {
		t.Fatalf("expected ErrHandleNotFound, got %v", err)
	}
	if _, err := e.loader.Load(ctx, archive.Scope{}, archive.LoadOptions{}); !errors.Is(err, archive.ErrInvalidScope) {
		t.Fatalf("expected ErrInvalidScope, got %v", err)
	}

	start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	if _, err := e.loader.Load(ctx, archive.ChatScope(10), archive.LoadOptions{Start: &start, End: &end}); !errors.Is(err, archive.ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}
}

func TestLoader_EmptyResultIsValid(t *testing.T) {
	e := newEnv(t, nil)

	collection, err := e.loader.Load(context.Background(), archive.ChatScope(10), archive.LoadOptions{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if collection.Len() != 0 {
		t.Fatalf("expected empty collection, got %d", collection.Len())
	}
}

func TestLoader_TimeWindow(t *testing.T) {
	base := time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)
	e := newEnv(t, func(f *testutil.ChatDB) {
		f.AddMessage(testutil.MessageSpec{ChatID: 10, HandleID: 1, Date: base.Add(-time.Hour), Text: "before"})
		f.AddMessage(testutil.MessageSpec{ChatID: 10, HandleID: 1, Date: base, Text: "on start"})
		f.AddMessage(testutil.MessageSpec{ChatID: 10, HandleID: 1, Date: base.Add(time.Hour), Text: "inside"})
		f.AddMessage(testutil.MessageSpec{ChatID: 10, HandleID: 1, Date: base.Add(3 * time.Hour), Text: "after"})
	})

	start := base
	end := base.Add(2 * time.Hour)
	collection, err := e.loader.Load(context.Background(), archive.ChatScope(10),
		archive.LoadOptions{Start: &start, End: &end})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	sorted := collection.Sorted()
	if len(sorted) != 2 || sorted[0].Text != "on start" || sorted[1].Text != "inside" {
		texts := make([]string, 0, len(sorted))
		for _, m := range sorted {
			texts = append(texts, m.Text)
		}
		t.Fatalf("wrong windowed messages: %v", texts)
	}
}

func TestLoader_ThreadLinking(t *testing.T) {
	base := time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)
	e := newEnv(t, func(f *testutil.ChatDB) {
		f.AddMessage(testutil.MessageSpec{GUID: "orig", ChatID: 10, HandleID: 1, Date: base, Text: "question"})
		f.AddMessage(testutil.MessageSpec{GUID: "reply", ChatID: 10, IsFromMe: true, Date: base.Add(time.Minute),
			Text: "answer", ThreadOriginatorGUID: "orig", ReplyToGUID: "orig"})
	})

	collection, err := e.loader.Load(context.Background(), archive.ChatScope(10), archive.LoadOptions{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	orig, ok := collection.ByGUID("orig")
	if !ok {
		t.Fatal("originator not loaded")
	}
	reply, _ := collection.ByGUID("reply")
	if !orig.Thread[reply.RowID] {
		t.Fatalf("reply not linked: %v", orig.Thread)
	}

	thread := collection.ThreadMessages(orig)
	if len(thread) != 2 || thread[0] != orig || thread[1] != reply {
		t.Fatalf("wrong thread resolution: %v", thread)
	}
}

func TestLoader_TypedstreamFallback(t *testing.T) {
	base := time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)
	body := append([]byte("streamtypedNSString"), 0x01, 0x94, 0x84, 0x01, 0x2b, 4)
	body = append(body, []byte("rich")...)

	e := newEnv(t, func(f *testutil.ChatDB) {
		f.AddMessage(testutil.MessageSpec{ChatID: 10, HandleID: 1, Date: base,
			NullText: true, AttributedBody: body})
	})

	collection, err := e.loader.Load(context.Background(), archive.ChatScope(10), archive.LoadOptions{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := collection.Sorted()[0].Text; got != "rich" {
		t.Fatalf("expected typedstream text, got %q", got)
	}
}
