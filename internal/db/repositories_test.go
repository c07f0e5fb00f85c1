package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/tOgg1/chatlog/internal/db"
	"github.com/tOgg1/chatlog/internal/testutil"
)

func seedStore(t *testing.T) (*testutil.ChatDB, *db.DB) {
	t.Helper()

	fixture := testutil.NewChatDB(t)
	fixture.AddHandle(1, "+15551234567", "iMessage")
	fixture.AddHandle(2, "friend@example.com", "iMessage")
	fixture.AddChat(10, "+15551234567", "", 1)
	fixture.AddChat(11, "chat900", "Book Club", 1, 2)

	return fixture, fixture.Open()
}

func TestHandleRepository_List(t *testing.T) {
	_, database := seedStore(t)

	handles, err := db.NewHandleRepository(database).List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(handles) != 2 {
		t.Fatalf("expected 2 handles, got %d", len(handles))
	}

	byNumber := make(map[string]string)
	for _, handle := range handles {
		if handle.Service != "iMessage" {
			t.Fatalf("unexpected service: %+v", handle)
		}
		byNumber[handle.Number] = handle.Name
	}
	// Name defaults to the raw identifier until contacts resolve it.
	if byNumber["friend@example.com"] != "friend@example.com" {
		t.Fatalf("expected identifier as default name, got %q", byNumber["friend@example.com"])
	}
}

func TestChatRepository_ListAndParticipants(t *testing.T) {
	_, database := seedStore(t)
	ctx := context.Background()
	repo := db.NewChatRepository(database)

	chats, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(chats) != 2 {
		t.Fatalf("expected 2 chats, got %d", len(chats))
	}

	participants, err := repo.Participants(ctx)
	if err != nil {
		t.Fatalf("Participants failed: %v", err)
	}
	if len(participants[11]) != 2 {
		t.Fatalf("expected 2 participants in chat 11, got %v", participants[11])
	}
}

func TestChatRepository_LastMessageDates(t *testing.T) {
	fixture, database := seedStore(t)
	ctx := context.Background()

	early := time.Date(2023, 3, 1, 9, 0, 0, 0, time.UTC)
	late := time.Date(2023, 3, 2, 9, 0, 0, 0, time.UTC)
	fixture.AddMessage(testutil.MessageSpec{ChatID: 10, HandleID: 1, Date: early, Text: "first"})
	fixture.AddMessage(testutil.MessageSpec{ChatID: 10, HandleID: 1, Date: late, Text: "second"})

	dates, err := db.NewChatRepository(database).LastMessageDates(ctx)
	if err != nil {
		t.Fatalf("LastMessageDates failed: %v", err)
	}
	if got := db.AppleTime(dates[10]); !got.Equal(late) {
		t.Fatalf("expected last message at %v, got %v", late, got)
	}
	if _, ok := dates[11]; ok {
		t.Fatal("chat 11 has no messages, expected no entry")
	}
}

func TestChatRepository_ChatIDsForHandles(t *testing.T) {
	_, database := seedStore(t)

	chatIDs, err := db.NewChatRepository(database).ChatIDsForHandles(context.Background(), []int64{2})
	if err != nil {
		t.Fatalf("ChatIDsForHandles failed: %v", err)
	}
	if len(chatIDs) != 1 || chatIDs[0] != 11 {
		t.Fatalf("expected chat 11, got %v", chatIDs)
	}
}

func TestMessageRepository_StreamOrderAndWindow(t *testing.T) {
	fixture, database := seedStore(t)
	base := time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)

	fixture.AddMessage(testutil.MessageSpec{RowID: 101, ChatID: 10, HandleID: 1, Date: base.Add(2 * time.Hour), Text: "third"})
	fixture.AddMessage(testutil.MessageSpec{RowID: 102, ChatID: 10, HandleID: 1, Date: base, Text: "first"})
	fixture.AddMessage(testutil.MessageSpec{RowID: 103, ChatID: 10, IsFromMe: true, Date: base.Add(time.Hour), Text: "second"})
	fixture.AddMessage(testutil.MessageSpec{RowID: 104, ChatID: 11, HandleID: 2, Date: base, Text: "other chat"})

	var texts []string
	err := db.NewMessageRepository(database).Stream(context.Background(), db.MessageFilter{
		ChatIDs: []int64{10},
	}, func(row db.MessageRow) error {
		texts = append(texts, row.Text)
		return nil
	})
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	if len(texts) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(texts))
	}
	if texts[0] != "first" || texts[1] != "second" || texts[2] != "third" {
		t.Fatalf("wrong order: %v", texts)
	}

	// Inclusive window keeps both boundary messages.
	start := base
	end := base.Add(time.Hour)
	texts = nil
	err = db.NewMessageRepository(database).Stream(context.Background(), db.MessageFilter{
		ChatIDs: []int64{10},
		Start:   &start,
		End:     &end,
	}, func(row db.MessageRow) error {
		texts = append(texts, row.Text)
		return nil
	})
	if err != nil {
		t.Fatalf("Stream with window failed: %v", err)
	}
	if len(texts) != 2 || texts[0] != "first" || texts[1] != "second" {
		t.Fatalf("wrong windowed result: %v", texts)
	}
}

func TestMessageRepository_EmptyChatList(t *testing.T) {
	_, database := seedStore(t)

	called := false
	err := db.NewMessageRepository(database).Stream(context.Background(), db.MessageFilter{}, func(db.MessageRow) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	if called {
		t.Fatal("no chat ids should stream no rows")
	}
}

func TestAttachmentRepository(t *testing.T) {
	fixture, database := seedStore(t)
	ctx := context.Background()

	messageID := fixture.AddMessage(testutil.MessageSpec{ChatID: 10, HandleID: 1, Date: time.Now(), Text: "with pic"})
	fixture.AddAttachment(7, messageID, "~/Library/a/pic.jpeg", "image/jpeg")
	fixture.AddAttachment(8, messageID, "", "image/png") // NULL filename

	repo := db.NewAttachmentRepository(database)
	attachments, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(attachments) != 1 {
		t.Fatalf("expected NULL-filename row dropped, got %d rows", len(attachments))
	}
	if attachments[0].RowID != 7 || attachments[0].MimeType != "image/jpeg" {
		t.Fatalf("unexpected attachment: %+v", attachments[0])
	}

	join, err := repo.MessageJoin(ctx)
	if err != nil {
		t.Fatalf("MessageJoin failed: %v", err)
	}
	if len(join[messageID]) != 2 {
		t.Fatalf("expected 2 joined attachments, got %v", join[messageID])
	}
}
