package render_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tOgg1/chatlog/internal/directory"
	"github.com/tOgg1/chatlog/internal/media"
	"github.com/tOgg1/chatlog/internal/models"
	"github.com/tOgg1/chatlog/internal/render"
	"github.com/tOgg1/chatlog/internal/testutil"
)

func renderFixtures(t *testing.T) (*directory.Directory, *media.Library) {
	t.Helper()

	fixture := testutil.NewChatDB(t)
	fixture.AddHandle(1, "+15551234567", "iMessage")
	fixture.AddChat(10, "+15551234567", "", 1)

	database := fixture.Open()
	contacts := directory.NewContacts(map[string][]string{
		"samantha": {"+15551234567"},
	})
	dir, err := directory.Load(context.Background(), database, contacts)
	require.NoError(t, err)
	library, err := media.LoadLibrary(context.Background(), database, media.Options{}, true)
	require.NoError(t, err)
	return dir, library
}

func TestTextRenderer_LineFormat(t *testing.T) {
	dir, library := renderFixtures(t)

	collection := models.NewMessageCollection()
	date := time.Date(2023, 5, 1, 10, 30, 0, 0, time.UTC) // a Monday
	collection.Add(&models.Message{RowID: 1, GUID: "a", Date: date, HandleID: 1, Text: "hello there"})
	collection.Add(&models.Message{RowID: 2, GUID: "b", Date: date.Add(time.Minute), IsFromMe: true, Text: "hi"})

	renderer := render.NewTextRenderer(dir, library, render.TextOptions{Me: "Me"})
	var buf bytes.Buffer
	require.NoError(t, renderer.Render(&buf, collection))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "<Mon 2023-05-01 10:30:00> Samantha: hello there", lines[0])
	assert.Equal(t, "<Mon 2023-05-01 10:31:00> Me: hi", lines[1])
}

func TestTextRenderer_ReplyExcerpt(t *testing.T) {
	dir, library := renderFixtures(t)

	collection := models.NewMessageCollection()
	date := time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)
	collection.Add(&models.Message{RowID: 1, GUID: "orig", Date: date, HandleID: 1, Text: "want lunch?"})
	collection.Add(&models.Message{RowID: 2, GUID: "r1", Date: date.Add(time.Minute), IsFromMe: true,
		Text: "sure", ThreadOriginatorGUID: "orig"})
	collection.Add(&models.Message{RowID: 3, GUID: "r2", Date: date.Add(2 * time.Minute), HandleID: 1,
		Text: "noon?", ThreadOriginatorGUID: "orig"})

	renderer := render.NewTextRenderer(dir, library, render.TextOptions{Me: "Me"})
	var buf bytes.Buffer
	require.NoError(t, renderer.Render(&buf, collection))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	// The originator row has no excerpt.
	assert.NotContains(t, lines[0], "Reply to:")
	// Each reply quotes everything earlier in the thread, oldest first,
	// never itself or anything later.
	assert.Contains(t, lines[1], "Reply to: [want lunch?]")
	assert.NotContains(t, lines[1], "noon?")
	assert.Contains(t, lines[2], "Reply to: [want lunch?] [sure]")
}

func TestTextRenderer_OriginatorOutsideWindow(t *testing.T) {
	dir, library := renderFixtures(t)

	collection := models.NewMessageCollection()
	date := time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)
	collection.Add(&models.Message{RowID: 2, GUID: "r1", Date: date, HandleID: 1,
		Text: "late reply", ThreadOriginatorGUID: "not-loaded"})

	renderer := render.NewTextRenderer(dir, library, render.TextOptions{Me: "Me"})
	var buf bytes.Buffer
	require.NoError(t, renderer.Render(&buf, collection))

	// An absent originator just omits the excerpt.
	assert.NotContains(t, buf.String(), "Reply to:")
	assert.Contains(t, buf.String(), "late reply")
}

func TestTextRenderer_MissingAttachment(t *testing.T) {
	dir, library := renderFixtures(t)

	collection := models.NewMessageCollection()
	collection.Add(&models.Message{RowID: 1, GUID: "a", Date: time.Now(), HandleID: 1,
		Text: "look", AttachmentIDs: []int64{42}})

	renderer := render.NewTextRenderer(dir, library, render.TextOptions{Me: "Me"})
	var buf bytes.Buffer
	require.NoError(t, renderer.Render(&buf, collection))

	assert.Contains(t, buf.String(), "Attachments: (missing)")
}

func TestPaletteColor_Cycles(t *testing.T) {
	palette := []string{"a", "b", "c"}
	assert.Equal(t, "a", render.PaletteColor(palette, 0))
	assert.Equal(t, "c", render.PaletteColor(palette, 2))
	assert.Equal(t, "a", render.PaletteColor(palette, 3))
	assert.Equal(t, "b", render.PaletteColor(palette, 7))
	assert.Equal(t, "", render.PaletteColor(nil, 5))
}
