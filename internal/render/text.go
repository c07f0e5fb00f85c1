package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tOgg1/chatlog/internal/directory"
	"github.com/tOgg1/chatlog/internal/media"
	"github.com/tOgg1/chatlog/internal/models"
)

// DefaultTextPalette is the per-participant name color cycle for text
// output, as ANSI color codes.
var DefaultTextPalette = []string{"4", "5", "2", "3", "6", "1", "12"}

// DefaultReplyColor is the color for inline thread excerpts.
const DefaultReplyColor = "8"

// TextOptions configures the text renderer.
type TextOptions struct {
	// Me is the display name for messages sent by the local user.
	Me string

	// UseColor toggles ANSI styling.
	UseColor bool

	// Palette is the cyclic per-participant name color list.
	Palette []string

	// ReplyColor is the color for reply-thread excerpts.
	ReplyColor string
}

// TextRenderer emits one line per message: timestamp, weekday,
// color-coded sender, text, an inline excerpt of the reply thread and
// the attachment references.
type TextRenderer struct {
	dir      *directory.Directory
	library  *media.Library
	opts     TextOptions
	assigner *colorAssigner
}

// NewTextRenderer creates a TextRenderer.
func NewTextRenderer(dir *directory.Directory, library *media.Library, opts TextOptions) *TextRenderer {
	if len(opts.Palette) == 0 {
		opts.Palette = DefaultTextPalette
	}
	if opts.ReplyColor == "" {
		opts.ReplyColor = DefaultReplyColor
	}
	if opts.Me == "" {
		opts.Me = "Me"
	}
	return &TextRenderer{
		dir:      dir,
		library:  library,
		opts:     opts,
		assigner: newColorAssigner(),
	}
}

// Render writes the whole collection to w in timestamp order.
func (r *TextRenderer) Render(w io.Writer, collection *models.MessageCollection) error {
	for _, message := range collection.Sorted() {
		if _, err := io.WriteString(w, r.renderLine(collection, message)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func (r *TextRenderer) renderLine(collection *models.MessageCollection, message *models.Message) string {
	date := message.Date.Format("2006-01-02 15:04:05")
	day := message.Date.Format("Mon")

	name := r.opts.Me
	if !message.IsFromMe {
		name = r.dir.HandleName(message.HandleID)
	}
	senderID := message.HandleID
	if message.IsFromMe {
		senderID = 0
	}
	who := r.colorize(name, PaletteColor(r.opts.Palette, r.assigner.ordinal(senderID)), true)

	line := fmt.Sprintf("<%s %s> %s: %s", day, date, who, message.Text)

	if excerpt := r.threadExcerpt(collection, message); excerpt != "" {
		line += " " + r.colorize("Reply to: "+excerpt, r.opts.ReplyColor, false)
	}
	if refs := r.attachmentRefs(message); refs != "" {
		line += " Attachments: " + refs
	}

	return line
}

// threadExcerpt brackets every ancestor of the message's thread,
// oldest first, stopping just before the message itself.
func (r *TextRenderer) threadExcerpt(collection *models.MessageCollection, message *models.Message) string {
	ancestors := threadAncestors(collection, message)
	if len(ancestors) == 0 {
		return ""
	}

	var b strings.Builder
	for _, ancestor := range ancestors {
		b.WriteString("[")
		b.WriteString(ancestor.Text)
		if refs := r.attachmentRefs(ancestor); refs != "" {
			b.WriteString(" Attachments: " + refs)
		}
		b.WriteString("] ")
	}
	return strings.TrimRight(b.String(), " ")
}

func (r *TextRenderer) attachmentRefs(message *models.Message) string {
	if len(message.AttachmentIDs) == 0 {
		return ""
	}

	refs := make([]string, 0, len(message.AttachmentIDs))
	for _, id := range message.AttachmentIDs {
		att, ok := r.library.Get(id)
		if !ok || att.Missing {
			refs = append(refs, "(missing)")
			continue
		}
		if att.Skip {
			continue
		}
		refs = append(refs, att.OriginalPath)
	}
	return strings.Join(refs, ", ")
}

func (r *TextRenderer) colorize(text, color string, bold bool) string {
	if !r.opts.UseColor {
		return text
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	if bold {
		style = style.Bold(true)
	}
	return style.Render(text)
}
