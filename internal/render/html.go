package render

import (
	"context"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tOgg1/chatlog/internal/directory"
	"github.com/tOgg1/chatlog/internal/logging"
	"github.com/tOgg1/chatlog/internal/media"
	"github.com/tOgg1/chatlog/internal/models"
)

// Default HTML palettes. Any CSS color name works in the config.
var (
	DefaultHTMLBackgroundPalette = []string{"AliceBlue", "Cyan", "Gold", "Lavender", "LightGreen", "PeachPuff", "Wheat"}
	DefaultHTMLNamePalette       = []string{"Blue", "DarkCyan", "DarkGoldenRod", "Purple", "DarkGreen", "Orange", "Sienna"}
)

// DefaultThreadBackground is the bubble color behind reply threads.
const DefaultThreadBackground = "HoneyDew"

// HTMLOptions configures the HTML renderer.
type HTMLOptions struct {
	// Title is the page title, usually the conversation name.
	Title string

	// Me is the display name for messages sent by the local user.
	Me string

	// Inline embeds pictures and videos in the page instead of
	// showing them in a hover popup.
	Inline bool

	// PopupFloating places the hover popup next to each attachment
	// instead of in a fixed corner box.
	PopupFloating bool

	// PopupLocation picks the corner for the fixed box, "upper right"
	// or "upper left".
	PopupLocation string

	// BackgroundPalette and NamePalette are the cyclic per-participant
	// message and name colors.
	BackgroundPalette []string
	NamePalette       []string

	// ThreadBackground is the color behind reply-thread excerpts.
	ThreadBackground string

	// AdditionalDetails adds a per-message info toggle with the
	// underlying chat row id.
	AdditionalDetails bool

	// Split is the row count threshold for starting a new output
	// file. The split itself waits for the next day boundary so a day
	// is never cut in half. Zero disables splitting.
	Split int

	// Start and End, when set, are mentioned in the page summary.
	Start *time.Time
	End   *time.Time
}

// HTMLRenderer writes a message collection as one or more styled HTML
// pages: messages grouped in per-day tables, reply threads shown as
// mini-tables above the reply, attachments copied or converted on
// demand as they are referenced.
type HTMLRenderer struct {
	dir       *directory.Directory
	library   *media.Library
	converter *media.Converter
	opts      HTMLOptions
	assigner  *colorAssigner
	logger    zerolog.Logger
}

// NewHTMLRenderer creates an HTMLRenderer.
func NewHTMLRenderer(dir *directory.Directory, library *media.Library, converter *media.Converter, opts HTMLOptions) *HTMLRenderer {
	if len(opts.BackgroundPalette) == 0 {
		opts.BackgroundPalette = DefaultHTMLBackgroundPalette
	}
	if len(opts.NamePalette) == 0 {
		opts.NamePalette = DefaultHTMLNamePalette
	}
	if opts.ThreadBackground == "" {
		opts.ThreadBackground = DefaultThreadBackground
	}
	if opts.Me == "" {
		opts.Me = "Me"
	}
	if opts.Title == "" {
		opts.Title = "Messages"
	}
	return &HTMLRenderer{
		dir:       dir,
		library:   library,
		converter: converter,
		opts:      opts,
		assigner:  newColorAssigner(),
		logger:    logging.Component("render"),
	}
}

// Render writes the whole collection to w as a single HTML document.
func (r *HTMLRenderer) Render(ctx context.Context, w io.Writer, collection *models.MessageCollection) error {
	sink := &pageSink{renderer: r, w: w, header: r.summaryLine(collection)}
	return r.render(ctx, sink, collection)
}

// RenderFiles writes the collection to base+".html", starting a new
// numbered file at each day boundary past the split threshold.
func (r *HTMLRenderer) RenderFiles(ctx context.Context, base string, collection *models.MessageCollection) error {
	sink := &pageSink{
		renderer: r,
		base:     strings.TrimSuffix(base, ".html"),
		split:    r.opts.Split,
		header:   r.summaryLine(collection),
	}
	if err := sink.openFile(); err != nil {
		return err
	}
	return r.render(ctx, sink, collection)
}

func (r *HTMLRenderer) render(ctx context.Context, sink *pageSink, collection *models.MessageCollection) error {
	if err := sink.begin(); err != nil {
		return err
	}

	previousDay := ""
	for _, message := range collection.Sorted() {
		day := message.Date.Format("2006-01-02")
		if day != previousDay {
			previousDay = day
			if err := sink.dayBoundary(message.Date); err != nil {
				return err
			}
		}
		if err := sink.writeRow(r.renderRow(ctx, collection, message)); err != nil {
			return err
		}
	}

	return sink.close()
}

func (r *HTMLRenderer) summaryLine(collection *models.MessageCollection) string {
	window := ""
	if r.opts.Start != nil {
		window = " from " + r.opts.Start.Format("2006-01-02 15:04:05")
	}
	if r.opts.End != nil {
		window += " until " + r.opts.End.Format("2006-01-02 15:04:05")
	}
	return fmt.Sprintf("Exchanged %d total messages with %s%s.",
		collection.Len(), html.EscapeString(r.opts.Title), window)
}

type nameInfo struct {
	name       string
	style      string
	background string
	color      string
}

func (r *HTMLRenderer) nameFor(message *models.Message) nameInfo {
	if message.IsFromMe {
		ordinal := r.assigner.ordinal(0)
		return nameInfo{
			name:       r.opts.Me,
			style:      "me",
			background: PaletteColor(r.opts.BackgroundPalette, ordinal),
			color:      PaletteColor(r.opts.NamePalette, ordinal),
		}
	}
	ordinal := r.assigner.ordinal(message.HandleID)
	return nameInfo{
		name:       r.dir.HandleName(message.HandleID),
		style:      "them",
		background: PaletteColor(r.opts.BackgroundPalette, ordinal),
		color:      PaletteColor(r.opts.NamePalette, ordinal),
	}
}

// renderRow produces one main-table row: date cell, name cell and a
// nested table holding the hidden edit history, the message bubble
// with any thread excerpt and attachments, and the optional info cell.
func (r *HTMLRenderer) renderRow(ctx context.Context, collection *models.MessageCollection, message *models.Message) string {
	who := r.nameFor(message)

	threadTable := ""
	if ancestors := threadAncestors(collection, message); len(ancestors) > 0 {
		threadTable = r.renderThreadTable(ancestors, who.style)
	}

	text := autolink(html.EscapeString(message.Text)) + r.renderAttachments(ctx, message)

	editedButton := ""
	editRow := ""
	if len(message.Edits) > 0 {
		var edits strings.Builder
		fmt.Fprintf(&edits, "<div class=\"edits_%s\">\n", who.style)
		for _, edit := range message.Edits {
			fmt.Fprintf(&edits, "&quot;%s&quot; <p>\n", html.EscapeString(edit.Text))
		}
		edits.WriteString("</div>\n")
		editedButton = fmt.Sprintf(`<sub><button class="edited_button" onclick="ToggleDisplay('%deditTable')"> Edited </button></sub>`, message.RowID)
		editRow = fmt.Sprintf("<tr id=\"%deditTable\" class=\"edits\">\n<td>\n%s</td>\n</tr>\n",
			message.RowID, edits.String())
	}

	infoCell := ""
	infoButton := ""
	if r.opts.AdditionalDetails {
		infoCell = fmt.Sprintf("<td class=\"infocell\" id=\"%dinfo\">\n<table>\n<tr>\n<td> ChatID: %d </td>\n</tr>\n</table>\n</td>\n",
			message.RowID, message.ChatID)
		infoButton = fmt.Sprintf("<td class=\"button-wrapper\"> <button class=\"text_%s\" onclick=\"ToggleDisplay('%dinfo')\"> &#8505; </button> </td>\n",
			who.style, message.RowID)
	}

	dateCell := fmt.Sprintf("<td class=\"date\"> %s %s </td>\n",
		message.Date.Format("Mon"), message.Date.Format("2006-01-02 15:04:05"))
	nameCell := fmt.Sprintf("<td class=\"name_%s\" style=\"color: %s;\"> %s: </td>\n",
		who.style, who.color, html.EscapeString(who.name))
	textCell := fmt.Sprintf("<td>\n<table>\n%s<tr>\n<td class=\"text_%s\" style=\"background: %s;\">\n%s%s %s\n</td>\n%s%s</tr>\n</table>\n</td>\n",
		editRow, who.style, who.background, threadTable, text, editedButton, infoCell, infoButton)

	return fmt.Sprintf("<tr id=\"%d\">\n%s%s%s</tr>\n", message.RowID, dateCell, nameCell, textCell)
}

// renderThreadTable shows the earlier messages of a reply thread as
// small buttons linking back to the full rows.
func (r *HTMLRenderer) renderThreadTable(ancestors []*models.Message, style string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<table class=\"thread_table_%s\">\n", style)
	for _, ancestor := range ancestors {
		who := r.nameFor(ancestor)
		fmt.Fprintf(&b, "<tr>\n<td class=\"reply_name\" style=\"color: %s;\"> %s: </td>\n",
			who.color, html.EscapeString(who.name))
		fmt.Fprintf(&b, "<td class=\"reply_text_thread\">\n<a href=\"#%d\">\n<button class=\"reply_text_%s\" style=\"background: %s;\"> %s</button>\n</a>\n</td>\n</tr>\n",
			ancestor.RowID, style, who.background, autolink(html.EscapeString(ancestor.Text)))
	}
	b.WriteString("</table>\n<p>\n")
	return b.String()
}

const missingSpan = ` <span class="missing"> Attachment missing </span> `

// renderAttachments materializes and references each attachment of the
// message. Copies and conversions happen here, on first reference, so
// an export only pays for attachments that appear in the output. A
// failed copy or conversion degrades that one attachment to a missing
// marker.
func (r *HTMLRenderer) renderAttachments(ctx context.Context, message *models.Message) string {
	if len(message.AttachmentIDs) == 0 {
		return ""
	}

	var b strings.Builder
	for _, id := range message.AttachmentIDs {
		attachment, ok := r.library.Get(id)
		if !ok || attachment.Missing {
			b.WriteString(missingSpan)
			continue
		}
		if attachment.Skip {
			continue
		}

		if err := r.converter.Ensure(ctx, attachment); err != nil {
			r.logger.Warn().Err(err).Str("path", attachment.OriginalPath).Msg("attachment unavailable")
			b.WriteString(missingSpan)
			continue
		}

		boxName := "picbox"
		imageBox := ""
		if r.opts.PopupFloating {
			boxName = fmt.Sprintf("PopUp%d", attachment.RowID)
			imageBox = fmt.Sprintf(`<div class="imageBox" id="%s">  <img src="" /> </div>`, boxName)
		}

		path := html.EscapeString(htmlPath(attachment))
		var ref string
		switch attachment.Popup {
		case models.PopupPicture:
			if r.opts.Inline {
				ref = fmt.Sprintf("<p><a href=\"%s\" target=\"_blank\"><img src=\"%s\"/><p> %s </a>\n", path, path, path)
			} else {
				ref = fmt.Sprintf("<a href=\"%s\" target=\"_blank\" onMouseOver=\"ShowPicture('%s',1,'%s')\" onMouseOut=\"ShowPicture('%s',0)\"> %s </a>\n",
					path, boxName, path, boxName, path)
			}
		case models.PopupAudio:
			// Audio is always inline, a popup player is useless.
			ref = fmt.Sprintf("<p><audio controls>  <source src=\"%s\" type=\"audio/mp3\"></audio> <a href=\"%s\" target=\"_blank\"> %s </a>\n",
				path, path, path)
		case models.PopupVideo:
			if r.opts.Inline {
				ref = fmt.Sprintf("<p><video controls>  <source src=\"%s\" type=\"video/mp4\"></video> <p><a href=\"%s\" target=\"_blank\"> %s </a>\n",
					path, path, path)
			} else {
				ref = fmt.Sprintf("<a href=\"%s\" target=\"_blank\" onMouseOver=\"ShowMovie('%s', 1, '%s')\"> %s </a>\n",
					path, boxName, path, path)
			}
		default:
			ref = fmt.Sprintf("<a href=\"%s\" target=\"_blank\"> %s </a>\n", path, path)
		}

		b.WriteString(" <p> " + ref + " " + imageBox + " ")
	}
	return b.String()
}

// htmlPath is the path the browser should load: the copied or
// converted file when one exists, the library original otherwise.
func htmlPath(attachment *models.Attachment) string {
	if attachment.Copy && attachment.DestinationPath != "" {
		return attachment.DestinationPath
	}
	return attachment.OriginalPath
}

// pageSink writes rendered rows to a writer or a sequence of files.
// Day boundaries close the current per-day table and, past the split
// threshold, rotate to the next file with forward and back links.
type pageSink struct {
	renderer *HTMLRenderer

	w    io.Writer
	file *os.File
	base string

	split     int
	index     int
	rows      int
	header    string
	prevName  string
	prevRange string

	pageStart time.Time
	pageEnd   time.Time
	haveDates bool
}

func (s *pageSink) openFile() error {
	name := s.base + ".html"
	if s.index > 0 {
		name = fmt.Sprintf("%s_%02d.html", s.base, s.index)
	}
	file, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	s.file = file
	s.w = file
	return nil
}

func (s *pageSink) currentName() string {
	if s.index > 0 {
		return fmt.Sprintf("%s_%02d.html", filepath.Base(s.base), s.index)
	}
	return filepath.Base(s.base) + ".html"
}

// begin writes the page prologue: head, summary line, popup box and
// the navigation bar linking back to the previous page.
func (s *pageSink) begin() error {
	nav := "<td style=\"width: 33%;\"> </td>\n<td style=\"width: 33%;\"> </td>\n"
	if s.prevName != "" {
		nav = fmt.Sprintf("<td style=\"text-align: left; width: 33%%;\"><a href=\"%s\"> &lt; </a></td>\n"+
			"<td style=\"text-align: center; width: 33%%;\"><div class=\"next_file\"><a href=\"%s\"> Previous Messages %s</a></div></td>\n",
			s.prevName, s.prevName, s.prevRange)
	}

	_, err := fmt.Fprintf(s.w, "%s<body>\n<div id=\"file_summary\">%s</div><p>\n"+
		"<div class=\"picboxframe\" id=\"picbox\"> <img src=\"\" /> </div>\n"+
		"<table style=\"table-layout: fixed;\">\n<tr>\n%s"+
		"<td style=\"text-align: right; width: 33%%;\" id=\"next_page\"> </td>\n</tr>\n</table>\n\n"+
		"<table class=\"main_table\">\n",
		s.renderer.head(), s.header, nav)
	return err
}

func (s *pageSink) writeRow(row string) error {
	s.rows++
	_, err := io.WriteString(s.w, row)
	return err
}

// dayBoundary closes the current per-day table and opens the next one,
// rotating to a new file first when the page is over the threshold.
func (s *pageSink) dayBoundary(date time.Time) error {
	if s.rows > 0 {
		if _, err := io.WriteString(s.w, "</table>\n\n"); err != nil {
			return err
		}
		if s.file != nil && s.split > 0 && s.rows > s.split {
			// begin on the fresh file reopens the main table.
			if err := s.rotate(); err != nil {
				return err
			}
		} else if _, err := io.WriteString(s.w, "<table class=\"main_table\">\n"); err != nil {
			return err
		}
	}

	if !s.haveDates {
		s.pageStart = date
		s.haveDates = true
	}
	s.pageEnd = date
	return nil
}

func (s *pageSink) pageSummary() string {
	if !s.haveDates {
		return ""
	}
	return fmt.Sprintf(" This page contains %d messages from %s to %s.",
		s.rows, s.pageStart.Format("Monday 2006-01-02"), s.pageEnd.Format("Monday 2006-01-02"))
}

// summaryScript appends the page range to the summary line after the
// whole page has loaded.
func (s *pageSink) summaryScript(extra string) string {
	return fmt.Sprintf("<script>\nel = document.getElementById(\"file_summary\")\nel.innerHTML = el.innerHTML.concat(\"%s\")\n%s</script>\n",
		s.pageSummary(), extra)
}

func (s *pageSink) rotate() error {
	s.prevName = s.currentName()
	s.prevRange = fmt.Sprintf("<br><div style=\"font-size: 50%%;\">(%s to %s)</div>",
		s.pageStart.Format("Monday 2006-01-02"), s.pageEnd.Format("Monday 2006-01-02"))
	s.index++
	next := s.currentName()

	if _, err := fmt.Fprintf(s.w, "<p><div class=\"next_file\"><a href=\"%s\"> Next Messages </a></div>\n", next); err != nil {
		return err
	}
	nextPage := fmt.Sprintf("document.getElementById(\"next_page\").innerHTML = \"<a href='%s'> Next Page &gt; </a>\"\n", next)
	if _, err := io.WriteString(s.w, s.summaryScript(nextPage)+"</body>\n</html>\n"); err != nil {
		return err
	}
	if err := s.file.Close(); err != nil {
		return err
	}

	s.renderer.logger.Info().Str("file", next).Msg("starting next output file")
	s.rows = 0
	s.haveDates = false
	if err := s.openFile(); err != nil {
		return err
	}
	return s.begin()
}

func (s *pageSink) close() error {
	if _, err := io.WriteString(s.w, "</table>\n"); err != nil {
		return err
	}
	if _, err := io.WriteString(s.w, s.summaryScript("")+"</body>\n</html>\n"); err != nil {
		return err
	}
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

const htmlScript = `<script>
function ToggleDisplay(id) {
  if (document.getElementById(id).style.display == "none") {
      document.getElementById(id).style.display = "inline";
  }
  else {
      document.getElementById(id).style.display = "none";
  }
}

function ShowPicture(id, show, img) {
  if (show == "1") {
    document.getElementById(id).style.visibility = "visible"
    document.getElementById(id).childNodes[1].src = img;
  }
  else if (show == "0") {
    document.getElementById(id).style.visibility = "hidden"
  }
}

function ShowMovie(id, show, movie) {
  var elem = document.getElementById(id);
  var htmlstring = "<video controls onMouseOut='ShowMovie(\"" + id + "\",0)'> <source src='" + movie + "'> </video>";
  if (show == "1") {
    elem.style.visibility = "visible";
    elem.innerHTML = htmlstring;
  } else if (show == "0") {
    elem.style.visibility = "hidden";
    elem.innerHTML = " "
  }
}
</script>`

const htmlCSS = `<style>
table {
    width: 100%;
    table-layout: auto;
}

table.main_table {
    border-bottom: 3px solid black;
    border-spacing: 8px;
}

table.thread_table_me {
    width: 50%;
    margin-right: 0px;
    margin-left: auto;
    background: {{THREAD_BG}};
    padding: 5px;
    border-radius: 30px;
}

table.thread_table_them {
    width: 50%;
    margin-right: auto;
    margin-left: 0px;
    background: {{THREAD_BG}};
    padding: 5px;
    border-radius: 30px;
}

td {
    padding: 0px;
    margin: 0;
    line-height: 1;
}

td.date {
    text-align: left;
    width: 150px;
    vertical-align: text-middle;
    font-size: 80%;
}

td.name_me, td.name_them {
    text-align: right;
    font-weight: bold;
    width: 50px;
    padding-right: 5px;
    vertical-align: text-middle;
    font-size: 80%;
}

td.text_me {
    text-align: right;
    word-wrap: break-word;
    border-radius: 30px;
    padding: 15px;
    border-spacing: 40px;
}

td.text_them {
    text-align: left;
    word-wrap: break-word;
    border-radius: 30px;
    padding: 15px;
    border-spacing: 40px;
}

.edits_me {
    display: none;
    font-size: 70%;
    font-style: italic;
    text-align: right;
    border-radius: 30px;
}

.edits_them {
    display: none;
    font-size: 70%;
    font-style: italic;
    text-align: left;
    border-radius: 30px;
}

.infocell {
    margin-right: 0px;
    margin-left: auto;
    width: 20%;
    text-align: right;
    font-size: 70%;
    display: none;
}

button.edited_button {
    font-size: 50%;
    border-radius: 30px;
    padding-left: 0px;
    padding-right: 0px;
    border-spacing: 0px;
    border-bottom: 0px;
    margin-right: 0px;
    margin-left: 0px;
    text-align: center;
    border: 0px;
    color: blue;
    font-style: italic;
    background-color: transparent;
}

td.button-wrapper {
    margin-right: 0px;
    margin-left: 4px;
    padding-left: 0px;
    padding-right: 0px;
    border-spacing: 0px;
    text-align: center;
    width: 0.1%;
    background-color: transparent;
}

button.text_me, button.text_them {
    border-radius: 30px;
    font-size: 50%;
    padding-left: 0px;
    padding-right: 0px;
    border-spacing: 0px;
    border-bottom: 0px;
    margin-right: 0px;
    margin-left: 0px;
    text-align: center;
    border: 0px;
}

.reply_name {
    font-size: 50%;
    text-align: right;
}

.reply_text_me, .reply_text_them {
    border: 2px solid;
    border-radius: 50px;
    font-size: 60%;
}

td.blank {
    border: none;
    width: 50%;
}

.missing {
    color: red;
}

.imageBox {
    position: absolute;
    visibility: hidden;
    height: 200;
    border: solid 1px #CCC;
    padding: 5px;
}

img {
    height: 250px;
    width: auto;
}

.picboxframe {
    position: fixed;
    top: 2%;
    {{POPUP_SIDE}}: 2%;
    background: Blue;
    transition: all .5s ease;
}

.next_file {
    text-align: center;
    font-size: 150%;
}

#file_summary {
    font-style: italic;
}
</style>`

// head renders the document head with the stylesheet and scripts
// specialized to the display options.
func (r *HTMLRenderer) head() string {
	side := "right"
	if r.opts.PopupLocation == "upper left" {
		side = "left"
	}
	css := strings.NewReplacer(
		"{{THREAD_BG}}", r.opts.ThreadBackground,
		"{{POPUP_SIDE}}", side,
	).Replace(htmlCSS)

	return fmt.Sprintf("<!DOCTYPE html>\n<html lang=\"en-US\">\n<head>\n"+
		"<meta http-equiv=\"Content-Type\" content=\"text/html; charset=utf-8\" />\n"+
		"<title> %s </title>\n%s\n%s\n</head>\n",
		html.EscapeString(r.opts.Title), css, htmlScript)
}
