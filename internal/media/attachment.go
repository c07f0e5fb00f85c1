package media

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/tOgg1/chatlog/internal/db"
	"github.com/tOgg1/chatlog/internal/logging"
	"github.com/tOgg1/chatlog/internal/models"
)

// maxDestPathLen bounds the full destination path so it stays under
// common filesystem limits with room to spare.
const maxDestPathLen = 200

// collapseMarker joins the preserved head and tail of an over-long
// destination filename.
const collapseMarker = "___"

// minDestNameLen is the smallest destination filename worth writing;
// anything shorter loses the extension and collides trivially.
const minDestNameLen = len(collapseMarker) + 8

// Options controls attachment processing during the full scan.
type Options struct {
	// Copy enables copying attachments into Dir.
	Copy bool

	// Dir is the attachment destination directory.
	Dir string

	// HomeDir replaces the leading ~ of stored attachment paths.
	// Defaults to the current user's home directory.
	HomeDir string
}

// NewAttachment builds an Attachment from a raw row: expands the
// stored path, stats the source, classifies the type and derives the
// destination. A missing source short-circuits everything else.
func NewAttachment(row db.AttachmentRow, opts Options) *models.Attachment {
	home := opts.HomeDir
	if home == "" {
		home, _ = os.UserHomeDir()
	}

	att := &models.Attachment{
		RowID:        row.RowID,
		MimeType:     row.MimeType,
		OriginalPath: strings.Replace(row.Filename, "~", home, 1),
	}

	if _, err := os.Stat(att.OriginalPath); err != nil {
		att.Missing = true
		return att
	}

	copyEnabled := opts.Copy
	if opts.Dir == "" {
		copyEnabled = false
	} else if _, err := os.Stat(opts.Dir); err != nil {
		copyEnabled = false
	}
	att.Copy = copyEnabled

	c := Classify(row.MimeType, row.Filename)
	att.Popup = c.Popup
	att.Conversion = c.Conversion
	att.Skip = c.Skip

	if !copyEnabled {
		att.DestinationPath = att.OriginalPath
		return att
	}

	// Basenames repeat across attachment folders, so the parent
	// directory name goes into the destination filename.
	parent := filepath.Base(filepath.Dir(att.OriginalPath))
	name := parent + "-" + filepath.Base(att.OriginalPath)
	name = strings.ReplaceAll(name, " ", "_")
	name += conversionExtension(att.Conversion)

	budget := maxDestPathLen - len(opts.Dir) - 1
	if budget < minDestNameLen {
		// The directory alone blows the path limit; leave the file
		// where it is rather than produce an unusable destination.
		logger := logging.Component("media")
		logger.Warn().
			Str("dir", opts.Dir).
			Msg("attachment directory path too long, copying disabled")
		att.Copy = false
		att.DestinationPath = att.OriginalPath
		return att
	}
	att.DestinationName = collapseName(name, budget)
	att.DestinationPath = filepath.Join(opts.Dir, att.DestinationName)

	return att
}

// collapseName bounds a filename to max bytes by collapsing the
// middle, keeping an equal-length recognizable prefix and suffix.
// Cuts land on rune boundaries so the result stays valid UTF-8.
func collapseName(name string, max int) string {
	if len(name) <= max {
		return name
	}
	if max <= len(collapseMarker)+2 {
		return truncateToRune(name, max)
	}
	keep := (max - len(collapseMarker)) / 2
	tail := len(name) - keep
	for tail < len(name) && !utf8.RuneStart(name[tail]) {
		tail++
	}
	return truncateToRune(name, keep) + collapseMarker + name[tail:]
}

// truncateToRune cuts s to at most n bytes without splitting a rune.
func truncateToRune(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
