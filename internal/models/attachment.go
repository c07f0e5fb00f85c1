package models

// PopupKind is the display affordance category for an attachment.
type PopupKind string

// Popup kinds.
const (
	PopupNone    PopupKind = ""
	PopupPicture PopupKind = "picture"
	PopupAudio   PopupKind = "audio"
	PopupVideo   PopupKind = "video"
	PopupGeneric PopupKind = "generic"
)

// ConversionKind is the transcoding operation an attachment needs
// before a browser can display it.
type ConversionKind string

// Conversion kinds.
const (
	ConvertNone      ConversionKind = ""
	ConvertHEICToPNG ConversionKind = "heic-to-png"
	ConvertAudio     ConversionKind = "audio"
	ConvertVideo     ConversionKind = "video"
)

// Attachment is one row of the attachment table plus the derived
// classification and destination. Created once during the full scan;
// only the copy/convert side effect touches the filesystem afterwards.
//
// When Missing is true no derived field is meaningful.
type Attachment struct {
	// RowID is the attachment table row identifier.
	RowID int64

	// MimeType is the declared MIME type, empty when the column is NULL.
	MimeType string

	// OriginalPath is the source path with ~ expanded.
	OriginalPath string

	// DestinationPath is where the copied/converted file goes. Equal to
	// OriginalPath when copying is disabled.
	DestinationPath string

	// DestinationName is the sanitized destination filename.
	DestinationName string

	// Popup is the derived display category.
	Popup PopupKind

	// Conversion is the derived transcode requirement.
	Conversion ConversionKind

	// Copy reports whether the attachment should be copied into the
	// attachment directory.
	Copy bool

	// Skip marks attachments not worth displaying (unrecognized
	// extensionless binaries and the like).
	Skip bool

	// Missing marks attachments whose source file is absent from disk.
	Missing bool
}
