// Package media classifies, copies and transcodes message attachments.
package media

import (
	"strings"

	"github.com/tOgg1/chatlog/internal/models"
)

// Classification is the derived display/transcode decision for an
// attachment. Classify is a pure function of its inputs.
type Classification struct {
	Popup      models.PopupKind
	Conversion models.ConversionKind
	Skip       bool
}

// Classify decides how an attachment is displayed and whether it needs
// transcoding before a browser can render it. mimeType is empty when
// the attachment row has no declared type.
func Classify(mimeType, filename string) Classification {
	if mimeType == "" {
		// Extensionless or unknown binaries are not worth displaying.
		// CAF audio is the one untyped format that is.
		if strings.HasSuffix(filename, ".caf") {
			return Classification{Popup: models.PopupAudio, Conversion: models.ConvertAudio}
		}
		return Classification{Skip: true}
	}

	switch {
	case strings.HasPrefix(mimeType, "image"):
		c := Classification{Popup: models.PopupPicture}
		if mimeType == "image/heic" {
			c.Conversion = models.ConvertHEICToPNG
		}
		return c

	case strings.HasPrefix(mimeType, "audio"):
		// Always transcoded, even formats a browser could already play.
		// Matches the upstream behavior; wasteful but not wrong.
		return Classification{Popup: models.PopupAudio, Conversion: models.ConvertAudio}

	case strings.HasPrefix(mimeType, "video"):
		c := Classification{Popup: models.PopupVideo}
		if mimeType != "video/mp4" {
			c.Conversion = models.ConvertVideo
		}
		return c
	}

	return Classification{Popup: models.PopupGeneric}
}

// conversionExtension returns the filename extension appended after a
// conversion, "" when the file is kept as-is.
func conversionExtension(kind models.ConversionKind) string {
	switch kind {
	case models.ConvertHEICToPNG:
		return ".png"
	case models.ConvertAudio:
		return ".mp3"
	case models.ConvertVideo:
		return ".mp4"
	}
	return ""
}
