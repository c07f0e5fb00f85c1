package decode

import (
	"sort"
	"strconv"

	"howett.net/plist"

	"github.com/tOgg1/chatlog/internal/db"
	"github.com/tOgg1/chatlog/internal/logging"
	"github.com/tOgg1/chatlog/internal/models"
)

// messageSummary mirrors the slice of message_summary_info we care
// about: the "ec" key maps message part indexes to their edit records.
type messageSummary struct {
	EditedParts map[string][]editRecord `plist:"ec"`
}

type editRecord struct {
	Text []byte  `plist:"t"`
	Date float64 `plist:"d"`
}

// EditHistory parses the binary edit-summary plist of a message.
// Wrong format, missing key, undecodable entries: all yield an empty
// list, never an error. One corrupt record must not stop the load.
func EditHistory(raw []byte) []models.Edit {
	if len(raw) == 0 {
		return nil
	}

	var summary messageSummary
	if _, err := plist.Unmarshal(raw, &summary); err != nil {
		logger := logging.Component("decode")
		logger.Warn().Err(err).Msg("failed to parse edit summary plist")
		return nil
	}
	if len(summary.EditedParts) == 0 {
		return nil
	}

	// Part keys are decimal indexes; lexicographic order would put
	// "10" before "2".
	parts := make([]string, 0, len(summary.EditedParts))
	for part := range summary.EditedParts {
		parts = append(parts, part)
	}
	sort.Slice(parts, func(i, j int) bool {
		a, aerr := strconv.Atoi(parts[i])
		b, berr := strconv.Atoi(parts[j])
		if aerr != nil || berr != nil {
			return parts[i] < parts[j]
		}
		return a < b
	})

	var edits []models.Edit
	for _, part := range parts {
		for _, record := range summary.EditedParts[part] {
			text, ok := AttributedBody(record.Text)
			if !ok {
				continue
			}
			edits = append(edits, models.Edit{
				Text: text,
				Date: db.AppleTime(int64(record.Date * 1e9)),
			})
		}
	}

	return edits
}
