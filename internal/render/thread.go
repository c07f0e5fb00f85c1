package render

import "github.com/tOgg1/chatlog/internal/models"

// threadAncestors returns the thread messages preceding current,
// oldest first: the originator and every linked reply, stopping just
// before current itself. Nil when current is not part of a loaded
// thread (an originator absent from the filtered result set is not an
// error, the excerpt is simply omitted).
func threadAncestors(collection *models.MessageCollection, current *models.Message) []*models.Message {
	if current.ThreadOriginatorGUID == "" {
		return nil
	}
	originator, ok := collection.ByGUID(current.ThreadOriginatorGUID)
	if !ok {
		return nil
	}

	var ancestors []*models.Message
	for _, m := range collection.ThreadMessages(originator) {
		if m == current {
			break
		}
		ancestors = append(ancestors, m)
	}
	return ancestors
}
