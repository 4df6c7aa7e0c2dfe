package session

import "github.com/diogo/floatchat/internal/models"

// Snapshot is the projection the rendering layer reads
type Snapshot struct {
	Messages []models.Message
	Busy     bool
	Layout   models.LayoutMode
}

// Display returns the messages to draw, with a pending assistant bubble
// appended while a request is outstanding. The bubble is never part of the log.
func (s Snapshot) Display() []models.Message {
	if !s.Busy {
		return s.Messages
	}
	out := make([]models.Message, len(s.Messages), len(s.Messages)+1)
	copy(out, s.Messages)
	return append(out, models.Message{Role: models.RoleAssistant, Content: models.PendingContent})
}

// LatestVisualization returns the newest message carrying table or geo data
func (s Snapshot) LatestVisualization() (models.Message, bool) {
	msg, _, ok := models.LatestVisualization(s.Messages)
	return msg, ok
}

// LastReply returns the newest assistant message, if any
func (s Snapshot) LastReply() (models.Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].IsAssistant() {
			return s.Messages[i], true
		}
	}
	return models.Message{}, false
}
