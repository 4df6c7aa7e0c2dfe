package models

// Role identifies the author of a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in the conversation. Messages are values: once appended
// to a session log they are never modified.
type Message struct {
	Role      Role     `json:"role"`
	Content   string   `json:"content"`
	TableData []Record `json:"table_data"` // nil → null, empty → []
	GeoData   []Record `json:"geo_data"`
	SQLQuery  string   `json:"sql_query,omitempty"`
}

// NewUserMessage creates a user turn. User turns never carry result data.
func NewUserMessage(prompt string) Message {
	return Message{Role: RoleUser, Content: prompt}
}

// NewAssistantMessage creates an assistant turn from a normalized reply
func NewAssistantMessage(reply *ChatReply) Message {
	if reply == nil {
		return Message{Role: RoleAssistant, Content: NoResponseText}
	}
	content := reply.Output
	if content == "" {
		content = NoResponseText
	}
	return Message{
		Role:      RoleAssistant,
		Content:   content,
		TableData: reply.TableData,
		GeoData:   reply.GeoData,
		SQLQuery:  reply.SQLQuery,
	}
}

// NewErrorMessage creates an assistant turn describing a failed request
func NewErrorMessage(chatURL string, cause error) Message {
	return Message{Role: RoleAssistant, Content: ConnectionErrorContent(chatURL, cause)}
}

// IsUser reports whether the message was authored by the user
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// IsAssistant reports whether the message was authored by the backend
func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

// IsPending reports whether the message is the "reply pending" placeholder
func (m Message) IsPending() bool {
	return m.Content == PendingContent
}

// IsVisualizable reports whether the message carries table or geo data.
// An empty but present array still counts.
func (m Message) IsVisualizable() bool {
	return m.IsAssistant() && (m.TableData != nil || m.GeoData != nil)
}

// Copyable reports whether the message can be copied to the clipboard
func (m Message) Copyable() bool {
	return m.IsAssistant() && m.Content != "" && !m.IsPending()
}

// ChatReply is the normalized backend payload, independent of whether the
// backend sent it flat or wrapped in {"data": ...}.
type ChatReply struct {
	Output    string
	TableData []Record
	GeoData   []Record
	SQLQuery  string
}

// LatestVisualization returns the newest assistant message that carries table
// or geo data, scanning from the end of the log. ok is false when none exists.
func LatestVisualization(log []Message) (msg Message, index int, ok bool) {
	for i := len(log) - 1; i >= 0; i-- {
		if log[i].IsVisualizable() {
			return log[i], i, true
		}
	}
	return Message{}, -1, false
}
