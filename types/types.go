package types

// Message represents a single turn in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// StreamHandler receives incremental text fragments from a generation.
// Returning an error aborts the stream.
type StreamHandler func(delta string) error

// HistoryItem is a prior conversation turn as sent by the client.
type HistoryItem struct {
	Content string `json:"content"`
	IsBot   bool   `json:"is_bot"`
}

// Message converts a history item to a conversation message.
func (h HistoryItem) Message() Message {
	role := RoleUser
	if h.IsBot {
		role = RoleAssistant
	}
	return Message{Role: role, Content: h.Content}
}
