package chat

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat turn. ContextUsed lists the ids of the
// experiences that were retrieved to ground an assistant reply.
type Message struct {
	ID          string    `json:"id"`
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	ContextUsed []string  `json:"context_used,omitempty"`
}

func newMessage(role, content string) Message {
	return Message{
		ID:        "msg_" + uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// UserMessage builds a user-role message.
func UserMessage(content string) Message {
	return newMessage(RoleUser, content)
}

// AssistantMessage builds an assistant-role message carrying the ids of the
// experiences used as context.
func AssistantMessage(content string, contextUsed []string) Message {
	msg := newMessage(RoleAssistant, content)
	msg.ContextUsed = contextUsed
	return msg
}
