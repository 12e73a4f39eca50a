package conversation

import (
	"context"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is one role-tagged entry in a conversation's history. Content is nil
// when the model reply carried no text. Turns are immutable once appended;
// the only mutation history ever sees is whole-window trimming.
type Turn struct {
	Role      Role      `json:"role"`
	Content   *string   `json:"content"`
	Images    []string  `json:"images,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ExchangeResult is the outcome of one message exchange. Error is populated
// only when Success is false.
type ExchangeResult struct {
	ConversationID string   `json:"conversation_id"`
	Text           *string  `json:"text,omitempty"`
	ImagePaths     []string `json:"image_paths"`
	Success        bool     `json:"success"`
	Error          string   `json:"error,omitempty"`
}

// InlinePayload is a binary blob embedded in a model reply, usually a
// generated image.
type InlinePayload struct {
	MIMEType string
	Data     []byte
}

// ModelReply is the extracted content of one model response: optional plain
// text plus inline payloads in the order they appeared.
type ModelReply struct {
	Text   string
	Images []InlinePayload
}

// ChatSession is the remote multi-turn chat handle owned by exactly one
// conversation. The remote service keeps the turn context server-side.
type ChatSession interface {
	Send(ctx context.Context, text string) (*ModelReply, error)
}

// SessionOpener starts fresh chat sessions configured for text and image
// output.
type SessionOpener interface {
	OpenSession(ctx context.Context) (ChatSession, error)
}
