package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// FallbackReply is shown in place of the assistant's answer when the chat
// endpoint fails.
const FallbackReply = "Sorry, I encountered an error. Please try again."

// ErrEmptyMessage is returned by Send for blank input.
var ErrEmptyMessage = errors.New("message is empty")

// Turn is one message in a conversation.
type Turn struct {
	Text   string `json:"text"`
	IsUser bool   `json:"is_user"`
}

// Responder produces the assistant reply for a message.
type Responder interface {
	GenerateResponse(ctx context.Context, prompt string, mode Mode) (string, error)
}

// Conversation is an append-only list of turns. Turns are never edited;
// Reset drops them all.
type Conversation struct {
	ID uuid.UUID

	responder Responder

	mu    sync.RWMutex
	turns []Turn
}

func NewConversation(responder Responder) *Conversation {
	return &Conversation{
		ID:        uuid.New(),
		responder: responder,
	}
}

// Send appends the user's message, asks the responder and appends its reply.
// On failure the fallback reply is appended instead and the responder's error
// is returned alongside it so the caller can log it.
func (c *Conversation) Send(ctx context.Context, text string, mode Mode) (Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Turn{}, ErrEmptyMessage
	}

	c.append(Turn{Text: text, IsUser: true})

	reply, err := c.responder.GenerateResponse(ctx, text, mode)
	if err != nil {
		reply = FallbackReply
	}

	turn := Turn{Text: reply, IsUser: false}
	c.append(turn)
	return turn, err
}

func (c *Conversation) append(t Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, t)
}

// Turns returns a copy of the conversation so far.
func (c *Conversation) Turns() []Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append(make([]Turn, 0, len(c.turns)), c.turns...)
}

// Reset clears every turn.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = nil
}
