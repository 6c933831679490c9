package conversation

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Role identifies who produced a message in an interview conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn entry: the interviewer prompt, a candidate
// utterance, or an assistant reply.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is the ordered message log of one interview session.
// Order is significant: it encodes turn order and question/answer pairing.
type Conversation []Message

var (
	ErrEmptyConversation   = errors.New("conversation is empty")
	ErrMissingSystemPrompt = errors.New("first message is not a system message")
	ErrStraySystemMessage  = errors.New("system message found after the first position")
	ErrUnknownRole         = errors.New("unknown message role")
)

// New creates a fresh conversation holding only the interviewer system prompt.
func New(systemPrompt string) Conversation {
	return Conversation{{Role: RoleSystem, Content: systemPrompt}}
}

// Validate checks the structural invariants: exactly one system message,
// always first, and no unrecognized roles anywhere.
func (c Conversation) Validate() error {
	if len(c) == 0 {
		return ErrEmptyConversation
	}
	if c[0].Role != RoleSystem {
		return ErrMissingSystemPrompt
	}
	for i, msg := range c[1:] {
		switch msg.Role {
		case RoleUser, RoleAssistant:
		case RoleSystem:
			return fmt.Errorf("%w (position %d)", ErrStraySystemMessage, i+1)
		default:
			return fmt.Errorf("%w: %q (position %d)", ErrUnknownRole, msg.Role, i+1)
		}
	}
	return nil
}

// Append returns a new conversation with msg added at the end. The receiver
// is never mutated, so a failed operation can discard its working copy
// without touching the caller's log.
func (c Conversation) Append(msg Message) Conversation {
	out := make(Conversation, len(c), len(c)+1)
	copy(out, c)
	return append(out, msg)
}

// Encode serializes the conversation as an ordered JSON array of
// {role, content} records.
func Encode(c Conversation) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode conversation: %w", err)
	}
	return data, nil
}

// Decode restores a conversation from its JSON form and validates the
// structural invariants before handing it back.
func Decode(data []byte) (Conversation, error) {
	var c Conversation
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode conversation: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
