// Package storage keeps the Telegram bridge's per-chat conversations in memory.
package storage

import (
	"maps"
	"sync"

	"github.com/google/uuid"

	"github.com/aliskhannn/quiz-fulfillment/internal/dialog"
)

// Awaiting is what the last response asked the user for.
type Awaiting int

const (
	AwaitIntent Awaiting = iota
	AwaitSlot
	AwaitConfirm
)

// Conversation is the caller-side state of one chat: the session attributes
// the core returned and the intent in progress.
type Conversation struct {
	SessionID  string
	Attributes map[string]string
	Intent     string
	Slots      map[string]*dialog.Slot
	Awaiting   Awaiting
	Slot       string
	// Fulfilled is set when the pending confirmation came from the fulfillment phase.
	Fulfilled bool
}

// NewConversation starts a conversation under a fresh session id.
func NewConversation() Conversation {
	return Conversation{
		SessionID:  uuid.NewString(),
		Attributes: map[string]string{},
	}
}

// Idle drops the intent in progress but keeps the session.
func (c Conversation) Idle() Conversation {
	c.Intent = ""
	c.Slots = nil
	c.Awaiting = AwaitIntent
	c.Slot = ""
	c.Fulfilled = false
	return c
}

func (c Conversation) clone() Conversation {
	c.Attributes = maps.Clone(c.Attributes)
	c.Slots = maps.Clone(c.Slots)
	return c
}

// ConversationStore provides in-memory storage for conversations by chat ID.
type ConversationStore struct {
	mu    sync.RWMutex
	convs map[int64]Conversation
}

// NewConversationStore creates a new ConversationStore.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		convs: make(map[int64]Conversation),
	}
}

// Get returns the chat's conversation, starting a new one if there is none.
func (s *ConversationStore) Get(chatID int64) Conversation {
	s.mu.RLock()
	c, ok := s.convs[chatID]
	s.mu.RUnlock()
	if ok {
		return c.clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.convs[chatID]; ok {
		return c.clone()
	}
	c = NewConversation()
	s.convs[chatID] = c
	return c.clone()
}

// Store saves the chat's conversation.
func (s *ConversationStore) Store(chatID int64, c Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.convs[chatID] = c.clone()
}

// Delete forgets the chat's conversation.
func (s *ConversationStore) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.convs, chatID)
}
