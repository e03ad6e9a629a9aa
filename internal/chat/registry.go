package chat

import (
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
)

// Registry holds open conversations. When full, the least recently used
// conversation is dropped.
type Registry struct {
	responder Responder
	cache     *lru.Cache
}

func NewRegistry(responder Responder, capacity int) (*Registry, error) {
	if capacity <= 0 {
		capacity = 256
	}
	cache, err := lru.New(capacity)
	if err != nil {
		return nil, err
	}
	return &Registry{responder: responder, cache: cache}, nil
}

// Create opens a new empty conversation.
func (r *Registry) Create() *Conversation {
	c := NewConversation(r.responder)
	r.cache.Add(c.ID, c)
	return c
}

func (r *Registry) Get(id uuid.UUID) (*Conversation, bool) {
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Conversation), true
}

// Delete closes a conversation. It reports whether it existed.
func (r *Registry) Delete(id uuid.UUID) bool {
	return r.cache.Remove(id)
}

func (r *Registry) Len() int {
	return r.cache.Len()
}
