package signaling

import "sync"

const (
	// MaxChatHistory is the per-room retained message count. Oldest entries
	// are evicted first.
	MaxChatHistory = 100
	// MaxChatMessageLen caps stored message text, in runes.
	MaxChatMessageLen = 500
)

// ChatHistory keeps a bounded ordered log of chat messages per room so
// late joiners can be hydrated.
type ChatHistory struct {
	mu       sync.RWMutex
	messages map[string][]ChatMessage
}

func NewChatHistory() *ChatHistory {
	return &ChatHistory{messages: make(map[string][]ChatMessage)}
}

func (h *ChatHistory) Append(roomID string, msg ChatMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	log := append(h.messages[roomID], msg)
	if len(log) > MaxChatHistory {
		log = log[len(log)-MaxChatHistory:]
	}
	h.messages[roomID] = log
}

// Get returns the retained messages in insertion order.
func (h *ChatHistory) Get(roomID string) []ChatMessage {
	h.mu.RLock()
	defer h.mu.RUnlock()
	log := h.messages[roomID]
	out := make([]ChatMessage, len(log))
	copy(out, log)
	return out
}

func (h *ChatHistory) Delete(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.messages, roomID)
}
