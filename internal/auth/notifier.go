package auth

import (
	"sync"

	"github.com/luckyfood/stockpilot/pkg/logger"
)

// Notice is a single user-facing notification.
type Notice struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// LogNotifier writes notices to the service log only.
type LogNotifier struct{}

func (LogNotifier) Notify(title, message string) {
	logger.Logger.Warn().
		Str("title", title).
		Str("message", message).
		Msg("User notice")
}

// MemoryNotifier queues notices so a delivery layer can drain them to the
// browser (the toast surface).
type MemoryNotifier struct {
	mu      sync.Mutex
	pending []Notice
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{}
}

func (n *MemoryNotifier) Notify(title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = append(n.pending, Notice{Title: title, Message: message})
}

// Drain returns and clears the queued notices.
func (n *MemoryNotifier) Drain() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	notices := n.pending
	n.pending = nil
	return notices
}
