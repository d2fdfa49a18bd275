package notifier

import (
	"sync"
	"time"

	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("notifier")

const defaultCapacity = 100

// Notification levels
const (
	LevelInfo  = "info"
	LevelError = "error"
)

// Notification is a message shown to the console user
type Notification struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	CreatedAt int64  `json:"createdAt"`
}

type memoryNotifier struct {
	mut           sync.RWMutex
	capacity      int
	notifications []Notification
}

// NewMemoryNotifier creates a notifier that keeps the most recent notifications in memory
func NewMemoryNotifier(capacity int) *memoryNotifier {
	if capacity <= 0 {
		capacity = defaultCapacity
	}

	return &memoryNotifier{
		capacity:      capacity,
		notifications: make([]Notification, 0, capacity),
	}
}

// Show records an informative notification
func (n *memoryNotifier) Show(message string) {
	log.Info("notification", "message", message)
	n.add(LevelInfo, message)
}

// ShowError records an error notification
func (n *memoryNotifier) ShowError(message string) {
	log.Warn("error notification", "message", message)
	n.add(LevelError, message)
}

func (n *memoryNotifier) add(level string, message string) {
	n.mut.Lock()
	defer n.mut.Unlock()

	if len(n.notifications) == n.capacity {
		copy(n.notifications, n.notifications[1:])
		n.notifications = n.notifications[:n.capacity-1]
	}

	n.notifications = append(n.notifications, Notification{
		Level:     level,
		Message:   message,
		CreatedAt: time.Now().UnixMilli(),
	})
}

// Recent returns the kept notifications, the most recent first
func (n *memoryNotifier) Recent() []Notification {
	n.mut.RLock()
	defer n.mut.RUnlock()

	result := make([]Notification, 0, len(n.notifications))
	for i := len(n.notifications) - 1; i >= 0; i-- {
		result = append(result, n.notifications[i])
	}

	return result
}

// IsInterfaceNil returns true if the value under the interface is nil
func (n *memoryNotifier) IsInterfaceNil() bool {
	return n == nil
}
