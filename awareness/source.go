package awareness

import (
	"sync"

	"github.com/google/uuid"
)

// BufferHandler receives each new buffer together with the camera pose it was captured at.
type BufferHandler[T Sample] func(buf *Buffer[T], pose CameraPose)

// BufferSource produces awareness buffers. Subscribe registers a handler and returns a function
// that removes it.
type BufferSource[T Sample] interface {
	Subscribe(handler BufferHandler[T]) (unsubscribe func())
}

// Broadcaster fans buffers out to subscribed handlers. The zero value is ready to use.
type Broadcaster[T Sample] struct {
	mu       sync.RWMutex
	handlers map[uuid.UUID]BufferHandler[T]
}

// Subscribe implements BufferSource. Calling the returned function more than once is a no-op.
func (b *Broadcaster[T]) Subscribe(handler BufferHandler[T]) func() {
	id := uuid.New()
	b.mu.Lock()
	if b.handlers == nil {
		b.handlers = map[uuid.UUID]BufferHandler[T]{}
	}
	b.handlers[id] = handler
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

// Publish calls every subscribed handler with buf and pose.
func (b *Broadcaster[T]) Publish(buf *Buffer[T], pose CameraPose) {
	b.mu.RLock()
	handlers := make([]BufferHandler[T], 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(buf, pose)
	}
}

// Subscribers returns the number of subscribed handlers.
func (b *Broadcaster[T]) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}
