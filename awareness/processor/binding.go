package processor

import (
	"sync"

	"github.com/google/uuid"

	"go.viam.com/awareness/awareness"
)

// A Binding connects a processor to a buffer source until it is closed.
type Binding struct {
	id          uuid.UUID
	mu          sync.Mutex
	unsubscribe func()
}

func bind[T awareness.Sample](source awareness.BufferSource[T], handler awareness.BufferHandler[T]) *Binding {
	return &Binding{id: uuid.New(), unsubscribe: source.Subscribe(handler)}
}

// ID identifies the binding.
func (b *Binding) ID() uuid.UUID {
	return b.id
}

// Close stops delivery from the source. Closing an already closed binding is a no-op.
func (b *Binding) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.unsubscribe == nil {
		return nil
	}
	b.unsubscribe()
	b.unsubscribe = nil
	return nil
}

// Closed reports whether Close has been called.
func (b *Binding) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unsubscribe == nil
}
