package events

// Handler processes specific event types within a context T
type Handler[T any] interface {
	// HandleEvent processes a single event
	// Called synchronously during DispatchAll
	HandleEvent(ctx T, event GridEvent)

	// EventTypes returns the event types this handler processes
	EventTypes() []EventType
}

// HandlerFunc adapts a function to Handler for a fixed set of types
type HandlerFunc[T any] struct {
	Types []EventType
	Fn    func(ctx T, event GridEvent)
}

func (h HandlerFunc[T]) HandleEvent(ctx T, event GridEvent) { h.Fn(ctx, event) }
func (h HandlerFunc[T]) EventTypes() []EventType            { return h.Types }

// Router dispatches queued grid events to registered handlers
//
// Architecture:
//   - Single-threaded dispatch, called between propagation batches
//   - Multiple handlers can register for the same event type
//   - Handlers are invoked in registration order
type Router[T any] struct {
	handlers    map[EventType][]Handler[T]
	queue       *EventQueue
	lastDropped uint64
	onOverflow  func(ctx T)
}

// NewRouter creates a router attached to the given queue
func NewRouter[T any](queue *EventQueue) *Router[T] {
	return &Router[T]{
		handlers: make(map[EventType][]Handler[T]),
		queue:    queue,
	}
}

// Register adds a handler for its declared event types
func (r *Router[T]) Register(handler Handler[T]) {
	for _, t := range handler.EventTypes() {
		r.handlers[t] = append(r.handlers[t], handler)
	}
}

// OnOverflow sets a callback run once per dispatch when the queue dropped events
func (r *Router[T]) OnOverflow(fn func(ctx T)) {
	r.onOverflow = fn
}

// DispatchAll consumes all pending events and routes to handlers
// Returns the number of events consumed
func (r *Router[T]) DispatchAll(ctx T) int {
	if d := r.queue.Dropped(); d != r.lastDropped {
		r.lastDropped = d
		if r.onOverflow != nil {
			r.onOverflow(ctx)
		}
	}

	events := r.queue.Consume()
	for _, ev := range events {
		for _, h := range r.handlers[ev.Type] {
			h.HandleEvent(ctx, ev)
		}
	}
	return len(events)
}

// HandlerCount returns the number of handlers registered for the given type
func (r *Router[T]) HandlerCount(t EventType) int {
	return len(r.handlers[t])
}
