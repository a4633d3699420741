package bus

import "time"

// EventBus is an in-process, synchronous pub/sub bus used to fan simulation
// events (contacts, ticks, sensor readings) out to interested parties.
//
// Handlers subscribe by Event.Type(). The wildcard type "*" receives every
// event. Delivery happens in the publisher's goroutine, in subscription order,
// and handler errors are joined and returned from Publish.
//
// All methods are safe for concurrent use.
type EventBus interface {
	// Publish delivers event to all active subscribers of its type.
	Publish(event Event) error
	// PublishWithFilters drops the event silently if any filter rejects it.
	PublishWithFilters(event Event, filters ...EventFilter) error
	// PublishBatch publishes events in order and joins their errors.
	PublishBatch(events ...Event) error

	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels sub. A nil sub is a no-op.
	Unsubscribe(sub Subscription) error

	AddObserver(obs Observer)
	RemoveObserver(obs Observer)

	// Metrics returns a snapshot of the delivery counters.
	Metrics() Metrics
}

// Event is an immutable message transported by the bus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
	Metadata() map[string]any
}

type (
	EventHandler func(event Event) error
	EventFilter  func(event Event) bool
)

// Subscription is a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// Observer is told about every publish. Observers should return quickly.
type Observer interface {
	OnDelivered(eventType string, handlers int, err error, elapsed time.Duration)
}

type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	DroppedByFilters  uint64
	SubscribersActive uint64
}
