package bus

import "time"

// Registry event types.
const (
	TemplateRegistered = "template.registered"
	TemplateRemoved    = "template.removed"
	DatasetLoaded      = "dataset.loaded"

	// AnyType subscribes to every event type.
	AnyType = "*"
	// AnyTopic subscribes across every template family.
	AnyTopic = ""
)

// EventBus is a thread-safe, in-process pub/sub bus for registry events.
//
//   - Fan-out by Event.Type; AnyType matches all types.
//   - Events are routed by Event.Topic (the template family); subscribers on
//     AnyTopic see every family.
//   - Delivery is synchronous in the publisher's goroutine; handler errors are
//     joined and returned from Publish.
//   - Metrics are collected only while at least one observer is registered.
type EventBus interface {
	Publish(event Event) error
	PublishBatch(events ...Event) error

	// Subscribe registers handler for eventType on every topic.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// SubscribeTopic registers handler for eventType within one topic.
	SubscribeTopic(topic, eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels sub. Safe to call with nil.
	Unsubscribe(sub Subscription) error

	AddObserver(obs EventBusObserver)
	RemoveObserver(obs EventBusObserver)
	GetMetrics() EventBusMetrics
	GetTopics() []TopicInfo
}

// Event describes one registry change.
type Event struct {
	Type      string    `json:"type"`
	Topic     string    `json:"family"`
	Handle    string    `json:"handle,omitempty"`
	ID        int       `json:"id"`
	ClassKey  string    `json:"class,omitempty"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent stamps an event with the current time.
func NewEvent(typ, topic, handle string, id int, classKey string) Event {
	return Event{Type: typ, Topic: topic, Handle: handle, ID: id, ClassKey: classKey, Timestamp: time.Now()}
}

type (
	// EventHandler is invoked once per delivered event.
	EventHandler func(event Event) error
)

// Subscription is a registered handler. Cancel or EventBus.Unsubscribe stops
// delivery.
type Subscription interface {
	ID() string
	Topic() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// EventBusObserver is notified about deliveries. Observers should return
// quickly.
type EventBusObserver interface {
	OnPublish(topic, eventType string, event Event)
	OnDelivered(topic, eventType string, handlers int, err error, durationMicros int64)
}

// EventBusMetrics are counters updated only while observed.
type EventBusMetrics struct {
	Published         uint64 `json:"published"`
	DeliveredHandlers uint64 `json:"delivered_handlers"`
	Errors            uint64 `json:"errors"`
	SubscribersActive uint64 `json:"subscribers_active"`
	Topics            uint64 `json:"topics"`
}

// TopicInfo is a snapshot of one topic's subscriptions.
type TopicInfo struct {
	Name       string `json:"name"`
	EventTypes int    `json:"event_types"`
	Subs       int    `json:"subs"`
}
