package pubsub

// PubSubClient abstracts the message broker used for async fan-out.
type PubSubClient interface {
	SendMessage(topic EventType, data any) error
	ProcessMessage(data []byte, returnValue any) error
}
