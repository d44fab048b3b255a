// Package hub provides a thread-safe websocket broadcast hub
// using the idiomatic Go channel-based fan-out pattern.
//
// The API server uses it to push queue status snapshots to every
// connected dashboard.
package hub

import "encoding/json"

// Message is one pre-encoded JSON frame.
type Message struct {
	// Topic labels the frame for logs (e.g. "status").
	Topic string
	Data  []byte
}

// NewJSONMessage encodes v as a message on topic.
func NewJSONMessage(topic string, v any) (Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Message{}, err
	}
	return Message{Topic: topic, Data: data}, nil
}
