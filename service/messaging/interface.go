package messaging

import (
	"context"
	"errors"
)

// Vendor represents the name of a queue implementation
type Vendor string

const (
	// VendorMemory keeps messages in a buffered channel.
	VendorMemory Vendor = "memory"
	// VendorFS keeps one JSON file per message on an afs storage.
	VendorFS Vendor = "fs"
)

// ErrQueueFull is returned by non-blocking publishers when no capacity is left.
var ErrQueueFull = errors.New("queue is full")

// Queue represents an abstract message queue for any payload type
type Queue[T any] interface {
	// Publish adds a new message with payload to the queue
	Publish(ctx context.Context, t *T) error

	// Consume retrieves a single message from the queue
	Consume(ctx context.Context) (Message[T], error)
}

// Message represents a message retrieved from a queue
type Message[T any] interface {
	// T returns the payload of this message
	T() *T

	// Ack acknowledges successful processing of this message
	Ack() error

	// Nack indicates failure in processing this message
	Nack(err error) error
}

// Config selects and sizes a queue
type Config struct {
	Vendor     Vendor `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	URL        string `json:"url,omitempty" yaml:"url,omitempty"`
	Buffer     int    `json:"buffer,omitempty" yaml:"buffer,omitempty"`
	MaxRetries int    `json:"maxRetries,omitempty" yaml:"maxRetries,omitempty"`
}
