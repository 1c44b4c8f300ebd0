package mqtt

import "errors"

// ErrNotConnected is returned when publishing without a broker connection.
var ErrNotConnected = errors.New("mqtt client not connected")

// ErrEmptyTopic is returned when no topic is configured for a publish.
var ErrEmptyTopic = errors.New("mqtt topic is empty")
