package parameter

// Event queue limits
const (
	// EventQueueSize is the fixed capacity of the grid event ring buffer
	EventQueueSize = 1024

	// EventBufferMask is the bitmask for fast modulo operations (1024 - 1)
	EventBufferMask = 1023
)
