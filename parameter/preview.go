package parameter

import "time"

// Preview server
const (
	// PreviewAddr is the default listen address of the preview server
	PreviewAddr = "127.0.0.1:8787"

	// PreviewWriteTimeout bounds a single websocket write
	PreviewWriteTimeout = 3 * time.Second

	// PreviewRunTimeout bounds a single preview propagation
	PreviewRunTimeout = 2 * time.Second

	// PreviewReadLimit caps request message size in bytes
	PreviewReadLimit = 64 * 1024
)
