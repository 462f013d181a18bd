package adapter

import "context"

// Adapter is a protocol endpoint the server can run: the direct TCP
// listener and the BlueBox HTTP fallback both implement it. Adapters share
// the session registry and the message processor; they own nothing but
// their sockets.
//
// Lifecycle: Serve blocks until the context is cancelled or an
// unrecoverable error occurs. Cancellation triggers graceful shutdown:
// stop accepting, drain active connections up to the shutdown timeout,
// then force-close the rest. Stop may be called concurrently with Serve
// and must be idempotent.
type Adapter interface {
	// Serve starts the endpoint and blocks until shutdown. Returning
	// before cancellation is treated as fatal by the server aggregate.
	Serve(ctx context.Context) error

	// Stop initiates graceful shutdown, bounded by ctx.
	Stop(ctx context.Context) error

	// Protocol returns the endpoint name for logging ("sfs2x-tcp",
	// "bluebox-http").
	Protocol() string

	// Port returns the listen port.
	Port() int
}
