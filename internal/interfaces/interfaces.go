// Package interfaces provides internal interface definitions for netmsg.
// These are separate from the public interfaces in the root package to
// avoid circular imports between the root package and the internal
// packages that need these contracts (registry, queue, inbound,
// lifecycle).
package interfaces

// Reader is the subset of *buffer.Reader that a message's Receive
// entrypoint consumes. Declared here (instead of importing
// internal/buffer) only where a package needs the contract without the
// concrete type; most internal packages import internal/buffer directly.
type Reader interface {
	Remaining() int
}

// Logger is the logging contract used by internal packages that accept
// an injected logger (mirrors the root package's Logger).
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Transport delivers a finished batch buffer to a single peer. The core
// releases the writer after Send returns, regardless of outcome.
type Transport interface {
	Send(peerID uint64, delivery uint8, payload []byte) error
}
