package netmsg

import (
	"errors"
	"fmt"
)

// Error is the structured error netmsg returns from its own operations.
// It carries enough context to be logged usefully without the caller
// needing to parse a message string.
type Error struct {
	Op     string    // Operation that failed (e.g., "SendMessage", "Registry.Build")
	PeerID uint64     // Peer id, 0 if not applicable
	Code   ErrorCode  // High-level error category
	Msg    string     // Human-readable message
	Inner  error      // Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.PeerID != 0 {
		parts = append(parts, fmt.Sprintf("peer=%d", e.PeerID))
	}

	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}

	if len(parts) > 0 {
		return fmt.Sprintf("netmsg: %s (%s)", msg, parts[0])
	}
	return fmt.Sprintf("netmsg: %s", msg)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Inner
}

// Is provides errors.Is support, comparing by Code.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == te.Code
}

// ErrorCode categorizes netmsg's error taxonomy (spec §7).
type ErrorCode string

const (
	// ErrCodeInvalidMessageStructure is raised at registry construction
	// when a message descriptor lacks a usable Receive entrypoint.
	// Fatal; NewCore returns the error and builds nothing.
	ErrCodeInvalidMessageStructure ErrorCode = "invalid message structure"
	// ErrCodeMalformedBatch covers a too-short buffer, a message size
	// exceeding remaining bytes, or any other batch framing error.
	// Logged as a warning; the core remains operational.
	ErrCodeMalformedBatch ErrorCode = "malformed batch"
	// ErrCodeUnknownTag is a message tag outside the registry's
	// admitted range. Logged as a warning; the message is discarded.
	ErrCodeUnknownTag ErrorCode = "unknown message tag"
	// ErrCodeHandlerPanic is a Receive entrypoint that panicked during
	// dispatch. Logged as an error; the dispatcher continues.
	ErrCodeHandlerPanic ErrorCode = "handler panic"
	// ErrCodeTransportSend is a failed Transport.Send call. Logged as a
	// warning; subsequent batches still attempt to flush.
	ErrCodeTransportSend ErrorCode = "transport send failed"
	// ErrCodePayloadTooLarge is a message whose serialized size cannot
	// fit any batch of its delivery class — the core's only form of
	// backpressure (spec §4.4 edge case).
	ErrCodePayloadTooLarge ErrorCode = "payload too large for delivery class"
)

// NewError creates a structured error.
func NewError(op string, code ErrorCode, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg}
}

// NewPeerError creates a structured error scoped to a peer.
func NewPeerError(op string, peerID uint64, code ErrorCode, msg string) *Error {
	return &Error{Op: op, PeerID: peerID, Code: code, Msg: msg}
}

// WrapError wraps inner with netmsg context. When inner is already a
// structured *Error its Code, PeerID and Msg are kept and only Op is
// replaced; otherwise the result carries code and inner's message.
func WrapError(op string, code ErrorCode, inner error) *Error {
	if inner == nil {
		return nil
	}
	if e, ok := inner.(*Error); ok {
		return &Error{Op: op, PeerID: e.PeerID, Code: e.Code, Msg: e.Msg, Inner: e.Inner}
	}
	return &Error{Op: op, Code: code, Msg: inner.Error(), Inner: inner}
}

// IsCode reports whether err is a *Error with the given Code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
