// Package wire defines the two fixed-layout records that frame every
// batch: BatchHeader and MessageHeader (spec §3, §6.1). Layout mirrors
// the teacher's uapi structs: plain fields, an explicit pad byte where
// alignment requires one, and a compile-time size assertion so a field
// added later cannot silently change the wire size.
package wire

import (
	"unsafe"

	"github.com/frostgate-games/netmsg/internal/buffer"
)

// BatchHeader carries the number of messages packed into a batch. It is
// written last (after payloads are known, via back-patch) and read
// first.
type BatchHeader struct {
	Count uint16
}

// Compile-time size check — 2 bytes.
var _ [2]byte = [unsafe.Sizeof(BatchHeader{})]byte{}

// BatchHeaderSize is sizeof(BatchHeader) on the wire.
const BatchHeaderSize = int(unsafe.Sizeof(BatchHeader{}))

// MessageHeader precedes every message payload within a batch. Pad
// keeps the struct four bytes wide; it is never interpreted.
type MessageHeader struct {
	Size uint16
	Tag  uint8
	pad  uint8
}

// Compile-time size check — 4 bytes.
var _ [4]byte = [unsafe.Sizeof(MessageHeader{})]byte{}

// MessageHeaderSize is sizeof(MessageHeader) on the wire.
const MessageHeaderSize = int(unsafe.Sizeof(MessageHeader{}))

// NewMessageHeader builds a header for a payload of the given size and
// tag.
func NewMessageHeader(size uint16, tag uint8) MessageHeader {
	return MessageHeader{Size: size, Tag: tag}
}

// WriteBatchHeader reserves and writes h at the writer's current
// cursor. The outbound path uses it at flush time to back-patch the
// header slot after a Seek(0).
func WriteBatchHeader(w *buffer.Writer, h BatchHeader) error {
	if !w.TryBeginWrite(BatchHeaderSize) {
		return buffer.ErrCeilingExceeded
	}
	return w.WriteUint16(h.Count)
}

// ReadBatchHeader reserves and decodes a BatchHeader at the reader's
// cursor.
func ReadBatchHeader(r *buffer.Reader) (BatchHeader, bool) {
	if !r.TryBeginRead(BatchHeaderSize) {
		return BatchHeader{}, false
	}
	count, err := r.ReadUint16()
	if err != nil {
		return BatchHeader{}, false
	}
	return BatchHeader{Count: count}, true
}

// WriteMessageHeader writes h without reserving. Callers must have already
// reserved MessageHeaderSize+payload bytes as one contiguous
// reservation per spec §4.4.e; this call only consumes the header
// portion of it.
func WriteMessageHeader(w *buffer.Writer, h MessageHeader) error {
	if err := w.WriteUint16(h.Size); err != nil {
		return err
	}
	if err := w.WriteUint8(h.Tag); err != nil {
		return err
	}
	return w.WriteUint8(0) // pad
}

// ReadMessageHeader reserves and decodes a MessageHeader at the
// reader's cursor.
func ReadMessageHeader(r *buffer.Reader) (MessageHeader, bool) {
	if !r.TryBeginRead(MessageHeaderSize) {
		return MessageHeader{}, false
	}
	size, err := r.ReadUint16()
	if err != nil {
		return MessageHeader{}, false
	}
	tag, err := r.ReadUint8()
	if err != nil {
		return MessageHeader{}, false
	}
	if _, err := r.ReadUint8(); err != nil { // pad
		return MessageHeader{}, false
	}
	return MessageHeader{Size: size, Tag: tag}, true
}
