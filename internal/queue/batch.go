// Package queue implements the outbound path from spec §4.4: per-peer
// ordered queues of partially filled batch buffers, appended to under
// a tail-only policy and flushed through the transport. Grounded on
// the teacher's internal/queue.Runner Config/New*/Close constructor
// idiom and its pooled-buffer lifecycle, rehomed from ublk I/O
// completions to per-peer send batching.
package queue

import (
	"github.com/frostgate-games/netmsg/internal/buffer"
	"github.com/frostgate-games/netmsg/internal/constants"
	"github.com/frostgate-games/netmsg/internal/wire"
)

// SendBatch is one partially (or fully) filled outbound buffer bound
// to a single delivery class, per spec §3. Its writer's cursor always
// sits past the reserved BatchHeader slot until flush back-patches it.
type SendBatch struct {
	Delivery wire.DeliveryClass
	Header   wire.BatchHeader
	Writer   *buffer.Writer
}

// newSendBatch opens a fresh batch for delivery: a writer sized to the
// non-fragmented initial capacity (so it stays on the pooled
// allocation rather than reallocating mid-fill) with a ceiling matching
// delivery's class, cursor seeked past the not-yet-written BatchHeader
// slot.
func newSendBatch(delivery wire.DeliveryClass) (*SendBatch, error) {
	w := buffer.NewWriter(constants.NonFragmentedBatchBytes, delivery.MaxBatchBytes())
	if !w.TryBeginWrite(wire.BatchHeaderSize) {
		w.Release()
		return nil, buffer.ErrCeilingExceeded
	}
	// The header's bytes are not known yet; reserve the slot and move
	// on, to be back-patched by flush.
	if err := w.WriteBytes(make([]byte, wire.BatchHeaderSize)); err != nil {
		w.Release()
		return nil, err
	}
	return &SendBatch{Delivery: delivery, Writer: w}, nil
}

// fits reports whether a message of payloadLen bytes can be appended
// to this batch without opening a new one: same delivery class and
// enough residual capacity for the header plus payload (spec §3
// PeerSendQueue invariant).
func (b *SendBatch) fits(delivery wire.DeliveryClass, payloadLen int) bool {
	if b.Delivery != delivery {
		return false
	}
	needed := wire.MessageHeaderSize + payloadLen
	return b.Writer.Ceiling()-b.Writer.Position() >= needed
}

// append writes a MessageHeader and payload into the batch and
// increments its message count.
func (b *SendBatch) append(tag uint8, payload []byte) error {
	needed := wire.MessageHeaderSize + len(payload)
	if !b.Writer.TryBeginWrite(needed) {
		return buffer.ErrCeilingExceeded
	}
	if err := wire.WriteMessageHeader(b.Writer, wire.NewMessageHeader(uint16(len(payload)), tag)); err != nil {
		return err
	}
	if err := b.Writer.WriteBytes(payload); err != nil {
		return err
	}
	b.Header.Count++
	return nil
}

// release returns the batch's backing buffer to the pool.
func (b *SendBatch) release() {
	b.Writer.Release()
}
