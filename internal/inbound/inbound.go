// Package inbound implements spec §4.3: parsing an incoming transport
// blob into queued message entries, then dispatching them against the
// registry on a later tick. Grounded on the teacher's
// internal/queue.Runner dispatch-loop idiom (state tracked per unit of
// work, a logger-reported failure never aborting the loop) and its
// errors.go "never let it escape" wrapping, generalized from ublk I/O
// completions to message entries.
package inbound

import (
	"github.com/frostgate-games/netmsg/internal/buffer"
	"github.com/frostgate-games/netmsg/internal/hook"
	"github.com/frostgate-games/netmsg/internal/interfaces"
	"github.com/frostgate-games/netmsg/internal/registry"
	"github.com/frostgate-games/netmsg/internal/wire"
)

// entry is a parsed, dispatch-ready message still holding its own
// owning reader (spec §3 ReceiveQueueEntry).
type entry struct {
	reader    *buffer.Reader
	header    wire.MessageHeader
	senderID  uint64
	timestamp float32
}

// Path owns the inbound queue, parses incoming blobs into it, and
// later drains it against the registry. It is single-threaded and
// non-reentrant, matching the core's overall concurrency contract
// (spec §5) — callers must serialize HandleIncomingData and
// ProcessIncomingMessageQueue themselves.
type Path struct {
	logger   interfaces.Logger
	hooks    *hook.Pipeline
	registry *registry.Registry
	owner    registry.OwnerHandle
	pending  []entry
}

// New builds an inbound path bound to reg and owner. hooks and logger
// must not be nil.
func New(logger interfaces.Logger, hooks *hook.Pipeline, reg *registry.Registry, owner registry.OwnerHandle) *Path {
	return &Path{logger: logger, hooks: hooks, registry: reg, owner: owner}
}

// PendingCount reports how many entries are queued for dispatch, for
// observability and tests.
func (p *Path) PendingCount() int {
	return len(p.pending)
}

// HandleIncomingData parses bytes (owned by the caller only for the
// duration of this call) into the batch header and its message
// records, per spec §4.3. Each message payload is copied into a
// freshly owned reader and enqueued; dispatch is deferred to
// ProcessIncomingMessageQueue. Malformed input is logged and the
// remainder of the batch discarded; the path itself never fails.
func (p *Path) HandleIncomingData(peerID uint64, data []byte, receiveTime float32) {
	totalLen := len(data)
	r := buffer.NewBorrowingReader(data)

	bh, ok := wire.ReadBatchHeader(r)
	if !ok {
		p.logger.Warnf("inbound: batch from peer %d too short for a BatchHeader (%d bytes)", peerID, totalLen)
		return
	}

	p.hooks.BeforeReceiveBatch(peerID, int(bh.Count), totalLen)

	for i := 0; i < int(bh.Count); i++ {
		mh, ok := wire.ReadMessageHeader(r)
		if !ok {
			p.logger.Warnf("inbound: truncated MessageHeader from peer %d (message %d/%d)", peerID, i, bh.Count)
			break
		}
		if !r.TryBeginRead(int(mh.Size)) {
			p.logger.Warnf("inbound: message %d/%d from peer %d claims %d bytes, only %d remain", i, bh.Count, peerID, mh.Size, r.Remaining())
			break
		}
		payload, err := r.PeekAtCursor(int(mh.Size))
		if err != nil {
			p.logger.Warnf("inbound: failed to read payload for message %d/%d from peer %d: %v", i, bh.Count, peerID, err)
			break
		}
		owning := buffer.NewOwningReader(payload)
		if err := r.Advance(int(mh.Size)); err != nil {
			owning.Release()
			p.logger.Warnf("inbound: cursor advance failed for peer %d: %v", peerID, err)
			break
		}
		p.pending = append(p.pending, entry{
			reader:    owning,
			header:    mh,
			senderID:  peerID,
			timestamp: receiveTime,
		})
	}

	p.hooks.AfterReceiveBatch(peerID, int(bh.Count), totalLen)
}

// ProcessIncomingMessageQueue drains every entry queued since the last
// call, in insertion order, dispatching each against the registry.
func (p *Path) ProcessIncomingMessageQueue() {
	pending := p.pending
	p.pending = nil
	for _, e := range pending {
		p.dispatch(e)
	}
}

// Release returns every pending entry's owning reader to its pool
// without dispatching it, and forgets the queue. Called at disposal so
// a batch received but never drained by ProcessIncomingMessageQueue
// still gives its backing array back.
func (p *Path) Release() {
	for _, e := range p.pending {
		e.reader.Release()
	}
	p.pending = nil
}

// dispatch validates the tag, consults CanReceive, and invokes the
// handler under a recover boundary. The owning reader is released on
// every exit path.
func (p *Path) dispatch(e entry) {
	defer e.reader.Release()

	handler, ok := p.registry.Handler(e.header.Tag)
	if !ok {
		p.logger.Warnf("inbound: unknown tag %d from peer %d", e.header.Tag, e.senderID)
		return
	}

	if !p.hooks.CanReceive(e.senderID, e.header.Tag) {
		return
	}

	p.hooks.BeforeReceiveMessage(e.senderID, e.header.Tag)
	p.invokeHandler(handler, e)
	p.hooks.AfterReceiveMessage(e.senderID, e.header.Tag)
}

// invokeHandler calls handler.Receive under a total-failure boundary:
// a panicking handler is logged and swallowed so one peer's malformed
// message cannot stall the dispatcher (spec §8 scenario 6).
func (p *Path) invokeHandler(handler registry.Message, e entry) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Errorf("inbound: handler for tag %d (peer %d) panicked: %v", e.header.Tag, e.senderID, r)
		}
	}()
	ctx := &registry.NetworkContext{
		Owner:     p.owner,
		SenderID:  e.senderID,
		Timestamp: e.timestamp,
		Header:    e.header,
	}
	handler.Receive(e.reader, ctx)
}
