package queue

import (
	"errors"

	"github.com/frostgate-games/netmsg/internal/buffer"
	"github.com/frostgate-games/netmsg/internal/constants"
	"github.com/frostgate-games/netmsg/internal/hook"
	"github.com/frostgate-games/netmsg/internal/interfaces"
	"github.com/frostgate-games/netmsg/internal/registry"
	"github.com/frostgate-games/netmsg/internal/wire"
)

// ErrUnknownMessageType is returned by SendMessage when the message's
// concrete type was never admitted into the registry.
var ErrUnknownMessageType = errors.New("queue: message type was not admitted into the registry")

// peerQueue is spec §3's PeerSendQueue: an ordered sequence of
// SendBatch whose tail is the only appendable batch.
type peerQueue struct {
	batches []*SendBatch
}

func (q *peerQueue) tailOrNew(delivery wire.DeliveryClass, payloadLen int) (*SendBatch, error) {
	if n := len(q.batches); n > 0 {
		if tail := q.batches[n-1]; tail.fits(delivery, payloadLen) {
			return tail, nil
		}
	}
	b, err := newSendBatch(delivery)
	if err != nil {
		return nil, err
	}
	q.batches = append(q.batches, b)
	return b, nil
}

func (q *peerQueue) releaseAll() {
	for _, b := range q.batches {
		b.release()
	}
	q.batches = nil
}

// Manager owns every connected peer's PeerSendQueue and implements
// spec §4.4's SendMessage/ProcessSendQueues entry points. Grounded on
// the teacher's queue.Runner Config/New*/Close constructor shape,
// rehomed to own per-peer state instead of per-tag kernel descriptors.
type Manager struct {
	logger interfaces.Logger
	order  []uint64
	queues map[uint64]*peerQueue
	closed bool
}

// NewManager returns an empty outbound manager.
func NewManager(logger interfaces.Logger) *Manager {
	return &Manager{
		logger: logger,
		queues: make(map[uint64]*peerQueue),
	}
}

// AddPeer idempotently opens peerID's send queue (spec §4.6
// ClientConnected).
func (m *Manager) AddPeer(peerID uint64) {
	if _, ok := m.queues[peerID]; ok {
		return
	}
	m.queues[peerID] = &peerQueue{}
	m.order = append(m.order, peerID)
}

// RemovePeer releases every batch in peerID's queue and forgets it
// (spec §4.6 ClientDisconnected). Removing an unknown peer is a no-op.
func (m *Manager) RemovePeer(peerID uint64) {
	q, ok := m.queues[peerID]
	if !ok {
		return
	}
	q.releaseAll()
	delete(m.queues, peerID)
	for i, id := range m.order {
		if id == peerID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// scratchCeiling is the tightened scratch-writer ceiling resolving
// spec §9's silent-data-loss open question: a message that serializes
// successfully must always be representable in a freshly opened
// batch, so the scratch ceiling also reserves room for the
// BatchHeader, not just the MessageHeader it will sit behind.
func scratchCeiling(delivery wire.DeliveryClass) int {
	return delivery.MaxBatchBytes() - wire.BatchHeaderSize - wire.MessageHeaderSize
}

// SendMessage implements spec §4.4: serialize message once into a
// scratch writer, then for each recipient (in order) consult CanSend,
// fire the before/after hooks, and append the payload to that peer's
// tail batch, opening a new one when delivery class or residual
// capacity demands it.
func (m *Manager) SendMessage(reg *registry.Registry, hooks *hook.Pipeline, message registry.Message, delivery wire.DeliveryClass, recipients []uint64) error {
	tag, ok := reg.Tag(message)
	if !ok {
		return ErrUnknownMessageType
	}

	ceiling := scratchCeiling(delivery)
	initial := constants.NonFragmentedBatchBytes - wire.MessageHeaderSize
	scratch := buffer.NewWriter(initial, ceiling)
	defer scratch.Release()

	if err := message.Serialize(scratch); err != nil {
		return err
	}
	payload := scratch.Bytes()

	for _, peerID := range recipients {
		if !hooks.CanSend(peerID, tag, delivery) {
			continue
		}
		hooks.BeforeSendMessage(peerID, tag, delivery)

		q, ok := m.queues[peerID]
		if !ok {
			m.logger.Warnf("outbound: send to peer %d skipped, peer is not connected", peerID)
			continue
		}

		batch, err := q.tailOrNew(delivery, len(payload))
		if err != nil {
			m.logger.Warnf("outbound: failed to open a batch for peer %d: %v", peerID, err)
			continue
		}
		if err := batch.append(tag, payload); err != nil {
			m.logger.Warnf("outbound: failed to append message to peer %d's batch: %v", peerID, err)
			continue
		}

		hooks.AfterSendMessage(peerID, tag, wire.MessageHeaderSize+len(payload))
	}

	return nil
}

// ProcessSendQueues implements spec §4.4's flush: every connected
// peer's queue is drained in connection order, each non-empty batch is
// back-patched and handed to transport, and the peer's queue is
// cleared afterward regardless of transport outcome.
func (m *Manager) ProcessSendQueues(hooks *hook.Pipeline, transport interfaces.Transport) {
	for _, peerID := range m.order {
		q := m.queues[peerID]
		for _, b := range q.batches {
			if b.Header.Count == 0 {
				b.release()
				continue
			}
			m.flushBatch(hooks, transport, peerID, b)
		}
		q.batches = nil
	}
}

func (m *Manager) flushBatch(hooks *hook.Pipeline, transport interfaces.Transport, peerID uint64, b *SendBatch) {
	defer b.release()

	hooks.BeforeSendBatch(peerID, int(b.Header.Count))

	totalLen := b.Writer.Position()
	if err := b.Writer.Seek(0); err != nil {
		m.logger.Errorf("outbound: back-patch seek failed for peer %d: %v", peerID, err)
		return
	}
	if err := wire.WriteBatchHeader(b.Writer, b.Header); err != nil {
		m.logger.Errorf("outbound: back-patch write failed for peer %d: %v", peerID, err)
		return
	}
	if err := b.Writer.SeekEnd(totalLen); err != nil {
		m.logger.Errorf("outbound: seek-to-end failed for peer %d: %v", peerID, err)
		return
	}

	if err := transport.Send(peerID, uint8(b.Delivery), b.Writer.Bytes()); err != nil {
		m.logger.Warnf("outbound: transport send failed for peer %d: %v", peerID, err)
	}

	hooks.AfterSendBatch(peerID, int(b.Header.Count), totalLen)
}

// Close releases every peer's queue. Idempotent.
func (m *Manager) Close() {
	if m.closed {
		return
	}
	for _, q := range m.queues {
		q.releaseAll()
	}
	m.queues = make(map[uint64]*peerQueue)
	m.order = nil
	m.closed = true
}
