// Package hook implements the observation pipeline from spec §4.5: an
// ordered list of observers invoked at eight lifecycle points, plus
// two short-circuited veto predicates. It generalizes the teacher's
// single Observer interface (internal/interfaces.Observer) into a list
// so more than one collaborator — the built-in metrics hook, a
// Prometheus exporter, application logic — can watch the same traffic.
package hook

import "github.com/frostgate-games/netmsg/internal/wire"

// Hook is the observer contract from spec §4.5. Implementations must
// not panic: a panicking hook is, per spec, in the trusted boundary
// and its failure is allowed to propagate rather than be swallowed.
type Hook interface {
	OnBeforeReceiveBatch(peerID uint64, count int, totalLen int)
	OnAfterReceiveBatch(peerID uint64, count int, totalLen int)
	OnBeforeReceiveMessage(peerID uint64, tag uint8)
	OnAfterReceiveMessage(peerID uint64, tag uint8)
	OnBeforeSendMessage(peerID uint64, tag uint8, delivery wire.DeliveryClass)
	OnAfterSendMessage(peerID uint64, tag uint8, totalBytes int)
	OnBeforeSendBatch(peerID uint64, count int)
	OnAfterSendBatch(peerID uint64, count int, totalLen int)

	// CanSend vetoes an outbound message for a given peer before it is
	// appended to that peer's send queue.
	CanSend(peerID uint64, tag uint8, delivery wire.DeliveryClass) bool
	// CanReceive vetoes a dispatched inbound message before its
	// handler runs.
	CanReceive(peerID uint64, tag uint8) bool
}

// Pipeline holds hooks in registration order and fans every lifecycle
// event out to all of them.
type Pipeline struct {
	hooks []Hook
}

// NewPipeline returns an empty pipeline. Use Register to add hooks.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Register appends h to the pipeline. Hooks are invoked in the order
// they were registered.
func (p *Pipeline) Register(h Hook) {
	p.hooks = append(p.hooks, h)
}

func (p *Pipeline) BeforeReceiveBatch(peerID uint64, count, totalLen int) {
	for _, h := range p.hooks {
		h.OnBeforeReceiveBatch(peerID, count, totalLen)
	}
}

func (p *Pipeline) AfterReceiveBatch(peerID uint64, count, totalLen int) {
	for _, h := range p.hooks {
		h.OnAfterReceiveBatch(peerID, count, totalLen)
	}
}

func (p *Pipeline) BeforeReceiveMessage(peerID uint64, tag uint8) {
	for _, h := range p.hooks {
		h.OnBeforeReceiveMessage(peerID, tag)
	}
}

func (p *Pipeline) AfterReceiveMessage(peerID uint64, tag uint8) {
	for _, h := range p.hooks {
		h.OnAfterReceiveMessage(peerID, tag)
	}
}

func (p *Pipeline) BeforeSendMessage(peerID uint64, tag uint8, delivery wire.DeliveryClass) {
	for _, h := range p.hooks {
		h.OnBeforeSendMessage(peerID, tag, delivery)
	}
}

func (p *Pipeline) AfterSendMessage(peerID uint64, tag uint8, totalBytes int) {
	for _, h := range p.hooks {
		h.OnAfterSendMessage(peerID, tag, totalBytes)
	}
}

func (p *Pipeline) BeforeSendBatch(peerID uint64, count int) {
	for _, h := range p.hooks {
		h.OnBeforeSendBatch(peerID, count)
	}
}

func (p *Pipeline) AfterSendBatch(peerID uint64, count, totalLen int) {
	for _, h := range p.hooks {
		h.OnAfterSendBatch(peerID, count, totalLen)
	}
}

// CanSend returns false as soon as any registered hook vetoes, without
// consulting the rest (spec §4.5: "short-circuited on the first
// false"). An empty pipeline admits everything.
func (p *Pipeline) CanSend(peerID uint64, tag uint8, delivery wire.DeliveryClass) bool {
	for _, h := range p.hooks {
		if !h.CanSend(peerID, tag, delivery) {
			return false
		}
	}
	return true
}

// CanReceive short-circuits the same way as CanSend.
func (p *Pipeline) CanReceive(peerID uint64, tag uint8) bool {
	for _, h := range p.hooks {
		if !h.CanReceive(peerID, tag) {
			return false
		}
	}
	return true
}
