package netmsg

import (
	"github.com/frostgate-games/netmsg/internal/lifecycle"
)

// CoreParams configures a Core at construction.
type CoreParams struct {
	// Owner is consulted by the registry's owner-binding filter and
	// placed into every inbound NetworkContext. Defaults to
	// DefaultOwner{} when nil.
	Owner OwnerHandle
	// Messages overrides the process-wide registered set (see
	// RegisterMessage). Leave nil to use every message type registered
	// by the time NewCore runs.
	Messages []MessageDescriptor
	// Transport delivers finished batches to peers. Required.
	Transport Transport
	// Logger receives malformed-input and transport-failure warnings.
	Logger Logger
	// Hooks are registered into the pipeline in the given order at
	// construction, ahead of anything added later via RegisterHook.
	Hooks []Hook
}

// Core is the messaging core's root object (spec §2): it owns the
// frozen registry, the hook pipeline, the inbound queue, and the
// per-peer outbound queues, and is the single entry point for every
// operation in spec §4.
type Core struct {
	ctrl *lifecycle.Controller
}

// NewCore builds the registry from Messages (or the globally
// registered set) filtered by Owner, and wires up the hook pipeline,
// inbound path, and outbound manager around it. It fails fast with a
// *Error{Code: ErrCodeInvalidMessageStructure} when a descriptor lacks
// a usable Receive entrypoint (spec §4.1/§4.6).
func NewCore(p CoreParams) (*Core, error) {
	msgs := p.Messages
	if msgs == nil {
		msgs = registeredMessages()
	}
	owner := p.Owner
	if owner == nil {
		owner = DefaultOwner{}
	}

	ctrl, err := lifecycle.NewController(lifecycle.Params{
		Owner:     owner,
		Messages:  msgs,
		Transport: p.Transport,
		Logger:    p.Logger,
		Hooks:     p.Hooks,
	})
	if err != nil {
		return nil, WrapError("NewCore", ErrCodeInvalidMessageStructure, err)
	}
	return &Core{ctrl: ctrl}, nil
}

// RegisterHook adds h to the pipeline after construction, e.g. to wire
// in a Prometheus-backed hook once it has been built.
func (c *Core) RegisterHook(h Hook) {
	c.ctrl.Hooks().Register(h)
}

// MessageCount returns N, the number of message types admitted into
// the registry.
func (c *Core) MessageCount() int {
	return c.ctrl.Registry().Len()
}

// NameForTag returns the fully qualified name a message type was
// registered under, given the wire tag assigned to it at Build time.
// Intended for hooks (e.g. a metrics hook) that want to label a
// callback's tag argument with something more legible than a number.
func (c *Core) NameForTag(tag uint8) (string, bool) {
	return c.ctrl.Registry().NameForTag(tag)
}

// ClientConnected idempotently opens id's send queue (spec §4.6).
func (c *Core) ClientConnected(id uint64) {
	c.ctrl.ClientConnected(id)
}

// ClientDisconnected releases id's send queue and forgets it (spec
// §4.6).
func (c *Core) ClientDisconnected(id uint64) {
	c.ctrl.ClientDisconnected(id)
}

// HandleIncomingData parses an incoming transport blob into queued
// message entries (spec §4.3). Malformed input is logged and
// discarded; the core remains operational.
func (c *Core) HandleIncomingData(peerID uint64, data []byte, receiveTime float32) {
	c.ctrl.HandleIncomingData(peerID, data, receiveTime)
}

// ProcessIncomingMessageQueue dispatches every message queued since
// the last call, in insertion order (spec §4.3).
func (c *Core) ProcessIncomingMessageQueue() {
	c.ctrl.ProcessIncomingMessageQueue()
}

// SendMessage serializes message once and appends it to every
// recipient's send queue under the given delivery class (spec §4.4).
// A message whose serialized size cannot fit any batch of its
// delivery class is never enqueued — the core's only form of
// backpressure.
func (c *Core) SendMessage(message Message, delivery DeliveryClass, recipients []uint64) error {
	return c.ctrl.Outbound().SendMessage(c.ctrl.Registry(), c.ctrl.Hooks(), message, delivery, recipients)
}

// ProcessSendQueues flushes every connected peer's queue through the
// transport (spec §4.4).
func (c *Core) ProcessSendQueues() {
	c.ctrl.ProcessSendQueues()
}

// Close disposes every peer's queue and the inbound queue. Idempotent
// (spec §4.6).
func (c *Core) Close() {
	c.ctrl.Close()
}
