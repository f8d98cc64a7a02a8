// Package lifecycle implements spec §4.6: building the registry once
// at construction, tracking connected peers, and tearing everything
// down idempotently. Grounded on the teacher's internal/ctrl.Controller
// open/configure/start/stop/delete shape (NewController fails fast,
// Close is safe to call more than once), rehomed from a block device's
// add/start/stop/delete sequence to a messaging core's
// connect/disconnect/dispose sequence.
package lifecycle

import (
	"github.com/frostgate-games/netmsg/internal/hook"
	"github.com/frostgate-games/netmsg/internal/inbound"
	"github.com/frostgate-games/netmsg/internal/interfaces"
	"github.com/frostgate-games/netmsg/internal/queue"
	"github.com/frostgate-games/netmsg/internal/registry"
)

// Params configures a Controller at construction.
type Params struct {
	// Owner is consulted by the registry's owner-binding filter and
	// placed into every inbound NetworkContext.
	Owner registry.OwnerHandle
	// Messages is the accumulated set of link-time message
	// registrations (spec §9's "builder API" rendering). Required.
	Messages []registry.MessageDescriptor
	// Transport delivers finished batches to peers. Required.
	Transport interfaces.Transport
	// Logger receives malformed-input and transport-failure warnings.
	// Defaults to a no-op logger when nil.
	Logger interfaces.Logger
	// Hooks are registered into the pipeline in the given order,
	// before any caller-registered hooks added later via Hooks().
	Hooks []hook.Hook
}

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...any) {}
func (noopLogger) Infof(format string, args ...any)  {}
func (noopLogger) Warnf(format string, args ...any)  {}
func (noopLogger) Errorf(format string, args ...any) {}

// Controller is the messaging core's root object: it owns the frozen
// registry, the hook pipeline, the inbound path, and the outbound
// manager, and is the single place peer connect/disconnect and
// disposal are tracked.
type Controller struct {
	registry  *registry.Registry
	hooks     *hook.Pipeline
	inbound   *inbound.Path
	outbound  *queue.Manager
	transport interfaces.Transport
	logger    interfaces.Logger
	peers     map[uint64]struct{}
	closed    bool
}

// NewController builds the registry (failing fast on a structurally
// invalid message type, per spec §4.1/§4.6) and wires the hook
// pipeline, inbound path, and outbound manager around it.
func NewController(p Params) (*Controller, error) {
	reg, err := registry.Build(p.Messages, p.Owner)
	if err != nil {
		return nil, err
	}

	logger := p.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	pipeline := hook.NewPipeline()
	for _, h := range p.Hooks {
		pipeline.Register(h)
	}

	return &Controller{
		registry:  reg,
		hooks:     pipeline,
		inbound:   inbound.New(logger, pipeline, reg, p.Owner),
		outbound:  queue.NewManager(logger),
		transport: p.Transport,
		logger:    logger,
		peers:     make(map[uint64]struct{}),
	}, nil
}

// Registry exposes the frozen, post-construction tag assignment.
func (c *Controller) Registry() *registry.Registry {
	return c.registry
}

// Hooks exposes the pipeline so callers can register additional
// observers after construction.
func (c *Controller) Hooks() *hook.Pipeline {
	return c.hooks
}

// ClientConnected idempotently opens id's send queue.
func (c *Controller) ClientConnected(id uint64) {
	if _, ok := c.peers[id]; ok {
		return
	}
	c.peers[id] = struct{}{}
	c.outbound.AddPeer(id)
}

// ClientDisconnected releases every writer in id's send queue and
// forgets it. Disconnecting an unknown peer is a no-op.
func (c *Controller) ClientDisconnected(id uint64) {
	if _, ok := c.peers[id]; !ok {
		return
	}
	delete(c.peers, id)
	c.outbound.RemovePeer(id)
}

// HandleIncomingData parses and queues an inbound blob (spec §4.3).
func (c *Controller) HandleIncomingData(peerID uint64, data []byte, receiveTime float32) {
	c.inbound.HandleIncomingData(peerID, data, receiveTime)
}

// ProcessIncomingMessageQueue dispatches every queued inbound message.
func (c *Controller) ProcessIncomingMessageQueue() {
	c.inbound.ProcessIncomingMessageQueue()
}

// ProcessSendQueues flushes every connected peer's queue through the
// transport.
func (c *Controller) ProcessSendQueues() {
	c.outbound.ProcessSendQueues(c.hooks, c.transport)
}

// Outbound exposes the outbound manager for the root package's
// SendMessage, which knows the concrete wire.DeliveryClass type.
func (c *Controller) Outbound() *queue.Manager {
	return c.outbound
}

// Close disposes every peer's queue and the inbound queue. Idempotent.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	for id := range c.peers {
		c.outbound.RemovePeer(id)
	}
	c.peers = make(map[uint64]struct{})
	c.outbound.Close()
	c.inbound.Release()
	c.closed = true
}
